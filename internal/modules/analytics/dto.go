package analytics

import "deployhub/internal/domain"

// PlatformCount is one bar of the platform density chart.
type PlatformCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Summary is computed over the fetched window (most recent 20 records),
// not full history.
type Summary struct {
	TotalMonth      int                  `json:"total_month"`
	TotalAllTime    int                  `json:"total_all_time"`
	PlatformDensity []PlatformCount      `json:"platform_density"`
	Recent          []*domain.UserUpload `json:"recent"`
}
