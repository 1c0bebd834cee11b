package analytics

import (
	"context"
	"time"

	"deployhub/internal/domain"
	"deployhub/internal/platform"
)

const fetchWindow = 20

// RecordReader is the read path into the deployment records.
type RecordReader interface {
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*domain.UserUpload, error)
}

type Service struct {
	records RecordReader
	now     func() time.Time
}

func NewService(records RecordReader) *Service {
	return &Service{
		records: records,
		now:     time.Now,
	}
}

// Summarize fetches the user's recent records and aggregates them. No
// caching: every call refetches.
func (s *Service) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	uploads, err := s.records.ListRecentByUser(ctx, userID, fetchWindow)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalMonth := 0
	platformCounts := make(map[string]int)
	for _, u := range uploads {
		if !u.UploadedAt.Before(monthStart) {
			totalMonth++
		}
		for _, p := range u.Platforms {
			platformCounts[p]++
		}
	}

	// Catalog order keeps bar colors and labels stable; empty bars are
	// dropped from the series.
	density := make([]PlatformCount, 0, len(platformCounts))
	for _, p := range platform.Catalog() {
		if count := platformCounts[p.ID]; count > 0 {
			density = append(density, PlatformCount{
				Name:  p.Label,
				Count: count,
				Color: p.Color,
			})
		}
	}

	return &Summary{
		TotalMonth:      totalMonth,
		TotalAllTime:    len(uploads),
		PlatformDensity: density,
		Recent:          uploads,
	}, nil
}
