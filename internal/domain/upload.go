package domain

import "time"

type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"
)

// UserUpload is one row per accepted deployment. A row is created only after
// the relay webhook has taken the asset; status is advanced by the external
// workflow afterwards, never by this service.
type UserUpload struct {
	ID           string       `json:"id"`
	UserID       int64        `json:"user_id"`
	Filename     string       `json:"filename"`
	Platforms    []string     `json:"platforms"`
	Notes        string       `json:"notes"`
	CaptionIdeas string       `json:"caption_ideas,omitempty"`
	Status       UploadStatus `json:"status"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}
