package upload

import (
	"context"

	"deployhub/internal/domain"
)

// RecordRepository is the insert and read-back path for deployment records.
type RecordRepository interface {
	Create(ctx context.Context, u *domain.UserUpload) error
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*domain.UserUpload, error)
}

// UserReader resolves the submitting identity at submit time.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Relay hands the asset and its metadata to the external workflow.
type Relay interface {
	Send(ctx context.Context, sub Submission) error
}
