package repository

import (
	"context"
	"encoding/json"
	"time"

	"deployhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

type uploadModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index"`
	Filename     string    `gorm:"column:filename"`
	Platforms    string    `gorm:"column:platforms"` // JSON array of platform ids
	Notes        string    `gorm:"column:notes"`
	CaptionIdeas string    `gorm:"column:caption_ideas"`
	Status       string    `gorm:"column:status"`
	UploadedAt   time.Time `gorm:"column:uploaded_at"`
}

func (uploadModel) TableName() string { return "user_uploads" }

func toDomainUpload(m uploadModel) (*domain.UserUpload, error) {
	var platforms []string
	if m.Platforms != "" {
		if err := json.Unmarshal([]byte(m.Platforms), &platforms); err != nil {
			return nil, err
		}
	}
	return &domain.UserUpload{
		ID:           m.ID,
		UserID:       m.UserID,
		Filename:     m.Filename,
		Platforms:    platforms,
		Notes:        m.Notes,
		CaptionIdeas: m.CaptionIdeas,
		Status:       domain.UploadStatus(m.Status),
		UploadedAt:   m.UploadedAt,
	}, nil
}

func toUploadModel(u *domain.UserUpload) (uploadModel, error) {
	platforms, err := json.Marshal(u.Platforms)
	if err != nil {
		return uploadModel{}, err
	}
	return uploadModel{
		ID:           u.ID,
		UserID:       u.UserID,
		Filename:     u.Filename,
		Platforms:    string(platforms),
		Notes:        u.Notes,
		CaptionIdeas: u.CaptionIdeas,
		Status:       string(u.Status),
		UploadedAt:   u.UploadedAt,
	}, nil
}

// Create inserts one upload row. The identifier and the creation timestamp
// are assigned here when the caller left them empty.
func (r *UploadRepository) Create(ctx context.Context, u *domain.UserUpload) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now()
	}

	m, err := toUploadModel(u)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}

	mapped, err := toDomainUpload(m)
	if err != nil {
		return err
	}
	*u = *mapped
	return nil
}

func (r *UploadRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*domain.UserUpload, error) {
	var models []uploadModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	uploads := make([]*domain.UserUpload, 0, len(models))
	for _, m := range models {
		u, err := toDomainUpload(m)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// Migrate creates the tables backing this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &uploadModel{})
}
