package repository

import (
	"context"

	"github.com/mediastack/upload-service/internal/upload/models"
)

type VideoRepository interface {
	// Create persists a new video and assigns its ID.
	Create(ctx context.Context, v *models.Video) error
	// GetByID returns models.ErrNotFound when the video does not exist.
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	Update(ctx context.Context, v *models.Video) error
}

type MediaRecordRepository interface {
	// Create persists a new record and assigns its ID. A record already
	// existing for the same video yields models.ErrConflict; callers
	// resolve the race by re-fetching the winner.
	Create(ctx context.Context, rec *models.MediaRecord) error
	// GetByVideoID returns models.ErrNotFound when no record exists.
	GetByVideoID(ctx context.Context, videoID int64) (*models.MediaRecord, error)
	Update(ctx context.Context, rec *models.MediaRecord) error
}
