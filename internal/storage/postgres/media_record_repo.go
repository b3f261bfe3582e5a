package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/mediastack/upload-service/internal/upload/models"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

type MediaRecordRepo struct {
	db *sqlx.DB
}

func NewMediaRecordRepo(db *sqlx.DB) *MediaRecordRepo {
	return &MediaRecordRepo{db: db}
}

// Create inserts a new record. A second record for the same video trips the
// unique constraint on video_id and comes back as models.ErrConflict so the
// service can re-fetch the race winner.
func (r *MediaRecordRepo) Create(ctx context.Context, rec *models.MediaRecord) error {
	const q = `
		INSERT INTO media_records (video_id, status, storage_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.GetContext(ctx, &rec.ID, q,
		rec.VideoID, rec.Status, rec.StoragePath, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("media record create: %w", err)
	}
	return nil
}

func (r *MediaRecordRepo) GetByVideoID(ctx context.Context, videoID int64) (*models.MediaRecord, error) {
	const q = `
		SELECT id, video_id, status, storage_path, created_at, updated_at
		FROM media_records
		WHERE video_id = $1
	`

	var rec models.MediaRecord
	if err := r.db.GetContext(ctx, &rec, q, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("media record get by video id: %w", err)
	}

	return &rec, nil
}

func (r *MediaRecordRepo) Update(ctx context.Context, rec *models.MediaRecord) error {
	const q = `
		UPDATE media_records
		SET status = $2, storage_path = $3, updated_at = $4
		WHERE video_id = $1
	`

	res, err := r.db.ExecContext(ctx, q,
		rec.VideoID, rec.Status, rec.StoragePath, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("media record update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}
