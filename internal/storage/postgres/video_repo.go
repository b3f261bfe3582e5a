package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mediastack/upload-service/internal/upload/models"
)

type VideoRepo struct {
	db *sqlx.DB
}

func NewVideoRepo(db *sqlx.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	const q = `
		INSERT INTO videos (title, is_published, num_likes, num_views, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &v.ID, q,
		v.Title, v.IsPublished, v.NumLikes, v.NumViews, v.CreatedAt,
	); err != nil {
		return fmt.Errorf("video create: %w", err)
	}
	return nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	const q = `
		SELECT id, title, is_published, num_likes, num_views, created_at
		FROM videos
		WHERE id = $1
	`

	var v models.Video
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("video get by id: %w", err)
	}

	return &v, nil
}

func (r *VideoRepo) Update(ctx context.Context, v *models.Video) error {
	const q = `
		UPDATE videos
		SET title = $2, is_published = $3, num_likes = $4, num_views = $5
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, q,
		v.ID, v.Title, v.IsPublished, v.NumLikes, v.NumViews,
	)
	if err != nil {
		return fmt.Errorf("video update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}
