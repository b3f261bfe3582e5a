package repository

import (
	"context"
	"sync"

	"github.com/mediastack/upload-service/internal/upload/models"
)

type MemoryVideoRepository struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*models.Video
}

func NewMemoryVideoRepository() *MemoryVideoRepository {
	return &MemoryVideoRepository{
		nextID: 1,
		data:   make(map[int64]*models.Video),
	}
}

func (r *MemoryVideoRepository) Create(ctx context.Context, v *models.Video) error {
	if v == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v.ID = r.nextID
	r.nextID++

	// Defensive copy so the caller cannot mutate stored state.
	cp := *v
	r.data[v.ID] = &cp

	return nil
}

func (r *MemoryVideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *v
	return &cp, nil
}

func (r *MemoryVideoRepository) Update(ctx context.Context, v *models.Video) error {
	if v == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[v.ID]; !ok {
		return models.ErrNotFound
	}

	cp := *v
	r.data[v.ID] = &cp

	return nil
}

type MemoryMediaRecordRepository struct {
	mu     sync.RWMutex
	nextID int64
	// Keyed by video ID: the unique constraint lives in the map itself.
	data map[int64]*models.MediaRecord
}

func NewMemoryMediaRecordRepository() *MemoryMediaRecordRepository {
	return &MemoryMediaRecordRepository{
		nextID: 1,
		data:   make(map[int64]*models.MediaRecord),
	}
}

func (r *MemoryMediaRecordRepository) Create(ctx context.Context, rec *models.MediaRecord) error {
	if rec == nil || rec.VideoID == 0 {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[rec.VideoID]; exists {
		return models.ErrConflict
	}

	rec.ID = r.nextID
	r.nextID++

	cp := *rec
	r.data[rec.VideoID] = &cp

	return nil
}

func (r *MemoryMediaRecordRepository) GetByVideoID(ctx context.Context, videoID int64) (*models.MediaRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[videoID]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *rec
	return &cp, nil
}

func (r *MemoryMediaRecordRepository) Update(ctx context.Context, rec *models.MediaRecord) error {
	if rec == nil {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[rec.VideoID]; !ok {
		return models.ErrNotFound
	}

	cp := *rec
	r.data[rec.VideoID] = &cp

	return nil
}
