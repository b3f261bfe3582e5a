package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/mediastack/upload-service/internal/upload/models"
)

type VideoRepoMock struct {
	mock.Mock
}

func (m *VideoRepoMock) Create(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VideoRepoMock) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepoMock) Update(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type RecordRepoMock struct {
	mock.Mock
}

func (m *RecordRepoMock) Create(ctx context.Context, rec *models.MediaRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *RecordRepoMock) GetByVideoID(ctx context.Context, videoID int64) (*models.MediaRecord, error) {
	args := m.Called(ctx, videoID)
	if v := args.Get(0); v != nil {
		return v.(*models.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepoMock) Update(ctx context.Context, rec *models.MediaRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type ChunkStoreMock struct {
	mock.Mock
}

func (m *ChunkStoreMock) StoreChunk(dir string, index int, chunk []byte) error {
	args := m.Called(dir, index, chunk)
	return args.Error(0)
}

func (m *ChunkStoreMock) AllChunksPresent(dir string, total int) bool {
	args := m.Called(dir, total)
	return args.Bool(0)
}

func (m *ChunkStoreMock) Relocate(src, dst string) error {
	args := m.Called(src, dst)
	return args.Error(0)
}

type ArchiverMock struct {
	mock.Mock
}

func (m *ArchiverMock) Archive(ctx context.Context, dir, prefix string) error {
	args := m.Called(ctx, dir, prefix)
	return args.Error(0)
}

// RecordingNotifier collects notifications for assertions in scenario
// tests where a full mock would just add noise.
type RecordingNotifier struct {
	mu        sync.Mutex
	Finalized []int64
	Promoted  []int64
}

func (n *RecordingNotifier) UploadFinalized(_ context.Context, videoID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Finalized = append(n.Finalized, videoID)
	return nil
}

func (n *RecordingNotifier) PromotionRequested(_ context.Context, videoID int64, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Promoted = append(n.Promoted, videoID)
	return nil
}
