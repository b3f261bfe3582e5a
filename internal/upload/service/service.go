// Package service implements the upload lifecycle manager: chunk ingestion,
// media record status transitions, finalize validation and promotion to
// long-term storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediastack/upload-service/internal/locker"
	"github.com/mediastack/upload-service/internal/upload/domain"
	"github.com/mediastack/upload-service/internal/upload/models"
	"github.com/mediastack/upload-service/internal/upload/notify"
	"github.com/mediastack/upload-service/internal/upload/repository"
)

// DefaultMaxChunkSize caps a single chunk at 1 MiB.
const DefaultMaxChunkSize = 1 << 20

// ChunkStore is the filesystem contract the lifecycle manager depends on.
type ChunkStore interface {
	StoreChunk(dir string, index int, chunk []byte) error
	AllChunksPresent(dir string, total int) bool
	Relocate(src, dst string) error
}

// Archiver mirrors a promoted asset directory to object storage.
// Archiving is best-effort; failures never fail the promotion.
type Archiver interface {
	Archive(ctx context.Context, dir, prefix string) error
}

type Config struct {
	// ChunkRoot is where in-flight chunk directories live, one per video.
	ChunkRoot string
	// ExternalRoot is the long-term location promoted assets move to.
	ExternalRoot string
	// MaxChunkSize in bytes; zero means DefaultMaxChunkSize.
	MaxChunkSize int64
}

type Service struct {
	videos   repository.VideoRepository
	records  repository.MediaRecordRepository
	chunks   ChunkStore
	notifier notify.Notifier
	archiver Archiver
	locks    *locker.KeyedMutex
	cfg      Config
	log      zerolog.Logger
	clock    func() time.Time
}

func New(
	videos repository.VideoRepository,
	records repository.MediaRecordRepository,
	chunks ChunkStore,
	notifier notify.Notifier,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = DefaultMaxChunkSize
	}
	return &Service{
		videos:   videos,
		records:  records,
		chunks:   chunks,
		notifier: notifier,
		locks:    locker.NewKeyedMutex(),
		cfg:      cfg,
		log:      log.With().Str("component", "upload_service").Logger(),
		clock:    time.Now,
	}
}

// WithArchiver enables mirroring promoted assets to object storage.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// ChunkDir returns the default in-flight chunk directory for a video.
func (s *Service) ChunkDir(videoID int64) string {
	return filepath.Join(s.cfg.ChunkRoot, strconv.FormatInt(videoID, 10))
}

// ExternalDir returns the long-term directory for a promoted video.
func (s *Service) ExternalDir(videoID int64) string {
	return filepath.Join(s.cfg.ExternalRoot, strconv.FormatInt(videoID, 10))
}

// CreateVideo registers a new catalog entry. Uploads reference it by ID.
func (s *Service) CreateVideo(ctx context.Context, title string) (*models.Video, error) {
	if title == "" {
		return nil, models.ErrInvalidArgument
	}

	v := &models.Video{
		Title:     title,
		CreatedAt: s.clock(),
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetMediaRecord returns the media record for a video, or
// models.ErrNotFound when no upload was ever started.
func (s *Service) GetMediaRecord(ctx context.Context, videoID int64) (*models.MediaRecord, error) {
	if videoID <= 0 {
		return nil, models.ErrInvalidArgument
	}
	return s.records.GetByVideoID(ctx, videoID)
}

// SubmitChunk ingests one chunk for a video. Chunks may arrive in any
// order. The first chunk of a video creates its media record; a chunk
// against a finished record starts a re-upload and unpublishes the video.
// The whole record read-modify-write runs under the per-video lock, so
// concurrent submitters never double-create and a finalize cannot race a
// submit into an inconsistent status.
func (s *Service) SubmitChunk(ctx context.Context, videoID int64, chunkIndex int, chunk []byte) error {
	if videoID <= 0 || chunkIndex < 0 {
		return models.ErrInvalidArgument
	}
	// Size check happens before any storage I/O or record mutation.
	if int64(len(chunk)) > s.cfg.MaxChunkSize {
		return fmt.Errorf("%w: %d bytes, limit %d", models.ErrChunkTooLarge, len(chunk), s.cfg.MaxChunkSize)
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrVideoNotFound
		}
		return fmt.Errorf("find video: %w", err)
	}

	unlock := s.locks.Lock(videoID)
	defer unlock()

	rec, err := s.obtainRecord(ctx, videoID)
	if err != nil {
		return err
	}

	switch rec.Status {
	case models.ProcessingStartedStatus:
		// A finalize already handed the asset to processing; accepting
		// chunks now would corrupt it mid-promotion.
		return models.ErrUploadConflict

	case models.UploadInProgressStatus:
		return s.writeChunk(rec, chunkIndex, chunk)

	case models.ProcessingFinishedStatus:
		// Re-upload: new content replaces the finished asset and is not
		// publishable until it goes through processing again.
		rec.StoragePath = s.ChunkDir(videoID)
		video.IsPublished = false
		if err := s.videos.Update(ctx, video); err != nil {
			return fmt.Errorf("unpublish video: %w", err)
		}
		if err := s.transition(ctx, rec, models.UploadInProgressStatus); err != nil {
			return err
		}
		s.log.Info().Int64("video_id", videoID).Msg("re-upload started")
		return s.writeChunk(rec, chunkIndex, chunk)

	default:
		// Freshly seeded record that never received a chunk.
		if err := s.transition(ctx, rec, models.UploadInProgressStatus); err != nil {
			return err
		}
		return s.writeChunk(rec, chunkIndex, chunk)
	}
}

// FinalizeUpload validates that chunks [0, totalChunks) all exist and hands
// the asset to processing. On any failure the record keeps its last
// persisted state.
func (s *Service) FinalizeUpload(ctx context.Context, videoID int64, totalChunks int) error {
	if videoID <= 0 || totalChunks < 1 {
		return models.ErrInvalidArgument
	}

	unlock := s.locks.Lock(videoID)
	defer unlock()

	rec, err := s.records.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUploadNotStarted
		}
		return fmt.Errorf("get media record: %w", err)
	}

	if rec.Status != models.UploadInProgressStatus {
		return fmt.Errorf("%w: cannot finalize from %s", models.ErrInvalidTransition, rec.Status)
	}

	if !s.chunks.AllChunksPresent(rec.StoragePath, totalChunks) {
		return fmt.Errorf("%w: expected %d chunks in %s", models.ErrIncompleteChunkSet, totalChunks, rec.StoragePath)
	}

	if err := s.transition(ctx, rec, models.ProcessingStartedStatus); err != nil {
		return err
	}

	s.log.Info().Int64("video_id", videoID).Int("total_chunks", totalChunks).Msg("upload finalized")

	// The transition is durably committed; the sink owns delivery from here.
	if err := s.notifier.UploadFinalized(ctx, videoID); err != nil {
		s.log.Error().Err(err).Int64("video_id", videoID).Msg("upload finalized notification failed")
	}

	return nil
}

// PromoteToExternalStorage relocates a finished chunk set to long-term
// storage and closes the record. Called by the processing collaborator once
// it has consumed the asset.
func (s *Service) PromoteToExternalStorage(ctx context.Context, videoID int64) error {
	if videoID <= 0 {
		return models.ErrInvalidArgument
	}

	unlock := s.locks.Lock(videoID)
	defer unlock()

	rec, err := s.records.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUploadNotStarted
		}
		return fmt.Errorf("get media record: %w", err)
	}

	if rec.Status != models.ProcessingStartedStatus {
		return fmt.Errorf("%w: cannot promote from %s", models.ErrInvalidTransition, rec.Status)
	}

	dest := s.ExternalDir(videoID)
	if err := s.chunks.Relocate(rec.StoragePath, dest); err != nil {
		return fmt.Errorf("relocate chunks: %w", err)
	}

	if s.archiver != nil {
		prefix := "videos/" + strconv.FormatInt(videoID, 10)
		if err := s.archiver.Archive(ctx, dest, prefix); err != nil {
			s.log.Error().Err(err).Int64("video_id", videoID).Msg("object storage archive failed")
		}
	}

	rec.StoragePath = dest
	if err := s.transition(ctx, rec, models.ProcessingFinishedStatus); err != nil {
		return err
	}

	s.log.Info().Int64("video_id", videoID).Str("storage_path", dest).Msg("asset promoted")

	if err := s.notifier.PromotionRequested(ctx, videoID, dest); err != nil {
		s.log.Error().Err(err).Int64("video_id", videoID).Msg("promotion notification failed")
	}

	return nil
}

// RegisterProcessedPath records the processing pipeline's output location
// and closes the record. Alternative terminal step to
// PromoteToExternalStorage for pipelines that place the asset themselves.
func (s *Service) RegisterProcessedPath(ctx context.Context, videoID int64, path string) error {
	if videoID <= 0 || path == "" {
		return models.ErrInvalidArgument
	}

	unlock := s.locks.Lock(videoID)
	defer unlock()

	rec, err := s.records.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUploadNotStarted
		}
		return fmt.Errorf("get media record: %w", err)
	}

	if rec.Status != models.ProcessingStartedStatus {
		return fmt.Errorf("%w: processing must be started to finish it", models.ErrInvalidTransition)
	}

	rec.StoragePath = path
	return s.transition(ctx, rec, models.ProcessingFinishedStatus)
}

// obtainRecord fetches the video's media record, creating it on first use.
// Creation is idempotent under race: a conflicting insert re-fetches the
// winner instead of surfacing the constraint violation.
func (s *Service) obtainRecord(ctx context.Context, videoID int64) (*models.MediaRecord, error) {
	rec, err := s.records.GetByVideoID(ctx, videoID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("get media record: %w", err)
	}

	now := s.clock()
	rec = &models.MediaRecord{
		VideoID:     videoID,
		Status:      models.UploadInProgressStatus,
		StoragePath: s.ChunkDir(videoID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.records.Create(ctx, rec)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, models.ErrConflict) {
		rec, err = s.records.GetByVideoID(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("refetch media record after conflict: %w", err)
		}
		return rec, nil
	}
	return nil, fmt.Errorf("create media record: %w", err)
}

func (s *Service) transition(ctx context.Context, rec *models.MediaRecord, to models.Status) error {
	if err := domain.ValidateTransition(rec.Status, to); err != nil {
		return err
	}
	rec.Status = to
	rec.UpdatedAt = s.clock()
	if err := s.records.Update(ctx, rec); err != nil {
		return fmt.Errorf("save media record: %w", err)
	}
	return nil
}

func (s *Service) writeChunk(rec *models.MediaRecord, index int, chunk []byte) error {
	if err := s.chunks.StoreChunk(rec.StoragePath, index, chunk); err != nil {
		return fmt.Errorf("store chunk %d: %w", index, err)
	}
	return nil
}
