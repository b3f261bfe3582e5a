package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// UploadFinalized is emitted after a chunk set was validated and the record
// moved to processing_started. The processing pipeline consumes it.
type UploadFinalized struct {
	eventID    uuid.UUID
	videoID    int64
	occurredAt time.Time
}

func NewUploadFinalized(videoID int64) *UploadFinalized {
	return &UploadFinalized{
		eventID:    uuid.New(),
		videoID:    videoID,
		occurredAt: time.Now(),
	}
}

func (e *UploadFinalized) EventID() uuid.UUID    { return e.eventID }
func (e *UploadFinalized) EventType() string     { return "UploadFinalized" }
func (e *UploadFinalized) AggregateID() string   { return strconv.FormatInt(e.videoID, 10) }
func (e *UploadFinalized) OccurredAt() time.Time { return e.occurredAt }
func (e *UploadFinalized) VideoID() int64        { return e.videoID }

func (e *UploadFinalized) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		VideoID    int64     `json:"video_id"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		VideoID:    e.videoID,
		OccurredAt: e.occurredAt,
	})
}

// PromotionRequested is emitted after a finished chunk set was relocated to
// long-term storage.
type PromotionRequested struct {
	eventID     uuid.UUID
	videoID     int64
	storagePath string
	occurredAt  time.Time
}

func NewPromotionRequested(videoID int64, storagePath string) *PromotionRequested {
	return &PromotionRequested{
		eventID:     uuid.New(),
		videoID:     videoID,
		storagePath: storagePath,
		occurredAt:  time.Now(),
	}
}

func (e *PromotionRequested) EventID() uuid.UUID    { return e.eventID }
func (e *PromotionRequested) EventType() string     { return "PromotionRequested" }
func (e *PromotionRequested) AggregateID() string   { return strconv.FormatInt(e.videoID, 10) }
func (e *PromotionRequested) OccurredAt() time.Time { return e.occurredAt }
func (e *PromotionRequested) VideoID() int64        { return e.videoID }
func (e *PromotionRequested) StoragePath() string   { return e.storagePath }

func (e *PromotionRequested) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID     uuid.UUID `json:"event_id"`
		VideoID     int64     `json:"video_id"`
		StoragePath string    `json:"storage_path"`
		OccurredAt  time.Time `json:"occurred_at"`
	}{
		EventID:     e.eventID,
		VideoID:     e.videoID,
		StoragePath: e.storagePath,
		OccurredAt:  e.occurredAt,
	})
}
