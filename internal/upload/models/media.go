package models

import "time"

type Status string

const (
	// UploadStartedStatus is the pre-chunk state. Records created through
	// the lifecycle manager start directly in UploadInProgressStatus, so
	// this value only shows up for rows seeded by older tooling.
	UploadStartedStatus      Status = "upload_started"
	UploadInProgressStatus   Status = "upload_in_progress"
	ProcessingStartedStatus  Status = "processing_started"
	ProcessingFinishedStatus Status = "processing_finished"
)

// MediaRecord tracks the upload/processing state of one video's binary
// asset. At most one record exists per video (unique video_id).
// StoragePath is the in-flight chunk directory while uploading and the
// final asset location once processing finished.
type MediaRecord struct {
	ID          int64     `db:"id"`
	VideoID     int64     `db:"video_id"`
	Status      Status    `db:"status"`
	StoragePath string    `db:"storage_path"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
