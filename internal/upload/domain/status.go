package domain

import (
	"fmt"

	"github.com/mediastack/upload-service/internal/upload/models"
)

// CanTransition reports whether a media record may move between the two
// statuses. processing_finished back to upload_in_progress is the
// re-upload reset; everything else only moves forward.
func CanTransition(from, to models.Status) bool {
	switch from {
	case models.UploadStartedStatus:
		return to == models.UploadInProgressStatus
	case models.UploadInProgressStatus:
		return to == models.ProcessingStartedStatus
	case models.ProcessingStartedStatus:
		return to == models.ProcessingFinishedStatus
	case models.ProcessingFinishedStatus:
		return to == models.UploadInProgressStatus
	default:
		return false
	}
}

func ValidateTransition(from, to models.Status) error {
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, from, to)
	}
	return nil
}
