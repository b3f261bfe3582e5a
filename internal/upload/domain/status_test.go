package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediastack/upload-service/internal/upload/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from models.Status
		to   models.Status
		want bool
	}{
		{"started to in progress", models.UploadStartedStatus, models.UploadInProgressStatus, true},
		{"in progress to processing", models.UploadInProgressStatus, models.ProcessingStartedStatus, true},
		{"processing to finished", models.ProcessingStartedStatus, models.ProcessingFinishedStatus, true},
		{"finished to in progress (re-upload)", models.ProcessingFinishedStatus, models.UploadInProgressStatus, true},
		{"in progress to finished skips processing", models.UploadInProgressStatus, models.ProcessingFinishedStatus, false},
		{"processing back to in progress", models.ProcessingStartedStatus, models.UploadInProgressStatus, false},
		{"finished to processing", models.ProcessingFinishedStatus, models.ProcessingStartedStatus, false},
		{"unknown status", models.Status("bogus"), models.UploadInProgressStatus, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidateTransition(t *testing.T) {
	// Same status is a no-op, never an error.
	require.NoError(t, ValidateTransition(models.ProcessingStartedStatus, models.ProcessingStartedStatus))

	require.NoError(t, ValidateTransition(models.UploadInProgressStatus, models.ProcessingStartedStatus))

	err := ValidateTransition(models.ProcessingStartedStatus, models.UploadInProgressStatus)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}
