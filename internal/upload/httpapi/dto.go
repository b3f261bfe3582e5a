package httpapi

import (
	"time"

	"github.com/mediastack/upload-service/internal/upload/models"
)

type CreateVideoRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type FinishUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	TotalChunks int    `json:"total_chunks" validate:"required,min=1"`
}

type RegisterProcessedRequest struct {
	Path string `json:"path" validate:"required"`
}

type VideoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	IsPublished bool      `json:"is_published"`
	NumLikes    int       `json:"num_likes"`
	NumViews    int       `json:"num_views"`
	CreatedAt   time.Time `json:"created_at"`
}

type MediaRecordResponse struct {
	VideoID     int64     `json:"video_id"`
	Status      string    `json:"status"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toVideoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		IsPublished: v.IsPublished,
		NumLikes:    v.NumLikes,
		NumViews:    v.NumViews,
		CreatedAt:   v.CreatedAt,
	}
}

func toMediaRecordResponse(rec *models.MediaRecord) MediaRecordResponse {
	return MediaRecordResponse{
		VideoID:     rec.VideoID,
		Status:      string(rec.Status),
		StoragePath: rec.StoragePath,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
