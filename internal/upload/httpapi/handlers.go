// Package httpapi is the thin admin-facing glue over the upload lifecycle
// service. Authentication and UI live elsewhere.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mediastack/upload-service/internal/upload/models"
	"github.com/mediastack/upload-service/internal/upload/service"
)

// multipartMemoryLimit bounds how much of a chunk upload is buffered in
// memory before spilling to disk.
const multipartMemoryLimit = 8 << 20

type Handler struct {
	svc      *service.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func New(svc *service.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
		log:      log.With().Str("component", "httpapi").Logger(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	var req CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.svc.CreateVideo(r.Context(), req.Title)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVideoResponse(v))
}

// SubmitChunk accepts one multipart chunk: a "chunk" file field plus a
// "chunkIndex" form field.
func (h *Handler) SubmitChunk(w http.ResponseWriter, r *http.Request, videoID int64) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	chunkIndex, err := strconv.Atoi(r.FormValue("chunkIndex"))
	if err != nil || chunkIndex < 0 {
		writeErrorJSON(w, http.StatusBadRequest, "chunkIndex must be a non-negative integer")
		return
	}

	file, _, err := r.FormFile("chunk")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "missing chunk file field")
		return
	}
	defer file.Close()

	chunk, err := io.ReadAll(file)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "failed to read chunk")
		return
	}

	if err := h.svc.SubmitChunk(r.Context(), videoID, chunkIndex, chunk); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FinishUpload(w http.ResponseWriter, r *http.Request, videoID int64) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	var req FinishUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.FinalizeUpload(r.Context(), videoID, req.TotalChunks); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Promote(w http.ResponseWriter, r *http.Request, videoID int64) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.svc.PromoteToExternalStorage(r.Context(), videoID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RegisterProcessed(w http.ResponseWriter, r *http.Request, videoID int64) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	var req RegisterProcessedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RegisterProcessedPath(r.Context(), videoID, req.Path); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMediaRecord(w http.ResponseWriter, r *http.Request, videoID int64) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rec, err := h.svc.GetMediaRecord(r.Context(), videoID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMediaRecordResponse(rec))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrVideoNotFound),
		errors.Is(err, models.ErrUploadNotStarted),
		errors.Is(err, models.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrChunkTooLarge),
		errors.Is(err, models.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUploadConflict),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrConflict):
		writeErrorJSON(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrIncompleteChunkSet):
		writeErrorJSON(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error().Err(err).Msg("internal error")
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
