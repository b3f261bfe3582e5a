package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)

	// POST /videos
	mux.HandleFunc("/videos", h.CreateVideo)

	// /videos/{id}/... with a trailing slash so dispatch can TrimPrefix.
	mux.HandleFunc("/videos/", h.dispatchVideo)

	return mux
}

// dispatchVideo routes /videos/{id}/<action> to the matching handler.
func (h *Handler) dispatchVideo(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/videos/")
	idStr, action, _ := strings.Cut(rest, "/")

	videoID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || videoID <= 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid video id")
		return
	}

	switch action {
	case "upload":
		h.SubmitChunk(w, r, videoID)
	case "upload/finish":
		h.FinishUpload(w, r, videoID)
	case "promote":
		h.Promote(w, r, videoID)
	case "processed":
		h.RegisterProcessed(w, r, videoID)
	case "media":
		h.GetMediaRecord(w, r, videoID)
	default:
		writeErrorJSON(w, http.StatusNotFound, "unknown route")
	}
}
