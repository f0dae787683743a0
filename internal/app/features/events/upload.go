// internal/app/features/events/upload.go
package events

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// maxUploadBytes caps event picture uploads at 5 MB.
const maxUploadBytes = 5 << 20

// HandleUpload handles POST /api/events/upload: a multipart form with a
// single "picture" file. The response carries the absolute URL clients
// embed in the event they create next.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "No picture file provided")
		return
	}
	defer file.Close()

	url, err := h.Uploads.Save(header.Filename, file)
	if err != nil {
		h.Log.Error("save upload failed", zap.String("filename", header.Filename), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to save picture")
		return
	}

	httpjson.OK(w, map[string]string{"url": url})
}
