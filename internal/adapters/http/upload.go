package httpadapter

import (
	"fmt"
	"io"
	"net/http"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
	"github.com/kirillkom/handwriting-extraction/internal/core/upload"
)

func (rt *Router) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	// Read one byte past the cap so the validator can tell "at the limit"
	// from "over it" without buffering arbitrarily large uploads.
	content, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = rt.cfg.DefaultLanguage
	}

	img := domain.UploadedImage{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	}

	result, err := rt.extractor.Extract(r.Context(), img, language)
	if err != nil {
		writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	// Pipeline-stage failures still answer 200: the response shape itself
	// carries success=false.
	writeJSON(w, http.StatusOK, result)
}
