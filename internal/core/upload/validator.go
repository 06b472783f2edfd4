// Package upload gates incoming files before any model call is made.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

const MaxFileSize = 10 << 20 // 10 MiB

// Rejection explains why an upload was refused. It is a client-fixable
// condition, not a server fault.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Validate applies the acceptance rules in order: size first, then declared
// type. PDFs are called out by name since they are a common near-miss. The
// function is pure; missing-file conditions are a request-shape concern
// handled at the transport layer.
func Validate(filename, declaredMime string, size int64) error {
	if size > MaxFileSize {
		return &Rejection{
			Reason: fmt.Sprintf("File size exceeds maximum allowed size of %dMB", MaxFileSize>>20),
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" || declaredMime == "application/pdf" {
		return &Rejection{
			Reason: "PDF processing requires additional setup. Please upload JPG or PNG images.",
		}
	}

	if allowedExtensions[ext] {
		return nil
	}
	if allowedImageTypes[normalizeMime(declaredMime)] {
		return nil
	}

	offending := ext
	if offending == "" {
		offending = declaredMime
	}
	if offending == "" {
		offending = "unknown"
	}
	return &Rejection{
		Reason: fmt.Sprintf("File type %s not allowed. Allowed types: .jpg, .jpeg, .png", offending),
	}
}

func normalizeMime(mime string) string {
	mime = strings.TrimSpace(strings.ToLower(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	return mime
}
