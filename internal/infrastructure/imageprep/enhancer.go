// Package imageprep sharpens and upscales handwriting photos before they
// reach the vision model. Small or low-contrast scans transcribe poorly,
// so the pipeline normalizes them first.
package imageprep

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	// minLongestSide is the smallest longest-side a photo may keep.
	// Anything below it gets upscaled before the model call.
	minLongestSide = 512

	jpegQuality = 95

	contrastBoost = 20
	sharpenSigma  = 1.0
	denoiseSigma  = 0.5
)

// Enhancer normalizes uploaded images. A disabled or nil Enhancer
// passes content through untouched.
type Enhancer struct {
	enabled bool
}

func New(enabled bool) *Enhancer {
	return &Enhancer{enabled: enabled}
}

// Enhance re-encodes the image with a contrast and sharpness boost, light
// denoising and an upscale to at least 512px on the longest side. The
// result is always JPEG. Content that cannot be decoded is returned as-is
// with its original MIME type, the model still gets a usable request.
func (e *Enhancer) Enhance(content []byte, mimeType string) ([]byte, string) {
	if e == nil || !e.enabled {
		return content, mimeType
	}

	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return content, mimeType
	}

	img := imaging.AdjustContrast(src, contrastBoost)
	img = imaging.Sharpen(img, sharpenSigma)
	img = imaging.Blur(img, denoiseSigma)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < minLongestSide && h < minLongestSide {
		if w >= h {
			img = imaging.Resize(img, minLongestSide, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, minLongestSide, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return content, mimeType
	}
	return buf.Bytes(), "image/jpeg"
}
