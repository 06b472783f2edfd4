package openaicompat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// ImagePreparer normalizes an uploaded photo before it is sent to the
// model. Implementations return the (possibly re-encoded) content and
// its MIME type.
type ImagePreparer interface {
	Enhance(content []byte, mimeType string) ([]byte, string)
}

// VisionAgent transcribes a handwritten image with one vision-model call.
type VisionAgent struct {
	client *Client
	prep   ImagePreparer
}

// NewVisionAgent wires the model client and an optional image preparer.
// A nil preparer sends uploads to the model untouched.
func NewVisionAgent(client *Client, prep ImagePreparer) *VisionAgent {
	return &VisionAgent{client: client, prep: prep}
}

func (a *VisionAgent) Ready() bool {
	return a.client.Configured()
}

func (a *VisionAgent) Extract(ctx context.Context, image []byte, mimeType, language string) (domain.ExtractedText, error) {
	if !a.Ready() {
		return nil, domain.WrapError(domain.ErrAgentNotReady, "vision extract",
			errors.New("model provider is not configured"))
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if a.prep != nil {
		image, mimeType = a.prep.Enhance(image, mimeType)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	messages := []chatMessage{{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: buildTranscriptionPrompt(language)},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		},
	}}

	content, err := a.client.chat(ctx, "vision_extract", a.client.VisionModel(), messages, false)
	if err != nil {
		return nil, err
	}

	parsed, ok := parseJSONObject(content)
	if !ok {
		return nil, domain.WrapError(domain.ErrExtractionFailed, "vision extract",
			errors.New("unparseable model output"))
	}
	return domain.ExtractedText(parsed), nil
}
