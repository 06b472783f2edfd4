package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// FieldAgent implements the three field-level operations on the shared chat
// primitive. It is constructed once per process; Ready gates every operation.
type FieldAgent struct {
	client *Client
}

func NewFieldAgent(client *Client) *FieldAgent {
	return &FieldAgent{client: client}
}

func (a *FieldAgent) Ready() bool {
	return a.client.Configured()
}

func (a *FieldAgent) guardReady(operation string) error {
	if a.Ready() {
		return nil
	}
	return domain.WrapError(domain.ErrAgentNotReady, operation,
		errors.New("field agent is not initialized"))
}

func (a *FieldAgent) ExtractFields(ctx context.Context, text domain.ExtractedText, language string) (domain.FormFields, error) {
	if err := a.guardReady("extract fields"); err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return domain.FormFields{}, nil
	}
	if strings.TrimSpace(language) == "" {
		language = "English"
	}

	messages := []chatMessage{{
		Role:    "user",
		Content: buildFieldExtractionPrompt(compactJSON(text), language),
	}}
	content, err := a.client.chat(ctx, "extract_fields", a.client.TextModel(), messages, true)
	if err != nil {
		return nil, err
	}

	parsed, ok := parseJSONObject(content)
	if !ok {
		return nil, domain.WrapError(domain.ErrExtractionFailed, "extract fields",
			errors.New("unparseable model output"))
	}
	return domain.FormFields(parsed), nil
}

func (a *FieldAgent) ValidateFields(ctx context.Context, fields []domain.FieldValue, expectedFields []string) (domain.ValidationReport, error) {
	if err := a.guardReady("validate fields"); err != nil {
		return domain.ValidationReport{}, err
	}

	report := domain.ValidationReport{
		Verdicts: []domain.FieldVerdict{},
		Passed:   true,
	}

	// Expected-field presence is checked locally; the model only judges value
	// plausibility of the fields that are present.
	present := make(map[string]bool, len(fields))
	for _, field := range fields {
		present[field.Name] = true
	}
	for _, expected := range expectedFields {
		if !present[expected] {
			reason := "missing"
			report.Verdicts = append(report.Verdicts, domain.FieldVerdict{
				Field:  expected,
				Valid:  false,
				Reason: &reason,
			})
			report.Passed = false
		}
	}

	// An empty fields list is a deliberate leniency: the report stays empty
	// apart from missing-field verdicts and is not an error.
	if len(fields) == 0 {
		return report, nil
	}

	messages := []chatMessage{{
		Role:    "user",
		Content: buildValidationPrompt(compactJSON(fields)),
	}}
	content, err := a.client.chat(ctx, "validate_fields", a.client.TextModel(), messages, true)
	if err != nil {
		return domain.ValidationReport{}, err
	}

	verdicts, err := parseValidationVerdicts(content)
	if err != nil {
		return domain.ValidationReport{}, domain.WrapError(domain.ErrExtractionFailed, "validate fields", err)
	}
	for _, verdict := range verdicts {
		if !verdict.Valid {
			report.Passed = false
		}
		report.Verdicts = append(report.Verdicts, verdict)
	}
	return report, nil
}

func (a *FieldAgent) ClassifyForm(ctx context.Context, text domain.ExtractedText) (domain.FormClassification, error) {
	if err := a.guardReady("classify form"); err != nil {
		return domain.FormClassification{}, err
	}
	if len(text) == 0 {
		return domain.FormClassification{Label: "unknown"}, nil
	}

	messages := []chatMessage{{
		Role:    "user",
		Content: buildClassificationPrompt(compactJSON(text)),
	}}
	content, err := a.client.chat(ctx, "classify_form", a.client.TextModel(), messages, true)
	if err != nil {
		return domain.FormClassification{}, err
	}

	parsed, ok := parseJSONObject(content)
	if !ok {
		return domain.FormClassification{}, domain.WrapError(domain.ErrExtractionFailed, "classify form",
			errors.New("unparseable model output"))
	}
	if err := validateAgainstSchema(classificationSchema(), parsed); err != nil {
		return domain.FormClassification{}, domain.WrapError(domain.ErrExtractionFailed, "classify form", err)
	}

	classification := domain.FormClassification{Label: "unknown"}
	if label, ok := parsed["label"].(string); ok && strings.TrimSpace(label) != "" {
		classification.Label = strings.TrimSpace(label)
	}
	if confidence, ok := parsed["confidence"].(float64); ok {
		classification.Confidence = confidence
	}
	return classification, nil
}

func parseValidationVerdicts(content string) ([]domain.FieldVerdict, error) {
	parsed, ok := parseJSONObject(content)
	if !ok {
		return nil, errors.New("unparseable model output")
	}
	if err := validateAgainstSchema(validationSchema(), parsed); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(parsed["verdicts"])
	if err != nil {
		return nil, fmt.Errorf("re-encode verdicts: %w", err)
	}
	var verdicts []domain.FieldVerdict
	if err := json.Unmarshal(encoded, &verdicts); err != nil {
		return nil, fmt.Errorf("decode verdicts: %w", err)
	}
	return verdicts, nil
}
