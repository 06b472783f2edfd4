package domain

import "time"

// ExtractedText is the vision model's transcription of a handwritten document:
// a JSON object mapping the labels it saw to recognized values. Values may be
// nested objects when the form groups related fields. Illegible spans are
// marked "unreadable" by the prompt contract instead of guessed.
type ExtractedText map[string]any

// FormFields is the field agent's structured rendition of ExtractedText with
// canonical field names. Shape may differ from the raw transcription.
type FormFields map[string]any

// FieldValue is one named field submitted for validation.
type FieldValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FieldVerdict is a per-field validation outcome.
type FieldVerdict struct {
	Field  string  `json:"field"`
	Valid  bool    `json:"valid"`
	Reason *string `json:"reason"`
}

// ValidationReport aggregates per-field verdicts. An empty fields list yields
// an empty verdict set with Passed=true rather than an error.
type ValidationReport struct {
	Verdicts []FieldVerdict `json:"verdicts"`
	Passed   bool           `json:"passed"`
}

// FormClassification names the document type. Empty input classifies as
// "unknown" so the endpoint stays chainable.
type FormClassification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Form is the persisted record produced by a successful pipeline run or
// created directly through the CRUD surface. Data is serialized JSON text.
type Form struct {
	ID        int64     `json:"id"`
	FormName  string    `json:"form_name"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormUpdate carries a partial update; nil fields are left untouched.
type FormUpdate struct {
	FormName *string
	Data     *string
}

// ExtractionResult is the single response shape describing a pipeline outcome.
// Success=false still travels as a normal response, never as a transport error.
type ExtractionResult struct {
	Success         bool       `json:"success"`
	Filename        string     `json:"filename"`
	Message         string     `json:"message"`
	ExtractedData   FormFields `json:"extracted_data,omitempty"`
	FormID          *int64     `json:"form_id,omitempty"`
	SavedToDatabase bool       `json:"saved_to_database"`
}

// PipelineStage labels where a pipeline run failed.
type PipelineStage string

const (
	StageValidating  PipelineStage = "validation"
	StageExtracting  PipelineStage = "extraction"
	StageTranslating PipelineStage = "translation"
	StagePersisting  PipelineStage = "persistence"
)
