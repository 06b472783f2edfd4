package ports

import (
	"context"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// FormRepository is the persistence contract for form records.
type FormRepository interface {
	Create(ctx context.Context, formName, data string) (*domain.Form, error)
	GetByID(ctx context.Context, id int64) (*domain.Form, error)
	List(ctx context.Context) ([]*domain.Form, error)
	Update(ctx context.Context, id int64, update domain.FormUpdate) (*domain.Form, error)
	Delete(ctx context.Context, id int64) error
}

// VisionExtractor transcribes a handwritten document image into label/value
// pairs with a single vision-model call. Unparseable model output surfaces as
// domain.ErrExtractionFailed; provider errors propagate as-is so the
// orchestrator owns retry policy.
type VisionExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType, language string) (domain.ExtractedText, error)
	Ready() bool
}

// Translator rewrites extracted text into the target language with one
// whole-document call. Implementations must preserve the exact key set of the
// input; a shape-changing translation is an error, never a silent mutation.
type Translator interface {
	Translate(ctx context.Context, text domain.ExtractedText, targetLanguage string) (domain.ExtractedText, error)
}

// FieldAgent exposes the three field-level model operations sharing one
// underlying chat primitive. Calls before Ready() reports true fail with
// domain.ErrAgentNotReady.
type FieldAgent interface {
	ExtractFields(ctx context.Context, text domain.ExtractedText, language string) (domain.FormFields, error)
	ValidateFields(ctx context.Context, fields []domain.FieldValue, expectedFields []string) (domain.ValidationReport, error)
	ClassifyForm(ctx context.Context, text domain.ExtractedText) (domain.FormClassification, error)
	Ready() bool
}

// TraceSink receives best-effort pipeline trace events. Emission failures are
// logged by implementations and never fail the pipeline.
type TraceSink interface {
	EmitPipelineTrace(ctx context.Context, event TraceEvent)
	Configured() bool
}

// TraceEvent mirrors one pipeline run for the observability boundary.
type TraceEvent struct {
	Name      string `json:"name"`
	UploadID  string `json:"upload_id"`
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	Stage     string `json:"stage,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	FormID    *int64 `json:"form_id,omitempty"`
	Saved     bool   `json:"saved"`
	ElapsedMS int64  `json:"elapsed_ms"`
}
