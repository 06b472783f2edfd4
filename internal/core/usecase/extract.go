package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
	"github.com/kirillkom/handwriting-extraction/internal/core/upload"
)

// stageResult threads the pipeline state machine through sequential
// composition: a stage either yields a value or marks the run failed at a
// named stage. Keeping this explicit is what lets "extraction failed" remain
// an ordinary response instead of an exception crossing the transport.
type stageResult struct {
	stage  domain.PipelineStage
	reason string
}

func (r *stageResult) failed() bool {
	return r != nil
}

// PipelineObserver receives pipeline outcome observations for metrics.
type PipelineObserver interface {
	ObserveExtraction(outcome string, stage string, duration time.Duration)
	ObserveTranslationFallback()
	ObserveFormSaved()
}

// ExtractUploadUseCase sequences vision extraction, optional translation,
// field structuring and persistence for a single upload. Each run is
// independent; there is no cross-request state and no content dedup, so the
// same image uploaded twice produces two distinct forms.
type ExtractUploadUseCase struct {
	vision     ports.VisionExtractor
	translator ports.Translator
	fields     ports.FieldAgent
	repo       ports.FormRepository
	trace      ports.TraceSink
	observer   PipelineObserver
	logger     *slog.Logger
}

func NewExtractUploadUseCase(
	vision ports.VisionExtractor,
	translator ports.Translator,
	fields ports.FieldAgent,
	repo ports.FormRepository,
	trace ports.TraceSink,
	observer PipelineObserver,
	logger *slog.Logger,
) *ExtractUploadUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractUploadUseCase{
		vision:     vision,
		translator: translator,
		fields:     fields,
		repo:       repo,
		trace:      trace,
		observer:   observer,
		logger:     logger,
	}
}

// Extract runs the full pipeline. Validation rejections and agent
// unavailability are returned as errors for the transport to map to 400/503;
// extraction and persistence failures fold into the ExtractionResult contract.
func (uc *ExtractUploadUseCase) Extract(ctx context.Context, img domain.UploadedImage, language string) (*domain.ExtractionResult, error) {
	uploadID := uuid.NewString()
	start := time.Now()
	language = normalizeLanguage(language)

	// Validating: no model call is made past a failing validator.
	if err := upload.Validate(img.Filename, img.MimeType, img.Size()); err != nil {
		uc.observe("rejected", domain.StageValidating, start)
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate upload", err)
	}

	if !uc.vision.Ready() {
		uc.observe("not_ready", domain.StageExtracting, start)
		return nil, domain.WrapError(domain.ErrAgentNotReady, "vision agent",
			fmt.Errorf("vision extraction agent is not initialized"))
	}
	if !uc.fields.Ready() {
		uc.observe("not_ready", domain.StageExtracting, start)
		return nil, domain.WrapError(domain.ErrAgentNotReady, "field agent",
			fmt.Errorf("field agent is not initialized"))
	}

	result, failure := uc.run(ctx, uploadID, img, language)
	if failure.failed() {
		uc.observe("failed", failure.stage, start)
		result = &domain.ExtractionResult{
			Success:  false,
			Filename: img.Filename,
			Message:  failure.reason,
		}
	} else {
		uc.observe("success", "", start)
	}

	uc.emitTrace(ctx, uploadID, img.Filename, language, result, failure, time.Since(start))
	return result, nil
}

func (uc *ExtractUploadUseCase) run(ctx context.Context, uploadID string, img domain.UploadedImage, language string) (*domain.ExtractionResult, *stageResult) {
	// Extracting.
	text, err := uc.vision.Extract(ctx, img.Content, img.MimeType, language)
	if err != nil {
		uc.logger.Warn("vision_extraction_failed",
			"upload_id", uploadID, "filename", img.Filename, "error", err)
		return nil, &stageResult{
			stage:  domain.StageExtracting,
			reason: fmt.Sprintf("Failed to extract handwriting: %v", err),
		}
	}

	// Translating: degradation only, never a pipeline failure.
	translated := false
	if !isEnglish(language) {
		out, err := uc.translator.Translate(ctx, text, "English")
		if err != nil {
			uc.logger.Warn("translation_degraded",
				"upload_id", uploadID, "language", language, "error", err)
			if uc.observer != nil {
				uc.observer.ObserveTranslationFallback()
			}
		} else {
			text = out
			translated = true
		}
	}

	fields, err := uc.fields.ExtractFields(ctx, text, language)
	if err != nil {
		uc.logger.Warn("field_extraction_failed",
			"upload_id", uploadID, "filename", img.Filename, "error", err)
		return nil, &stageResult{
			stage:  domain.StageExtracting,
			reason: fmt.Sprintf("Failed to structure extracted fields: %v", err),
		}
	}

	message := "Handwriting extracted successfully"
	if translated {
		message += " and translated to English"
	}

	result := &domain.ExtractionResult{
		Success:       true,
		Filename:      img.Filename,
		Message:       message,
		ExtractedData: fields,
	}

	// Persisting: storage success is an independent signal. A failed write is
	// logged and reported via saved_to_database, not surfaced as an error.
	uc.persist(ctx, uploadID, img.Filename, result)
	return result, nil
}

func (uc *ExtractUploadUseCase) persist(ctx context.Context, uploadID, filename string, result *domain.ExtractionResult) {
	data, err := json.Marshal(result.ExtractedData)
	if err != nil {
		uc.logger.Warn("persist_skipped_marshal_error", "upload_id", uploadID, "error", err)
		return
	}

	form, err := uc.repo.Create(ctx, filename, string(data))
	if err != nil {
		uc.logger.Warn("persist_failed", "upload_id", uploadID, "filename", filename, "error", err)
		return
	}

	result.FormID = &form.ID
	result.SavedToDatabase = true
	if uc.observer != nil {
		uc.observer.ObserveFormSaved()
	}
}

func (uc *ExtractUploadUseCase) emitTrace(ctx context.Context, uploadID, filename, language string, result *domain.ExtractionResult, failure *stageResult, elapsed time.Duration) {
	if uc.trace == nil {
		return
	}
	event := ports.TraceEvent{
		Name:      "handwriting_extraction",
		UploadID:  uploadID,
		Filename:  filename,
		Language:  language,
		Success:   result.Success,
		Message:   result.Message,
		FormID:    result.FormID,
		Saved:     result.SavedToDatabase,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if failure.failed() {
		event.Stage = string(failure.stage)
	}
	uc.trace.EmitPipelineTrace(ctx, event)
}

func (uc *ExtractUploadUseCase) observe(outcome string, stage domain.PipelineStage, start time.Time) {
	if uc.observer == nil {
		return
	}
	uc.observer.ObserveExtraction(outcome, string(stage), time.Since(start))
}

func normalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return "English"
	}
	return language
}

func isEnglish(language string) bool {
	return strings.EqualFold(strings.TrimSpace(language), "english") || strings.TrimSpace(language) == ""
}
