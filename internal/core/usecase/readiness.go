package usecase

import (
	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
)

// ProviderInfo is the static model-provider configuration echoed by the
// health surface.
type ProviderInfo struct {
	BaseURL     string
	VisionModel string
	TextModel   string
}

// ReadinessUseCase aggregates component readiness flags. It reads in-memory
// state only and must stay off the request path's latency profile, so it
// never performs outbound calls.
type ReadinessUseCase struct {
	vision   ports.VisionExtractor
	fields   ports.FieldAgent
	trace    ports.TraceSink
	provider ProviderInfo
}

func NewReadinessUseCase(vision ports.VisionExtractor, fields ports.FieldAgent, trace ports.TraceSink, provider ProviderInfo) *ReadinessUseCase {
	return &ReadinessUseCase{
		vision:   vision,
		fields:   fields,
		trace:    trace,
		provider: provider,
	}
}

func (uc *ReadinessUseCase) Status() domain.ReadinessStatus {
	status := domain.ReadinessStatus{
		Status:           "healthy",
		VisionAgentReady: uc.vision != nil && uc.vision.Ready(),
		FieldAgentReady:  uc.fields != nil && uc.fields.Ready(),
	}
	status.ProviderConfig.BaseURL = uc.provider.BaseURL
	status.ProviderConfig.VisionModel = uc.provider.VisionModel
	status.ProviderConfig.TextModel = uc.provider.TextModel
	status.ProviderConfig.TraceConfigured = uc.trace != nil && uc.trace.Configured()
	return status
}
