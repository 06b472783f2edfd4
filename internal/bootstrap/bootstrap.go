package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/handwriting-extraction/internal/config"
	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
	"github.com/kirillkom/handwriting-extraction/internal/core/usecase"
	"github.com/kirillkom/handwriting-extraction/internal/export"
	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/imageprep"
	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/llm/openaicompat"
	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/repository/sqldb"
	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/resilience"
	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/trace/natssink"
	"github.com/kirillkom/handwriting-extraction/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Repo      ports.FormRepository
	Fields    ports.FieldAgent
	ExtractUC ports.UploadExtractor
	Readiness ports.ReadinessReporter
	Exporter  *export.Service
	Metrics   *metrics.ServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, dialect, err := sqldb.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := sqldb.NewFormRepository(db, dialect)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	client := openaicompat.New(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.VisionModel, cfg.TextModel, openaicompat.Options{
		RequestTimeout: cfg.RequestTimeout,
		Executor:       resilience.NewExecutor(resilience.DefaultConfig()),
	})
	vision := openaicompat.NewVisionAgent(client, imageprep.New(cfg.EnableImagePreprocessing))
	translator := openaicompat.NewTranslator(client)
	fields := openaicompat.NewFieldAgent(client)

	var trace ports.TraceSink = natssink.Noop{}
	closeTrace := func() {}
	if cfg.NATSURL != "" {
		sink, err := natssink.New(cfg.NATSURL, cfg.NATSTraceSubject, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init trace sink: %w", err)
		}
		trace = sink
		closeTrace = sink.Close
	}

	serverMetrics := metrics.NewServerMetrics("api")
	recorder := metrics.NewPipelineRecorder("api", serverMetrics)

	extractUC := usecase.NewExtractUploadUseCase(vision, translator, fields, repo, trace, recorder, logger)
	readinessUC := usecase.NewReadinessUseCase(vision, fields, trace, usecase.ProviderInfo{
		BaseURL:     cfg.ProviderBaseURL,
		VisionModel: cfg.VisionModel,
		TextModel:   cfg.TextModel,
	})
	exporter := export.NewService(repo, logger)

	return &App{
		Config: cfg,

		Repo:      repo,
		Fields:    fields,
		ExtractUC: extractUC,
		Readiness: readinessUC,
		Exporter:  exporter,
		Metrics:   serverMetrics,

		closeFn: func() {
			closeTrace()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
