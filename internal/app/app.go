package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"FgdcMigrator/internal/config"
	"FgdcMigrator/internal/engine"
	"FgdcMigrator/internal/infrastructure/catalogue"
	"FgdcMigrator/internal/infrastructure/files"
	"FgdcMigrator/internal/infrastructure/report"
	"FgdcMigrator/internal/infrastructure/storage"
	"FgdcMigrator/internal/infrastructure/zenodo"
	"FgdcMigrator/internal/logging"
	"FgdcMigrator/internal/ports"
	"FgdcMigrator/internal/source"
	"FgdcMigrator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := source.NewRegistry()
	registry.Register(catalogue.NewScanner(nil))
	registry.Register(files.NewDirSource())

	recordSource := catalogue.NewStrategySource(registry, cfg.Collections, baseLogger.With("component", "source"))

	var (
		db         *sql.DB
		repository ports.DepositRepository
	)
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	var client ports.DepositClient
	if cfg.Zenodo.Token != "" {
		client = zenodo.NewClient(cfg.Zenodo.Token, cfg.Zenodo.Sandbox, nil)
	}

	sink, err := report.NewDirSink(cfg.Report.Dir, baseLogger.With("component", "report"))
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("report sink: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     recordSource,
		Repository: repository,
		Client:     client,
		Sink:       sink,
		Engine:     engine.New(),
		Logger:     baseLogger.With("component", "pipeline"),
		Workers:    cfg.Pipeline.Workers,
		Upload:     cfg.Zenodo.Upload && cfg.Zenodo.Token != "",
		Publish:    cfg.Zenodo.Publish,
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, db: db}, nil
}

// Run executes a single migration batch.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	summary, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("migration finished",
		"total", summary.TotalFiles,
		"transformed", summary.Transformed,
		"skipped", summary.Skipped,
		"valid", summary.ValidRecords,
		"invalid", summary.InvalidRecords,
		"uploaded", summary.Uploaded,
		"failed", summary.Failed)
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
