package ports

import (
	"context"

	"FgdcMigrator/internal/domain"
)

// RecordSource discovers and fetches raw source metadata documents.
type RecordSource interface {
	Discover(ctx context.Context) ([]domain.SourceRef, error)
	Fetch(ctx context.Context, ref domain.SourceRef) ([]byte, error)
}

// DepositRepository persists per-file migration state for deduplication and
// run history.
type DepositRepository interface {
	AlreadyProcessed(ctx context.Context, files []string) (map[string]bool, error)
	SaveProcessed(ctx context.Context, rec domain.ProcessedRecord) error
}

// DepositClient uploads accepted records to the target repository.
type DepositClient interface {
	CreateDeposition(ctx context.Context) (int64, error)
	PutMetadata(ctx context.Context, depositionID int64, rec *domain.DepositionRecord) error
	Publish(ctx context.Context, depositionID int64) error
}

// ReportSink receives per-record outcomes and the final run summary.
type ReportSink interface {
	Record(ctx context.Context, outcome domain.RecordOutcome) error
	Summary(ctx context.Context, summary domain.RunSummary) error
}
