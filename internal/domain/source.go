package domain

import "FgdcMigrator/internal/diag"

// SourceRef identifies one source metadata document at a discoverable
// location: a file path for directory sources, a URL for catalogue sources.
type SourceRef struct {
	ID       string
	Location string
}

// RecordOutcome is the full per-file result of one pipeline pass, fed to
// report sinks. Record is nil when construction failed.
type RecordOutcome struct {
	File        string             `json:"file"`
	Record      *DepositionRecord  `json:"record,omitempty"`
	Validation  *ValidationResult  `json:"validation,omitempty"`
	Quality     *QualityReport     `json:"quality,omitempty"`
	Diagnostics []diag.Diagnostic  `json:"diagnostics"`
	Status      MigrationStatus    `json:"status"`
	Error       string             `json:"error,omitempty"`
}
