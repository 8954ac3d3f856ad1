package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/ports"
)

// DirSink writes one JSON outcome file per processed record plus a run
// summary into an output directory.
type DirSink struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
}

var _ ports.ReportSink = (*DirSink)(nil)

// NewDirSink prepares the output directory.
func NewDirSink(dir string, logger *slog.Logger) (*DirSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("no report directory provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &DirSink{dir: dir, logger: logger}, nil
}

// Record writes the outcome for one source file. Concurrent writers are
// serialized; file names derive from the source file name.
func (s *DirSink) Record(ctx context.Context, outcome domain.RecordOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSuffix(filepath.Base(outcome.File), filepath.Ext(outcome.File))
	path := filepath.Join(s.dir, name+".json")

	if err := writeJSON(path, outcome); err != nil {
		return fmt.Errorf("write outcome for %s: %w", outcome.File, err)
	}

	if s.logger != nil {
		s.logger.Debug("outcome written", "file", outcome.File, "status", outcome.Status)
	}
	return nil
}

// Summary writes the aggregated run summary.
func (s *DirSink) Summary(ctx context.Context, summary domain.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(filepath.Join(s.dir, "summary.json"), summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("run summary written",
			"total", summary.TotalFiles,
			"transformed", summary.Transformed,
			"valid", summary.ValidRecords,
			"failed", summary.Failed)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
