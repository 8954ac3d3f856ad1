package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/engine"
	"FgdcMigrator/internal/fgdc"
	"FgdcMigrator/internal/ports"
)

const defaultWorkers = 4

// PipelineDeps wires all driven adapters into the migration pipeline.
type PipelineDeps struct {
	Source     ports.RecordSource
	Repository ports.DepositRepository
	Client     ports.DepositClient
	Sink       ports.ReportSink
	Engine     *engine.Engine
	Logger     *slog.Logger
	Workers    int
	Upload     bool
	Publish    bool
}

// Pipeline implements the batch migration workflow: discover, transform,
// validate, score, optionally upload, and report. Records are processed
// concurrently but each record is isolated: one bad file never aborts the
// run.
type Pipeline struct {
	source     ports.RecordSource
	repository ports.DepositRepository
	client     ports.DepositClient
	sink       ports.ReportSink
	engine     *engine.Engine
	logger     *slog.Logger
	workers    int
	upload     bool
	publish    bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	eng := deps.Engine
	if eng == nil {
		eng = engine.New()
	}
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		client:     deps.Client,
		sink:       deps.Sink,
		engine:     eng,
		logger:     deps.Logger,
		workers:    workers,
		upload:     deps.Upload,
		publish:    deps.Publish,
	}
}

// Run executes one migration batch and returns the run summary. The error
// is non-nil only for run-level failures (discovery, state loading); record
// failures are captured in the summary instead.
func (p *Pipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	if p.source == nil {
		return domain.RunSummary{}, fmt.Errorf("record source is not configured")
	}

	refs, err := p.source.Discover(ctx)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("discover records: %w", err)
	}
	p.info("discovered records", "count", len(refs))

	files := make([]string, len(refs))
	for i, ref := range refs {
		files[i] = ref.ID
	}

	skip := map[string]bool{}
	if p.repository != nil && len(files) > 0 {
		skip, err = p.repository.AlreadyProcessed(ctx, files)
		if err != nil {
			return domain.RunSummary{}, fmt.Errorf("load processed state: %w", err)
		}
	}

	var (
		mu       sync.Mutex
		outcomes []domain.RecordOutcome
		skipped  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, ref := range refs {
		if skip[ref.ID] {
			skipped++
			continue
		}
		ref := ref
		g.Go(func() error {
			outcome := p.processOne(gctx, ref)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.RunSummary{}, fmt.Errorf("worker pool: %w", err)
	}

	summary := buildSummary(outcomes, len(refs), skipped)

	if p.sink != nil {
		if err := p.sink.Summary(ctx, summary); err != nil {
			p.warn("write summary", "error", err)
		}
	}

	return summary, nil
}

// processOne runs the full per-record flow. Every failure path produces an
// outcome instead of an error so the batch keeps going.
func (p *Pipeline) processOne(ctx context.Context, ref domain.SourceRef) domain.RecordOutcome {
	outcome := domain.RecordOutcome{File: ref.ID}

	data, err := p.source.Fetch(ctx, ref)
	if err != nil {
		return p.failed(ctx, outcome, fmt.Errorf("fetch: %w", err))
	}

	doc, err := fgdc.Parse(data)
	if err != nil {
		return p.failed(ctx, outcome, fmt.Errorf("parse: %w", err))
	}

	rec, diagnostics, err := p.engine.Transform(doc, ref.ID)
	outcome.Diagnostics = diagnostics
	if err != nil {
		return p.failed(ctx, outcome, fmt.Errorf("transform: %w", err))
	}
	outcome.Record = rec
	outcome.Status = domain.StatusTransformed

	validation := p.engine.Validate(rec)
	outcome.Validation = &validation
	if !validation.Valid {
		outcome.Status = domain.StatusInvalid
	}

	quality := p.engine.Score(doc, rec)
	outcome.Quality = &quality

	var depositionID int64
	if p.upload && validation.Valid && p.client != nil {
		depositionID, err = p.uploadRecord(ctx, rec)
		if err != nil {
			return p.failed(ctx, outcome, fmt.Errorf("upload: %w", err))
		}
		outcome.Status = domain.StatusUploaded
	}

	p.persist(ctx, outcome, depositionID)
	p.report(ctx, outcome)
	p.info("record processed", "file", ref.ID, "status", outcome.Status, "score", quality.OverallScore)
	return outcome
}

func (p *Pipeline) uploadRecord(ctx context.Context, rec *domain.DepositionRecord) (int64, error) {
	id, err := p.client.CreateDeposition(ctx)
	if err != nil {
		return 0, err
	}
	if err := p.client.PutMetadata(ctx, id, rec); err != nil {
		return 0, err
	}
	if p.publish {
		if err := p.client.Publish(ctx, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (p *Pipeline) failed(ctx context.Context, outcome domain.RecordOutcome, err error) domain.RecordOutcome {
	outcome.Status = domain.StatusFailed
	outcome.Error = err.Error()
	p.persist(ctx, outcome, 0)
	p.report(ctx, outcome)
	p.warn("record failed", "file", outcome.File, "error", err)
	return outcome
}

func (p *Pipeline) persist(ctx context.Context, outcome domain.RecordOutcome, depositionID int64) {
	if p.repository == nil {
		return
	}

	state := domain.ProcessedRecord{
		SourceFile:   outcome.File,
		Status:       outcome.Status,
		DepositionID: depositionID,
	}
	if outcome.Record != nil {
		state.Title = outcome.Record.Title
	}
	if outcome.Validation != nil {
		state.Valid = outcome.Validation.Valid
	}
	if outcome.Quality != nil {
		state.Score = outcome.Quality.OverallScore
	}

	if err := p.repository.SaveProcessed(ctx, state); err != nil {
		p.warn("persist record state", "file", outcome.File, "error", err)
	}
}

func (p *Pipeline) report(ctx context.Context, outcome domain.RecordOutcome) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Record(ctx, outcome); err != nil {
		p.warn("write record outcome", "file", outcome.File, "error", err)
	}
}

func buildSummary(outcomes []domain.RecordOutcome, total, skipped int) domain.RunSummary {
	summary := domain.RunSummary{
		TotalFiles: total,
		Skipped:    skipped,
		IssueTypes: map[string]int{},
	}

	var scores []float64
	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.StatusFailed:
			summary.Failed++
		default:
			summary.Transformed++
		}

		if outcome.Validation != nil {
			if outcome.Validation.Valid {
				summary.ValidRecords++
			} else {
				summary.InvalidRecords++
			}
			for _, issue := range outcome.Validation.Issues {
				summary.IssueTypes[issueType(issue)]++
			}
		}
		if outcome.Status == domain.StatusUploaded {
			summary.Uploaded++
		}
		if outcome.Quality != nil {
			scores = append(scores, outcome.Quality.OverallScore)
		}
	}

	if validated := summary.ValidRecords + summary.InvalidRecords; validated > 0 {
		summary.ValidationRate = float64(summary.ValidRecords) / float64(validated) * 100
	}

	if len(scores) > 0 {
		stats := domain.ScoreStats{Min: scores[0], Max: scores[0]}
		sum := 0.0
		for _, score := range scores {
			sum += score
			if score < stats.Min {
				stats.Min = score
			}
			if score > stats.Max {
				stats.Max = score
			}
		}
		stats.Average = sum / float64(len(scores))
		summary.Scores = stats
	}

	return summary
}

// issueType buckets an issue message by its prefix before the first colon,
// so counts group by kind rather than by offending value.
func issueType(issue string) string {
	if idx := strings.Index(issue, ":"); idx > 0 {
		return issue[:idx]
	}
	return issue
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
