package catalogue

import (
	"context"
	"fmt"
	"log/slog"

	"FgdcMigrator/internal/config"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/ports"
	"FgdcMigrator/internal/source"
)

// StrategySource implements RecordSource via registered source strategies,
// one per configured collection.
type StrategySource struct {
	registry    *source.Registry
	collections []config.CollectionConfig
	logger      *slog.Logger

	// ref IDs map back to the strategy that discovered them so Fetch can
	// route to the right implementation.
	origin map[string]source.Source
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the source registry with config-defined collections.
func NewStrategySource(reg *source.Registry, collections []config.CollectionConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:    reg,
		collections: collections,
		logger:      log,
		origin:      map[string]source.Source{},
	}
}

// Discover iterates over configured collections and executes their sources.
func (s *StrategySource) Discover(ctx context.Context) ([]domain.SourceRef, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	s.debug("discover", "collections", len(s.collections))

	var aggregated []domain.SourceRef
	for _, coll := range s.collections {
		strategy, err := s.registry.Resolve(coll.Source)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", coll.Name, err)
		}

		refs, err := strategy.Discover(ctx, source.Request{
			Location: coll.Location,
			Options:  coll.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("discover collection %s: %w", coll.Name, err)
		}

		for _, ref := range refs {
			s.origin[ref.Location] = strategy
		}
		s.debug("collection discovered", "collection", coll.Name, "count", len(refs))
		aggregated = append(aggregated, refs...)
	}

	s.debug("strategy source done", "total_refs", len(aggregated))
	return aggregated, nil
}

// Fetch routes the fetch to whichever strategy discovered the reference.
func (s *StrategySource) Fetch(ctx context.Context, ref domain.SourceRef) ([]byte, error) {
	strategy, ok := s.origin[ref.Location]
	if !ok {
		return nil, fmt.Errorf("unknown source reference %s", ref.ID)
	}
	return strategy.Fetch(ctx, ref)
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
