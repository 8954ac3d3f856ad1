package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/source"
)

// DirSource discovers source metadata documents in a local directory.
type DirSource struct{}

// NewDirSource builds the directory strategy.
func NewDirSource() *DirSource {
	return &DirSource{}
}

// Name identifies the strategy inside the registry.
func (d *DirSource) Name() string {
	return "directory"
}

// Discover lists .xml files directly under the configured directory, sorted
// by name so runs are reproducible.
func (d *DirSource) Discover(ctx context.Context, req source.Request) ([]domain.SourceRef, error) {
	if req.Location == "" {
		return nil, fmt.Errorf("no directory provided")
	}

	entries, err := os.ReadDir(req.Location)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", req.Location, err)
	}

	var refs []domain.SourceRef
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
			continue
		}
		refs = append(refs, domain.SourceRef{
			ID:       entry.Name(),
			Location: filepath.Join(req.Location, entry.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

// Fetch reads one metadata document from disk.
func (d *DirSource) Fetch(ctx context.Context, ref domain.SourceRef) ([]byte, error) {
	data, err := os.ReadFile(ref.Location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref.ID, err)
	}
	return data, nil
}
