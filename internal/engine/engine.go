// Package engine implements the FGDC to deposit-schema crosswalk together
// with its validator and quality scorer. Every call is a pure function of
// the parsed source document: no I/O, no shared mutable state, no
// cross-record memory. Diagnostics accumulate per record in extraction
// order.
package engine

import (
	"fmt"
	"time"

	"FgdcMigrator/internal/diag"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/fgdc"
	"FgdcMigrator/internal/schema"
)

// Engine transforms, validates and scores metadata records. It is stateless
// apart from an injectable clock and safe for concurrent use across records.
type Engine struct {
	now func() time.Time
}

// New builds an engine with the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithNow builds an engine with a fixed clock, used by tests and by
// callers that need reproducible status-date substitution.
func NewWithNow(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// MissingFieldError aborts record construction when a required field has no
// non-empty value after exhausting every fallback source.
type MissingFieldError struct {
	FieldPath  string
	ValueFound string
	Expected   string
	Suggestion string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s: expected %s (%s)", e.FieldPath, e.Expected, e.Suggestion)
}

// Transform builds a candidate deposition record from a parsed FGDC
// document. On failure no partial record is returned; the collected
// diagnostics are returned either way. The file argument is a diagnostic
// identifier only, never opened.
func (e *Engine) Transform(doc *fgdc.Document, file string) (*domain.DepositionRecord, []diag.Diagnostic, error) {
	c := diag.NewCollector(file)

	title, err := e.extractTitle(doc, c)
	if err != nil {
		return nil, c.Items(), err
	}

	creators, err := e.extractCreators(doc, c)
	if err != nil {
		return nil, c.Items(), err
	}

	pubDate, err := e.extractPublicationDate(doc, c)
	if err != nil {
		return nil, c.Items(), err
	}

	description, err := e.extractDescription(doc, title, c)
	if err != nil {
		return nil, c.Items(), err
	}

	rec := &domain.DepositionRecord{
		Title:           title,
		UploadType:      schema.DefaultUploadType,
		PublicationDate: pubDate,
		Description:     description,
		AccessRight:     "open",
		License:         schema.DefaultLicense,
		Publisher:       domain.CanonicalPublisher,
		Creators:        creators,
		Keywords:        []string{},
		Contributors:    []domain.Contributor{},
		RelatedIdentifiers: []domain.RelatedIdentifier{},
		References:      []string{},
		Communities:     []domain.Community{{Identifier: domain.CommunityID}},
	}

	e.addOptionalFields(rec, doc, c)

	return rec, c.Items(), nil
}
