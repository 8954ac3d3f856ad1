// Package diag collects structured per-record diagnostics in extraction
// order, replacing any notion of process-wide logging state inside the
// engine.
package diag

// Severity distinguishes blocking problems from resolved ambiguities.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic records one non-obvious decision or defect encountered while
// processing a record.
type Diagnostic struct {
	File       string   `json:"file"`
	FieldPath  string   `json:"field_path"`
	IssueType  string   `json:"issue_type"`
	Severity   Severity `json:"severity"`
	ValueFound string   `json:"value_found"`
	Expected   string   `json:"expected"`
	Suggestion string   `json:"suggestion"`
}

// Collector accumulates diagnostics for a single source record. It is not
// safe for concurrent use; each record gets its own collector.
type Collector struct {
	file  string
	items []Diagnostic
}

// NewCollector binds a collector to the diagnostic identifier of one record.
func NewCollector(file string) *Collector {
	return &Collector{file: file}
}

// Warn records a non-blocking diagnostic.
func (c *Collector) Warn(fieldPath, issueType, valueFound, expected, suggestion string) {
	c.add(SeverityWarning, fieldPath, issueType, valueFound, expected, suggestion)
}

// Error records a blocking diagnostic.
func (c *Collector) Error(fieldPath, issueType, valueFound, expected, suggestion string) {
	c.add(SeverityError, fieldPath, issueType, valueFound, expected, suggestion)
}

func (c *Collector) add(sev Severity, fieldPath, issueType, valueFound, expected, suggestion string) {
	c.items = append(c.items, Diagnostic{
		File:       c.file,
		FieldPath:  fieldPath,
		IssueType:  issueType,
		Severity:   sev,
		ValueFound: valueFound,
		Expected:   expected,
		Suggestion: suggestion,
	})
}

// File returns the diagnostic identifier the collector is bound to.
func (c *Collector) File() string {
	return c.file
}

// Items returns all diagnostics in the order they were recorded.
func (c *Collector) Items() []Diagnostic {
	return c.items
}

// ErrorCount returns the number of error-severity diagnostics.
func (c *Collector) ErrorCount() int {
	n := 0
	for _, d := range c.items {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
