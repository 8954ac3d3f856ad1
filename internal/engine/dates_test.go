package engine

import (
	"testing"
	"time"

	"FgdcMigrator/internal/diag"
)

func fixedEngine() *Engine {
	return NewWithNow(func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		token string
		want  string
		ok    bool
	}{
		{"plain year", "2004", "2004-01-01", true},
		{"year month", "200403", "2004-03-01", true},
		{"full date", "20040315", "2004-03-15", true},
		{"iso passthrough", "2004-03-01", "2004-03-01", true},
		{"year range", "1950-1980", "1950-01-01", true},
		{"full range", "19970101-20021231", "1997-01-01", true},
		{"month range", "199701-200212", "1997-01-01", true},
		{"comma years", "1992, 1997, 2001", "1992-01-01", true},
		{"present range", "1995-Present", "1995-01-01", true},
		{"space years", "1987 1992", "1987-01-01", true},
		{"two digit pair low", "12-48", "2012-01-01", true},
		{"two digit pair high", "72-88", "1972-01-01", true},
		{"thru range", "68 thru 75", "1968-01-01", true},
		{"spaced dash range", "1950 - 1960", "1950-01-01", true},
		{"to range", "1950 to 1960", "1950-01-01", true},
		{"status planned", "Planned", "2025-01-01", true},
		{"status unpublished", "Unpublished material", "2025-01-01", true},
		{"vague", "Unknown", "", false},
		{"empty", "", "", false},
		{"garbage", "not a date at all", "", false},
	}

	e := fixedEngine()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := diag.NewCollector("test.xml")
			got, ok := e.NormalizeDate(tc.token, "idinfo.citation.citeinfo.pubdate", c)
			if ok != tc.ok {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tc.token, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.token, got, tc.want)
			}
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	c := diag.NewCollector("test.xml")

	first, ok := e.NormalizeDate("20040301", "pubdate", c)
	if !ok {
		t.Fatal("first normalization failed")
	}
	second, ok := e.NormalizeDate(first, "pubdate", c)
	if !ok {
		t.Fatal("second normalization failed")
	}
	if first != second {
		t.Fatalf("normalization not idempotent: %q then %q", first, second)
	}
}

func TestNormalizeDateReportsReductions(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	c := diag.NewCollector("test.xml")

	if _, ok := e.NormalizeDate("1950-1980", "pubdate", c); !ok {
		t.Fatal("range normalization failed")
	}
	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(items))
	}
	if items[0].IssueType != "date_range" {
		t.Fatalf("expected date_range diagnostic, got %s", items[0].IssueType)
	}
	if items[0].ValueFound != "1950-1980" {
		t.Fatalf("diagnostic should carry the original token, got %q", items[0].ValueFound)
	}
}

func TestExpandTwoDigitYear(t *testing.T) {
	t.Parallel()

	if got := expandTwoDigitYear(49); got != 2049 {
		t.Fatalf("expandTwoDigitYear(49) = %d, want 2049", got)
	}
	if got := expandTwoDigitYear(50); got != 1950 {
		t.Fatalf("expandTwoDigitYear(50) = %d, want 1950", got)
	}
}
