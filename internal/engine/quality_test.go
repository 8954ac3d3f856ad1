package engine

import (
	"testing"

	"FgdcMigrator/internal/domain"
)

func TestScoreCompleteRecord(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	doc := mustParse(t, sampleXML)
	rec, _, err := e.Transform(doc, "sample.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	report := e.Score(doc, rec)

	if report.OverallScore <= 0 || report.OverallScore > 100 {
		t.Fatalf("overall score out of range: %g", report.OverallScore)
	}
	if report.FieldCoverage.Critical.Present != 4 {
		t.Fatalf("critical fields present = %d, want 4", report.FieldCoverage.Critical.Present)
	}
	if report.Compliance.RequiredPct != 100 {
		t.Fatalf("required compliance = %g, want 100", report.Compliance.RequiredPct)
	}
	if !report.Compliance.CommunityPresent {
		t.Fatal("community should be detected")
	}
	if !report.Compliance.OpenAccess {
		t.Fatal("open access should be detected")
	}
	if !report.Compliance.LicenseRecognized {
		t.Fatal("cc-zero should be recognized")
	}
	if report.DataQuality.Grade == "" {
		t.Fatal("quality grade should be assigned")
	}
}

func TestScoreMonotoneInFieldPresence(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	doc := mustParse(t, sampleXML)

	bare, _, err := e.Transform(doc, "sample.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	bare.Notes = ""
	bare.RelatedIdentifiers = nil
	bare.References = nil

	enriched := *bare
	enriched.Notes = "Purpose: long-term monitoring of plankton production."
	enriched.References = []string{"Technical Report 42"}

	before := e.Score(doc, bare).OverallScore
	after := e.Score(doc, &enriched).OverallScore
	if after < before {
		t.Fatalf("adding fields lowered the score: %g -> %g", before, after)
	}
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	doc := mustParse(t, sampleXML)
	rec, _, err := e.Transform(doc, "sample.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	first := e.Score(doc, rec)
	second := e.Score(doc, rec)
	if first.OverallScore != second.OverallScore {
		t.Fatalf("scoring not deterministic: %g vs %g", first.OverallScore, second.OverallScore)
	}
}

func TestAssessTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		title string
		want  float64
	}{
		{"missing", "", 0},
		{"good", "Zooplankton biomass survey", 100},
		{"short", "Survey", 70},
		{"lowercase with period", "zooplankton biomass survey.", 85},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := assessTitle(tc.title)
			if got.Score != tc.want {
				t.Fatalf("assessTitle(%q) = %g, want %g (issues: %v)", tc.title, got.Score, tc.want, got.Issues)
			}
		})
	}
}

func TestAssessKeywordsEmptyGetsMidScore(t *testing.T) {
	t.Parallel()

	got := assessKeywords(nil)
	if got.Score != 50 || got.Grade != "C" {
		t.Fatalf("empty keywords = %g/%s, want 50/C", got.Score, got.Grade)
	}
}

func TestAssessDate(t *testing.T) {
	t.Parallel()

	e := fixedEngine()

	if got := e.assessDate("2004-03-15"); got.Score != 100 {
		t.Fatalf("valid date scored %g", got.Score)
	}
	if got := e.assessDate("1850-01-01"); got.Score != 70 {
		t.Fatalf("too-early date scored %g, want 70", got.Score)
	}
	if got := e.assessDate("2030-01-01"); got.Score != 70 {
		t.Fatalf("future date scored %g, want 70", got.Score)
	}
	if got := e.assessDate("not-a-date"); got.Score != 0 {
		t.Fatalf("invalid date scored %g, want 0", got.Score)
	}
}

func TestAssessLicense(t *testing.T) {
	t.Parallel()

	if got := assessLicense("cc-zero"); got.Score != 100 || got.Grade != "A" {
		t.Fatalf("recognized license = %g/%s", got.Score, got.Grade)
	}
	if got := assessLicense("wtfpl"); got.Score != 50 || got.Grade != "C" {
		t.Fatalf("unrecognized license = %g/%s", got.Score, got.Grade)
	}
	if got := assessLicense(""); got.Score != 0 {
		t.Fatalf("missing license = %g", got.Score)
	}
}

func TestPreservationCapsDistortedRatios(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, sampleXML)

	tiny := &domain.DepositionRecord{Title: "x"}
	metrics := scorePreservation(doc, tiny)
	if metrics.SemanticScore != 0.5 {
		t.Fatalf("heavy loss should cap semantic score at 0.5, got %g", metrics.SemanticScore)
	}
	if len(metrics.LossIndicators) == 0 {
		t.Fatal("heavy loss should be flagged")
	}
}

func TestGradeThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {85, "B"}, {75, "C"}, {65, "D"}, {40, "F"},
	}
	for _, tc := range cases {
		if got := letterGrade(tc.score); got != tc.want {
			t.Errorf("letterGrade(%g) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
