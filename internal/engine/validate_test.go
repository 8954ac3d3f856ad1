package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"FgdcMigrator/internal/domain"
)

func validRecord() *domain.DepositionRecord {
	return &domain.DepositionRecord{
		Title:           "Zooplankton biomass survey in the North Pacific",
		UploadType:      "dataset",
		PublicationDate: "2004-03-15",
		Description:     "Quarterly zooplankton biomass measurements. Collected along Line P. Preserved in formalin.",
		AccessRight:     "open",
		License:         "cc-zero",
		Publisher:       domain.CanonicalPublisher,
		Creators:        []domain.Creator{{Name: "Smith, John"}},
		Keywords:        []string{"zooplankton", "biomass", "North Pacific"},
		Communities:     []domain.Community{{Identifier: domain.CommunityID}},
	}
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	result := e.Validate(validRecord())
	if !result.Valid {
		t.Fatalf("expected valid record, issues: %v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
}

func TestValidateDeterministic(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.License = ""
	rec.AccessRight = "restricted"
	rec.Keywords = append(rec.Keywords, "")

	e := fixedEngine()
	first := e.Validate(rec)
	second := e.Validate(rec)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation not deterministic (-first +second):\n%s", diff)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.Title = ""
	rec.Creators = nil

	e := fixedEngine()
	result := e.Validate(rec)
	if result.Valid {
		t.Fatal("record with missing required fields should not validate")
	}

	wantIssues := []string{
		"Empty required field: title",
		"Empty required field: creators",
		"Title is empty or missing",
		"No creators specified",
	}
	for _, want := range wantIssues {
		if !containsString(result.Issues, want) {
			t.Errorf("expected issue %q, got %v", want, result.Issues)
		}
	}
}

func TestValidateEnumMembership(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.UploadType = "spreadsheet"
	rec.AccessRight = "complicated"
	rec.RelatedIdentifiers = []domain.RelatedIdentifier{
		{Identifier: "https://example.org/data", Relation: "explains"},
	}
	rec.Contributors = []domain.Contributor{{Name: "Lee, Kim", Type: "Janitor"}}

	e := fixedEngine()
	result := e.Validate(rec)
	if result.Valid {
		t.Fatal("enum violations should invalidate the record")
	}

	wantIssues := []string{
		"Invalid upload_type: spreadsheet",
		"Invalid access_right: complicated",
		"Related identifier 1 has invalid relation: explains",
		"Contributor 1 has invalid type: Janitor",
	}
	for _, want := range wantIssues {
		if !containsString(result.Issues, want) {
			t.Errorf("expected issue %q, got %v", want, result.Issues)
		}
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	t.Parallel()

	e := fixedEngine()

	restricted := validRecord()
	restricted.AccessRight = "restricted"
	restricted.AccessConditions = ""
	result := e.Validate(restricted)
	if !containsString(result.Issues, "access_conditions required for restricted access") {
		t.Errorf("expected restricted-access issue, got %v", result.Issues)
	}

	unlicensed := validRecord()
	unlicensed.License = ""
	result = e.Validate(unlicensed)
	if !containsString(result.Issues, "License required for open/embargoed access") {
		t.Errorf("expected license issue, got %v", result.Issues)
	}
}

func TestValidateFieldLimits(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.Version = strings.Repeat("v", 60)

	e := fixedEngine()
	result := e.Validate(rec)
	if !containsString(result.Issues, "Field 'version' exceeds character limit: 60 > 50") {
		t.Errorf("expected limit issue, got %v", result.Issues)
	}
}

func TestValidateArrayLimits(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	for i := 0; i < 11; i++ {
		rec.Communities = append(rec.Communities, domain.Community{Identifier: "extra"})
	}

	e := fixedEngine()
	result := e.Validate(rec)
	if !containsString(result.Issues, "Field 'communities' exceeds array limit: 12 > 10") {
		t.Errorf("expected array limit issue, got %v", result.Issues)
	}
}

func TestValidateWarningsDoNotInvalidate(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.Creators = []domain.Creator{{Name: "John Smith"}} // missing comma
	rec.License = "cc-by-nc-4.0"                          // unrecognized but present

	e := fixedEngine()
	result := e.Validate(rec)
	if !result.Valid {
		t.Fatalf("warnings should not invalidate, issues: %v", result.Issues)
	}
	if len(result.Warnings) < 2 {
		t.Fatalf("expected style warnings, got %v", result.Warnings)
	}
}

func TestValidateCoverageSnapshot(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	result := e.Validate(validRecord())

	cov := result.FieldCoverage
	if cov.RequiredPresent != 6 {
		t.Fatalf("required present = %d, want 6", cov.RequiredPresent)
	}
	if len(cov.RequiredMissing) != 0 {
		t.Fatalf("unexpected missing required: %v", cov.RequiredMissing)
	}
	if cov.CoveragePercent <= 0 || cov.CoveragePercent > 100 {
		t.Fatalf("coverage percent out of range: %g", cov.CoveragePercent)
	}

	counts := result.CharacterCounts
	if counts.PerField["title"] != len(validRecord().Title) {
		t.Fatalf("title character count = %d", counts.PerField["title"])
	}
	if counts.Total <= 0 {
		t.Fatal("total character count should be positive")
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
