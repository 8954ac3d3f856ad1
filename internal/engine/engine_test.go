package engine

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"FgdcMigrator/internal/diag"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/fgdc"
)

const sampleXML = `<?xml version="1.0"?>
<metadata>
  <idinfo>
    <citation>
      <citeinfo>
        <origin>Smith, John</origin>
        <origin>Jane Doe and Bob Roe</origin>
        <origin>National Oceanic and Atmospheric Administration</origin>
        <pubdate>20040315</pubdate>
        <title>Zooplankton biomass survey in the North Pacific</title>
        <pubinfo>
          <pubplace>Sidney, BC</pubplace>
          <publish>Some Regional Office</publish>
        </pubinfo>
        <othercit>Technical Report 42</othercit>
      </citeinfo>
    </citation>
    <descript>
      <abstract>Quarterly zooplankton biomass measurements collected along Line P. Samples were preserved in formalin.</abstract>
      <purpose>Long-term monitoring of plankton production.</purpose>
    </descript>
    <timeperd>
      <timeinfo>
        <rngdates>
          <begdate>1997</begdate>
          <enddate>2002</enddate>
        </rngdates>
      </timeinfo>
      <current>ground condition</current>
    </timeperd>
    <status>
      <progress>Complete</progress>
      <update>None planned</update>
    </status>
    <spdom>
      <bounding>
        <westbc>-145.5</westbc>
        <eastbc>-125.0</eastbc>
        <northbc>50.0</northbc>
        <southbc>48.5</southbc>
      </bounding>
    </spdom>
    <keywords>
      <theme>
        <themekt>None</themekt>
        <themekey>zooplankton</themekey>
        <themekey>biomass</themekey>
      </theme>
      <place>
        <placekey>North Pacific</placekey>
      </place>
    </keywords>
    <accconst>None</accconst>
    <useconst>Public domain, no rights reserved</useconst>
    <ptcontac>
      <cntinfo>
        <cntperp>
          <cntper>Mary Major</cntper>
        </cntperp>
      </cntinfo>
    </ptcontac>
  </idinfo>
  <distinfo>
    <distrib>
      <cntinfo>
        <cntperp>
          <cntper>Lee, Kim</cntper>
        </cntperp>
      </cntinfo>
    </distrib>
  </distinfo>
  <metainfo>
    <metd>20050110</metd>
  </metainfo>
</metadata>`

func mustParse(t *testing.T, data string) *fgdc.Document {
	t.Helper()
	doc, err := fgdc.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return doc
}

func TestTransformSample(t *testing.T) {
	t.Parallel()

	e := fixedEngine()
	rec, _, err := e.Transform(mustParse(t, sampleXML), "sample.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if rec.Title != "Zooplankton biomass survey in the North Pacific" {
		t.Fatalf("unexpected title: %q", rec.Title)
	}
	if rec.PublicationDate != "2004-03-15" {
		t.Fatalf("unexpected publication date: %q", rec.PublicationDate)
	}
	if rec.UploadType != "dataset" {
		t.Fatalf("unexpected upload type: %q", rec.UploadType)
	}
	if rec.Publisher != domain.CanonicalPublisher {
		t.Fatalf("publisher not canonical: %q", rec.Publisher)
	}
	if rec.ImprintPublisher != "Some Regional Office" {
		t.Fatalf("source publisher not preserved: %q", rec.ImprintPublisher)
	}
	if rec.ImprintPlace != "Sidney, BC" {
		t.Fatalf("unexpected imprint place: %q", rec.ImprintPlace)
	}

	wantCreators := []domain.Creator{
		{Name: "Smith, John"},
		{Name: "Doe, Jane"},
		{Name: "Roe, Bob"},
		{Name: "National Oceanic and Atmospheric Administration", Type: "Organization"},
	}
	if diff := cmp.Diff(wantCreators, rec.Creators); diff != "" {
		t.Fatalf("creators mismatch (-want +got):\n%s", diff)
	}

	wantKeywords := []string{"zooplankton", "biomass", "North Pacific"}
	if diff := cmp.Diff(wantKeywords, rec.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
	if len(rec.Subjects) != 0 {
		t.Fatalf("generic thesaurus should not produce subjects, got %v", rec.Subjects)
	}

	if rec.AccessRight != "open" {
		t.Fatalf("unexpected access right: %q", rec.AccessRight)
	}
	if rec.License != "cc-zero" {
		t.Fatalf("unexpected license: %q", rec.License)
	}

	wantContributors := []domain.Contributor{
		{Name: "Major, Mary", Type: "ContactPerson"},
		{Name: "Lee, Kim", Type: "Distributor"},
	}
	if diff := cmp.Diff(wantContributors, rec.Contributors); diff != "" {
		t.Fatalf("contributors mismatch (-want +got):\n%s", diff)
	}

	if len(rec.Communities) != 1 || rec.Communities[0].Identifier != domain.CommunityID {
		t.Fatalf("community not injected: %v", rec.Communities)
	}
	if len(rec.References) != 1 || rec.References[0] != "Technical Report 42" {
		t.Fatalf("unexpected references: %v", rec.References)
	}

	if !strings.Contains(rec.Notes, "Purpose: Long-term monitoring of plankton production.") {
		t.Fatalf("purpose missing from notes:\n%s", rec.Notes)
	}
	if !strings.Contains(rec.Notes, "Temporal coverage: 1997-01-01 to 2002-01-01") {
		t.Fatalf("temporal coverage missing from notes:\n%s", rec.Notes)
	}
	if !strings.Contains(rec.Notes, "Spatial coverage: W-145.5, E-125, N50, S48.5") {
		t.Fatalf("spatial coverage missing from notes:\n%s", rec.Notes)
	}
}

func TestTransformMissingTitle(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><pubdate>2004</pubdate>
	</citeinfo></citation></idinfo></metadata>`

	e := fixedEngine()
	rec, items, err := e.Transform(mustParse(t, xml), "no-title.xml")
	if err == nil {
		t.Fatal("expected error for missing title")
	}
	if rec != nil {
		t.Fatal("no partial record should be returned on failure")
	}

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %T", err)
	}
	if missing.FieldPath != "idinfo.citation.citeinfo.title" {
		t.Fatalf("error should name the field path, got %q", missing.FieldPath)
	}

	found := false
	for _, d := range items {
		if d.Severity == diag.SeverityError && d.FieldPath == "idinfo.citation.citeinfo.title" {
			found = true
		}
	}
	if !found {
		t.Fatal("missing title should be reported in diagnostics")
	}
}

func TestTransformTitleTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 260)
	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><pubdate>2004</pubdate>
	  <title>` + long + `</title>
	</citeinfo></citation><descript><abstract>A long enough abstract. With sentences.</abstract></descript></idinfo></metadata>`

	e := fixedEngine()
	rec, items, err := e.Transform(mustParse(t, xml), "long-title.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if len(rec.Title) != 250 {
		t.Fatalf("truncated title length = %d, want 250", len(rec.Title))
	}
	if !strings.HasSuffix(rec.Title, "...") {
		t.Fatalf("truncated title should end with ellipsis: %q", rec.Title[240:])
	}

	found := false
	for _, d := range items {
		if d.IssueType == "title_truncated" {
			found = true
		}
	}
	if !found {
		t.Fatal("truncation should be reported")
	}
}

func TestTransformDescriptionFallbacks(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><pubdate>2004</pubdate>
	  <title>Survey data</title>
	</citeinfo></citation></idinfo></metadata>`

	e := fixedEngine()
	rec, _, err := e.Transform(mustParse(t, xml), "no-abstract.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if rec.Description != "Dataset: Survey data" {
		t.Fatalf("expected title-derived description, got %q", rec.Description)
	}
}

func TestTransformMetadataDateFallback(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin>
	  <title>Survey data</title>
	</citeinfo></citation><descript><abstract>Abstract text here. More text.</abstract></descript></idinfo>
	<metainfo><metd>20050110</metd></metainfo></metadata>`

	e := fixedEngine()
	rec, items, err := e.Transform(mustParse(t, xml), "metd-fallback.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if rec.PublicationDate != "2005-01-10" {
		t.Fatalf("expected metadata-date fallback, got %q", rec.PublicationDate)
	}

	found := false
	for _, d := range items {
		if d.IssueType == "missing_publication_date" {
			found = true
		}
	}
	if !found {
		t.Fatal("fallback should be reported")
	}
}

func TestClassifyAccess(t *testing.T) {
	t.Parallel()

	cases := []struct {
		accconst       string
		wantRight      string
		wantConditions bool
	}{
		{"None", "open", false},
		{"Public", "open", false},
		{"Restricted, by request only", "restricted", true},
		{"Requires registration with the data office", "restricted", true},
		{"Please cite the originator", "open", false},
		{"", "open", false},
	}

	for _, tc := range cases {
		right, conditions := classifyAccess(tc.accconst)
		if right != tc.wantRight {
			t.Errorf("classifyAccess(%q) right = %q, want %q", tc.accconst, right, tc.wantRight)
		}
		if (conditions != "") != tc.wantConditions {
			t.Errorf("classifyAccess(%q) conditions = %q", tc.accconst, conditions)
		}
	}
}

func TestDetectLicense(t *testing.T) {
	t.Parallel()

	cases := []struct {
		useconst string
		want     string
		ok       bool
	}{
		{"Public domain, no restrictions", "cc-zero", true},
		{"Licensed under Creative Commons Attribution 4.0", "cc-by-4.0", true},
		{"MIT License applies", "mit", true},
		{"None", "cc-zero", true},
		{"", "", false},
		{"Contact data manager before use", "", false},
	}

	for _, tc := range cases {
		c := diag.NewCollector("test.xml")
		got, ok := detectLicense(tc.useconst, "idinfo.useconst", c)
		if ok != tc.ok || got != tc.want {
			t.Errorf("detectLicense(%q) = %q, %v; want %q, %v", tc.useconst, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseBoundingBoxWrap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		west, east   string
		wantWest     float64
		wantEast     float64
		wantCrossing bool
	}{
		{"wrapped non-crossing", "190", "170", -170, 170, false},
		{"negative wrap crossing", "-190", "-170", 170, -170, true},
		{"true crossing", "170", "-170", 170, -170, true},
		{"normal", "-145.5", "-125.0", -145.5, -125.0, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			xml := `<metadata><idinfo><spdom><bounding>
			  <westbc>` + tc.west + `</westbc><eastbc>` + tc.east + `</eastbc>
			  <northbc>55</northbc><southbc>45</southbc>
			</bounding></spdom></idinfo></metadata>`

			c := diag.NewCollector("bbox.xml")
			box, ok := parseBoundingBox(mustParse(t, xml), c)
			if !ok {
				t.Fatal("parseBoundingBox failed")
			}
			if box.West != tc.wantWest || box.East != tc.wantEast {
				t.Fatalf("got W%g E%g, want W%g E%g", box.West, box.East, tc.wantWest, tc.wantEast)
			}
			if box.CrossesAntimeridian != tc.wantCrossing {
				t.Fatalf("crossing = %v, want %v", box.CrossesAntimeridian, tc.wantCrossing)
			}
		})
	}
}

func TestParseBoundingBoxInvalid(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><spdom><bounding>
	  <westbc>west-ish</westbc><eastbc>-125</eastbc>
	  <northbc>55</northbc><southbc>45</southbc>
	</bounding></spdom></idinfo></metadata>`

	c := diag.NewCollector("bbox.xml")
	if _, ok := parseBoundingBox(mustParse(t, xml), c); ok {
		t.Fatal("expected failure for non-numeric coordinate")
	}
	if c.ErrorCount() != 1 {
		t.Fatalf("expected one error diagnostic, got %d", c.ErrorCount())
	}
}

func TestParseCreatorName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		wantName string
		wantType string
	}{
		{"Smith, John", "Smith, John", ""},
		{"John Smith", "Smith, John", ""},
		{"Anna Maria von Helm", "Helm, Anna Maria von", ""},
		{"University of British Columbia", "University of British Columbia", "Organization"},
		{"NOAA Fisheries", "NOAA Fisheries", "Organization"},
	}

	for _, tc := range cases {
		c := diag.NewCollector("test.xml")
		got := parseCreatorName(tc.in, c)
		if got.Name != tc.wantName || got.Type != tc.wantType {
			t.Errorf("parseCreatorName(%q) = %+v, want name %q type %q", tc.in, got, tc.wantName, tc.wantType)
		}
	}
}

func TestTransformMissingCreators(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <title>Survey data</title><pubdate>2004</pubdate>
	</citeinfo></citation></idinfo></metadata>`

	e := fixedEngine()
	rec, items, err := e.Transform(mustParse(t, xml), "no-origin.xml")
	if err == nil {
		t.Fatal("expected error for missing origin elements")
	}
	if rec != nil {
		t.Fatal("no partial record should be returned on failure")
	}

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %T", err)
	}
	if missing.FieldPath != "idinfo.citation.citeinfo.origin" {
		t.Fatalf("error should name the field path, got %q", missing.FieldPath)
	}

	found := false
	for _, d := range items {
		if d.Severity == diag.SeverityError && d.FieldPath == "idinfo.citation.citeinfo.origin" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error diagnostic for the missing origin")
	}
}

func TestTransformMissingPublicationDate(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><title>Survey data</title>
	</citeinfo></citation></idinfo></metadata>`

	e := fixedEngine()
	rec, items, err := e.Transform(mustParse(t, xml), "no-pubdate.xml")
	if err == nil {
		t.Fatal("expected error when both pubdate and metd are absent")
	}
	if rec != nil {
		t.Fatal("no partial record should be returned on failure")
	}

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %T", err)
	}
	if missing.FieldPath != "idinfo.citation.citeinfo.pubdate" {
		t.Fatalf("error should name the field path, got %q", missing.FieldPath)
	}

	found := false
	for _, d := range items {
		if d.Severity == diag.SeverityError && d.FieldPath == "idinfo.citation.citeinfo.pubdate" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error diagnostic for the missing publication date")
	}
}

func TestTransformSubjectsFromNamedThesaurus(t *testing.T) {
	t.Parallel()

	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><pubdate>2004</pubdate><title>Survey data</title>
	</citeinfo></citation>
	<descript><abstract>Biomass observations.</abstract></descript>
	<keywords>
	  <theme>
	    <themekt>GCMD Science Keywords</themekt>
	    <themekey>OCEANS</themekey>
	    <themekey>PLANKTON</themekey>
	  </theme>
	</keywords>
	<keywords>
	  <theme>
	    <themekt>None</themekt>
	    <themekey>zooplankton</themekey>
	  </theme>
	</keywords></idinfo></metadata>`

	e := fixedEngine()
	rec, _, err := e.Transform(mustParse(t, xml), "thesaurus.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	want := []domain.Subject{
		{Term: "OCEANS", Identifier: "GCMD Science Keywords:OCEANS", Scheme: "thesaurus"},
		{Term: "PLANKTON", Identifier: "GCMD Science Keywords:PLANKTON", Scheme: "thesaurus"},
	}
	if diff := cmp.Diff(want, rec.Subjects); diff != "" {
		t.Fatalf("subjects mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformTitleTruncationMultibyte(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 260)
	xml := `<metadata><idinfo><citation><citeinfo>
	  <origin>Smith, John</origin><pubdate>2004</pubdate>
	  <title>` + long + `</title>
	</citeinfo></citation><descript><abstract>A long enough abstract. With sentences.</abstract></descript></idinfo></metadata>`

	e := fixedEngine()
	rec, _, err := e.Transform(mustParse(t, xml), "multibyte-title.xml")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	if !utf8.ValidString(rec.Title) {
		t.Fatalf("truncated title is not valid UTF-8: %q", rec.Title)
	}
	if got := len([]rune(rec.Title)); got != 250 {
		t.Fatalf("truncated title rune length = %d, want 250", got)
	}
	if !strings.HasSuffix(rec.Title, "...") {
		t.Fatal("truncated title should end with ellipsis")
	}
}
