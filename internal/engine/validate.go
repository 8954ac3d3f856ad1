package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/araddon/dateparse"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/schema"
)

var (
	reISODate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDOI      = regexp.MustCompile(`^10\.\d+/`)
	reIDScheme = regexp.MustCompile(`^(isbn|issn|pmid|arxiv):`)
)

// Validate checks a candidate record against the deposit schema: required
// presence, closed enumerations, length and cardinality limits, compound
// shapes and cross-field rules. Issues block acceptance, warnings do not.
// Validation never fails as an operation and is deterministic: the same
// record always yields the same issue list in the same order.
func (e *Engine) Validate(rec *domain.DepositionRecord) domain.ValidationResult {
	var issues, warnings []string

	fields := rec.Fields()

	for _, field := range schema.RequiredFields {
		if !domain.ValuePresent(fields[field]) {
			issues = append(issues, "Empty required field: "+field)
		}
	}

	validateTitle(rec, &issues, &warnings)
	validateUploadType(rec, &issues)
	validatePublicationDate(rec, &issues, &warnings)
	validateCreators(rec, &issues, &warnings)
	validateDescription(rec, &issues, &warnings)
	validateAccessRight(rec, &issues)
	validateLicense(rec, &issues, &warnings)
	validateKeywords(rec, &issues, &warnings)
	validateRelatedIdentifiers(rec, &issues, &warnings)
	validateContributors(rec, &issues)
	validateCommunities(rec, &issues)
	validateLimits(fields, &issues)

	return domain.ValidationResult{
		Valid:           len(issues) == 0,
		Issues:          issues,
		Warnings:        warnings,
		FieldCoverage:   analyzeFieldCoverage(rec),
		CharacterCounts: analyzeCharacterCounts(fields),
	}
}

func validateTitle(rec *domain.DepositionRecord, issues, warnings *[]string) {
	title := strings.TrimSpace(rec.Title)
	switch {
	case title == "":
		*issues = append(*issues, "Title is empty or missing")
	case len(rec.Title) > 200:
		*warnings = append(*warnings, fmt.Sprintf("Title is very long (%d characters)", len(rec.Title)))
	}
}

func validateUploadType(rec *domain.DepositionRecord, issues *[]string) {
	if !schema.InSet(schema.UploadTypes, rec.UploadType) {
		*issues = append(*issues, "Invalid upload_type: "+rec.UploadType)
	}
}

func validatePublicationDate(rec *domain.DepositionRecord, issues, warnings *[]string) {
	date := rec.PublicationDate
	if date == "" {
		*issues = append(*issues, "Publication date is missing")
		return
	}
	if _, err := dateparse.ParseAny(date); err != nil {
		*issues = append(*issues, "Invalid publication date format: "+date)
		return
	}
	if !reISODate.MatchString(date) {
		*warnings = append(*warnings, "Publication date not in YYYY-MM-DD format: "+date)
	}
}

func validateCreators(rec *domain.DepositionRecord, issues, warnings *[]string) {
	if len(rec.Creators) == 0 {
		*issues = append(*issues, "No creators specified")
		return
	}
	for i, creator := range rec.Creators {
		if creator.Name == "" {
			*issues = append(*issues, fmt.Sprintf("Creator %d has empty name", i+1))
			continue
		}
		if creator.Type != "Organization" && !strings.Contains(creator.Name, ",") {
			*warnings = append(*warnings, fmt.Sprintf("Creator %d name not in 'Family, Given' format: %s", i+1, creator.Name))
		}
	}
}

func validateDescription(rec *domain.DepositionRecord, issues, warnings *[]string) {
	description := strings.TrimSpace(rec.Description)
	switch {
	case description == "":
		*issues = append(*issues, "Description is empty or missing")
	case len(rec.Description) < 10:
		*warnings = append(*warnings, "Description is very short")
	case len(rec.Description) > schema.FieldLimits["description"]:
		*warnings = append(*warnings, fmt.Sprintf("Description is very long (%d characters)", len(rec.Description)))
	}
}

func validateAccessRight(rec *domain.DepositionRecord, issues *[]string) {
	if !schema.InSet(schema.AccessRights, rec.AccessRight) {
		*issues = append(*issues, "Invalid access_right: "+rec.AccessRight)
	}
	if rec.AccessRight == "restricted" && rec.AccessConditions == "" {
		*issues = append(*issues, "access_conditions required for restricted access")
	}
}

func validateLicense(rec *domain.DepositionRecord, issues, warnings *[]string) {
	switch rec.AccessRight {
	case "open", "embargoed":
		if rec.License == "" {
			*issues = append(*issues, "License required for open/embargoed access")
		} else if !schema.InSet(schema.RecognizedLicenses, rec.License) {
			*warnings = append(*warnings, "Unknown license: "+rec.License)
		}
	}
}

func validateKeywords(rec *domain.DepositionRecord, issues, warnings *[]string) {
	for i, keyword := range rec.Keywords {
		if strings.TrimSpace(keyword) == "" {
			*issues = append(*issues, fmt.Sprintf("Keyword %d is empty", i+1))
		} else if len(keyword) > 100 {
			*warnings = append(*warnings, fmt.Sprintf("Keyword %d is very long: %s", i+1, keyword))
		}
	}
}

func validateRelatedIdentifiers(rec *domain.DepositionRecord, issues, warnings *[]string) {
	for i, rel := range rec.RelatedIdentifiers {
		if rel.Identifier == "" {
			*issues = append(*issues, fmt.Sprintf("Related identifier %d missing 'identifier' field", i+1))
			continue
		}
		if rel.Relation == "" {
			*issues = append(*issues, fmt.Sprintf("Related identifier %d missing 'relation' field", i+1))
			continue
		}
		if !schema.InSet(schema.RelationTypes, rel.Relation) {
			*issues = append(*issues, fmt.Sprintf("Related identifier %d has invalid relation: %s", i+1, rel.Relation))
		}
		if !isValidIdentifier(rel.Identifier) {
			*warnings = append(*warnings, fmt.Sprintf("Related identifier %d may not be valid: %s", i+1, rel.Identifier))
		}
	}
}

// isValidIdentifier accepts DOIs, resolvable URLs and scheme-prefixed
// identifiers like isbn: or arxiv:.
func isValidIdentifier(identifier string) bool {
	if reDOI.MatchString(identifier) {
		return true
	}
	if isValidURL(identifier) {
		return true
	}
	return reIDScheme.MatchString(strings.ToLower(identifier))
}

func validateContributors(rec *domain.DepositionRecord, issues *[]string) {
	for i, contributor := range rec.Contributors {
		if contributor.Name == "" {
			*issues = append(*issues, fmt.Sprintf("Contributor %d missing 'name' field", i+1))
			continue
		}
		if contributor.Type == "" {
			*issues = append(*issues, fmt.Sprintf("Contributor %d missing 'type' field", i+1))
			continue
		}
		if !schema.InSet(schema.ContributorTypes, contributor.Type) {
			*issues = append(*issues, fmt.Sprintf("Contributor %d has invalid type: %s", i+1, contributor.Type))
		}
	}
}

func validateCommunities(rec *domain.DepositionRecord, issues *[]string) {
	for i, community := range rec.Communities {
		if community.Identifier == "" {
			*issues = append(*issues, fmt.Sprintf("Community %d missing 'identifier' field", i+1))
		}
	}
}

// validateLimits walks the limits tables in schema order so the issue list
// stays deterministic.
func validateLimits(fields map[string]any, issues *[]string) {
	for _, field := range schema.AllFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		if limit, has := schema.FieldLimits[field]; has {
			if text, isText := value.(string); isText && len(text) > limit {
				*issues = append(*issues, fmt.Sprintf("Field '%s' exceeds character limit: %d > %d", field, len(text), limit))
			}
		}
		if limit, has := schema.ArrayLimits[field]; has {
			if n := arrayLen(value); n > limit {
				*issues = append(*issues, fmt.Sprintf("Field '%s' exceeds array limit: %d > %d", field, n, limit))
			}
		}
	}
}

func arrayLen(value any) int {
	switch v := value.(type) {
	case []string:
		return len(v)
	case []domain.Creator:
		return len(v)
	case []domain.Contributor:
		return len(v)
	case []domain.RelatedIdentifier:
		return len(v)
	case []domain.Subject:
		return len(v)
	case []domain.Community:
		return len(v)
	default:
		return 0
	}
}

// analyzeFieldCoverage snapshots which schema fields carry values, split by
// required versus optional.
func analyzeFieldCoverage(rec *domain.DepositionRecord) domain.FieldCoverage {
	coverage := domain.FieldCoverage{
		TotalPossible:   len(schema.AllFields),
		RequiredMissing: []string{},
	}

	for _, field := range schema.AllFields {
		required := schema.InSet(schema.RequiredFields, field)
		if rec.FieldPresent(field) {
			coverage.Present = append(coverage.Present, field)
			if required {
				coverage.RequiredPresent++
			} else {
				coverage.OptionalPresent++
			}
			continue
		}
		coverage.Missing = append(coverage.Missing, field)
		if required {
			coverage.RequiredMissing = append(coverage.RequiredMissing, field)
		}
	}

	coverage.CoveragePercent = float64(len(coverage.Present)) / float64(len(schema.AllFields)) * 100
	return coverage
}

// analyzeCharacterCounts snapshots text volume per field. Empty array fields
// are skipped; scalar fields are always counted.
func analyzeCharacterCounts(fields map[string]any) domain.CharacterCounts {
	counts := domain.CharacterCounts{
		PerField:  map[string]int{},
		OverLimit: []domain.FieldExcess{},
	}

	for _, field := range schema.AllFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		chars := domain.ValueChars(value)
		if _, isText := value.(string); !isText && chars == 0 {
			continue
		}
		counts.PerField[field] = chars
		counts.Total += chars

		if limit, has := schema.FieldLimits[field]; has && chars > limit {
			if _, isText := value.(string); isText {
				counts.OverLimit = append(counts.OverLimit, domain.FieldExcess{
					Field: field, Count: chars, Limit: limit, Excess: chars - limit,
				})
			}
		}
	}

	return counts
}
