package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/fgdc"
	"FgdcMigrator/internal/schema"
)

// Tier fields in a fixed order so missing-field lists are deterministic.
var (
	criticalOrder  = []string{"title", "creators", "publication_date", "description"}
	importantOrder = []string{"keywords", "access_right", "license", "communities"}
	optionalOrder  = []string{"notes", "related_identifiers", "contributors", "references", "version", "imprint_publisher"}
)

// Score computes the weighted quality assessment of a record against its
// source document. Scoring is monotone in field presence: populating an
// additional target field never lowers the overall score.
func (e *Engine) Score(doc *fgdc.Document, rec *domain.DepositionRecord) domain.QualityReport {
	report := domain.QualityReport{
		FieldCoverage: scoreCoverage(rec),
		DataQuality:   e.scoreQuality(rec),
		Preservation:  scorePreservation(doc, rec),
		Effectiveness: scoreEffectiveness(doc, rec),
		Compliance:    scoreCompliance(rec),
	}

	report.OverallScore = round1(report.Preservation.ContentRatio*100*0.25 +
		report.FieldCoverage.WeightedScore*0.20 +
		report.DataQuality.OverallScore*0.25 +
		report.Effectiveness.OverallScore*0.20 +
		report.Compliance.OverallScore*0.10)

	return report
}

func scoreCoverage(rec *domain.DepositionRecord) domain.CoverageMetrics {
	tier := func(fields []string, weights map[string]int) (domain.TierCoverage, int) {
		cov := domain.TierCoverage{Total: len(fields)}
		presentWeight := 0
		for _, field := range fields {
			if rec.FieldPresent(field) {
				cov.Present++
				presentWeight += weights[field]
			} else {
				cov.Missing = append(cov.Missing, field)
			}
		}
		cov.Percent = round1(float64(cov.Present) / float64(cov.Total) * 100)
		return cov, presentWeight
	}

	critical, criticalWeight := tier(criticalOrder, schema.FieldWeights.Critical)
	important, importantWeight := tier(importantOrder, schema.FieldWeights.Important)
	optional, optionalWeight := tier(optionalOrder, schema.FieldWeights.Optional)

	totalWeight := 0
	for _, weights := range []map[string]int{
		schema.FieldWeights.Critical, schema.FieldWeights.Important, schema.FieldWeights.Optional,
	} {
		for _, w := range weights {
			totalWeight += w
		}
	}

	totalPresent := critical.Present + important.Present + optional.Present
	totalPossible := critical.Total + important.Total + optional.Total

	return domain.CoverageMetrics{
		Critical:      critical,
		Important:     important,
		Optional:      optional,
		OverallPct:    round1(float64(totalPresent) / float64(totalPossible) * 100),
		WeightedScore: round1(float64(criticalWeight+importantWeight+optionalWeight) / float64(totalWeight) * 100),
	}
}

func (e *Engine) scoreQuality(rec *domain.DepositionRecord) domain.QualityMetrics {
	quality := domain.QualityMetrics{
		Title:       assessTitle(rec.Title),
		Creators:    assessCreators(rec.Creators),
		Description: assessDescription(rec.Description),
		Keywords:    assessKeywords(rec.Keywords),
		Date:        e.assessDate(rec.PublicationDate),
		License:     assessLicense(rec.License),
	}

	sum := quality.Title.Score + quality.Creators.Score + quality.Description.Score +
		quality.Keywords.Score + quality.Date.Score + quality.License.Score
	quality.OverallScore = round1(sum / 6)

	for _, entry := range schema.GradeThresholds {
		if quality.OverallScore >= entry.Threshold {
			quality.Grade = entry.Grade
			break
		}
	}

	return quality
}

func assessTitle(title string) domain.FacetScore {
	if title == "" {
		return domain.FacetScore{Score: 0, Issues: []string{"Missing title"}, Grade: "F"}
	}

	var issues []string
	score := 100.0

	if len(title) < 10 {
		issues = append(issues, "Title too short")
		score -= 30
	} else if len(title) > schema.TitleLimit {
		issues = append(issues, "Title too long")
		score -= 20
	}

	if title[0] >= 'a' && title[0] <= 'z' {
		issues = append(issues, "Title should start with capital letter")
		score -= 10
	}
	if strings.HasSuffix(title, ".") {
		issues = append(issues, "Title should not end with period")
		score -= 5
	}

	return facet(score, issues)
}

func assessCreators(creators []domain.Creator) domain.FacetScore {
	if len(creators) == 0 {
		return domain.FacetScore{Score: 0, Issues: []string{"No creators specified"}, Grade: "F"}
	}

	var issues []string
	score := 100.0

	if len(creators) > 10 {
		issues = append(issues, "Too many creators")
		score -= 20
	}

	for i, creator := range creators {
		switch {
		case creator.Name == "":
			issues = append(issues, fmt.Sprintf("Creator %d missing name", i+1))
			score -= 20
		case len(creator.Name) < 3:
			issues = append(issues, fmt.Sprintf("Creator %d name too short", i+1))
			score -= 10
		case !strings.Contains(creator.Name, ",") && !strings.Contains(creator.Name, " "):
			issues = append(issues, fmt.Sprintf("Creator %d name format unclear", i+1))
			score -= 5
		}
	}

	return facet(score, issues)
}

func assessDescription(description string) domain.FacetScore {
	if description == "" {
		return domain.FacetScore{Score: 0, Issues: []string{"Missing description"}, Grade: "F"}
	}

	var issues []string
	score := 100.0

	if len(description) < 20 {
		issues = append(issues, "Description too short")
		score -= 40
	} else if len(description) > 5000 {
		issues = append(issues, "Description too long")
		score -= 20
	}

	if strings.Count(description, ".") < 2 {
		issues = append(issues, "Description should have multiple sentences")
		score -= 15
	}

	return facet(score, issues)
}

func assessKeywords(keywords []string) domain.FacetScore {
	if len(keywords) == 0 {
		return domain.FacetScore{Score: 50, Issues: []string{"No keywords provided"}, Grade: "C"}
	}

	var issues []string
	score := 100.0

	if len(keywords) < 3 {
		issues = append(issues, "Too few keywords")
		score -= 30
	} else if len(keywords) > 20 {
		issues = append(issues, "Too many keywords")
		score -= 20
	}

	for _, keyword := range keywords {
		if len(keyword) < 2 {
			issues = append(issues, fmt.Sprintf("Keyword too short: %q", keyword))
			score -= 10
		} else if len(keyword) > 50 {
			issues = append(issues, fmt.Sprintf("Keyword too long: %q", keyword))
			score -= 5
		}
	}

	return facet(score, issues)
}

func (e *Engine) assessDate(date string) domain.FacetScore {
	if date == "" {
		return domain.FacetScore{Score: 0, Issues: []string{"Missing publication date"}, Grade: "F"}
	}

	var issues []string
	score := 100.0

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return domain.FacetScore{Score: 0, Issues: []string{"Invalid date format"}, Grade: "F"}
	}

	if parsed.Year() < 1900 {
		issues = append(issues, "Date too early")
		score -= 30
	} else if parsed.Year() > e.now().Year()+1 {
		issues = append(issues, "Date in future")
		score -= 30
	}

	return facet(score, issues)
}

func assessLicense(license string) domain.FacetScore {
	if license == "" {
		return domain.FacetScore{Score: 0, Issues: []string{"Missing license"}, Grade: "F"}
	}
	if schema.InSet(schema.RecognizedLicenses, license) {
		return domain.FacetScore{Score: 100, Issues: []string{}, Grade: "A"}
	}
	return domain.FacetScore{Score: 50, Issues: []string{"Unrecognized license: " + license}, Grade: "C"}
}

func facet(score float64, issues []string) domain.FacetScore {
	if score < 0 {
		score = 0
	}
	if issues == nil {
		issues = []string{}
	}
	return domain.FacetScore{Score: score, Issues: issues, Grade: letterGrade(score)}
}

func letterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// scorePreservation compares meaningful content volume between the source
// document and the built record. A ratio far from 1.0 in either direction
// caps the semantic score at 0.5, since both heavy loss and heavy expansion
// indicate a mapping defect.
func scorePreservation(doc *fgdc.Document, rec *domain.DepositionRecord) domain.PreservationMetrics {
	metrics := domain.PreservationMetrics{
		LossIndicators: []string{},
		GainIndicators: []string{},
	}

	sourceChars, sourceFields := doc.MeaningfulStats()
	recordChars := rec.MeaningfulChars()

	if sourceChars > 0 {
		ratio := float64(recordChars) / float64(sourceChars)
		metrics.ContentRatio = round3(ratio)

		if ratio < 0.5 || ratio > 2.0 {
			metrics.SemanticScore = 0.5
		} else {
			metrics.SemanticScore = math.Min(ratio, 1.0)
		}

		if loss := 1 - ratio; loss > 0.3 {
			metrics.LossIndicators = append(metrics.LossIndicators,
				fmt.Sprintf("Significant data loss: %.1f%% of content not preserved", loss*100))
		}
		if gain := ratio - 1; gain > 0.5 {
			metrics.GainIndicators = append(metrics.GainIndicators,
				fmt.Sprintf("Significant data expansion: %.1f%% more content than original", gain*100))
		}
	}

	if sourceFields > 0 {
		metrics.FieldRatio = round3(float64(rec.MappedFields()) / float64(sourceFields))
	}

	return metrics
}

func scoreEffectiveness(doc *fgdc.Document, rec *domain.DepositionRecord) domain.EffectivenessMetrics {
	metrics := domain.EffectivenessMetrics{
		// Fixed score: crosswalk mappings are table-driven and reviewed
		// rather than measured per record.
		SemanticAccuracy: 85.0,
	}

	if sourceFields := len(doc.PopulatedTags()); sourceFields > 0 {
		metrics.MappingCompleteness = round1(float64(rec.MappedFields()) / float64(sourceFields) * 100)
	}

	enrichmentFields := []string{"notes", "related_identifiers", "contributors", "references"}
	enriched := 0
	for _, field := range enrichmentFields {
		if rec.FieldPresent(field) {
			enriched++
		}
	}
	metrics.EnrichmentScore = round1(float64(enriched) / float64(len(enrichmentFields)) * 100)

	present := 0
	for _, field := range criticalOrder {
		if rec.FieldPresent(field) {
			present++
		}
	}
	metrics.FormatCompliance = round1(float64(present) / float64(len(criticalOrder)) * 100)

	metrics.OverallScore = round1((metrics.MappingCompleteness + metrics.EnrichmentScore +
		metrics.FormatCompliance + metrics.SemanticAccuracy) / 4)

	return metrics
}

func scoreCompliance(rec *domain.DepositionRecord) domain.ComplianceMetrics {
	metrics := domain.ComplianceMetrics{
		RequiredTotal:    len(criticalOrder),
		RecommendedTotal: len(schema.RecommendedFields),
	}

	for _, field := range criticalOrder {
		if rec.FieldPresent(field) {
			metrics.RequiredPresent++
		}
	}
	metrics.RequiredPct = round1(float64(metrics.RequiredPresent) / float64(metrics.RequiredTotal) * 100)

	for _, field := range schema.RecommendedFields {
		if rec.FieldPresent(field) {
			metrics.RecommendedPresent++
		}
	}
	metrics.RecommendedPct = round1(float64(metrics.RecommendedPresent) / float64(metrics.RecommendedTotal) * 100)

	for _, community := range rec.Communities {
		if community.Identifier == domain.CommunityID {
			metrics.CommunityPresent = true
		}
	}
	metrics.OpenAccess = rec.AccessRight == "open"
	metrics.LicenseRecognized = schema.InSet(schema.RecognizedLicenses, rec.License)

	checks := []float64{
		metrics.RequiredPct / 100,
		metrics.RecommendedPct / 100,
		boolScore(metrics.CommunityPresent),
		boolScore(metrics.OpenAccess),
		boolScore(metrics.LicenseRecognized),
	}
	sum := 0.0
	for _, check := range checks {
		sum += check
	}
	metrics.OverallScore = round1(sum / float64(len(checks)) * 100)

	return metrics
}

func boolScore(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
