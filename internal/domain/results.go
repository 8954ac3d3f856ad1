package domain

// FieldExcess describes a field whose content exceeds its configured limit.
type FieldExcess struct {
	Field  string `json:"field"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Excess int    `json:"excess"`
}

// FieldCoverage is a presence snapshot over the full target-schema field set.
type FieldCoverage struct {
	TotalPossible   int      `json:"total_possible_fields"`
	Present         []string `json:"fields_present"`
	Missing         []string `json:"fields_missing"`
	CoveragePercent float64  `json:"coverage_percentage"`
	RequiredPresent int      `json:"required_fields_present"`
	RequiredMissing []string `json:"required_fields_missing"`
	OptionalPresent int      `json:"optional_fields_present"`
}

// CharacterCounts is a per-field text volume snapshot.
type CharacterCounts struct {
	Total     int            `json:"total_characters"`
	PerField  map[string]int `json:"field_character_counts"`
	OverLimit []FieldExcess  `json:"fields_over_limit"`
}

// ValidationResult reports schema compliance for one record. Issues block
// acceptance; warnings are stylistic. Coverage and character snapshots are
// side outputs for reporting, never validation inputs.
type ValidationResult struct {
	Valid           bool            `json:"is_valid"`
	Issues          []string        `json:"issues"`
	Warnings        []string        `json:"warnings"`
	FieldCoverage   FieldCoverage   `json:"field_coverage"`
	CharacterCounts CharacterCounts `json:"character_analysis"`
}

// TierCoverage counts present fields inside one priority tier.
type TierCoverage struct {
	Present int      `json:"present"`
	Total   int      `json:"total"`
	Percent float64  `json:"percentage"`
	Missing []string `json:"missing,omitempty"`
}

// CoverageMetrics is the weighted field-coverage category of a quality report.
type CoverageMetrics struct {
	Critical      TierCoverage `json:"critical"`
	Important     TierCoverage `json:"important"`
	Optional      TierCoverage `json:"optional"`
	OverallPct    float64      `json:"overall_coverage_percentage"`
	WeightedScore float64      `json:"weighted_coverage_score"`
}

// FacetScore is one scored quality facet with its defects.
type FacetScore struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
	Grade  string   `json:"grade"`
}

// QualityMetrics aggregates the six data-quality facets.
type QualityMetrics struct {
	Title        FacetScore `json:"title_quality"`
	Creators     FacetScore `json:"creator_quality"`
	Description  FacetScore `json:"description_quality"`
	Keywords     FacetScore `json:"keyword_quality"`
	Date         FacetScore `json:"date_quality"`
	License      FacetScore `json:"license_quality"`
	OverallScore float64    `json:"overall_quality_score"`
	Grade        string     `json:"quality_grade"`
}

// PreservationMetrics compares meaningful content volume before and after
// the crosswalk. Ratios far from 1.0 indicate mapping defects, not
// enrichment.
type PreservationMetrics struct {
	ContentRatio   float64  `json:"content_preservation_ratio"`
	FieldRatio     float64  `json:"field_preservation_ratio"`
	SemanticScore  float64  `json:"semantic_preservation_score"`
	LossIndicators []string `json:"data_loss_indicators"`
	GainIndicators []string `json:"data_gain_indicators"`
}

// EffectivenessMetrics scores how completely the source was mapped.
type EffectivenessMetrics struct {
	MappingCompleteness float64 `json:"mapping_completeness"`
	EnrichmentScore     float64 `json:"data_enrichment_score"`
	FormatCompliance    float64 `json:"format_compliance"`
	SemanticAccuracy    float64 `json:"semantic_accuracy"`
	OverallScore        float64 `json:"overall_effectiveness_score"`
}

// ComplianceMetrics checks repository policy expectations.
type ComplianceMetrics struct {
	RequiredPresent    int     `json:"required_fields"`
	RequiredTotal      int     `json:"required_total"`
	RequiredPct        float64 `json:"required_percentage"`
	RecommendedPresent int     `json:"recommended_fields"`
	RecommendedTotal   int     `json:"recommended_total"`
	RecommendedPct     float64 `json:"recommended_percentage"`
	CommunityPresent   bool    `json:"community_present"`
	OpenAccess         bool    `json:"open_access_compliant"`
	LicenseRecognized  bool    `json:"license_compliant"`
	OverallScore       float64 `json:"overall_compliance_score"`
}

// QualityReport is the weighted quality assessment for one record.
type QualityReport struct {
	FieldCoverage CoverageMetrics      `json:"field_coverage"`
	DataQuality   QualityMetrics       `json:"data_quality"`
	Preservation  PreservationMetrics  `json:"data_preservation"`
	Effectiveness EffectivenessMetrics `json:"transformation_effectiveness"`
	Compliance    ComplianceMetrics    `json:"compliance"`
	OverallScore  float64              `json:"overall_score"`
}

// MigrationStatus enumerates pipeline milestones for a processed record.
type MigrationStatus string

const (
	StatusTransformed MigrationStatus = "transformed"
	StatusInvalid     MigrationStatus = "invalid"
	StatusUploaded    MigrationStatus = "uploaded"
	StatusFailed      MigrationStatus = "failed"
)

// ProcessedRecord is the persisted migration state for one source file.
type ProcessedRecord struct {
	SourceFile   string
	Title        string
	Valid        bool
	Score        float64
	Status       MigrationStatus
	DepositionID int64
}

// ScoreStats summarizes overall scores across a run.
type ScoreStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// RunSummary aggregates one batch run for reporting.
type RunSummary struct {
	TotalFiles     int            `json:"total_files"`
	Transformed    int            `json:"transformed"`
	Failed         int            `json:"failed"`
	Skipped        int            `json:"skipped"`
	ValidRecords   int            `json:"valid_records"`
	InvalidRecords int            `json:"invalid_records"`
	Uploaded       int            `json:"uploaded"`
	ValidationRate float64        `json:"validation_rate"`
	IssueTypes     map[string]int `json:"issue_types"`
	Scores         ScoreStats     `json:"scores"`
}
