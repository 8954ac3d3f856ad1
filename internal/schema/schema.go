// Package schema is the single source of truth for the target deposit
// schema: closed enumerations, per-field limits, priority weights and the
// license registry. The extractor, validator and quality scorer all read
// from these tables instead of carrying their own copies.
package schema

import "regexp"

// TitleLimit is the hard title length cap; longer titles are truncated to
// TitleLimit-3 characters plus an ellipsis by the extractor.
const TitleLimit = 250

// DefaultLicense is substituted when access is open or embargoed and no
// license pattern matches.
const DefaultLicense = "cc-zero"

// DefaultUploadType is the category every migrated record is filed under.
const DefaultUploadType = "dataset"

// RequiredFields must be present and non-empty for a record to validate.
var RequiredFields = []string{
	"title", "upload_type", "publication_date", "creators", "description", "access_right",
}

// RecommendedFields feed the compliance score alongside the required set.
var RecommendedFields = []string{
	"keywords", "license", "access_right", "communities", "notes", "related_identifiers",
}

// AllFields is the full deposit-schema field set tracked for coverage.
var AllFields = []string{
	"title", "upload_type", "publication_date", "creators", "description", "access_right",
	"license", "communities", "keywords", "notes", "related_identifiers", "contributors",
	"references", "subjects", "access_conditions", "version", "publisher",
	"imprint_publisher", "imprint_place", "partof_title", "journal_issue",
}

// UploadTypes is the closed category enumeration.
var UploadTypes = []string{
	"publication", "poster", "presentation", "dataset", "image",
	"video", "software", "lesson", "physicalobject", "other",
}

// AccessRights is the closed access-right enumeration. The classifier only
// produces open and restricted; embargoed and closed are structurally valid.
var AccessRights = []string{"open", "embargoed", "restricted", "closed"}

// RelationTypes is the closed enumeration for related-identifier relations.
var RelationTypes = []string{
	"isCitedBy", "cites", "isSupplementTo", "isSupplementedBy",
	"isContinuedBy", "continues", "isDescribedBy", "describes",
	"hasMetadata", "isMetadataFor", "isNewVersionOf", "isPreviousVersionOf",
	"isPartOf", "hasPart", "isReferencedBy", "references",
	"isDocumentedBy", "documents", "isCompiledBy", "compiles",
	"isVariantFormOf", "isOriginalFormof", "isIdenticalTo",
	"isAlternateIdentifier", "isReviewedBy", "reviews",
	"isDerivedFrom", "isSourceOf", "requires", "isRequiredBy",
	"isObsoletedBy", "obsoletes", "isRelatedTo",
}

// ContributorTypes is the closed enumeration for contributor roles.
var ContributorTypes = []string{
	"ContactPerson", "DataCollector", "DataCurator", "DataManager",
	"Distributor", "Editor", "HostingInstitution", "Producer",
	"ProjectLeader", "ProjectManager", "ProjectMember",
	"RegistrationAgency", "RegistrationAuthority", "RelatedPerson",
	"Researcher", "ResearchGroup", "RightsHolder", "Supervisor",
	"Sponsor", "WorkPackageLeader", "Other",
}

// CreatorFields lists the sub-keys a creator entry may carry; name is
// mandatory, the rest are optional.
var CreatorFields = []string{"name", "affiliation", "orcid", "gnd", "type"}

// FieldLimits caps text-field lengths in characters.
var FieldLimits = map[string]int{
	"title":             250,
	"description":       10000,
	"notes":             20000,
	"access_conditions": 20000,
	"version":           50,
	"license":           50,
	"publisher":         250,
	"imprint_publisher": 250,
	"imprint_place":     250,
	"partof_title":      250,
	"journal_issue":     50,
}

// ArrayLimits caps array-field cardinalities.
var ArrayLimits = map[string]int{
	"creators":            1000,
	"contributors":        1000,
	"keywords":            100,
	"related_identifiers": 100,
	"references":          1000,
	"subjects":            100,
	"communities":         10,
}

// FieldWeights assigns fixed point values to fields by priority tier for the
// weighted coverage score.
var FieldWeights = struct {
	Critical  map[string]int
	Important map[string]int
	Optional  map[string]int
}{
	Critical: map[string]int{
		"title":            20,
		"creators":         20,
		"publication_date": 15,
		"description":      15,
	},
	Important: map[string]int{
		"keywords":     10,
		"access_right": 8,
		"license":      7,
		"communities":  5,
	},
	Optional: map[string]int{
		"notes":               3,
		"related_identifiers": 2,
		"contributors":        2,
		"references":          1,
		"version":             1,
		"imprint_publisher":   1,
	},
}

// GradeThresholds maps mean facet scores to letter grades, checked in order.
var GradeThresholds = []struct {
	Grade     string
	Threshold float64
}{
	{"EXCELLENT", 90},
	{"GOOD", 75},
	{"FAIR", 60},
	{"POOR", 0},
}

// RecognizedLicenses are the ids counted as policy-compliant by the scorer.
var RecognizedLicenses = []string{
	"cc-zero", "cc-by-4.0", "cc-by-sa-4.0", "mit", "apache-2.0", "gpl-3.0",
}

// LicensePattern maps a license id to the regex alternatives that detect it
// in free-text use constraints. Order matters: first match wins.
type LicensePattern struct {
	ID       string
	Patterns []*regexp.Regexp
}

// LicenseRegistry is the fixed license detection registry. The classifier
// never emits an id outside this table (plus DefaultLicense).
var LicenseRegistry = []LicensePattern{
	{"cc-zero", compileAll(`cc.?zero`, `public.?domain`, `no.?rights.?reserved`)},
	{"cc-by-4.0", compileAll(`cc.?by.?4`, `creative.?commons.?attribution`, `cc.?by`)},
	{"cc-by-sa-4.0", compileAll(`cc.?by.?sa.?4`, `creative.?commons.?sharealike`, `cc.?by.?sa`)},
	{"mit", compileAll(`mit.?license`, `massachusetts.?institute.?of.?technology`)},
	{"apache-2.0", compileAll(`apache.?2`, `apache.?license`)},
	{"gpl-3.0", compileAll(`gpl.?3`, `gnu.?general.?public.?license.?3`)},
	{"open", compileAll(`open.?access`, `freely.?available`, `no.?restrictions`)},
}

// OrgKeywords detect organization names among creator strings via
// case-insensitive substring patterns.
var OrgKeywords = compileAll(
	`noaa`, `national.?oceanic`, `university.?of`, `institute`,
	`center`, `lab`, `department`, `ministry`, `agency`,
	`corporation`, `inc\.`, `ltd\.`, `corp\.`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// InSet reports whether value belongs to a closed enumeration.
func InSet(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
