package domain

// CanonicalPublisher is forced onto every migrated record; the source value,
// when different, is preserved under ImprintPublisher.
const CanonicalPublisher = "North Pacific Marine Science Organization"

// CommunityID is always injected so records surface in the target community.
const CommunityID = "pices"

// Creator is a dataset author in "Family, Given" form, or an organization.
type Creator struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Contributor is a secondary party extracted from contact roles.
type Contributor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Affiliation string `json:"affiliation,omitempty"`
}

// RelatedIdentifier links the record to an external resource.
type RelatedIdentifier struct {
	Identifier string `json:"identifier"`
	Relation   string `json:"relation"`
}

// Subject is a controlled-vocabulary term with its thesaurus provenance.
type Subject struct {
	Term       string `json:"term"`
	Identifier string `json:"identifier"`
	Scheme     string `json:"scheme"`
}

// Community identifies a repository community the record belongs to.
type Community struct {
	Identifier string `json:"identifier"`
}

// BoundingBox is the parsed spatial extent. Crossing boxes are kept unsplit.
type BoundingBox struct {
	West, East, North, South float64
	CrossesAntimeridian      bool
}

// DepositionRecord is the candidate target-schema record built by the
// crosswalk. Once construction succeeds, title, creators, publication date
// and description are guaranteed non-empty; construction fails entirely
// otherwise.
type DepositionRecord struct {
	Title            string `json:"title"`
	UploadType       string `json:"upload_type"`
	PublicationDate  string `json:"publication_date"`
	Description      string `json:"description"`
	AccessRight      string `json:"access_right"`
	AccessConditions string `json:"access_conditions,omitempty"`
	License          string `json:"license,omitempty"`
	Publisher        string `json:"publisher"`
	ImprintPublisher string `json:"imprint_publisher,omitempty"`
	ImprintPlace     string `json:"imprint_place,omitempty"`
	Version          string `json:"version,omitempty"`
	PartOfTitle      string `json:"partof_title,omitempty"`
	JournalIssue     string `json:"journal_issue,omitempty"`
	Notes            string `json:"notes,omitempty"`

	Creators           []Creator           `json:"creators"`
	Keywords           []string            `json:"keywords"`
	Subjects           []Subject           `json:"subjects,omitempty"`
	Contributors       []Contributor       `json:"contributors"`
	RelatedIdentifiers []RelatedIdentifier `json:"related_identifiers"`
	References         []string            `json:"references"`
	Communities        []Community         `json:"communities"`
}

// Fields exposes the record as a name-to-value mapping so the validator and
// scorer can share one presence/length view with the limits tables.
func (r *DepositionRecord) Fields() map[string]any {
	return map[string]any{
		"title":               r.Title,
		"upload_type":         r.UploadType,
		"publication_date":    r.PublicationDate,
		"description":         r.Description,
		"access_right":        r.AccessRight,
		"access_conditions":   r.AccessConditions,
		"license":             r.License,
		"publisher":           r.Publisher,
		"imprint_publisher":   r.ImprintPublisher,
		"imprint_place":       r.ImprintPlace,
		"version":             r.Version,
		"partof_title":        r.PartOfTitle,
		"journal_issue":       r.JournalIssue,
		"notes":               r.Notes,
		"creators":            r.Creators,
		"keywords":            r.Keywords,
		"subjects":            r.Subjects,
		"contributors":        r.Contributors,
		"related_identifiers": r.RelatedIdentifiers,
		"references":          r.References,
		"communities":         r.Communities,
	}
}

// FieldPresent reports whether a named field carries a non-empty value.
func (r *DepositionRecord) FieldPresent(name string) bool {
	value, ok := r.Fields()[name]
	if !ok {
		return false
	}
	return ValuePresent(value)
}

// ValuePresent reports whether a field value is non-empty.
func ValuePresent(value any) bool {
	switch v := value.(type) {
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case []Creator:
		return len(v) > 0
	case []Contributor:
		return len(v) > 0
	case []RelatedIdentifier:
		return len(v) > 0
	case []Subject:
		return len(v) > 0
	case []Community:
		return len(v) > 0
	default:
		return value != nil
	}
}

// ValueChars counts the meaningful text content of a field value, excluding
// structural syntax.
func ValueChars(value any) int {
	total := 0
	switch v := value.(type) {
	case string:
		total = len(v)
	case []string:
		for _, s := range v {
			total += len(s)
		}
	case []Creator:
		for _, c := range v {
			total += len(c.Name) + len(c.Affiliation)
		}
	case []Contributor:
		for _, c := range v {
			total += len(c.Name) + len(c.Affiliation)
		}
	case []RelatedIdentifier:
		for _, id := range v {
			total += len(id.Identifier)
		}
	case []Subject:
		for _, s := range v {
			total += len(s.Term) + len(s.Identifier)
		}
	case []Community:
		for _, c := range v {
			total += len(c.Identifier)
		}
	}
	return total
}

// MeaningfulChars sums the text content across every record field.
func (r *DepositionRecord) MeaningfulChars() int {
	total := 0
	for _, value := range r.Fields() {
		total += ValueChars(value)
	}
	return total
}

// MappedFields counts fields carrying a non-empty value.
func (r *DepositionRecord) MappedFields() int {
	count := 0
	for _, value := range r.Fields() {
		if ValuePresent(value) {
			count++
		}
	}
	return count
}
