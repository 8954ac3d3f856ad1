package engine

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"FgdcMigrator/internal/diag"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/fgdc"
	"FgdcMigrator/internal/schema"
)

var (
	andSplit  = regexp.MustCompile(`(?i)\s+and\s+`)
	reTextURL = regexp.MustCompile(`https?://[A-Za-z0-9$\-_@.&+!*(),%/:;=?#~]+`)
)

func (e *Engine) extractTitle(doc *fgdc.Document, c *diag.Collector) (string, error) {
	title := doc.Text(".//title")
	if title == "" {
		c.Error("idinfo.citation.citeinfo.title", "missing_required_field", "",
			"Non-empty title text", "Add title element to citation section")
		return "", &MissingFieldError{
			FieldPath:  "idinfo.citation.citeinfo.title",
			Expected:   "Non-empty title text",
			Suggestion: "Add title element to citation section",
		}
	}

	// Truncation counts characters, not bytes, so a multibyte rune never
	// gets cut in half.
	if runes := []rune(title); len(runes) > schema.TitleLimit {
		truncated := string(runes[:schema.TitleLimit-3]) + "..."
		c.Warn("idinfo.citation.citeinfo.title", "title_truncated",
			fmt.Sprintf("Title length: %d characters", len(runes)),
			fmt.Sprintf("Title under %d characters", schema.TitleLimit),
			fmt.Sprintf("Truncated from %d to %d characters", len(runes), schema.TitleLimit))
		return truncated, nil
	}

	return title, nil
}

func (e *Engine) extractCreators(doc *fgdc.Document, c *diag.Collector) ([]domain.Creator, error) {
	origins := doc.Texts(".//origin")
	if len(origins) == 0 {
		c.Error("idinfo.citation.citeinfo.origin", "missing_required_field", "",
			"At least one origin element", "Add origin element to citation section")
		return nil, &MissingFieldError{
			FieldPath:  "idinfo.citation.citeinfo.origin",
			Expected:   "At least one origin element",
			Suggestion: "Add origin element to citation section",
		}
	}

	var creators []domain.Creator
	for _, origin := range origins {
		// Organization check runs before the "and" split so names like
		// "National Oceanic and Atmospheric Administration" stay whole.
		if isOrganization(origin) {
			creators = append(creators, domain.Creator{Name: origin, Type: "Organization"})
			continue
		}
		if andSplit.MatchString(origin) {
			for _, part := range andSplit.Split(origin, -1) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				creators = append(creators, parseSingleCreator(part, c))
			}
			continue
		}
		creators = append(creators, parseCreatorName(origin, c))
	}

	if len(creators) == 0 {
		c.Error("idinfo.citation.citeinfo.origin", "no_valid_creators",
			"Empty or invalid origin text", "Valid creator names",
			"Ensure origin elements contain valid creator information")
		return nil, &MissingFieldError{
			FieldPath:  "idinfo.citation.citeinfo.origin",
			ValueFound: "Empty or invalid origin text",
			Expected:   "Valid creator names",
			Suggestion: "Ensure origin elements contain valid creator information",
		}
	}

	return creators, nil
}

// parseCreatorName handles one origin value: organizations pass through
// whole, person names are normalized to "Family, Given" form.
func parseCreatorName(text string, c *diag.Collector) domain.Creator {
	if isOrganization(text) {
		return domain.Creator{Name: text, Type: "Organization"}
	}
	return parseSingleCreator(text, c)
}

// parseSingleCreator recognizes the two personal name shapes. Unparseable
// names are kept as-is with a non-blocking diagnostic.
func parseSingleCreator(name string, c *diag.Collector) domain.Creator {
	if idx := strings.Index(name, ","); idx > 0 {
		family := strings.TrimSpace(name[:idx])
		given := strings.TrimSpace(name[idx+1:])
		if family != "" && given != "" {
			return domain.Creator{Name: family + ", " + given}
		}
	} else {
		words := strings.Fields(name)
		if len(words) >= 2 {
			family := words[len(words)-1]
			given := strings.Join(words[:len(words)-1], " ")
			return domain.Creator{Name: family + ", " + given}
		}
	}

	c.Warn("idinfo.citation.citeinfo.origin", "unparseable_creator_name",
		name, "Family, Given format or Organization",
		"Review name format or add organization detection")
	return domain.Creator{Name: name}
}

func isOrganization(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range schema.OrgKeywords {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

func (e *Engine) extractPublicationDate(doc *fgdc.Document, c *diag.Collector) (string, error) {
	if raw := doc.Text(".//pubdate"); raw != "" {
		if date, ok := e.NormalizeDate(raw, "idinfo.citation.citeinfo.pubdate", c); ok {
			return date, nil
		}
	}

	// Metadata date is the documented fallback when the citation has no
	// usable publication date.
	if raw := doc.Text(".//metd"); raw != "" {
		if date, ok := e.NormalizeDate(raw, "metainfo.metd", c); ok {
			c.Warn("idinfo.citation.citeinfo.pubdate", "missing_publication_date",
				raw, "Publication date in citation",
				"Using metadata date as fallback; add pubdate to citation section")
			return date, nil
		}
	}

	c.Error("idinfo.citation.citeinfo.pubdate", "missing_required_field", "",
		"Publication date (YYYY, YYYYMM, or YYYYMMDD)",
		"Add pubdate element to citation section")
	return "", &MissingFieldError{
		FieldPath:  "idinfo.citation.citeinfo.pubdate",
		Expected:   "Publication date (YYYY, YYYYMM, or YYYYMMDD)",
		Suggestion: "Add pubdate element to citation section",
	}
}

func (e *Engine) extractDescription(doc *fgdc.Document, title string, c *diag.Collector) (string, error) {
	if abstract := doc.Text(".//abstract"); abstract != "" {
		return abstract, nil
	}

	if purpose := doc.Text(".//purpose"); purpose != "" {
		c.Warn("idinfo.descript.abstract", "missing_required_field",
			"No abstract found", "Non-empty abstract text",
			"Using purpose as fallback description")
		return purpose, nil
	}

	if supplinf := doc.Text(".//supplinf"); supplinf != "" {
		c.Warn("idinfo.descript.abstract", "missing_required_field",
			"No abstract or purpose found", "Non-empty abstract text",
			"Using supplemental information as fallback description")
		return supplinf, nil
	}

	if title != "" {
		c.Warn("idinfo.descript.abstract", "missing_required_field",
			"No description found", "Non-empty abstract text",
			"Using title as minimal description")
		return "Dataset: " + title, nil
	}

	c.Error("idinfo.descript.abstract", "missing_required_field", "",
		"Non-empty abstract text", "Add abstract element to descript section")
	return "", &MissingFieldError{
		FieldPath:  "idinfo.descript.abstract",
		Expected:   "Non-empty abstract text",
		Suggestion: "Add abstract element to descript section",
	}
}

func (e *Engine) addOptionalFields(rec *domain.DepositionRecord, doc *fgdc.Document, c *diag.Collector) {
	rec.Keywords = extractKeywords(doc)
	rec.Subjects = extractSubjects(doc)

	e.applyAccessConstraints(rec, doc, c)

	rec.Contributors = extractContributors(doc, c)
	rec.RelatedIdentifiers = e.extractRelatedIdentifiers(doc)
	rec.References = extractReferences(doc)

	e.extractImprintFields(rec, doc, c)

	e.buildNotes(rec, doc, c)
}

// extractKeywords flattens theme, place, stratum and temporal keywords into
// one deduplicated list preserving document order.
func extractKeywords(doc *fgdc.Document) []string {
	keywords := []string{}
	seen := map[string]struct{}{}

	for _, path := range []string{".//themekey", ".//placekey", ".//stratumkey", ".//temporalkey"} {
		for _, kw := range doc.Texts(path) {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}

	return keywords
}

// extractSubjects emits controlled-vocabulary terms only when a named,
// non-generic thesaurus is declared for the keyword section.
func extractSubjects(doc *fgdc.Document) []domain.Subject {
	var subjects []domain.Subject

	for _, section := range doc.Elements(".//keywords") {
		thesaurus := fgdc.ElementText(section, ".//themekt")
		lower := strings.ToLower(thesaurus)
		if thesaurus == "" || lower == "other" || lower == "none" {
			continue
		}

		for _, key := range section.FindElements(".//themekey") {
			term := strings.TrimSpace(key.Text())
			if term == "" {
				continue
			}
			subjects = append(subjects, domain.Subject{
				Term:       term,
				Identifier: thesaurus + ":" + term,
				Scheme:     "thesaurus",
			})
		}
	}

	return subjects
}

func (e *Engine) applyAccessConstraints(rec *domain.DepositionRecord, doc *fgdc.Document, c *diag.Collector) {
	accconst := doc.Text(".//accconst")
	useconst := doc.Text(".//useconst")

	right, conditions := classifyAccess(accconst)
	rec.AccessRight = right
	rec.AccessConditions = conditions

	// Security classification can force restriction regardless of the
	// access-constraint phrasing.
	if secclass := doc.Text(".//secinfo/secclass"); secclass != "" {
		switch strings.ToLower(secclass) {
		case "restricted", "confidential", "secret":
			rec.AccessRight = "restricted"
			if rec.AccessConditions == "" {
				rec.AccessConditions = "Security classification: " + secclass
			}
			if handling := doc.Text(".//secinfo/sechandl"); handling != "" {
				rec.AccessConditions += "; Handling: " + handling
			}
		}
	}

	if id, ok := detectLicense(useconst, "idinfo.useconst", c); ok {
		rec.License = id
	} else if rec.AccessRight == "open" || rec.AccessRight == "embargoed" {
		rec.License = schema.DefaultLicense
	} else {
		rec.License = ""
	}
}

func extractContributors(doc *fgdc.Document, c *diag.Collector) []domain.Contributor {
	contributors := []domain.Contributor{}

	if contact := contributorFrom(doc.Element(".//ptcontac"), "ContactPerson", c); contact != nil {
		contributors = append(contributors, *contact)
	}
	if distrib := contributorFrom(doc.Element(".//distrib"), "Distributor", c); distrib != nil {
		contributors = append(contributors, *distrib)
	}

	return contributors
}

// contributorFrom maps a contact section to a contributor. Sections without
// a person name yield nothing; the name is normalized like a creator name.
func contributorFrom(section *etree.Element, role string, c *diag.Collector) *domain.Contributor {
	if section == nil {
		return nil
	}
	cntinfo := section.FindElement(".//cntinfo")
	if cntinfo == nil {
		return nil
	}
	name := fgdc.ElementText(cntinfo, ".//cntper")
	if name == "" {
		return nil
	}
	parsed := parseSingleCreator(name, c)
	return &domain.Contributor{Name: parsed.Name, Type: role}
}

func (e *Engine) extractRelatedIdentifiers(doc *fgdc.Document) []domain.RelatedIdentifier {
	ids := []domain.RelatedIdentifier{}

	for _, link := range doc.Texts(".//onlink") {
		if isValidURL(link) {
			ids = append(ids, domain.RelatedIdentifier{
				Identifier: link,
				Relation:   "isAlternateIdentifier",
			})
		}
	}

	for _, ref := range doc.Texts(".//crossref") {
		for _, link := range reTextURL.FindAllString(ref, -1) {
			ids = append(ids, domain.RelatedIdentifier{
				Identifier: link,
				Relation:   "isRelatedTo",
			})
		}
	}

	if lworkcit := doc.Text(".//lworkcit"); lworkcit != "" {
		ids = append(ids, domain.RelatedIdentifier{Identifier: lworkcit, Relation: "isPartOf"})
	}

	for _, browse := range doc.Elements(".//browse") {
		if graphic := fgdc.ElementText(browse, "browsed"); graphic != "" {
			ids = append(ids, domain.RelatedIdentifier{Identifier: graphic, Relation: "isDocumentedBy"})
		}
	}

	if eadetcit := doc.Text(".//eainfo/overview/eadetcit"); eadetcit != "" {
		ids = append(ids, domain.RelatedIdentifier{Identifier: eadetcit, Relation: "isDocumentedBy"})
	}

	if networkr := doc.Text(".//stdorder//networkr"); networkr != "" {
		ids = append(ids, domain.RelatedIdentifier{Identifier: networkr, Relation: "isSupplementedBy"})
	}

	return ids
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// extractReferences gathers free-text citations: other citation details, the
// larger-work citation, and lineage source citations. Each appears once.
func extractReferences(doc *fgdc.Document) []string {
	refs := []string{}

	if othercit := doc.Text(".//othercit"); othercit != "" {
		refs = append(refs, othercit)
	}
	if lworkcit := doc.Text(".//lworkcit"); lworkcit != "" {
		refs = append(refs, lworkcit)
	}
	for _, src := range doc.Elements(".//lineage//srcinfo") {
		if cite := fgdc.ElementText(src, ".//srccite"); cite != "" {
			refs = append(refs, "Source: "+cite)
		}
	}

	return refs
}

// extractImprintFields maps the citation extras: edition to version, series
// name to part-of title, issue and publication place to the imprint block.
// A source publisher that differs from the canonical one is preserved as the
// imprint publisher with a diagnostic; the top-level publisher is never
// overridden.
func (e *Engine) extractImprintFields(rec *domain.DepositionRecord, doc *fgdc.Document, c *diag.Collector) {
	if edition := doc.Text(".//edition"); edition != "" {
		rec.Version = edition
	}
	if sername := doc.Text(".//sername"); sername != "" {
		rec.PartOfTitle = sername
	}
	if issue := doc.Text(".//issue"); issue != "" {
		rec.JournalIssue = issue
	}
	if pubplace := doc.Text(".//pubplace"); pubplace != "" {
		rec.ImprintPlace = pubplace
	}
	if publish := doc.Text(".//publish"); publish != "" {
		rec.ImprintPublisher = publish
		if publish != domain.CanonicalPublisher {
			c.Warn("idinfo.citation.citeinfo.pubinfo.publish", "publisher_overridden",
				publish, domain.CanonicalPublisher,
				"Source publisher preserved as imprint publisher")
		}
	}
}

// parseBoundingBox reads the spatial domain. Longitudes outside the -180..180
// range are wrapped before deciding whether the box crosses the antimeridian;
// a crossing box is kept unsplit and flagged. The second return is false when
// the section is absent or incomplete.
func parseBoundingBox(doc *fgdc.Document, c *diag.Collector) (*domain.BoundingBox, bool) {
	bounding := doc.Element(".//spdom/bounding")
	if bounding == nil {
		return nil, false
	}

	texts := make([]string, 4)
	for i, tag := range []string{".//westbc", ".//eastbc", ".//northbc", ".//southbc"} {
		texts[i] = fgdc.ElementText(bounding, tag)
		if texts[i] == "" {
			return nil, false
		}
	}

	vals := make([]float64, 4)
	for i, t := range texts {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			c.Error("spdom.bounding", "invalid_coordinates",
				fmt.Sprintf("Could not parse coordinates: %v", err),
				"Valid numeric coordinates", "Check coordinate format and values")
			return nil, false
		}
		vals[i] = v
	}

	box := domain.BoundingBox{West: vals[0], East: vals[1], North: vals[2], South: vals[3]}
	box.West = wrapLongitude(box.West)
	box.East = wrapLongitude(box.East)

	if box.West > box.East {
		box.CrossesAntimeridian = true
		c.Warn("spdom.bounding", "dateline_crossing",
			fmt.Sprintf("west=%g, east=%g", box.West, box.East), "west < east",
			"Bounding box crosses the antimeridian and is kept unsplit")
	}

	return &box, true
}

// wrapLongitude shifts out-of-range longitudes into [-180, 180].
func wrapLongitude(v float64) float64 {
	for v > 180 {
		v -= 360
	}
	for v < -180 {
		v += 360
	}
	return v
}
