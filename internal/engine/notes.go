package engine

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"FgdcMigrator/internal/diag"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/fgdc"
)

// buildNotes assembles the notes annex: every source detail that has no
// first-class target field, in a fixed block order so two runs over the same
// document produce identical output. Blocks for absent sections are skipped
// entirely, never emitted empty.
func (e *Engine) buildNotes(rec *domain.DepositionRecord, doc *fgdc.Document, c *diag.Collector) {
	var blocks []string

	add := func(block string) {
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	addLabeled := func(label, path string) {
		if text := doc.Text(path); text != "" {
			add(label + ": " + text)
		}
	}

	addLabeled("Purpose", ".//purpose")
	addLabeled("Supplemental Information", ".//supplinf")
	addLabeled("Status", ".//progress")
	addLabeled("Maintenance frequency", ".//update")
	addLabeled("Access constraints", ".//accconst")
	addLabeled("Use constraints", ".//useconst")

	add(e.temporalBlock(doc, c))
	add(spatialBlock(doc, c))

	addLabeled("Native data set environment", ".//native")
	addLabeled("Cloud cover", ".//cloudcov")

	add(dataQualityBlock(doc))
	add(spatialReferenceBlock(doc))
	add(entityAttributeBlock(doc))
	add(distributionBlock(rec, doc))
	add(metadataInfoBlock(doc))

	rec.Notes = strings.Join(blocks, "\n\n")
}

// temporalBlock summarizes the time period of content. Range and single
// dates reuse the date normalizer, so every reduction is reported the same
// way as a publication date would be.
func (e *Engine) temporalBlock(doc *fgdc.Document, c *diag.Collector) string {
	timeperd := doc.Element(".//timeperd")
	if timeperd == nil {
		return ""
	}

	var lines []string

	if current := fgdc.ElementText(timeperd, ".//current"); current != "" {
		lines = append(lines, "Currentness: "+current)
	}

	if rngdates := timeperd.FindElement(".//rngdates"); rngdates != nil {
		if raw := fgdc.ElementText(rngdates, ".//begdate"); raw != "" {
			if beg, ok := e.NormalizeDate(raw, "idinfo.timeperd.rngdates.begdate", c); ok {
				line := "Temporal coverage: " + beg + " onwards"
				if rawEnd := fgdc.ElementText(rngdates, ".//enddate"); rawEnd != "" {
					if end, ok := e.NormalizeDate(rawEnd, "idinfo.timeperd.rngdates.enddate", c); ok {
						line = "Temporal coverage: " + beg + " to " + end
					}
				}
				lines = append(lines, line)
			}
		}
	}

	if raw := fgdc.ElementText(timeperd, ".//sngdate/caldate"); raw != "" {
		if date, ok := e.NormalizeDate(raw, "idinfo.timeperd.sngdate.caldate", c); ok {
			lines = append(lines, "Temporal coverage: "+date)
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return "Temporal Information:\n" + strings.Join(lines, "\n")
}

func spatialBlock(doc *fgdc.Document, c *diag.Collector) string {
	box, ok := parseBoundingBox(doc, c)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("Spatial coverage: W%g, E%g, N%g, S%g", box.West, box.East, box.North, box.South)
	if box.CrossesAntimeridian {
		line += " (crosses dateline)"
	}
	return line
}

func dataQualityBlock(doc *fgdc.Document) string {
	dataqual := doc.Element(".//dataqual")
	if dataqual == nil {
		return ""
	}

	var lines []string

	labeled := []struct{ label, path string }{
		{"Data quality - Attribute accuracy", ".//attraccr"},
		{"Data quality - Logical consistency", ".//logic"},
		{"Data quality - Completeness", ".//complete"},
		{"Data quality - Horizontal positional accuracy", ".//posacc//horizpa"},
		{"Data quality - Vertical positional accuracy", ".//posacc//vertacc"},
	}
	for _, entry := range labeled {
		if text := fgdc.ElementText(dataqual, entry.path); text != "" {
			lines = append(lines, entry.label+": "+text)
		}
	}

	if lineage := dataqual.FindElement(".//lineage"); lineage != nil {
		procsteps := lineage.FindElements(".//procstep")
		if len(procsteps) > 0 {
			var steps []string
			for i, step := range procsteps {
				if desc := fgdc.ElementText(step, ".//procdesc"); desc != "" {
					steps = append(steps, fmt.Sprintf("  %d. %s", i+1, desc))
				}
			}
			if len(steps) > 0 {
				lines = append(lines, "Lineage - Process steps:")
				lines = append(lines, steps...)
			}
		}
	}

	return joinLines(lines)
}

func spatialReferenceBlock(doc *fgdc.Document) string {
	var lines []string

	if spdoinfo := doc.Element(".//spdoinfo"); spdoinfo != nil {
		if indspref := fgdc.ElementText(spdoinfo, ".//indspref"); indspref != "" {
			lines = append(lines, "Spatial reference: "+indspref)
		} else if direct := fgdc.ElementText(spdoinfo, ".//direct"); direct != "" {
			lines = append(lines, "Spatial reference: "+direct)
		}
		if rasttype := fgdc.ElementText(spdoinfo, ".//rastinfo//rasttype"); rasttype != "" {
			lines = append(lines, "Raster type: "+rasttype)
		} else if sdtsterm := fgdc.ElementText(spdoinfo, ".//ptvctinf//sdtsterm"); sdtsterm != "" {
			lines = append(lines, "Vector type: "+sdtsterm)
		}
	}

	if mapprojn := doc.Text(".//horizsys//mapproj//mapprojn"); mapprojn != "" {
		lines = append(lines, "Map projection: "+mapprojn)
	}
	if geogunit := doc.Text(".//horizsys//geograph//geogunit"); geogunit != "" {
		lines = append(lines, "Geographic units: "+geogunit)
	}

	if geodetic := doc.Element(".//geodetic"); geodetic != nil {
		if horizdn := fgdc.ElementText(geodetic, ".//horizdn"); horizdn != "" {
			lines = append(lines, "Horizontal datum: "+horizdn)
		}
		if semiaxis := fgdc.ElementText(geodetic, ".//ellips//semiaxis"); semiaxis != "" {
			lines = append(lines, "Ellipsoid semi-major axis: "+semiaxis)
		}
	}

	if vertdef := doc.Element(".//vertdef"); vertdef != nil {
		if altdatum := fgdc.ElementText(vertdef, ".//altsys//altdatum"); altdatum != "" {
			lines = append(lines, "Vertical datum: "+altdatum)
		}
		if depthdatum := fgdc.ElementText(vertdef, ".//depthsys//depthdatum"); depthdatum != "" {
			lines = append(lines, "Depth datum: "+depthdatum)
		}
	}

	return joinLines(lines)
}

// entityAttributeBlock renders the data dictionary: entities, their
// attributes, and attribute domains, indented by nesting depth.
func entityAttributeBlock(doc *fgdc.Document) string {
	eainfo := doc.Element(".//eainfo")
	if eainfo == nil {
		return ""
	}

	var lines []string

	if eaover := fgdc.ElementText(eainfo, ".//overview/eaover"); eaover != "" {
		lines = append(lines, "Entity and attribute overview: "+eaover)
	}

	if detailed := eainfo.FindElement(".//detailed"); detailed != nil {
		lines = append(lines, "Data dictionary:")
		for _, enttyp := range detailed.FindElements(".//enttyp") {
			if name := fgdc.ElementText(enttyp, ".//enttypl"); name != "" {
				def := fgdc.ElementText(enttyp, ".//enttypd")
				if def == "" {
					def = "No definition"
				}
				lines = append(lines, "  Entity: "+name+" - "+def)
			}
			for _, attr := range enttyp.FindElements(".//attr") {
				name := fgdc.ElementText(attr, ".//attrlabl")
				if name == "" {
					continue
				}
				def := fgdc.ElementText(attr, ".//attrdef")
				if def == "" {
					def = "No definition"
				}
				lines = append(lines, "    Attribute: "+name+" - "+def)
				lines = append(lines, attributeDomainLines(attr)...)
			}
		}
	}

	return joinLines(lines)
}

func attributeDomainLines(attr *etree.Element) []string {
	attrdomv := attr.FindElement(".//attrdomv")
	if attrdomv == nil {
		return nil
	}

	if edom := attrdomv.FindElement(".//edom"); edom != nil {
		if value := fgdc.ElementText(edom, ".//edomv"); value != "" {
			def := fgdc.ElementText(edom, ".//edomvd")
			return []string{"      Enumerated value: " + value + " - " + def}
		}
		return nil
	}

	if rdom := attrdomv.FindElement(".//rdom"); rdom != nil {
		min := fgdc.ElementText(rdom, ".//rdommin")
		max := fgdc.ElementText(rdom, ".//rdommax")
		if min != "" && max != "" {
			return []string{"      Range: " + min + " to " + max}
		}
		return nil
	}

	if name := fgdc.ElementText(attrdomv, ".//codesetd//codesetn"); name != "" {
		return []string{"      Code set: " + name}
	}
	return nil
}

// distributionBlock renders ordering and format details. Fees move into the
// access conditions instead of the notes when the record is restricted.
func distributionBlock(rec *domain.DepositionRecord, doc *fgdc.Document) string {
	distinfo := doc.Element(".//distinfo")
	if distinfo == nil {
		return ""
	}

	var lines []string

	if distliab := fgdc.ElementText(distinfo, ".//distliab"); distliab != "" {
		lines = append(lines, "Distribution liability: "+distliab)
	}

	if stdorder := distinfo.FindElement(".//stdorder"); stdorder != nil {
		if nondig := fgdc.ElementText(stdorder, ".//nondig"); nondig != "" {
			lines = append(lines, "Non-digital ordering: "+nondig)
		}

		if digtinfo := stdorder.FindElement(".//digform//digtinfo"); digtinfo != nil {
			var format []string
			for _, entry := range []struct{ label, path string }{
				{"Format", ".//formname"},
				{"Version", ".//formvern"},
				{"Specification", ".//formspec"},
				{"Content", ".//formcont"},
				{"Size", ".//transize"},
			} {
				if text := fgdc.ElementText(digtinfo, entry.path); text != "" {
					format = append(format, entry.label+": "+text)
				}
			}
			if len(format) > 0 {
				lines = append(lines, "Distribution format: "+strings.Join(format, "; "))
			}
		}

		if offoptn := fgdc.ElementText(stdorder, ".//offoptn"); offoptn != "" {
			lines = append(lines, "Offline distribution: "+offoptn)
		}

		if fees := fgdc.ElementText(stdorder, ".//fees"); fees != "" {
			if rec.AccessRight == "restricted" {
				rec.AccessConditions = strings.TrimSpace(rec.AccessConditions + " Fees: " + fees)
			} else {
				lines = append(lines, "Fees: "+fees)
			}
		}

		if ordinst := fgdc.ElementText(stdorder, ".//ordinst"); ordinst != "" {
			lines = append(lines, "Ordering instructions: "+ordinst)
		}
		if turnaround := fgdc.ElementText(stdorder, ".//turnaround"); turnaround != "" {
			lines = append(lines, "Turnaround: "+turnaround)
		}
	}

	return joinLines(lines)
}

// metadataInfoBlock describes the source metadata record itself. Constraint
// texts duplicating the dataset-level constraints are suppressed.
func metadataInfoBlock(doc *fgdc.Document) string {
	metainfo := doc.Element(".//metainfo")
	if metainfo == nil {
		return ""
	}

	var lines []string

	if metd := fgdc.ElementText(metainfo, ".//metd"); metd != "" {
		lines = append(lines, "FGDC metadata date: "+metd)
	}
	if contact := fgdc.ElementText(metainfo, ".//metc//cntperp//cntper"); contact != "" {
		lines = append(lines, "FGDC metadata contact: "+contact)
	}
	if metstdn := fgdc.ElementText(metainfo, ".//metstdn"); metstdn != "" {
		line := "FGDC metadata standard: " + metstdn
		if metstdv := fgdc.ElementText(metainfo, ".//metstdv"); metstdv != "" {
			line += " (version: " + metstdv + ")"
		}
		lines = append(lines, line)
	}
	if metac := fgdc.ElementText(metainfo, ".//metac"); metac != "" && metac != doc.Text(".//accconst") {
		lines = append(lines, "FGDC metadata access constraints: "+metac)
	}
	if metuc := fgdc.ElementText(metainfo, ".//metuc"); metuc != "" && metuc != doc.Text(".//useconst") {
		lines = append(lines, "FGDC metadata use constraints: "+metuc)
	}

	return joinLines(lines)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}
