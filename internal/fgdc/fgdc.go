// Package fgdc wraps a parsed FGDC XML document and provides the path-based
// accessors the crosswalk works in terms of. Parsing happens at the caller
// boundary; the wrapper itself never touches the filesystem or network.
package fgdc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// meaningfulPaths are the source elements whose text counts as data content
// when measuring preservation, as opposed to structural markup.
var meaningfulPaths = []string{
	".//title", ".//origin", ".//pubdate", ".//abstract", ".//purpose",
	".//supplinf", ".//themekey", ".//placekey", ".//accconst", ".//useconst",
}

// Document is a parsed FGDC metadata record.
type Document struct {
	root    *etree.Element
	rawSize int
}

// Parse builds a Document from raw XML bytes.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse fgdc xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse fgdc xml: document has no root element")
	}
	return &Document{root: root, rawSize: len(data)}, nil
}

// RawSize returns the byte length of the source document.
func (d *Document) RawSize() int {
	return d.rawSize
}

// Element returns the first element matched by path, or nil.
func (d *Document) Element(path string) *etree.Element {
	return d.root.FindElement(path)
}

// Elements returns every element matched by path in document order.
func (d *Document) Elements(path string) []*etree.Element {
	return d.root.FindElements(path)
}

// Text returns the trimmed text of the first element matched by path, or "".
func (d *Document) Text(path string) string {
	return ElementText(d.root, path)
}

// Texts returns the trimmed non-empty texts of every element matched by path.
func (d *Document) Texts(path string) []string {
	var out []string
	for _, e := range d.root.FindElements(path) {
		if t := strings.TrimSpace(e.Text()); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ElementText returns the trimmed text of the first descendant of e matched
// by path, or "" when absent.
func ElementText(e *etree.Element, path string) string {
	if e == nil {
		return ""
	}
	found := e.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// MeaningfulStats counts data-content characters and populated fields across
// the elements considered meaningful for preservation scoring.
func (d *Document) MeaningfulStats() (chars, fields int) {
	for _, path := range meaningfulPaths {
		for _, e := range d.root.FindElements(path) {
			if t := strings.TrimSpace(e.Text()); t != "" {
				chars += len(t)
				fields++
			}
		}
	}
	return chars, fields
}

// PopulatedTags returns the tag of every element carrying non-empty text, in
// document order. Used to judge mapping completeness against the source.
func (d *Document) PopulatedTags() []string {
	var tags []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if strings.TrimSpace(e.Text()) != "" {
			tags = append(tags, e.Tag)
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(d.root)
	return tags
}

// ElementCount returns the total number of elements in the document.
func (d *Document) ElementCount() int {
	count := 0
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		count++
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(d.root)
	return count
}
