// Package ooxml assembles the minimal OOXML containers docpipe emits: a
// word-processor package and a spreadsheet package. Parts are built as an
// in-memory path→bytes tree and handed to an ArchiveWriter; nothing here
// touches the file system. Relationship IDs are issued sequentially and
// threaded through the part builders, so the closure invariant (every r:id
// in a body has a matching .rels entry, every extension a content type)
// holds by construction.
package ooxml

import (
	"fmt"
	"sort"
	"strings"
)

// Package is an ordered mapping from archive-relative path to part content.
type Package struct {
	entries map[string][]byte
	order   []string
}

// NewPackage creates an empty package tree.
func NewPackage() *Package {
	return &Package{entries: make(map[string][]byte)}
}

// Add stores a part, replacing any previous content at the same path.
func (p *Package) Add(path string, data []byte) {
	if _, dup := p.entries[path]; !dup {
		p.order = append(p.order, path)
	}
	p.entries[path] = data
}

// AddString stores a textual part.
func (p *Package) AddString(path, content string) {
	p.Add(path, []byte(content))
}

// Get returns a part's content.
func (p *Package) Get(path string) ([]byte, bool) {
	data, ok := p.entries[path]
	return data, ok
}

// Paths lists entry paths in insertion order.
func (p *Package) Paths() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Extensions returns the distinct file extensions present, sorted, without
// dots. Used to verify content-type coverage.
func (p *Package) Extensions() []string {
	seen := make(map[string]bool)
	for _, path := range p.order {
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			seen[strings.ToLower(path[i+1:])] = true
		}
	}
	exts := make([]string, 0, len(seen))
	for e := range seen {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// ContentTypes builds [Content_Types].xml: one Default per extension in
// use, one Override per named part.
type ContentTypes struct {
	defaultExts  []string
	defaultTypes map[string]string
	overrides    []override
}

type override struct {
	part, contentType string
}

// NewContentTypes creates an empty declaration set.
func NewContentTypes() *ContentTypes {
	return &ContentTypes{defaultTypes: make(map[string]string)}
}

// Default declares the content type for a file extension (without dot).
func (ct *ContentTypes) Default(ext, contentType string) {
	ext = strings.ToLower(ext)
	if _, dup := ct.defaultTypes[ext]; !dup {
		ct.defaultExts = append(ct.defaultExts, ext)
	}
	ct.defaultTypes[ext] = contentType
}

// Override declares the content type of one named part. The part name must
// start with '/'.
func (ct *ContentTypes) Override(part, contentType string) {
	ct.overrides = append(ct.overrides, override{part, contentType})
}

// Covers reports whether ext has a Default entry.
func (ct *ContentTypes) Covers(ext string) bool {
	_, ok := ct.defaultTypes[strings.ToLower(ext)]
	return ok
}

// XML renders the part.
func (ct *ContentTypes) XML() string {
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString("\n")
	for _, ext := range ct.defaultExts {
		fmt.Fprintf(&sb, `  <Default Extension="%s" ContentType="%s"/>`+"\n", ext, ct.defaultTypes[ext])
	}
	for _, ov := range ct.overrides {
		fmt.Fprintf(&sb, `  <Override PartName="%s" ContentType="%s"/>`+"\n", ov.part, ov.contentType)
	}
	sb.WriteString("</Types>")
	return sb.String()
}

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// Relationships issues sequential rIds for one owning part.
type Relationships struct {
	rels []Relationship
}

// NewRelationships creates an empty set; the first Add returns "rId1".
func NewRelationships() *Relationships {
	return &Relationships{}
}

// Add registers a relationship and returns its generated ID.
func (r *Relationships) Add(relType, target string) string {
	id := fmt.Sprintf("rId%d", len(r.rels)+1)
	r.rels = append(r.rels, Relationship{ID: id, Type: relType, Target: target})
	return id
}

// IDs lists the issued IDs in order.
func (r *Relationships) IDs() []string {
	out := make([]string, len(r.rels))
	for i, rel := range r.rels {
		out[i] = rel.ID
	}
	return out
}

// XML renders the .rels part.
func (r *Relationships) XML() string {
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString("\n")
	for _, rel := range r.rels {
		fmt.Fprintf(&sb, `  <Relationship Id="%s" Type="%s" Target="%s"/>`+"\n",
			rel.ID, rel.Type, Escape(rel.Target))
	}
	sb.WriteString("</Relationships>")
	return sb.String()
}

const xmlProlog = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five XML metacharacters in text content.
func Escape(s string) string {
	return xmlEscaper.Replace(s)
}

// OOXML relationship type URIs.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypeSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)
