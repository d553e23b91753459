package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseTaxonomyFile parses an XBRL taxonomy schema (XSD) from a file path.
func ParseTaxonomyFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbrl: open taxonomy schema: %w", err)
	}
	defer f.Close()
	return ParseTaxonomy(f)
}

// ParseTaxonomy parses an XBRL taxonomy schema (XSD) from an io.Reader.
//
// This function focuses on xs:element declarations and extracts basic
// concept information such as name, id, substitutionGroup, type,
// abstract, nillable, periodType, and balance. It does not collect
// import/include/linkbaseRef edges; use ParseSchema for that (the
// taxonomy resolver, §4.E, always goes through ParseSchema).
func ParseTaxonomy(r io.Reader) (*Taxonomy, error) {
	sch, err := ParseSchema(r, "")
	if err != nil {
		return nil, err
	}
	tax := NewTaxonomy()
	for _, c := range sch.Concepts {
		tax.addConcept(c)
	}
	return tax, nil
}

// conceptFromElement creates a Concept from an xs:element start tag.
//
// It only looks at attributes and does not consume any child tokens.
// Attributes outside the recognized core set are carried verbatim in
// Concept.attributes (no reflection).
func conceptFromElement(se xml.StartElement, targetNS, sourceURL string, ns *namespaceStack) *Concept {
	var (
		name  string
		id    string
		typ   string
		subst string

		abstractStr string
		nillableStr string
		periodType  string
		balance     string
	)

	var extra map[QName]string

	for _, a := range se.Attr {
		switch a.Name.Local {
		case "name":
			name = strings.TrimSpace(a.Value)
		case "id":
			id = strings.TrimSpace(a.Value)
		case "type":
			typ = strings.TrimSpace(a.Value)
		case "substitutionGroup":
			subst = strings.TrimSpace(a.Value)
		case "abstract":
			abstractStr = strings.TrimSpace(a.Value)
		case "nillable":
			nillableStr = strings.TrimSpace(a.Value)
		case "periodType":
			periodType = strings.TrimSpace(a.Value)
		case "balance":
			balance = strings.TrimSpace(a.Value)
		default:
			if extra == nil {
				extra = make(map[QName]string)
			}
			extra[QName{local: a.Name.Local, uri: a.Name.Space}] = a.Value
		}
	}

	if name == "" || targetNS == "" {
		// Without a name or target namespace we cannot form a proper concept QName.
		return nil
	}

	// Concept QName is (targetNamespace, name).
	conceptPrefix := ""
	if ns != nil {
		conceptPrefix = ns.PrefixForURI(targetNS)
	}
	cq := QName{
		prefix: conceptPrefix,
		local:  name,
		uri:    targetNS,
	}

	var sgQName QName
	if subst != "" {
		sgQName = ns.qname(subst)
	}

	var typeQName QName
	if typ != "" {
		typeQName = ns.qname(typ)
	}

	c := &Concept{
		qname:             cq,
		id:                id,
		substitutionGroup: sgQName,
		typeName:          typeQName,
		abstract:          parseBool(abstractStr),
		nillable:          parseBool(nillableStr),
		periodType:        periodType,
		balance:           balance,
		sourceURL:         sourceURL,
		attributes:        extra,
		isDimension:       sgQName.URI() == nsXBRLDT && sgQName.Local() == "dimensionItem",
		isHypercube:       sgQName.URI() == nsXBRLDT && sgQName.Local() == "hypercubeItem",
	}

	return c
}

// Merge merges concepts from other into t.
// Existing concepts with the same QName are overwritten.
func (t *Taxonomy) Merge(other *Taxonomy) {
	if t == nil || other == nil {
		return
	}
	if t.concepts == nil {
		t.concepts = make(map[QName]*Concept)
	}
	for q, c := range other.concepts {
		t.concepts[q] = c
	}
}

// parseBool interprets common boolean lexical forms.
// Only "true" / "1" (case-insensitive) are treated as true.
func parseBool(s string) bool {
	if s == "" {
		return false
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true
	default:
		return false
	}
}
