package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// LinkbaseRef is one <link:linkbaseRef> found in a schema (or, for DTS
// discovery purposes, treated identically when found in an instance's
// <xbrli:schemaRef>-adjacent context). Type is resolved from Role,
// falling back to a filename heuristic.
type LinkbaseRef struct {
	Href string
	Role string
	Type LinkbaseType
}

// TaxonomySchema is one parsed .xsd document: its target namespace, the
// concepts it declares, and the edges (import/include/linkbaseRef) that
// DTS discovery (§4.E) follows to find the rest of the taxonomy set.
type TaxonomySchema struct {
	SourceURL       string
	TargetNamespace string
	Concepts        []*Concept

	// Imports/Includes are resolved, absolute URLs in document order.
	Imports  []string
	Includes []string

	LinkbaseRefs []LinkbaseRef
}

// ParseSchemaFile parses a taxonomy schema document from a file path.
func ParseSchemaFile(path string) (*TaxonomySchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbrl: open schema: %w", err)
	}
	defer f.Close()
	return ParseSchema(f, path)
}

// ParseSchema parses a taxonomy schema (XSD) document from r. sourceURL
// is recorded on the result and used as the base for resolving relative
// xs:import/xs:include/link:linkbaseRef hrefs (xml:base, where present,
// takes precedence over sourceURL).
func ParseSchema(r io.Reader, sourceURL string) (*TaxonomySchema, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	sch := &TaxonomySchema{SourceURL: sourceURL}
	ns := newNamespaceStack()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &XmlWellFormednessError{Loc: Location{URL: sourceURL}, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ns.Push(t)

			switch t.Name.Local {
			case "schema":
				for _, a := range t.Attr {
					if a.Name.Local == "targetNamespace" {
						sch.TargetNamespace = strings.TrimSpace(a.Value)
						break
					}
				}

			case "element":
				c := conceptFromElement(t, sch.TargetNamespace, sourceURL, ns)
				if c != nil {
					sch.Concepts = append(sch.Concepts, c)
				}
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("xbrl: skip element: %w", err)
				}
				ns.Pop(xml.EndElement{})

			case "import":
				if href := resolveHref(attrValue(t, "schemaLocation"), sourceURL, ns); href != "" {
					sch.Imports = append(sch.Imports, href)
				}
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("xbrl: skip import: %w", err)
				}
				ns.Pop(xml.EndElement{})

			case "include":
				if href := resolveHref(attrValue(t, "schemaLocation"), sourceURL, ns); href != "" {
					sch.Includes = append(sch.Includes, href)
				}
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("xbrl: skip include: %w", err)
				}
				ns.Pop(xml.EndElement{})

			case "linkbaseRef":
				role := attrValue(t, "role")
				href := resolveHref(attrValue(t, "href"), sourceURL, ns)
				if href != "" {
					sch.LinkbaseRefs = append(sch.LinkbaseRefs, LinkbaseRef{
						Href: href,
						Role: role,
						Type: linkbaseTypeFromRole(role, href),
					})
				}
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("xbrl: skip linkbaseRef: %w", err)
				}
				ns.Pop(xml.EndElement{})
			}

		case xml.EndElement:
			ns.Pop(t)
		}
	}

	return sch, nil
}

// attrValue returns the value of the first attribute on se matching
// local name want, ignoring namespace.
func attrValue(se xml.StartElement, want string) string {
	for _, a := range se.Attr {
		if a.Name.Local == want {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// resolveHref resolves a (possibly relative) href against the in-scope
// xml:base if set, otherwise against docURL, using standard RFC 3986
// reference resolution.
func resolveHref(href, docURL string, ns *namespaceStack) string {
	if href == "" {
		return ""
	}
	base := docURL
	if ns != nil && ns.Base() != "" {
		base = ns.Base()
	}
	if base == "" {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}
