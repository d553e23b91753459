package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LinkbaseType classifies a linkbase by the semantics of its arcs. This is
// a tagged variant (dispatched on LinkbaseType/arcrole), not an
// inheritance hierarchy: the parser produces the same ExtendedLink/Arc
// shape for every kind, and downstream consumers interpret arcroles.
type LinkbaseType int

const (
	LinkbaseUnknown LinkbaseType = iota
	LinkbaseLabel
	LinkbasePresentation
	LinkbaseCalculation
	LinkbaseDefinition
	LinkbaseReference
	LinkbaseGeneric
)

func (t LinkbaseType) String() string {
	switch t {
	case LinkbaseLabel:
		return "label"
	case LinkbasePresentation:
		return "presentation"
	case LinkbaseCalculation:
		return "calculation"
	case LinkbaseDefinition:
		return "definition"
	case LinkbaseReference:
		return "reference"
	case LinkbaseGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// linkbaseTypeFromRole classifies a linkbaseRef by its xlink:role URI,
// falling back to a filename heuristic ("_lab", "-pre", etc. in the href)
// since real-world filings occasionally omit or misuse the role.
func linkbaseTypeFromRole(role, href string) LinkbaseType {
	switch {
	case strings.Contains(role, "/labelLinkbaseRef"):
		return LinkbaseLabel
	case strings.Contains(role, "/presentationLinkbaseRef"):
		return LinkbasePresentation
	case strings.Contains(role, "/calculationLinkbaseRef"):
		return LinkbaseCalculation
	case strings.Contains(role, "/definitionLinkbaseRef"):
		return LinkbaseDefinition
	case strings.Contains(role, "/referenceLinkbaseRef"):
		return LinkbaseReference
	}

	lower := strings.ToLower(href)
	switch {
	case strings.Contains(lower, "_lab") || strings.Contains(lower, "-lab"):
		return LinkbaseLabel
	case strings.Contains(lower, "_pre") || strings.Contains(lower, "-pre"):
		return LinkbasePresentation
	case strings.Contains(lower, "_cal") || strings.Contains(lower, "-cal"):
		return LinkbaseCalculation
	case strings.Contains(lower, "_def") || strings.Contains(lower, "-def"):
		return LinkbaseDefinition
	case strings.Contains(lower, "_ref") || strings.Contains(lower, "-ref"):
		return LinkbaseReference
	}
	return LinkbaseUnknown
}

// Locator represents an xlink:locator: a link-local label bound to an
// href (URL#fragment) that, once resolved, identifies a concept by the
// XML id of its declaring xs:element in the target schema.
type Locator struct {
	Label string
	Href  string
}

// SplitHref splits Href into its URL and fragment ("" if no '#').
func (l Locator) SplitHref() (url, fragment string) {
	i := strings.IndexByte(l.Href, '#')
	if i < 0 {
		return l.Href, ""
	}
	return l.Href[:i], l.Href[i+1:]
}

// Resource is a label or reference payload bound into arcs by its
// link-local xlink:label.
type Resource struct {
	Label string
	Role  string
	Lang  string

	// Text holds the label text for link:label resources.
	Text string

	// Parts holds the ordered key/value parts of a link:reference
	// resource (e.g. "Name" -> "Assets", "Number" -> "210").
	Parts []RefPart
}

// RefPart is one key/value part of a reference resource
// (e.g. <ref:Name>, <ref:Number>, <ref:Paragraph>).
type RefPart struct {
	Name  string
	Value string
}

// Arc represents one xlink:arc, connecting a from-label to a to-label
// within the enclosing extended link.
type Arc struct {
	From           string
	To             string
	Arcrole        string
	Order          float64
	Priority       int
	Use            string // "optional" or "prohibited"
	Weight         *float64
	PreferredLabel string

	// discoveryIndex is the arc's position within its extended link.
	// ResolveDTS does not read it; relationship order ties are broken by
	// the discovery counter kept on each Relationship.
	discoveryIndex int
}

// ExtendedLink is a container of locators/resources/arcs sharing a role URI.
type ExtendedLink struct {
	Role      string
	Locators  []Locator
	Resources []Resource
	Arcs      []Arc
}

// Linkbase is one parsed linkbase XML file.
type Linkbase struct {
	Type      LinkbaseType
	SourceURL string
	Links     []ExtendedLink
}

// ParseLinkbaseFile parses a linkbase file from a path.
func ParseLinkbaseFile(path string, hint LinkbaseType) (*Linkbase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbrl: open linkbase: %w", err)
	}
	defer f.Close()
	return ParseLinkbase(f, path, hint)
}

// ParseLinkbase parses a linkbase XML document from r. sourceURL is
// recorded on the result and used to resolve relative locator hrefs.
// hint is used when a link's own role does not disambiguate its type
// (pass LinkbaseUnknown to rely entirely on role/filename heuristics).
func ParseLinkbase(r io.Reader, sourceURL string, hint LinkbaseType) (*Linkbase, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	lb := &Linkbase{Type: hint, SourceURL: sourceURL}
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

			if strings.HasSuffix(t.Name.Local, "Link") && t.Name.Local != "linkbase" {
				link, err := parseExtendedLink(dec, t, ns)
				if err != nil {
					return nil, err
				}
				for i := range link.Locators {
					link.Locators[i].Href = resolveHref(link.Locators[i].Href, sourceURL, ns)
				}
				lb.Links = append(lb.Links, *link)
				if lb.Type == LinkbaseUnknown {
					lb.Type = linkbaseTypeFromLinkName(t.Name.Local)
				}
			}

		case xml.EndElement:
			ns.Pop(t)
		}
	}

	return lb, nil
}

func linkbaseTypeFromLinkName(local string) LinkbaseType {
	switch local {
	case "labelLink":
		return LinkbaseLabel
	case "presentationLink":
		return LinkbasePresentation
	case "calculationLink":
		return LinkbaseCalculation
	case "definitionLink":
		return LinkbaseDefinition
	case "referenceLink":
		return LinkbaseReference
	default:
		return LinkbaseGeneric
	}
}

func parseExtendedLink(dec *xml.Decoder, start xml.StartElement, ns *namespaceStack) (*ExtendedLink, error) {
	link := &ExtendedLink{}
	for _, a := range start.Attr {
		if a.Name.Local == "role" {
			link.Role = a.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("xbrl: parse extended link %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ns.Push(t)
			switch {
			case t.Name.Local == "loc":
				loc := parseLocator(t)
				link.Locators = append(link.Locators, loc)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				ns.Pop(xml.EndElement{})
			case t.Name.Local == "label":
				res, err := parseLabelResource(dec, t, ns)
				if err != nil {
					return nil, err
				}
				link.Resources = append(link.Resources, *res)
				ns.Pop(xml.EndElement{})
			case t.Name.Local == "reference":
				res, err := parseReferenceResource(dec, t, ns)
				if err != nil {
					return nil, err
				}
				link.Resources = append(link.Resources, *res)
				ns.Pop(xml.EndElement{})
			case strings.HasSuffix(t.Name.Local, "Arc"):
				arc := parseArc(t, len(link.Arcs))
				link.Arcs = append(link.Arcs, arc)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				ns.Pop(xml.EndElement{})
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				ns.Pop(xml.EndElement{})
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return link, nil
			}
			ns.Pop(t)
		}
	}
}

func parseLocator(se xml.StartElement) Locator {
	var loc Locator
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "label":
			loc.Label = a.Value
		case "href":
			loc.Href = a.Value
		}
	}
	return loc
}

func parseLabelResource(dec *xml.Decoder, start xml.StartElement, ns *namespaceStack) (*Resource, error) {
	res := &Resource{Lang: ns.Lang()}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "label":
			res.Label = a.Value
		case "role":
			res.Role = a.Value
		case "lang":
			res.Lang = a.Value
		}
	}
	var text string
	if err := dec.DecodeElement(&text, &start); err != nil {
		return nil, fmt.Errorf("xbrl: parse label resource: %w", err)
	}
	res.Text = text
	return res, nil
}

func parseReferenceResource(dec *xml.Decoder, start xml.StartElement, ns *namespaceStack) (*Resource, error) {
	res := &Resource{}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "label":
			res.Label = a.Value
		case "role":
			res.Role = a.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("xbrl: parse reference resource: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := dec.DecodeElement(&v, &t); err != nil {
				return nil, err
			}
			res.Parts = append(res.Parts, RefPart{Name: t.Name.Local, Value: strings.TrimSpace(v)})
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return res, nil
			}
		}
	}
}

func parseArc(se xml.StartElement, discoveryIndex int) Arc {
	arc := Arc{
		Order:          1,
		Priority:       0,
		Use:            "optional",
		discoveryIndex: discoveryIndex,
	}
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "from":
			arc.From = a.Value
		case "to":
			arc.To = a.Value
		case "arcrole":
			arc.Arcrole = a.Value
		case "order":
			if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
				arc.Order = v
			}
		case "priority":
			if v, err := strconv.Atoi(a.Value); err == nil {
				arc.Priority = v
			}
		case "use":
			arc.Use = a.Value
		case "weight":
			if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
				arc.Weight = &v
			}
		case "preferredLabel":
			arc.PreferredLabel = a.Value
		}
	}
	return arc
}
