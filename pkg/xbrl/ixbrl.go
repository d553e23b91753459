package xbrl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// defaultIXBRLPrefix is used when the document's <html> root does not
// declare an xmlns binding for either of the two iXBRL namespace URIs
// real filings use in practice. Every filing the author has seen binds
// "ix", but the spec only requires matching the URI, not the literal
// prefix.
const defaultIXBRLPrefix = "ix"

const (
	nsInlineXBRL2008 = "http://www.xbrl.org/2008/inlineXBRL"
	nsInlineXBRL2013 = "http://www.xbrl.org/2013/inlineXBRL"
)

// ParseIXBRLFile parses an Inline XBRL (HTML) document from a file path.
func ParseIXBRLFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbrl: open ixbrl file: %w", err)
	}
	defer f.Close()
	return ParseIXBRL(f, path)
}

// ParseIXBRL extracts an XBRL Document from an Inline XBRL HTML document.
// It tolerates arbitrary surrounding HTML: the ix: facts are wherever the
// filer's rendering put them, embedded in ordinary markup.
//
// The technique mirrors the classic instance parser as closely as
// possible: context/unit definitions living under ix:resources are
// re-serialized back to bytes with html.Render and handed to the same
// xbrli xml.Decoder-based parsers (parseContext/parseUnit) the XML
// instance parser uses, so the two parsers agree on context/unit
// semantics by construction rather than by duplicated logic.
func ParseIXBRL(r io.Reader, sourceURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &XmlWellFormednessError{Loc: Location{URL: sourceURL}, Err: err}
	}

	var doc Document
	doc.contexts = make(map[string]*Context)
	doc.units = make(map[string]*Unit)

	ixPrefix := detectIXBRLPrefix(root)

	var resourceNodes []*html.Node
	var factNodes []*html.Node
	var tupleNodes []*html.Node
	var continuationNodes []*html.Node
	var footnoteLinkNodes []*html.Node

	walkHTML(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		local := ixLocalName(n, ixPrefix)
		switch local {
		case "resources", "references":
			resourceNodes = append(resourceNodes, n)
		case "nonfraction", "nonnumeric":
			factNodes = append(factNodes, n)
		case "tuple":
			tupleNodes = append(tupleNodes, n)
		case "continuation":
			continuationNodes = append(continuationNodes, n)
		}
		if strings.EqualFold(stripPrefix(n.Data), "footnoteLink") {
			footnoteLinkNodes = append(footnoteLinkNodes, n)
		}
	})

	for _, rn := range resourceNodes {
		if err := ingestResources(&doc, rn, sourceURL); err != nil {
			return nil, err
		}
	}
	for _, fn := range footnoteLinkNodes {
		fns, err := ingestFootnoteLinkNode(fn, sourceURL)
		if err != nil {
			return nil, err
		}
		doc.footnotes = append(doc.footnotes, fns...)
	}

	continuationText := indexContinuations(continuationNodes, ixPrefix)

	tuplesByID := make(map[string]*Fact)
	var tupleOrder []string // tuple ids in document order
	for _, tn := range tupleNodes {
		f := factFromTupleNode(tn)
		if _, seen := tuplesByID[f.id]; !seen {
			tupleOrder = append(tupleOrder, f.id)
		}
		tuplesByID[f.id] = f
	}

	type orderedMember struct {
		order float64
		fact  *Fact
	}
	membersByTuple := make(map[string][]orderedMember)

	for _, fn := range factNodes {
		f, err := factFromIXNode(fn, ixPrefix, continuationText, sourceURL)
		if err != nil {
			var transformErr *TransformError
			var numericErr *NumericParseError
			if errors.As(err, &transformErr) || errors.As(err, &numericErr) {
				// Fatal to this one fact only: the rest of the document's
				// facts are still worth extracting, so the fact is dropped
				// and the failure surfaces as a warning instead of
				// discarding everything already parsed.
				doc.addWarning(Warning{Kind: WarnInvalidFactValue, Message: err.Error(), URL: sourceURL})
				continue
			}
			return nil, err
		}
		tupleRef := attrValueHTML(fn, "tupleref")
		if tupleRef != "" {
			order, _ := strconv.ParseFloat(attrValueHTML(fn, "order"), 64)
			membersByTuple[tupleRef] = append(membersByTuple[tupleRef], orderedMember{order: order, fact: f})
			continue
		}
		doc.facts = append(doc.facts, f)
	}

	for id, members := range membersByTuple {
		t, ok := tuplesByID[id]
		if !ok {
			doc.addWarning(Warning{Kind: WarnBrokenLocator, Message: fmt.Sprintf("tupleRef %q has no matching ix:tuple", id), URL: sourceURL})
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].order < members[j].order })
		for _, m := range members {
			t.tupleMembers = append(t.tupleMembers, m.fact)
		}
	}
	for _, id := range tupleOrder {
		doc.facts = append(doc.facts, tuplesByID[id])
	}

	return &doc, nil
}

// walkHTML performs a pre-order DFS over the html.Node tree, invoking fn
// for every node.
func walkHTML(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, fn)
	}
}

// detectIXBRLPrefix scans the document for an xmlns binding to one of the
// known Inline XBRL namespace URIs and returns the bound prefix, falling
// back to the conventional "ix".
func detectIXBRLPrefix(root *html.Node) string {
	prefix := ""
	walkHTML(root, func(n *html.Node) {
		if prefix != "" || n.Type != html.ElementNode {
			return
		}
		for _, a := range n.Attr {
			if !strings.HasPrefix(a.Key, "xmlns:") {
				continue
			}
			if a.Val == nsInlineXBRL2008 || a.Val == nsInlineXBRL2013 {
				prefix = strings.TrimPrefix(a.Key, "xmlns:")
			}
		}
	})
	if prefix == "" {
		return defaultIXBRLPrefix
	}
	return prefix
}

// ixLocalName returns n's local name with the iXBRL prefix stripped,
// lowercased (html.Parse already lowercases tag names), or "" if n is not
// in the iXBRL namespace.
func ixLocalName(n *html.Node, ixPrefix string) string {
	want := strings.ToLower(ixPrefix) + ":"
	if !strings.HasPrefix(n.Data, want) {
		return ""
	}
	return strings.TrimPrefix(n.Data, want)
}

func stripPrefix(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func attrValueHTML(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if strings.ToLower(a.Key) == key {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates all descendant text nodes of n, collapsing
// whitespace the way xbrli numeric/string content is normalized.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walkHTML(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return normalizeSpace(sb.String())
}

// ingestResources renders an ix:resources (or ix:references) subtree back
// to XML bytes and decodes xbrli:context/xbrli:unit/xbrli:schemaRef children
// with the same parsers the classic instance parser uses.
func ingestResources(doc *Document, n *html.Node, sourceURL string) error {
	// html.Parse lowercases tag names; restore the camelCase xbrli/xbrldi
	// names that parseContext/parseUnit match on.
	camelCase := map[string]string{
		"startdate": "startDate", "enddate": "endDate",
		"unitnumerator": "unitNumerator", "unitdenominator": "unitDenominator",
		"explicitmember": "explicitMember", "typedmember": "typedMember",
	}
	walkHTML(n, func(c *html.Node) {
		if local := stripPrefix(c.Data); c.Type == html.ElementNode && camelCase[local] != "" {
			c.Data = c.Data[:len(c.Data)-len(local)] + camelCase[local]
		}
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return fmt.Errorf("xbrl: render ix:resources: %w", err)
	}

	dec := xml.NewDecoder(&buf)
	dec.CharsetReader = charsetReader
	dec.Strict = false
	ns := newNamespaceStack()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &XmlWellFormednessError{Loc: Location{URL: sourceURL}, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ns.Push(t)
			switch stripPrefix(t.Name.Local) {
			case "context":
				ctx, err := parseContext(dec, t, ns)
				if err != nil {
					return err
				}
				doc.contexts[ctx.id] = ctx
			case "unit":
				u, err := parseUnit(dec, t, ns)
				if err != nil {
					return err
				}
				doc.units[u.id] = u
			case "schemaref":
				doc.schemaRefs = append(doc.schemaRefs, parseSchemaRef(t))
			}
		case xml.EndElement:
			ns.Pop(t)
		}
	}
	return nil
}

func ingestFootnoteLinkNode(n *html.Node, sourceURL string) ([]*Footnote, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return nil, fmt.Errorf("xbrl: render footnoteLink: %w", err)
	}
	dec := xml.NewDecoder(&buf)
	dec.CharsetReader = charsetReader
	dec.Strict = false

	tok, err := dec.Token()
	for err == nil {
		if se, ok := tok.(xml.StartElement); ok && stripPrefix(se.Name.Local) == "footnotelink" {
			ns := newNamespaceStack()
			ns.Push(se)
			return parseFootnoteLink(dec, se, ns)
		}
		tok, err = dec.Token()
	}
	if err != nil && err != io.EOF {
		return nil, &XmlWellFormednessError{Loc: Location{URL: sourceURL}, Err: err}
	}
	return nil, nil
}

// indexContinuations resolves every ix:continuation chain into the full
// text reachable from each continuation id, with cycle tolerance: a
// continuation that (transitively) points back to itself stops rather
// than looping forever.
func indexContinuations(nodes []*html.Node, ixPrefix string) map[string]string {
	byID := make(map[string]*html.Node)
	for _, n := range nodes {
		if id := attrValueHTML(n, "id"); id != "" {
			byID[id] = n
		}
	}

	resolved := make(map[string]string, len(byID))
	var resolve func(id string, visited map[string]bool) string
	resolve = func(id string, visited map[string]bool) string {
		if text, ok := resolved[id]; ok {
			return text
		}
		n, ok := byID[id]
		if !ok || visited[id] {
			return ""
		}
		visited[id] = true
		text := textContent(n)
		if next := attrValueHTML(n, "continuedat"); next != "" {
			text += " " + resolve(next, visited)
		}
		text = normalizeSpace(text)
		resolved[id] = text
		return text
	}
	for id := range byID {
		resolve(id, map[string]bool{})
	}
	return resolved
}

func factFromTupleNode(n *html.Node) *Fact {
	name := attrValueHTML(n, "name")
	return &Fact{
		kind: FactKindTuple,
		name: QName{local: localOf(name), prefix: prefixOf(name)},
		id:   attrValueHTML(n, "id"),
	}
}

// factFromIXNode builds a Fact from an ix:nonFraction or ix:nonNumeric
// element, applying its format transform and, for numeric facts, its
// scale and sign.
func factFromIXNode(n *html.Node, ixPrefix string, continuationText map[string]string, sourceURL string) (*Fact, error) {
	local := ixLocalName(n, ixPrefix)
	name := attrValueHTML(n, "name")

	f := &Fact{
		kind:       FactKindItem,
		name:       QName{local: localOf(name), prefix: prefixOf(name)},
		id:         attrValueHTML(n, "id"),
		contextRef: attrValueHTML(n, "contextref"),
		decimals:   attrValueHTML(n, "decimals"),
		precision:  attrValueHTML(n, "precision"),
		format:     attrValueHTML(n, "format"),
		scale:      attrValueHTML(n, "scale"),
		sign:       attrValueHTML(n, "sign"),
	}
	if local == "nonfraction" {
		f.unitRef = attrValueHTML(n, "unitref")
	}

	raw := textContent(n)
	if at := attrValueHTML(n, "continuedat"); at != "" {
		raw = normalizeSpace(raw + " " + continuationText[at])
	}

	if strings.EqualFold(attrValueHTML(n, "nil"), "true") {
		f.nil = true
		return f, nil
	}

	value := raw
	if f.format != "" {
		transform, ok := LookupTransform(f.format)
		if !ok {
			return nil, &TransformError{Loc: Location{URL: sourceURL}, Transform: f.format, Err: fmt.Errorf("unrecognized transform")}
		}
		v, err := transform(raw)
		if err != nil {
			return nil, &TransformError{Loc: Location{URL: sourceURL}, Transform: f.format, Err: err}
		}
		value = v
	}

	if local == "nonfraction" {
		v, err := applyScaleAndSign(value, f.scale, f.sign)
		if err != nil {
			return nil, &NumericParseError{Loc: Location{URL: sourceURL}, Value: raw, Err: err}
		}
		value = v
	}

	f.value = value
	return f, nil
}

// applyScaleAndSign multiplies a canonical numeric lexical value by
// 10^scale and negates it when sign is "-", returning a plain decimal
// string (no exponent notation) so downstream consumers that treat Fact
// values as opaque decimal text keep working unchanged.
func applyScaleAndSign(value, scale, sign string) (string, error) {
	if value == "" {
		return value, nil
	}
	if scale == "" && sign != "-" {
		return value, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", fmt.Errorf("scale/sign applied to non-numeric value %q: %w", value, err)
	}
	if scale != "" {
		n, err := strconv.Atoi(scale)
		if err != nil {
			return "", fmt.Errorf("invalid scale %q: %w", scale, err)
		}
		f *= math.Pow10(n)
	}
	if sign == "-" {
		f = -f
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
