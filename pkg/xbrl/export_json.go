package xbrl

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// FactJSON is a simple flat DTO for exporting facts as JSON, predating
// (and narrower than) the full xBRL-JSON export below; kept for callers
// that only want {name, value, context, unit}.
type FactJSON struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	ContextRef string `json:"context"`
	UnitRef    string `json:"unit"`
	Nil        bool   `json:"nil"`
}

// FactsAsJSONDTOs converts all facts in a Document into a slice of
// FactJSON DTOs.
func (d *Document) FactsAsJSONDTOs() []FactJSON {
	if d == nil {
		return nil
	}
	out := make([]FactJSON, 0, len(d.facts))
	for _, f := range d.facts {
		if f == nil {
			continue
		}
		value := f.Value()
		if f.IsNil() {
			value = ""
		}
		out = append(out, FactJSON{
			Name:       f.Name().String(),
			Value:      value,
			ContextRef: f.ContextRef(),
			UnitRef:    f.UnitRef(),
			Nil:        f.IsNil(),
		})
	}
	return out
}

// EncodeFactsJSON writes all facts in the Document as a JSON array to w.
// - HTML escape is disabled
// - If pretty is true, indented output is used
func (d *Document) EncodeFactsJSON(w io.Writer, pretty bool) error {
	if d == nil {
		return nil
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)

	dtos := d.FactsAsJSONDTOs()
	return enc.Encode(dtos)
}

// xbrlJSONDocumentType is the documentInfo.documentType constant defined
// by the xBRL-JSON 2021 REC.
const xbrlJSONDocumentType = "https://xbrl.org/2021/xbrl-json"

// XBRLJSONDocument is the top-level shape of an xBRL-JSON 2021 document.
type XBRLJSONDocument struct {
	DocumentInfo XBRLJSONDocumentInfo    `json:"documentInfo"`
	Facts        map[string]XBRLJSONFact `json:"facts"`
}

// XBRLJSONDocumentInfo is the xBRL-JSON documentInfo object.
type XBRLJSONDocumentInfo struct {
	DocumentType string            `json:"documentType"`
	Namespaces   map[string]string `json:"namespaces,omitempty"`
	Taxonomy     []string          `json:"taxonomy,omitempty"`
	BaseURL      string            `json:"baseUrl,omitempty"`
}

// XBRLJSONFact is one entry of the xBRL-JSON "facts" map.
type XBRLJSONFact struct {
	Value      string            `json:"value"`
	Decimals   *string           `json:"decimals,omitempty"`
	Dimensions map[string]string `json:"dimensions"`
}

// ExportOptions controls xBRL-JSON export.
type ExportOptions struct {
	// DTS, if set, supplies the discovery-ordered taxonomy URL list for
	// documentInfo.taxonomy. A nil DTS produces no taxonomy entry.
	DTS *DTS

	// StableFactIDs assigns facts ids f1..fN in document order instead of
	// each fact's own @id (useful when the source document's ids are
	// absent or not unique, e.g. synthesized instances).
	StableFactIDs bool

	// BaseURL, if set, is recorded as documentInfo.baseUrl: the URL or
	// path the source instance/iXBRL document was parsed from, which
	// consumers use to resolve any relative references carried in the
	// JSON. A zero value omits the field, matching how DTS above is
	// optional.
	BaseURL string
}

// ToXBRLJSON converts the document to the xBRL-JSON 2021 REC shape.
func (d *Document) ToXBRLJSON(opts ExportOptions) (*XBRLJSONDocument, error) {
	if d == nil {
		return nil, fmt.Errorf("xbrl: ToXBRLJSON on nil document")
	}

	out := &XBRLJSONDocument{
		DocumentInfo: XBRLJSONDocumentInfo{
			DocumentType: xbrlJSONDocumentType,
			Namespaces:   make(map[string]string),
		},
		Facts: make(map[string]XBRLJSONFact, len(d.facts)),
	}

	if opts.DTS != nil {
		out.DocumentInfo.Taxonomy = opts.DTS.SchemaURLs()
	}
	out.DocumentInfo.BaseURL = opts.BaseURL

	for i, f := range d.facts {
		if f == nil || f.kind == FactKindTuple {
			// Tuples have no scalar value and xBRL-JSON 2021 has no
			// standard tuple representation, so tuple facts are skipped.
			// Facts held only as a tuple's members (the way ParseIXBRL
			// stores them) are not exported either.
			continue
		}

		recordNamespace(out.DocumentInfo.Namespaces, f.name)

		id := f.id
		if opts.StableFactIDs || id == "" {
			id = fmt.Sprintf("f%d", i+1)
		}

		jf := XBRLJSONFact{
			Dimensions: map[string]string{"concept": jsonQName(f.name)},
		}
		if f.nil {
			jf.Value = ""
		} else {
			jf.Value = f.value
		}
		if f.decimals != "" {
			dv := f.decimals
			jf.Decimals = &dv
		}
		if f.lang != "" {
			jf.Dimensions["language"] = f.lang
		}

		if ctx, ok := d.contexts[f.contextRef]; ok {
			ent := ctx.Entity()
			ident := ent.Identifier()
			if ident.Value() != "" {
				jf.Dimensions["entity"] = fmt.Sprintf("%s:%s", ident.Scheme(), ident.Value())
			}
			jf.Dimensions["period"] = periodJSON(ctx.Period())
			for _, dim := range ctx.Dimensions() {
				recordNamespace(out.DocumentInfo.Namespaces, dim.Dimension())
				key := "dim:" + jsonQName(dim.Dimension())
				if dim.IsExplicit() {
					recordNamespace(out.DocumentInfo.Namespaces, dim.Member())
					jf.Dimensions[key] = jsonQName(dim.Member())
				} else {
					jf.Dimensions[key] = dim.TypedValue()
				}
			}
		}

		if f.unitRef != "" {
			if u, ok := d.units[f.unitRef]; ok {
				jf.Dimensions["unit"] = unitJSON(u)
			}
		}

		out.Facts[id] = jf
	}

	return out, nil
}

// EncodeXBRLJSON writes the document's xBRL-JSON 2021 representation to w.
func (d *Document) EncodeXBRLJSON(w io.Writer, opts ExportOptions, pretty bool) error {
	doc, err := d.ToXBRLJSON(opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func recordNamespace(namespaces map[string]string, q QName) {
	if q.Prefix() == "" || q.URI() == "" {
		return
	}
	namespaces[q.Prefix()] = q.URI()
}

// jsonQName renders q as prefix:local, the form whose prefixes
// documentInfo.namespaces maps; a QName without a prefix falls back to
// String().
func jsonQName(q QName) string {
	if q.Prefix() != "" {
		return q.Prefix() + ":" + q.Local()
	}
	return q.String()
}

// periodJSON renders a Period per xBRL-JSON's "period" dimension lexical
// form: an instant as a single date, a duration as "start/end".
func periodJSON(p Period) string {
	if p.IsForever() {
		return "forever"
	}
	if instant, ok := p.Instant(); ok {
		return instant
	}
	start, _ := p.StartDate()
	end, _ := p.EndDate()
	return start + "/" + end
}

// unitJSON renders a Unit per xBRL-JSON's "unit" dimension lexical form:
// "prefix:local" for a simple unit, "num/den" for a divide unit (measures
// joined with '*' when a side has more than one).
func unitJSON(u *Unit) string {
	if u == nil {
		return ""
	}
	if !u.IsDivide() {
		return joinMeasures(u.Measures())
	}
	return joinMeasures(u.NumeratorMeasures()) + "/" + joinMeasures(u.DenominatorMeasures())
}

func joinMeasures(qs []QName) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = jsonQName(q)
	}
	sort.Strings(parts)
	return strings.Join(parts, "*")
}
