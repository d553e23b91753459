package xbrl

import "encoding/xml"

// NOTE: Test-only helper constructors to access unexported fields.
// This file is compiled only in tests.

func NewSchemaRefForTest(href string) SchemaRef {
	return SchemaRef{href: href}
}

func NewContextIdentifierForTest(scheme, value string) ContextIdentifier {
	return ContextIdentifier{
		scheme: scheme,
		value:  value,
	}
}

func NewEntityForTest(id ContextIdentifier) Entity {
	return Entity{
		identifier: id,
	}
}

func NewPeriodForTest(instant, start, end *string, forever bool) Period {
	return Period{
		instant:   instant,
		startDate: start,
		endDate:   end,
		forever:   forever,
	}
}

func NewQNameForTest(prefix, local, uri string) QName {
	return QName{
		prefix: prefix,
		local:  local,
		uri:    uri,
	}
}

func NewDimensionForTest(dim QName, explicit bool, member QName, typedValue string) Dimension {
	return Dimension{
		dimension:  dim,
		explicit:   explicit,
		member:     member,
		typedValue: typedValue,
	}
}

func NewContextForTest(id string, entity Entity, period Period, dims []Dimension) *Context {
	return &Context{
		id:         id,
		entity:     entity,
		period:     period,
		dimensions: dims,
	}
}

func NewUnitSimpleForTest(id string, measures []QName) *Unit {
	return &Unit{
		id:       id,
		measures: measures,
	}
}

func NewUnitDivideForTest(id string, numerator, denominator []QName) *Unit {
	return &Unit{
		id:          id,
		divide:      true,
		numerator:   numerator,
		denominator: denominator,
	}
}

func NewConceptForTest(
	q QName,
	id string,
	subst QName,
	typ QName,
	abstract bool,
	nillable bool,
	periodType string,
	balance string,
) *Concept {
	return &Concept{
		qname:             q,
		id:                id,
		substitutionGroup: subst,
		typeName:          typ,
		abstract:          abstract,
		nillable:          nillable,
		periodType:        periodType,
		balance:           balance,
	}
}

// NewConceptFullForTest extends NewConceptForTest with the resolver-era
// fields (source URL, extension attributes, dimension/hypercube flags).
func NewConceptFullForTest(
	q QName,
	id string,
	subst QName,
	typ QName,
	abstract bool,
	nillable bool,
	periodType string,
	balance string,
	sourceURL string,
	attrs map[QName]string,
) *Concept {
	c := NewConceptForTest(q, id, subst, typ, abstract, nillable, periodType, balance)
	c.sourceURL = sourceURL
	c.attributes = attrs
	c.isDimension = subst.URI() == nsXBRLDT && subst.Local() == "dimensionItem"
	c.isHypercube = subst.URI() == nsXBRLDT && subst.Local() == "hypercubeItem"
	return c
}

func NewFootnoteForTest(id, role, lang, text string, factIDs []string) *Footnote {
	return &Footnote{id: id, role: role, lang: lang, text: text, factIDs: factIDs}
}

// NewRelationshipForTest builds a Relationship with a given discovery
// index, for tests of Children/Parents ordering.
func NewRelationshipForTest(linkRole, arcRole string, source, target *Concept, order float64, discoveryIndex int) *Relationship {
	return &Relationship{
		LinkRole:       linkRole,
		ArcRole:        arcRole,
		Source:         source,
		Target:         target,
		Order:          order,
		discoveryIndex: discoveryIndex,
	}
}

// NewDTSForTest assembles a DTS directly from its resolved parts,
// bypassing ResolveDTS/network access entirely.
func NewDTSForTest(tax *Taxonomy, conceptsByHref map[string]*Concept, relationships []*Relationship, schemaOrder []string, warnings []Warning) *DTS {
	d := &DTS{
		taxonomy:       tax,
		conceptsByHref: conceptsByHref,
		relationships:  relationships,
		schemaOrder:    schemaOrder,
		warnings:       warnings,
		labels:         make(map[QName]map[string]map[string]string),
	}
	for _, r := range relationships {
		if r.ArcRole == ArcroleConceptLabel && r.TargetResource != nil {
			d.indexLabel(r.Source, *r.TargetResource)
		}
	}
	return d
}

func NewTaxonomyForTest(concepts map[QName]*Concept) *Taxonomy {
	return &Taxonomy{
		concepts: concepts,
	}
}

func NewFactForTest(
	kind FactKind,
	name QName,
	value string,
	contextRef string,
	unitRef string,
	decimals string,
	precision string,
	id string,
	lang string,
	isNil bool,
) *Fact {
	return &Fact{
		kind:       kind,
		name:       name,
		value:      value,
		contextRef: contextRef,
		unitRef:    unitRef,
		decimals:   decimals,
		precision:  precision,
		id:         id,
		lang:       lang,
		nil:        isNil,
	}
}

func NewDocumentForTest(
	schemaRefs []SchemaRef,
	contexts map[string]*Context,
	units map[string]*Unit,
	facts []*Fact,
	tax *Taxonomy,
) *Document {
	return &Document{
		schemaRefs: schemaRefs,
		contexts:   contexts,
		units:      units,
		facts:      facts,
		taxonomy:   tax,
	}
}

// NewFactIXBRLForTest builds a Fact carrying iXBRL provenance (scale,
// sign, format) and, for tuples, child members.
func NewFactIXBRLForTest(base *Fact, scale, sign, format string, tupleMembers []*Fact) *Fact {
	f := *base
	f.scale = scale
	f.sign = sign
	f.format = format
	f.tupleMembers = tupleMembers
	return &f
}

func NewDocumentWithFootnotesForTest(doc *Document, footnotes []*Footnote, dts *DTS, warnings []Warning) *Document {
	doc.footnotes = footnotes
	doc.dts = dts
	doc.warnings = warnings
	return doc
}

var NormalizeSpace = normalizeSpace

// NamespaceStackForTest exposes namespaceStack's Push/Pop/URIForPrefix/
// PrefixForURI/Base/Lang/qname surface to the external test package.
type NamespaceStackForTest struct {
	ns *namespaceStack
}

func NewNamespaceStackForTest() *NamespaceStackForTest {
	return &NamespaceStackForTest{ns: newNamespaceStack()}
}

func (s *NamespaceStackForTest) Push(se xml.StartElement) { s.ns.Push(se) }
func (s *NamespaceStackForTest) Pop(ee xml.EndElement)     { s.ns.Pop(ee) }
func (s *NamespaceStackForTest) URIForPrefix(prefix string) string {
	return s.ns.URIForPrefix(prefix)
}
func (s *NamespaceStackForTest) PrefixForURI(uri string) string { return s.ns.PrefixForURI(uri) }
func (s *NamespaceStackForTest) Base() string                   { return s.ns.Base() }
func (s *NamespaceStackForTest) Lang() string                   { return s.ns.Lang() }
func (s *NamespaceStackForTest) QName(lexical string) QName     { return s.ns.qname(lexical) }

// EmptyNamespaceStackForTest builds a namespaceStack with zero frames, the
// boundary case namespaceStack's own accessors guard against.
func EmptyNamespaceStackForTest() *NamespaceStackForTest {
	return &NamespaceStackForTest{ns: &namespaceStack{}}
}

// NilNamespaceStackQNameForTest exercises qname's nil-receiver path, used
// when resolving a lexical QName with no namespace context at all.
func NilNamespaceStackQNameForTest(lexical string) QName {
	var ns *namespaceStack
	return ns.qname(lexical)
}
