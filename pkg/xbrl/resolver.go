package xbrl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Standard arcroles and roles used by the resolver when materializing and
// classifying relationships. Extension taxonomies are free to use other
// arcroles (generic links); those still round-trip through Relationship,
// callers just filter on ArcRole themselves.
const (
	ArcroleConceptLabel       = "http://www.xbrl.org/2003/arcrole/concept-label"
	ArcroleConceptReference   = "http://www.xbrl.org/2003/arcrole/concept-reference"
	ArcroleParentChild        = "http://www.xbrl.org/2003/arcrole/parent-child"
	ArcroleSummationItem      = "http://www.xbrl.org/2003/arcrole/summation-item"
	ArcroleHypercubeDimension = "http://xbrl.org/int/dim/arcrole/hypercube-dimension"
	ArcroleDimensionDomain    = "http://xbrl.org/int/dim/arcrole/dimension-domain"
	ArcroleDomainMember       = "http://xbrl.org/int/dim/arcrole/domain-member"
	ArcroleDimensionDefault   = "http://xbrl.org/int/dim/arcrole/dimension-default"
	ArcroleAll                = "http://xbrl.org/int/dim/arcrole/all"

	RoleStandardLabel = "http://www.xbrl.org/2003/role/label"
)

// Fetcher retrieves the bytes at url. Implementations (e.g. a disk-backed
// cache) are responsible for their own retry/backoff and politeness.
// ResolveDTS returns a schema's fetch or parse error as fatal; a linkbase
// that cannot be fetched or parsed is recorded as a WarnBrokenLocator
// warning and skipped.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Relationship is one resolved, non-prohibited arc: an edge in a taxonomy
// network identified by (LinkRole, ArcRole). Target is the destination
// concept for concept-to-concept networks (presentation, calculation,
// definition); TargetResource is set instead for concept-to-resource
// networks (label, reference).
type Relationship struct {
	LinkRole       string
	ArcRole        string
	Source         *Concept
	Target         *Concept
	TargetResource *Resource
	Order          float64
	Weight         *float64
	PreferredLabel string

	discoveryIndex int
	priority       int
	use            string
}

// DTS is a fully discovered and resolved Discoverable Taxonomy Set: every
// schema and linkbase transitively reachable from the entry points, with
// arc override/prohibition already applied.
type DTS struct {
	entryPoints []string

	schemas     map[string]*TaxonomySchema // by resolved URL
	schemaOrder []string                   // discovery order, for stable exports
	linkbases   map[string]*Linkbase       // by resolved URL

	taxonomy       *Taxonomy
	conceptsByHref map[string]*Concept // "url#id" -> concept

	relationships []*Relationship
	labels        map[QName]map[string]map[string]string // concept -> role -> lang -> text

	warnings []Warning
}

// ResolveDTS discovers and resolves the full taxonomy set reachable from
// entryPoints (schema or linkbase URLs, typically the hrefs of an
// instance's xbrli:schemaRef elements). Discovery is breadth-first over a
// visited-URL set, so cyclic imports/includes terminate rather than loop.
func ResolveDTS(ctx context.Context, fetcher Fetcher, entryPoints ...string) (*DTS, error) {
	d := &DTS{
		entryPoints:    append([]string(nil), entryPoints...),
		schemas:        make(map[string]*TaxonomySchema),
		linkbases:      make(map[string]*Linkbase),
		taxonomy:       NewTaxonomy(),
		conceptsByHref: make(map[string]*Concept),
		labels:         make(map[QName]map[string]map[string]string),
	}

	visitedSchemas := make(map[string]bool)
	pendingLinkbases := make(map[string]LinkbaseType)
	var linkbaseOrder []string // keys of pendingLinkbases in discovery order

	queue := append([]string(nil), entryPoints...)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == "" || visitedSchemas[u] {
			continue
		}
		visitedSchemas[u] = true

		sch, err := fetchSchema(ctx, fetcher, u)
		if err != nil {
			return nil, err
		}
		d.schemas[u] = sch
		d.schemaOrder = append(d.schemaOrder, u)

		for _, c := range sch.Concepts {
			if err := d.registerConcept(c); err != nil {
				return nil, err
			}
		}
		for _, imp := range sch.Imports {
			if !visitedSchemas[imp] {
				queue = append(queue, imp)
			}
		}
		for _, inc := range sch.Includes {
			if !visitedSchemas[inc] {
				queue = append(queue, inc)
			}
		}
		for _, lr := range sch.LinkbaseRefs {
			if _, ok := pendingLinkbases[lr.Href]; !ok {
				pendingLinkbases[lr.Href] = lr.Type
				linkbaseOrder = append(linkbaseOrder, lr.Href)
			}
		}
	}

	for _, u := range linkbaseOrder {
		hint := pendingLinkbases[u]
		lb, err := fetchLinkbase(ctx, fetcher, u, hint)
		if err != nil {
			d.warnings = append(d.warnings, Warning{Kind: WarnBrokenLocator, Message: err.Error(), URL: u})
			continue
		}
		d.linkbases[u] = lb
	}

	discoveryCounter := 0
	groups := make(map[string][]*Relationship)
	for _, u := range linkbaseOrder {
		lb, ok := d.linkbases[u]
		if !ok {
			continue
		}
		for _, link := range lb.Links {
			locByLabel := make(map[string][]Locator)
			for _, loc := range link.Locators {
				locByLabel[loc.Label] = append(locByLabel[loc.Label], loc)
			}
			resByLabel := make(map[string][]Resource)
			for _, res := range link.Resources {
				resByLabel[res.Label] = append(resByLabel[res.Label], res)
			}

			for _, arc := range link.Arcs {
				froms := d.resolveLocators(locByLabel[arc.From])
				if len(froms) == 0 {
					d.warnings = append(d.warnings, Warning{
						Kind: WarnBrokenLocator, URL: lb.SourceURL,
						Message: fmt.Sprintf("arc from-label %q has no resolvable locator", arc.From),
					})
					continue
				}

				toConcepts := d.resolveLocators(locByLabel[arc.To])
				toResources := resByLabel[arc.To]

				for _, from := range froms {
					switch {
					case len(toConcepts) > 0:
						for _, to := range toConcepts {
							rel := &Relationship{
								LinkRole: link.Role, ArcRole: arc.Arcrole,
								Source: from, Target: to,
								Order: arc.Order, Weight: arc.Weight,
								PreferredLabel: arc.PreferredLabel,
								discoveryIndex: discoveryCounter,
							}
							discoveryCounter++
							key := overrideKey(rel.LinkRole, rel.ArcRole, from.QName().String(), to.QName().String())
							groups[key] = append(groups[key], withArcMeta(rel, arc))
						}
					case len(toResources) > 0:
						for i := range toResources {
							res := toResources[i]
							rel := &Relationship{
								LinkRole: link.Role, ArcRole: arc.Arcrole,
								Source: from, TargetResource: &res,
								Order: arc.Order, PreferredLabel: arc.PreferredLabel,
								discoveryIndex: discoveryCounter,
							}
							discoveryCounter++
							key := overrideKey(rel.LinkRole, rel.ArcRole, from.QName().String(), resourceKey(res))
							groups[key] = append(groups[key], withArcMeta(rel, arc))
						}
					default:
						d.warnings = append(d.warnings, Warning{
							Kind: WarnBrokenLocator, URL: lb.SourceURL,
							Message: fmt.Sprintf("arc to-label %q has no resolvable locator or resource", arc.To),
						})
					}
				}
			}
		}
	}

	for _, group := range groups {
		rel, warn := resolveOverrideGroup(group)
		if warn != nil {
			d.warnings = append(d.warnings, *warn)
		}
		if rel != nil {
			d.relationships = append(d.relationships, rel)
			if rel.ArcRole == ArcroleConceptLabel && rel.TargetResource != nil {
				d.indexLabel(rel.Source, *rel.TargetResource)
			}
		}
	}

	sort.Slice(d.relationships, func(i, j int) bool {
		return d.relationships[i].discoveryIndex < d.relationships[j].discoveryIndex
	})

	d.detectCalculationCycles()

	return d, nil
}

// detectCalculationCycles flags (but does not fail on) a cycle in any
// summation-item network: a calculation linkbase with A -> B -> A is
// structurally invalid per XBRL 2.1 §5.2.5.2, but taxonomies in the wild
// sometimes ship one anyway, so resolution continues and the defect is
// surfaced as a warning instead of aborting the whole DTS.
func (d *DTS) detectCalculationCycles() {
	byRole := make(map[string][]*Relationship)
	for _, r := range d.relationships {
		if r.ArcRole == ArcroleSummationItem {
			byRole[r.LinkRole] = append(byRole[r.LinkRole], r)
		}
	}

	for role, rels := range byRole {
		edges := make(map[*Concept][]*Concept)
		for _, r := range rels {
			edges[r.Source] = append(edges[r.Source], r.Target)
		}

		const (
			gray  = 1
			black = 2
		)
		color := make(map[*Concept]int)
		var cyclic bool

		var visit func(c *Concept)
		visit = func(c *Concept) {
			if cyclic || color[c] == black {
				return
			}
			if color[c] == gray {
				cyclic = true
				return
			}
			color[c] = gray
			for _, next := range edges[c] {
				visit(next)
				if cyclic {
					return
				}
			}
			color[c] = black
		}

		for c := range edges {
			visit(c)
			if cyclic {
				d.warnings = append(d.warnings, Warning{
					Kind:    WarnCalculationCycle,
					URL:     role,
					Message: fmt.Sprintf("calculation network %q contains a summation-item cycle", role),
				})
				break
			}
		}
	}
}

// withArcMeta stashes the priority/use inputs to the override algorithm
// directly on the Relationship; both fields are unexported so callers
// outside this file never see them.
func withArcMeta(rel *Relationship, arc Arc) *Relationship {
	rel.priority = arc.Priority
	rel.use = arc.Use
	return rel
}

func resolveOverrideGroup(group []*Relationship) (*Relationship, *Warning) {
	maxPriority := group[0].priorityOf()
	for _, r := range group[1:] {
		if p := r.priorityOf(); p > maxPriority {
			maxPriority = p
		}
	}

	var survivors []*Relationship
	for _, r := range group {
		if r.priorityOf() == maxPriority {
			survivors = append(survivors, r)
		}
	}

	prohibited := false
	for _, r := range survivors {
		if useOf(r) == "prohibited" {
			prohibited = true
		}
	}

	if prohibited {
		return nil, nil
	}

	if len(survivors) > 1 {
		sort.Slice(survivors, func(i, j int) bool { return survivors[i].discoveryIndex < survivors[j].discoveryIndex })
		w := Warning{
			Kind:    WarnAmbiguousOverride,
			Message: fmt.Sprintf("%d optional arcs tied at priority %d for the same (role,arcrole,source,target); kept the first discovered", len(survivors), maxPriority),
		}
		return survivors[0], &w
	}

	return survivors[0], nil
}

func (r *Relationship) priorityOf() int {
	return r.priority
}

func useOf(r *Relationship) string {
	if r.use == "" {
		return "optional"
	}
	return r.use
}

func overrideKey(linkRole, arcRole, from, to string) string {
	return linkRole + "\x00" + arcRole + "\x00" + from + "\x00" + to
}

func resourceKey(res Resource) string {
	if len(res.Parts) > 0 {
		var sb strings.Builder
		for _, p := range res.Parts {
			sb.WriteString(p.Name)
			sb.WriteByte('=')
			sb.WriteString(p.Value)
			sb.WriteByte(';')
		}
		return res.Role + "\x00" + sb.String()
	}
	return res.Role + "\x00" + res.Lang + "\x00" + res.Text
}

func (d *DTS) resolveLocators(locs []Locator) []*Concept {
	var out []*Concept
	for _, loc := range locs {
		u, frag := loc.SplitHref()
		if c, ok := d.conceptsByHref[u+"#"+frag]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (d *DTS) registerConcept(c *Concept) error {
	if existing, ok := d.taxonomy.concepts[c.QName()]; ok {
		if existing.sourceURL != c.sourceURL && (existing.typeName != c.typeName || existing.periodType != c.periodType) {
			return &DuplicateConceptError{Concept: c.QName(), FirstURL: existing.sourceURL, SecondURL: c.sourceURL}
		}
	}
	d.taxonomy.addConcept(c)
	d.conceptsByHref[c.sourceURL+"#"+c.id] = c
	return nil
}

func (d *DTS) indexLabel(c *Concept, res Resource) {
	q := c.QName()
	if d.labels[q] == nil {
		d.labels[q] = make(map[string]map[string]string)
	}
	role := res.Role
	if role == "" {
		role = RoleStandardLabel
	}
	if d.labels[q][role] == nil {
		d.labels[q][role] = make(map[string]string)
	}
	d.labels[q][role][res.Lang] = res.Text
}

func fetchSchema(ctx context.Context, fetcher Fetcher, u string) (*TaxonomySchema, error) {
	rc, err := fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, &RemoteFetchError{URL: u, Err: err}
	}
	defer rc.Close()
	return ParseSchema(rc, u)
}

func fetchLinkbase(ctx context.Context, fetcher Fetcher, u string, hint LinkbaseType) (*Linkbase, error) {
	rc, err := fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, &RemoteFetchError{URL: u, Err: err}
	}
	defer rc.Close()
	return ParseLinkbase(rc, u, hint)
}

// Taxonomy returns the merged concept registry across every schema in the
// resolved set.
func (d *DTS) Taxonomy() *Taxonomy {
	if d == nil {
		return nil
	}
	return d.taxonomy
}

// SchemaURLs returns every schema URL in the resolved set, in discovery
// (breadth-first) order.
func (d *DTS) SchemaURLs() []string {
	if d == nil {
		return nil
	}
	return d.schemaOrder
}

// Warnings returns non-fatal issues accumulated during discovery and
// resolution (broken locators, ambiguous overrides).
func (d *DTS) Warnings() []Warning {
	if d == nil {
		return nil
	}
	return d.warnings
}

// ConceptByQName looks up a concept by its (namespace, name) identity.
func (d *DTS) ConceptByQName(q QName) (*Concept, bool) {
	if d == nil || d.taxonomy == nil {
		return nil, false
	}
	c, ok := d.taxonomy.concepts[q]
	return c, ok
}

// ConceptByHref resolves a linkbase locator href ("url#id") to the
// concept declared under that XML id in that schema.
func (d *DTS) ConceptByHref(href string) (*Concept, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.conceptsByHref[href]
	return c, ok
}

// LabelsFor returns the label text for concept c, preferring an exact
// (role, lang) match and falling back, in order, to: any language under
// the requested role, the standard label role in the requested language,
// and finally any label at all for the concept.
func (d *DTS) LabelsFor(c *Concept, role, lang string) (string, bool) {
	if d == nil || c == nil {
		return "", false
	}
	byRole := d.labels[c.QName()]
	if byRole == nil {
		return "", false
	}
	if role == "" {
		role = RoleStandardLabel
	}
	if byLang, ok := byRole[role]; ok {
		if lang != "" {
			if text, ok := byLang[lang]; ok {
				return text, true
			}
		}
		for _, text := range byLang {
			return text, true
		}
	}
	if role != RoleStandardLabel {
		if byLang, ok := byRole[RoleStandardLabel]; ok {
			if lang != "" {
				if text, ok := byLang[lang]; ok {
					return text, true
				}
			}
			for _, text := range byLang {
				return text, true
			}
		}
	}
	for _, byLang := range byRole {
		for _, text := range byLang {
			return text, true
		}
	}
	return "", false
}

// ReferencesFor returns the reference parts (ref:Name, ref:Number, ...)
// attached to concept c via concept-reference arcs.
func (d *DTS) ReferencesFor(c *Concept) []Resource {
	if d == nil || c == nil {
		return nil
	}
	var out []Resource
	for _, r := range d.relationships {
		if r.ArcRole == ArcroleConceptReference && r.TargetResource != nil && r.Source == c {
			out = append(out, *r.TargetResource)
		}
	}
	return out
}

// Children returns the relationships in the given network (linkRole,
// arcRole) whose source is c, ordered by arc order ascending with
// discovery-order as a deterministic tiebreak.
func (d *DTS) Children(c *Concept, linkRole, arcRole string) []*Relationship {
	if d == nil || c == nil {
		return nil
	}
	var out []*Relationship
	for _, r := range d.relationships {
		if r.Source == c && r.ArcRole == arcRole && (linkRole == "" || r.LinkRole == linkRole) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].discoveryIndex < out[j].discoveryIndex
	})
	return out
}

// Parents returns the relationships in the given network whose target is
// c, in the same order as Children.
func (d *DTS) Parents(c *Concept, linkRole, arcRole string) []*Relationship {
	if d == nil || c == nil {
		return nil
	}
	var out []*Relationship
	for _, r := range d.relationships {
		if r.Target == c && r.ArcRole == arcRole && (linkRole == "" || r.LinkRole == linkRole) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].discoveryIndex < out[j].discoveryIndex
	})
	return out
}
