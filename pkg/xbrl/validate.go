package xbrl

import "fmt"

// Validate checks the document's facts against the attached (or passed)
// DTS: dangling contextRef, unknown concepts, missing unitRef on
// numeric facts, and period-type mismatches between a fact's concept and
// its context. It never mutates the document; callers decide whether to
// treat the returned errors as fatal or to log and continue.
//
// Validation is opt-in: a Document parsed without a DTS attached (via
// SetDTS) skips concept-aware checks silently, since nothing in the spec
// requires taxonomy resolution just to read facts.
func (d *Document) Validate(dts *DTS) []error {
	if d == nil {
		return nil
	}
	if dts == nil {
		dts = d.dts
	}

	var errs []error

	for _, f := range d.facts {
		if f.contextRef != "" {
			if _, ok := d.contexts[f.contextRef]; !ok {
				errs = append(errs, &SchemaValidationError{
					Concept: f.name,
					Reason:  fmt.Sprintf("dangling contextRef %q", f.contextRef),
				})
			}
		}

		if dts == nil {
			continue
		}

		concept, ok := dts.ConceptByQName(f.name)
		if !ok {
			errs = append(errs, &UnknownConceptError{Concept: f.name})
			continue
		}

		if f.unitRef == "" && f.kind == FactKindItem && !f.nil && concept.Balance() != "" {
			errs = append(errs, &SchemaValidationError{
				Concept: f.name,
				Reason:  "numeric concept (has a balance) reported with no unitRef",
			})
		}

		ctx, ok := d.contexts[f.contextRef]
		if !ok || concept.PeriodType() == "" {
			continue
		}
		period := ctx.Period()
		switch concept.PeriodType() {
		case "instant":
			if !period.IsInstant() && !period.IsForever() {
				errs = append(errs, &SchemaValidationError{
					Concept: f.name,
					Reason:  "concept has periodType=instant but context has a duration period",
				})
			}
		case "duration":
			if period.IsInstant() {
				errs = append(errs, &SchemaValidationError{
					Concept: f.name,
					Reason:  "concept has periodType=duration but context has an instant period",
				})
			}
		}
	}

	return errs
}
