package xbrl

import "fmt"

// Location identifies the source document of an error or warning. The
// parsers in this package set only URL; Line and Column are left zero,
// and String then prints the URL alone.
type Location struct {
	URL    string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.URL == "" {
		return ""
	}
	if l.Line == 0 {
		return l.URL
	}
	return fmt.Sprintf("%s:%d:%d", l.URL, l.Line, l.Column)
}

// RemoteFetchError reports a fatal network or HTTP-status failure while
// fetching a dependency (schema, linkbase, or enclosure).
type RemoteFetchError struct {
	URL string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("xbrl: fetch %s: %v", e.URL, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// XmlWellFormednessError reports malformed XML or HTML input.
type XmlWellFormednessError struct {
	Loc Location
	Err error
}

func (e *XmlWellFormednessError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return fmt.Sprintf("xbrl: malformed document at %s: %v", loc, e.Err)
	}
	return fmt.Sprintf("xbrl: malformed document: %v", e.Err)
}

func (e *XmlWellFormednessError) Unwrap() error { return e.Err }

// SchemaValidationError reports a violated XBRL structural rule: a
// dangling contextRef, a period-type mismatch between a fact's
// concept and its context, or a missing unitRef on a numeric fact.
type SchemaValidationError struct {
	Loc     Location
	Concept QName
	Reason  string
}

func (e *SchemaValidationError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return fmt.Sprintf("xbrl: schema validation (%s) at %s: %s", e.Concept.String(), loc, e.Reason)
	}
	return fmt.Sprintf("xbrl: schema validation (%s): %s", e.Concept.String(), e.Reason)
}

// UnknownConceptError reports a fact whose QName does not resolve to any
// concept in the attached DTS.
type UnknownConceptError struct {
	Loc     Location
	Concept QName
}

func (e *UnknownConceptError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return fmt.Sprintf("xbrl: unknown concept %s at %s", e.Concept.String(), loc)
	}
	return fmt.Sprintf("xbrl: unknown concept %s", e.Concept.String())
}

// DuplicateConceptError reports the same (namespace, name) being
// inconsistently redeclared across schemas in the DTS.
type DuplicateConceptError struct {
	Concept    QName
	FirstURL   string
	SecondURL  string
}

func (e *DuplicateConceptError) Error() string {
	return fmt.Sprintf("xbrl: duplicate concept %s declared in both %s and %s",
		e.Concept.String(), e.FirstURL, e.SecondURL)
}

// TransformError reports an unrecognized or failing iXBRL format
// transform applied to a displayed fact's raw text.
type TransformError struct {
	Loc       Location
	Transform string
	Err       error
}

func (e *TransformError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return fmt.Sprintf("xbrl: transform %q at %s: %v", e.Transform, loc, e.Err)
	}
	return fmt.Sprintf("xbrl: transform %q: %v", e.Transform, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// NumericParseError reports a value that, after transform/scale/sign
// application, is not a well-formed number.
type NumericParseError struct {
	Loc   Location
	Value string
	Err   error
}

func (e *NumericParseError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return fmt.Sprintf("xbrl: numeric parse %q at %s: %v", e.Value, loc, e.Err)
	}
	return fmt.Sprintf("xbrl: numeric parse %q: %v", e.Value, e.Err)
}

func (e *NumericParseError) Unwrap() error { return e.Err }

// Warning kinds (non-fatal; accumulated on DTS.Warnings / Document.Warnings).
const (
	WarnCalculationCycle  = "CalculationCycleError"
	WarnBrokenLocator     = "BrokenLocatorWarning"
	WarnAmbiguousOverride = "AmbiguousOverrideWarning"
	WarnInvalidFactValue  = "InvalidFactValueWarning"
)
