package xbrl

import (
	"fmt"
	"strconv"
	"strings"
)

// Transform maps iXBRL display text to its canonical XBRL value. It
// receives the already-whitespace-normalized raw text of an ix: element
// and returns the canonical lexical form (still a string; numeric
// parsing/sign/scale are applied afterward by the caller).
type Transform func(raw string) (string, error)

// transformRegistry implements the minimum iXBRL Transformation Registry
// set named in the iXBRL 1.1 spec (ITR 2/3/4): numeric, boolean, and
// date families, plus the historical unprefixed v1 aliases some filers
// still emit.
var transformRegistry = map[string]Transform{
	"num-dot-decimal":    transformNumDotDecimal,
	"numdotdecimal":      transformNumDotDecimal,
	"num-comma-decimal":  transformNumCommaDecimal,
	"numcommadecimal":    transformNumCommaDecimal,
	"num-unit-decimal":   transformNumDotDecimal,
	"zerodash":           transformZeroDash,
	"nocontent":          transformNoContent,
	"fixed-zero":         fixedTransform("0"),
	"fixed-empty":        fixedTransform(""),
	"fixed-true":         fixedTransform("true"),
	"fixed-false":        fixedTransform("false"),
	"booleantrue":        fixedTransform("true"),
	"boolean-true":       fixedTransform("true"),
	"booleanfalse":       fixedTransform("false"),
	"boolean-false":      fixedTransform("false"),
	"date-year-month-day": transformDateYearMonthDay,
}

func init() {
	for name, fn := range dateMonthnameFamilies() {
		transformRegistry[name] = fn
	}
}

// LookupTransform resolves a format attribute's lexical QName (e.g.
// "ixt:num-dot-decimal" or a bare registry name) to its Transform. The
// namespace prefix is ignored; only the local name is significant, since
// registry revisions (ixt, ixt2, ixt3, ixt4) share local names for the
// same semantics.
func LookupTransform(lexicalName string) (Transform, bool) {
	local := localOf(lexicalName)
	if local == "" {
		local = lexicalName
	}
	fn, ok := transformRegistry[local]
	return fn, ok
}

func fixedTransform(value string) Transform {
	return func(string) (string, error) { return value, nil }
}

func transformZeroDash(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "-" || trimmed == "–" || trimmed == "—" {
		return "0", nil
	}
	return "", fmt.Errorf("zerodash: %q is not a dash", raw)
}

func transformNoContent(string) (string, error) {
	return "", nil
}

// transformNumDotDecimal strips grouping characters (spaces, commas, thin
// spaces) and leaves '.' as the decimal point.
func transformNumDotDecimal(raw string) (string, error) {
	var sb strings.Builder
	for _, r := range raw {
		switch r {
		case ',', ' ', ' ', ' ':
			continue
		default:
			sb.WriteRune(r)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("num-dot-decimal: empty value")
	}
	return out, nil
}

// transformNumCommaDecimal treats '.' and spaces as grouping separators
// and ',' as the decimal point, producing a canonical '.'-decimal value.
func transformNumCommaDecimal(raw string) (string, error) {
	var sb strings.Builder
	for _, r := range raw {
		switch r {
		case '.', ' ', ' ', ' ':
			continue
		case ',':
			sb.WriteByte('.')
		default:
			sb.WriteRune(r)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("num-comma-decimal: empty value")
	}
	return out, nil
}

func transformDateYearMonthDay(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("date-year-month-day: %q is not year-month-day", raw)
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	dd, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", fmt.Errorf("date-year-month-day: %q is not numeric year-month-day", raw)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, dd), nil
}

var monthNamesEN = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// dateMonthnameFamilies builds the date-day-monthname-year and
// date-monthname-day-year transform families (their "-en" suffixed
// English-locale forms, the only locale this registry carries).
func dateMonthnameFamilies() map[string]Transform {
	return map[string]Transform{
		"date-day-monthname-year":    dateDayMonthnameYear,
		"date-day-monthname-year-en": dateDayMonthnameYear,
		"date-monthname-day-year":    dateMonthnameDayYear,
		"date-monthname-day-year-en": dateMonthnameDayYear,
		"date-monthname-year":        dateMonthnameYear,
		"date-monthname-year-en":     dateMonthnameYear,
	}
}

func dateDayMonthnameYear(raw string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 3 {
		return "", fmt.Errorf("date-day-monthname-year: %q does not have 3 fields", raw)
	}
	day, err := strconv.Atoi(strings.Trim(fields[0], ","))
	if err != nil {
		return "", fmt.Errorf("date-day-monthname-year: %q: %w", raw, err)
	}
	month, ok := monthNamesEN[strings.ToLower(fields[1])]
	if !ok {
		return "", fmt.Errorf("date-day-monthname-year: unknown month %q", fields[1])
	}
	year, err := strconv.Atoi(strings.Trim(fields[2], ","))
	if err != nil {
		return "", fmt.Errorf("date-day-monthname-year: %q: %w", raw, err)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func dateMonthnameDayYear(raw string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 3 {
		return "", fmt.Errorf("date-monthname-day-year: %q does not have 3 fields", raw)
	}
	month, ok := monthNamesEN[strings.ToLower(fields[0])]
	if !ok {
		return "", fmt.Errorf("date-monthname-day-year: unknown month %q", fields[0])
	}
	day, err := strconv.Atoi(strings.Trim(fields[1], ","))
	if err != nil {
		return "", fmt.Errorf("date-monthname-day-year: %q: %w", raw, err)
	}
	year, err := strconv.Atoi(strings.Trim(fields[2], ","))
	if err != nil {
		return "", fmt.Errorf("date-monthname-day-year: %q: %w", raw, err)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func dateMonthnameYear(raw string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return "", fmt.Errorf("date-monthname-year: %q does not have 2 fields", raw)
	}
	month, ok := monthNamesEN[strings.ToLower(fields[0])]
	if !ok {
		return "", fmt.Errorf("date-monthname-year: unknown month %q", fields[0])
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", fmt.Errorf("date-monthname-year: %q: %w", raw, err)
	}
	return fmt.Sprintf("%04d-%02d-01", year, month), nil
}
