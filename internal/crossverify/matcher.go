package crossverify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// MatcherKind selects the comparison strategy for a field rule.
type MatcherKind int

const (
	// MatchExactCI compares case-insensitive trimmed equality.
	MatchExactCI MatcherKind = iota
	// MatchDateEquality compares the two values after date normalization.
	MatchDateEquality
	// MatchSubstringDerivedNumber extracts the first digit run from the
	// document's composite value and compares it to the invoice value.
	MatchSubstringDerivedNumber
	// MatchSubstringDerivedDate extracts the first recognizable date pattern
	// from the document's composite value and compares it to the invoice date.
	MatchSubstringDerivedDate
	// MatchNumericTolerance parses both sides as numbers and allows a delta.
	MatchNumericTolerance
	// MatchPresenceOnly passes whenever the document supplies the field; used
	// for document-only fields with no invoice counterpart.
	MatchPresenceOnly
	// MatchDateOrder requires the document date not to precede the reference.
	MatchDateOrder
	// MatchPaymentTerms compares after payment-terms canonicalization.
	MatchPaymentTerms
	// MatchStatusEnum requires the document value to be one of a fixed set.
	MatchStatusEnum
	// MatchTextOverlap passes when either normalized value contains the other.
	MatchTextOverlap
)

// NoInvoiceCounterpart is echoed as the invoice value for document-only rules.
const NoInvoiceCounterpart = "N/A (Commercial Invoice)"

var (
	digitRunPattern = regexp.MustCompile(`\d+`)
	// Day-first embedded dates ("17.07.2025") are searched before year-first
	// ones ("2025-07-17") inside composite strings such as shipping marks.
	embeddedDayFirst  = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-]\d{4}`)
	embeddedYearFirst = regexp.MustCompile(`\d{4}[./-]\d{1,2}[./-]\d{1,2}`)
	numericStrip      = regexp.MustCompile(`[^0-9.\-]`)
)

// Rule is one declarative field check: which document value is compared to
// which invoice value, and how. Rules are assembled into per-document-type
// tables; the interpreter in validator.go runs them in order.
type Rule struct {
	Field    string
	DocValue string
	InvValue string
	Kind     MatcherKind
	Epsilon  float64  // MatchNumericTolerance
	Allowed  []string // MatchStatusEnum
}

// evaluate runs a single rule. The caller has already established that the
// document value is non-empty; reaching here with an empty invoice side is
// reported as a mismatch, not skipped.
func evaluate(r Rule) models.FieldResult {
	res := models.FieldResult{
		Field:         r.Field,
		InvoiceValue:  r.InvValue,
		DocumentValue: r.DocValue,
	}

	switch r.Kind {
	case MatchExactCI:
		matchExactCI(&res)
	case MatchDateEquality:
		matchDateEquality(&res)
	case MatchSubstringDerivedNumber:
		matchDerivedNumber(&res)
	case MatchSubstringDerivedDate:
		matchDerivedDate(&res)
	case MatchNumericTolerance:
		matchNumeric(&res, r.Epsilon)
	case MatchPresenceOnly:
		res.Matched = strings.TrimSpace(r.DocValue) != ""
		if !res.Matched {
			res.Message = fmt.Sprintf("%s is missing from the document", r.Field)
		}
	case MatchDateOrder:
		matchDateOrder(&res)
	case MatchPaymentTerms:
		matchPaymentTerms(&res)
	case MatchStatusEnum:
		matchStatusEnum(&res, r.Allowed)
	case MatchTextOverlap:
		matchTextOverlap(&res)
	}
	return res
}

func matchExactCI(res *models.FieldResult) {
	inv := NormalizeGeneric(res.InvoiceValue)
	doc := NormalizeGeneric(res.DocumentValue)
	switch {
	case inv == "" && doc == "":
		res.Matched = true
	case inv == "" || doc == "":
		res.Matched = false
		res.Message = fmt.Sprintf("%s is missing in one document (invoice: %q, document: %q)",
			res.Field, res.InvoiceValue, res.DocumentValue)
	case inv == doc:
		res.Matched = true
	default:
		res.Matched = false
		res.Message = fmt.Sprintf("%s mismatch: invoice has %q, document has %q",
			res.Field, res.InvoiceValue, res.DocumentValue)
	}
}

func matchDateEquality(res *models.FieldResult) {
	inv, invOK := NormalizeDate(res.InvoiceValue)
	doc, docOK := NormalizeDate(res.DocumentValue)
	if !invOK || !docOK {
		res.Matched = false
		res.Message = fmt.Sprintf("%s could not be compared: invoice date %q, document date %q",
			res.Field, res.InvoiceValue, res.DocumentValue)
		return
	}
	res.Matched = inv == doc
	if !res.Matched {
		res.Message = fmt.Sprintf("%s mismatch: invoice date %s, document date %s",
			res.Field, inv, doc)
	}
}

func matchDerivedNumber(res *models.FieldResult) {
	derived := digitRunPattern.FindString(res.DocumentValue)
	want := strings.TrimSpace(res.InvoiceValue)
	if derived == "" {
		res.Matched = false
		res.Message = fmt.Sprintf("%s contains no number to compare with invoice number %q",
			res.Field, want)
		return
	}
	res.Matched = derived == want
	if !res.Matched {
		res.Message = fmt.Sprintf("%s embeds number %q which differs from invoice number %q",
			res.Field, derived, want)
	}
}

func matchDerivedDate(res *models.FieldResult) {
	raw := embeddedDayFirst.FindString(res.DocumentValue)
	if raw == "" {
		raw = embeddedYearFirst.FindString(res.DocumentValue)
	}
	if raw == "" {
		res.Matched = false
		res.Message = fmt.Sprintf("%s contains no date to compare with invoice date %q",
			res.Field, res.InvoiceValue)
		return
	}

	derived, derivedOK := NormalizeDate(raw)
	want, wantOK := NormalizeDate(res.InvoiceValue)
	if !derivedOK || !wantOK {
		res.Matched = false
		res.Message = fmt.Sprintf("%s embeds date %q which could not be compared with invoice date %q",
			res.Field, raw, res.InvoiceValue)
		return
	}
	res.Matched = derived == want
	if !res.Matched {
		res.Message = fmt.Sprintf("%s embeds date %s which differs from invoice date %s",
			res.Field, derived, want)
	}
}

func matchNumeric(res *models.FieldResult, epsilon float64) {
	inv, invErr := parseNumber(res.InvoiceValue)
	doc, docErr := parseNumber(res.DocumentValue)
	if invErr != nil || docErr != nil {
		res.Matched = false
		res.Message = fmt.Sprintf("%s could not be compared numerically: invoice %q, document %q",
			res.Field, res.InvoiceValue, res.DocumentValue)
		return
	}
	res.Matched = math.Abs(inv-doc) <= epsilon
	if !res.Matched {
		res.Message = fmt.Sprintf("%s differs by more than %.2f: invoice %.2f, document %.2f",
			res.Field, epsilon, inv, doc)
	}
}

func matchDateOrder(res *models.FieldResult) {
	ref, refOK := NormalizeDate(res.InvoiceValue)
	doc, docOK := NormalizeDate(res.DocumentValue)
	if !refOK || !docOK {
		res.Matched = false
		res.Message = fmt.Sprintf("%s could not be compared: reference date %q, document date %q",
			res.Field, res.InvoiceValue, res.DocumentValue)
		return
	}
	// Canonical YYYY-MM-DD strings order lexicographically.
	res.Matched = doc >= ref
	if !res.Matched {
		res.Message = fmt.Sprintf("%s %s cannot be before the commercial invoice date %s",
			res.Field, doc, ref)
	}
}

func matchPaymentTerms(res *models.FieldResult) {
	inv := NormalizePaymentTerms(res.InvoiceValue)
	doc := NormalizePaymentTerms(res.DocumentValue)
	res.Matched = inv == doc
	if !res.Matched {
		res.Message = fmt.Sprintf("%s mismatch: invoice terms %q (%s), document terms %q (%s)",
			res.Field, res.InvoiceValue, inv, res.DocumentValue, doc)
	}
}

func matchStatusEnum(res *models.FieldResult, allowed []string) {
	doc := NormalizeGeneric(res.DocumentValue)
	for _, a := range allowed {
		if doc == NormalizeGeneric(a) {
			res.Matched = true
			return
		}
	}
	res.Matched = false
	res.Message = fmt.Sprintf("%s has unrecognized value %q, expected one of %v",
		res.Field, res.DocumentValue, allowed)
}

func matchTextOverlap(res *models.FieldResult) {
	inv := NormalizeGeneric(res.InvoiceValue)
	doc := NormalizeGeneric(res.DocumentValue)
	if inv == "" || doc == "" {
		res.Matched = inv == doc
		if !res.Matched {
			res.Message = fmt.Sprintf("%s is missing in one document (invoice: %q, document: %q)",
				res.Field, res.InvoiceValue, res.DocumentValue)
		}
		return
	}
	res.Matched = strings.Contains(inv, doc) || strings.Contains(doc, inv)
	if !res.Matched {
		res.Message = fmt.Sprintf("%s has no overlap: invoice %q, document %q",
			res.Field, res.InvoiceValue, res.DocumentValue)
	}
}

// parseNumber strips units and separators ("1,250.5 KGS" -> 1250.5) before
// parsing.
func parseNumber(raw string) (float64, error) {
	cleaned := numericStrip.ReplaceAllString(strings.ReplaceAll(raw, ",", ""), "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}
	return strconv.ParseFloat(cleaned, 64)
}
