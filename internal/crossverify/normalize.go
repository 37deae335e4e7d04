// Package crossverify implements the cross-document validation engine: it
// checks whether an extracted export document agrees, field by field, with
// the commercial invoice of the same shipment.
package crossverify

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// canonicalDateLayout is the canonical form every parseable date normalizes to.
const canonicalDateLayout = "2006-01-02"

var (
	// Day-first family must be tried before year-first: ambiguous inputs
	// like "03-04-2025" resolve as DD-MM-YYYY.
	dayFirstPattern  = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4})$`)
	yearFirstPattern = regexp.MustCompile(`^(\d{4})[./-](\d{1,2})[./-](\d{1,2})$`)

	// Last-resort layouts for free-form dates seen on scanned documents.
	genericDateLayouts = []string{
		"2 Jan 2006",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 January 2006",
		"2006/01/02",
		time.RFC3339,
	}
)

// NormalizeDate canonicalizes a raw date string to YYYY-MM-DD. It tries the
// DD.MM.YYYY family (any of '.', '-', '/' as separator, one or two digit day
// and month), then YYYY-MM-DD, then a generic layout list. Returns ok=false
// when nothing parses or a component is out of range.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout), true
		}
	}
	return "", false
}

// buildDate validates year/month/day strings and formats the canonical date.
func buildDate(year, month, day string) (string, bool) {
	var y, m, d int
	if _, err := fmt.Sscanf(year, "%d", &y); err != nil {
		return "", false
	}
	if _, err := fmt.Sscanf(month, "%d", &m); err != nil {
		return "", false
	}
	if _, err := fmt.Sscanf(day, "%d", &d); err != nil {
		return "", false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date silently rolls over out-of-range components; a roll-over
	// means the raw components were invalid.
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return "", false
	}
	return t.Format(canonicalDateLayout), true
}

// paymentTermCategory maps keyword fragments to a canonical payment term.
// Checked in order; the first category with a matching fragment wins.
type paymentTermCategory struct {
	canonical string
	keywords  []string
}

var paymentTermCategories = []paymentTermCategory{
	{"advance", []string{"advance"}},
	{"letter of credit", []string{"letter of credit", "l/c", "lc at sight", "irrevocable lc"}},
	{"document against payment", []string{"against payment", "d/p", "dp at sight", "cad"}},
	{"document against acceptance", []string{"against acceptance", "d/a", "da "}},
	{"open account", []string{"open account", "o/a"}},
	{"cash", []string{"cash"}},
}

// NormalizePaymentTerms folds the many phrasings of a payment arrangement
// ("L/C", "Irrevocable LC at sight", "100% Advance TT") into a small fixed
// vocabulary so that differently worded documents still compare equal.
// Unrecognized input is returned lower-cased and trimmed.
func NormalizePaymentTerms(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, cat := range paymentTermCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(s, kw) {
				return cat.canonical
			}
		}
	}
	return s
}

// NormalizeGeneric lower-cases, trims and collapses internal whitespace.
// Applied to both sides before any case-insensitive comparison.
func NormalizeGeneric(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
