package crossverify

import (
	"strings"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// documentValidator is implemented once per document type. Rules returns the
// type's declarative rule table bound to a concrete invoice/document pair;
// annotate lets a type attach contextual warnings and counters to the report.
type documentValidator interface {
	documentType() models.DocumentType
	rules(inv *models.CommercialInvoice) []Rule
	annotate(report *models.ValidationReport)
}

// runRules is the single interpreter shared by all document types. A rule is
// evaluated only when the document supplies a non-empty value for its field;
// skipped rules produce no result and do not count toward completeness.
func runRules(table []Rule) []models.FieldResult {
	results := make([]models.FieldResult, 0, len(table))
	for _, r := range table {
		if strings.TrimSpace(r.DocValue) == "" {
			continue
		}
		results = append(results, evaluate(r))
	}
	return results
}

// Score aggregates field results into a completeness percentage and an
// overall verdict. Zero evaluated rules yields completeness 0 but isValid
// true: "no evaluated rule failed" holds vacuously, and callers branch on
// that exact degenerate behavior.
func Score(results []models.FieldResult) (completeness int, isValid bool) {
	if len(results) == 0 {
		return 0, true
	}
	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	completeness = int(float64(matched)/float64(len(results))*100 + 0.5)
	return completeness, matched == len(results)
}
