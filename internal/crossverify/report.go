package crossverify

import (
	"time"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// allFieldsMatchWarning is the sentinel clients look for on a clean report.
const allFieldsMatchWarning = "All fields match commercial invoice"

// buildReport assembles the final ValidationReport from the evaluated field
// results. Errors mirror failed rules one-to-one; the warnings list carries
// either the all-match sentinel or explanatory notes added by annotate.
func buildReport(inv *models.CommercialInvoice, docType models.DocumentType, results []models.FieldResult) *models.ValidationReport {
	completeness, isValid := Score(results)

	details := make(map[string]models.FieldResult, len(results))
	matched := 0
	var errors []string
	for _, r := range results {
		details[r.Field] = r
		if r.Matched {
			matched++
		} else if r.Message != "" {
			errors = append(errors, r.Message)
		}
	}
	if errors == nil {
		errors = []string{}
	}

	warnings := []string{}
	if isValid && len(results) > 0 {
		warnings = append(warnings, allFieldsMatchWarning)
	}
	if len(results) == 0 {
		warnings = append(warnings, "No verifiable fields found in document - result is low confidence")
	}

	return &models.ValidationReport{
		Success:              true,
		DocumentType:         docType,
		IsValid:              isValid,
		Completeness:         completeness,
		InvoiceMatchVerified: isValid,
		ValidationDetails:    details,
		ValidationErrors:     errors,
		ValidationWarnings:   warnings,
		CrossDocumentMatches: models.CrossDocumentMatches{
			TotalFieldsChecked: len(results),
			MatchedFields:      matched,
			MatchPercentage:    completeness,
		},
		CommercialInvoice: inv.Summary(),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	}
}

// setAmountsVerified fills AmountsMatchVerified for weight-bearing document
// types: true unless the named weight rule was evaluated and failed.
func setAmountsVerified(report *models.ValidationReport, weightField string) {
	verified := true
	if r, ok := report.ValidationDetails[weightField]; ok {
		verified = r.Matched
	}
	report.AmountsMatchVerified = &verified
}
