package crossverify

import (
	"strings"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

type fumigationValidator struct {
	doc *models.FumigationCertificate
}

func (v *fumigationValidator) documentType() models.DocumentType { return models.DocTypeFumigation }

// rules gives the shipping-mark derivations priority: a mark like
// "222500187 Dt 17.07.2025" embeds the invoice number and date as free text.
// The direct invoiceNumber/invoiceDate rules remain in the table and run
// whenever the certificate also carries those fields separately, so they act
// as a fallback when no mark is present. When both sources are present both
// are checked independently; see DESIGN.md for the open scoring question.
func (v *fumigationValidator) rules(inv *models.CommercialInvoice) []Rule {
	return []Rule{
		{Field: "shippingMarkInvoiceNo", DocValue: v.doc.ShippingMark, InvValue: inv.InvoiceNo, Kind: MatchSubstringDerivedNumber},
		{Field: "shippingMarkInvoiceDate", DocValue: v.doc.ShippingMark, InvValue: inv.InvoiceDate, Kind: MatchSubstringDerivedDate},
		{Field: "invoiceNumber", DocValue: v.doc.InvoiceNumber, InvValue: inv.InvoiceNo, Kind: MatchExactCI},
		{Field: "invoiceDate", DocValue: v.doc.InvoiceDate, InvValue: inv.InvoiceDate, Kind: MatchDateEquality},
		{Field: "exporterName", DocValue: v.doc.ExporterName, InvValue: inv.ExporterName, Kind: MatchExactCI},
		{Field: "consigneeName", DocValue: v.doc.ConsigneeName, InvValue: inv.ConsigneeName, Kind: MatchExactCI},
	}
}

func (v *fumigationValidator) annotate(report *models.ValidationReport) {
	markPresent := strings.TrimSpace(v.doc.ShippingMark) != ""
	report.CrossDocumentMatches.Extras = map[string]any{
		"shippingMarkPresent": markPresent,
	}
	if !markPresent {
		report.ValidationWarnings = append(report.ValidationWarnings,
			"No shipping mark found on certificate - invoice number and date could not be derived from it")
	}
}
