package crossverify

import "github.com/chaitanyajadhav1/freightdocbot/internal/models"

type scometValidator struct {
	doc *models.SCOMETDeclaration
}

func (v *scometValidator) documentType() models.DocumentType { return models.DocTypeSCOMET }

func (v *scometValidator) rules(inv *models.CommercialInvoice) []Rule {
	return []Rule{
		{Field: "invoiceNumber", DocValue: v.doc.InvoiceNumber, InvValue: inv.InvoiceNo, Kind: MatchExactCI},
		{Field: "invoiceDate", DocValue: v.doc.InvoiceDate, InvValue: inv.InvoiceDate, Kind: MatchDateEquality},
		{Field: "exporterName", DocValue: v.doc.ExporterName, InvValue: inv.ExporterName, Kind: MatchExactCI},
		{Field: "consigneeName", DocValue: v.doc.ConsigneeName, InvValue: inv.ConsigneeName, Kind: MatchExactCI},
		{Field: "destinationCountry", DocValue: v.doc.DestinationCountry, InvValue: inv.FinalDestination, Kind: MatchExactCI},
		{Field: "hsCode", DocValue: v.doc.HSCode, InvValue: inv.HSNCode, Kind: MatchExactCI},
		{Field: "scometCategory", DocValue: v.doc.ScometCategory, InvValue: NoInvoiceCounterpart, Kind: MatchPresenceOnly},
		{Field: "endUseDeclaration", DocValue: v.doc.EndUseDeclaration, InvValue: NoInvoiceCounterpart, Kind: MatchPresenceOnly},
	}
}

func (v *scometValidator) annotate(report *models.ValidationReport) {
	report.CrossDocumentMatches.Extras = map[string]any{
		"scometCategory": v.doc.ScometCategory,
	}
}
