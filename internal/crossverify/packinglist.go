package crossverify

import "github.com/chaitanyajadhav1/freightdocbot/internal/models"

// weightToleranceKg is the allowed absolute difference between declared
// weights; scales round differently across documents for the same cargo.
const weightToleranceKg = 0.5

type packingListValidator struct {
	doc *models.PackingList
}

func (v *packingListValidator) documentType() models.DocumentType { return models.DocTypePackingList }

func (v *packingListValidator) rules(inv *models.CommercialInvoice) []Rule {
	return []Rule{
		{Field: "invoiceNumber", DocValue: v.doc.InvoiceNumber, InvValue: inv.InvoiceNo, Kind: MatchExactCI},
		{Field: "invoiceDate", DocValue: v.doc.InvoiceDate, InvValue: inv.InvoiceDate, Kind: MatchDateEquality},
		{Field: "exporterName", DocValue: v.doc.ExporterName, InvValue: inv.ExporterName, Kind: MatchExactCI},
		{Field: "exporterAddress", DocValue: v.doc.ExporterAddress, InvValue: inv.ExporterAddress, Kind: MatchExactCI},
		{Field: "consigneeName", DocValue: v.doc.ConsigneeName, InvValue: inv.ConsigneeName, Kind: MatchExactCI},
		{Field: "consigneeAddress", DocValue: v.doc.ConsigneeAddress, InvValue: inv.ConsigneeAddress, Kind: MatchExactCI},
		{Field: "portOfLoading", DocValue: v.doc.PortOfLoading, InvValue: inv.PortOfLoading, Kind: MatchExactCI},
		{Field: "portOfDischarge", DocValue: v.doc.PortOfDischarge, InvValue: inv.PortOfDischarge, Kind: MatchExactCI},
		{Field: "countryOfOrigin", DocValue: v.doc.CountryOfOrigin, InvValue: inv.CountryOfOrigin, Kind: MatchExactCI},
		{Field: "countryOfDestination", DocValue: v.doc.CountryOfDestination, InvValue: inv.CountryOfDestination, Kind: MatchExactCI},
		{Field: "finalDestination", DocValue: v.doc.FinalDestination, InvValue: inv.FinalDestination, Kind: MatchExactCI},
		{Field: "hsnCode", DocValue: v.doc.HSNCode, InvValue: inv.HSNCode, Kind: MatchExactCI},
		{Field: "marksAndNumbers", DocValue: v.doc.MarksAndNumbers, InvValue: inv.MarksAndNumbers, Kind: MatchExactCI},
		{Field: "referenceNo", DocValue: v.doc.ReferenceNo, InvValue: inv.ReferenceNo, Kind: MatchExactCI},
		{Field: "proformaNo", DocValue: v.doc.ProformaNo, InvValue: inv.ProformaNo, Kind: MatchExactCI},
		{Field: "totalWeight", DocValue: v.doc.TotalWeight, InvValue: inv.TotalWeight, Kind: MatchNumericTolerance, Epsilon: weightToleranceKg},
	}
}

func (v *packingListValidator) annotate(report *models.ValidationReport) {
	setAmountsVerified(report, "totalWeight")
}
