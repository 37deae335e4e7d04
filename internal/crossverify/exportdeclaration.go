package crossverify

import "github.com/chaitanyajadhav1/freightdocbot/internal/models"

type exportDeclarationValidator struct {
	doc *models.ExportDeclaration
}

func (v *exportDeclarationValidator) documentType() models.DocumentType {
	return models.DocTypeExportDeclaration
}

func (v *exportDeclarationValidator) rules(inv *models.CommercialInvoice) []Rule {
	return []Rule{
		{Field: "invoiceNumber", DocValue: v.doc.InvoiceNumber, InvValue: inv.InvoiceNo, Kind: MatchExactCI},
		{Field: "invoiceDate", DocValue: v.doc.InvoiceDate, InvValue: inv.InvoiceDate, Kind: MatchDateEquality},
		{Field: "paymentTerms", DocValue: v.doc.PaymentTerms, InvValue: inv.PaymentTerms, Kind: MatchPaymentTerms},
		{Field: "shippingBillNo", DocValue: v.doc.ShippingBillNo, InvValue: NoInvoiceCounterpart, Kind: MatchPresenceOnly},
		{Field: "shippingBillDate", DocValue: v.doc.ShippingBillDate, InvValue: inv.InvoiceDate, Kind: MatchDateOrder},
		{Field: "signedDate", DocValue: v.doc.SignedDate, InvValue: inv.InvoiceDate, Kind: MatchDateOrder},
		{Field: "declarationStatus", DocValue: v.doc.DeclarationStatus, InvValue: NoInvoiceCounterpart, Kind: MatchStatusEnum, Allowed: models.ExportDeclarationStatuses},
		{Field: "exporterName", DocValue: v.doc.ExporterName, InvValue: inv.ExporterName, Kind: MatchExactCI},
		{Field: "exporterAddress", DocValue: v.doc.ExporterAddress, InvValue: inv.ExporterAddress, Kind: MatchExactCI},
		{Field: "consigneeName", DocValue: v.doc.ConsigneeName, InvValue: inv.ConsigneeName, Kind: MatchExactCI},
		{Field: "consigneeAddress", DocValue: v.doc.ConsigneeAddress, InvValue: inv.ConsigneeAddress, Kind: MatchExactCI},
		{Field: "portOfLoading", DocValue: v.doc.PortOfLoading, InvValue: inv.PortOfLoading, Kind: MatchExactCI},
		{Field: "portOfDischarge", DocValue: v.doc.PortOfDischarge, InvValue: inv.PortOfDischarge, Kind: MatchExactCI},
		{Field: "countryOfOrigin", DocValue: v.doc.CountryOfOrigin, InvValue: inv.CountryOfOrigin, Kind: MatchExactCI},
		{Field: "finalDestination", DocValue: v.doc.FinalDestination, InvValue: inv.FinalDestination, Kind: MatchExactCI},
		{Field: "hsnCode", DocValue: v.doc.HSNCode, InvValue: inv.HSNCode, Kind: MatchExactCI},
	}
}

func (v *exportDeclarationValidator) annotate(report *models.ValidationReport) {
	report.CrossDocumentMatches.Extras = map[string]any{
		"shippingBillNo":    v.doc.ShippingBillNo,
		"declarationStatus": v.doc.DeclarationStatus,
	}
}
