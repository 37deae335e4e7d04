package crossverify

import "github.com/chaitanyajadhav1/freightdocbot/internal/models"

type airwayBillValidator struct {
	doc *models.AirwayBill
}

func (v *airwayBillValidator) documentType() models.DocumentType { return models.DocTypeAirwayBill }

func (v *airwayBillValidator) rules(inv *models.CommercialInvoice) []Rule {
	return []Rule{
		{Field: "awbNumber", DocValue: v.doc.AWBNumber, InvValue: NoInvoiceCounterpart, Kind: MatchPresenceOnly},
		{Field: "invoiceNumber", DocValue: v.doc.InvoiceNumber, InvValue: inv.InvoiceNo, Kind: MatchExactCI},
		{Field: "invoiceDate", DocValue: v.doc.InvoiceDate, InvValue: inv.InvoiceDate, Kind: MatchDateEquality},
		{Field: "shippersName", DocValue: v.doc.ShippersName, InvValue: inv.ExporterName, Kind: MatchExactCI},
		{Field: "shippersAddress", DocValue: v.doc.ShippersAddress, InvValue: inv.ExporterAddress, Kind: MatchExactCI},
		{Field: "consigneeName", DocValue: v.doc.ConsigneeName, InvValue: inv.ConsigneeName, Kind: MatchExactCI},
		{Field: "consigneeAddress", DocValue: v.doc.ConsigneeAddress, InvValue: inv.ConsigneeAddress, Kind: MatchExactCI},
		{Field: "issuingCarriersName", DocValue: v.doc.IssuingCarriersName, InvValue: inv.CarrierNameOrVessel, Kind: MatchExactCI},
		{Field: "issuingCarriersCity", DocValue: v.doc.IssuingCarriersCity, InvValue: NoInvoiceCounterpart, Kind: MatchPresenceOnly},
		{Field: "hsCode", DocValue: v.doc.HSCode, InvValue: inv.HSNCode, Kind: MatchExactCI},
		{Field: "airportOfDeparture", DocValue: v.doc.AirportOfDeparture, InvValue: inv.PortOfLoading, Kind: MatchExactCI},
		{Field: "airportOfDestination", DocValue: v.doc.AirportOfDestination, InvValue: inv.PortOfDischarge, Kind: MatchExactCI},
		{Field: "grossWeight", DocValue: v.doc.GrossWeight, InvValue: inv.TotalWeight, Kind: MatchNumericTolerance, Epsilon: weightToleranceKg},
		{Field: "natureOfGoods", DocValue: v.doc.NatureOfGoods, InvValue: inv.GoodsDescription, Kind: MatchTextOverlap},
	}
}

func (v *airwayBillValidator) annotate(report *models.ValidationReport) {
	setAmountsVerified(report, "grossWeight")
	report.CrossDocumentMatches.Extras = map[string]any{
		"awbNumber": v.doc.AWBNumber,
	}
}
