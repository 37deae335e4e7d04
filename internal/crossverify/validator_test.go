package crossverify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

func testInvoice() *models.CommercialInvoice {
	return &models.CommercialInvoice{
		InvoiceNo:            "INV100",
		InvoiceDate:          "2025-01-10",
		ExporterName:         "Acme Exports",
		ExporterAddress:      "12 Harbour Road, Mumbai",
		ConsigneeName:        "Beta Imports",
		ConsigneeAddress:     "99 Dock Street, Hamburg",
		PortOfLoading:        "Nhava Sheva",
		PortOfDischarge:      "Hamburg",
		FinalDestination:     "Germany",
		CountryOfOrigin:      "India",
		CountryOfDestination: "Germany",
		HSNCode:              "300490",
		TotalAmount:          42000,
		Currency:             "USD",
		PaymentTerms:         "L/C",
		DeliveryTerms:        "CIF Hamburg",
		MarksAndNumbers:      "AE/BI 1-40",
		ReferenceNo:          "REF-7781",
		ProformaNo:           "PI-2025-081",
		TotalWeight:          "1250.5",
		CarrierNameOrVessel:  "Lufthansa Cargo",
		GoodsDescription:     "Pharmaceutical products - Paracetamol tablets",
	}
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestValidate_PackingListFullMatch(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.PackingList{
		InvoiceNumber: "INV100",
		InvoiceDate:   "10.01.2025",
		ExporterName:  "ACME EXPORTS",
		ConsigneeName: "Beta Imports",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypePackingList, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.Completeness)
	assert.True(t, report.InvoiceMatchVerified)
	assert.Equal(t, 4, report.CrossDocumentMatches.TotalFieldsChecked)
	assert.Equal(t, 4, report.CrossDocumentMatches.MatchedFields)
	assert.Empty(t, report.ValidationErrors)
	assert.Contains(t, report.ValidationWarnings, "All fields match commercial invoice")
	assert.Equal(t, "INV100", report.CommercialInvoice.InvoiceNo)
}

func TestValidate_SkipOnAbsence(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.PackingList{
		InvoiceNumber: "INV100",
		// Every other field left empty: no result rows, no score impact.
	}

	report, err := engine.Validate(testInvoice(), models.DocTypePackingList, mustRaw(t, doc))
	require.NoError(t, err)

	assert.Len(t, report.ValidationDetails, 1)
	assert.Contains(t, report.ValidationDetails, "invoiceNumber")
	assert.Equal(t, 100, report.Completeness)
}

func TestValidate_ScoreFormula(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.PackingList{
		InvoiceNumber: "INV100",       // match
		ExporterName:  "ACME EXPORTS", // match
		ConsigneeName: "Wrong Corp",   // mismatch
	}

	report, err := engine.Validate(testInvoice(), models.DocTypePackingList, mustRaw(t, doc))
	require.NoError(t, err)

	// round(100 * 2/3) = 67
	assert.Equal(t, 67, report.Completeness)
	assert.False(t, report.IsValid)
	assert.Len(t, report.ValidationErrors, 1)
	assert.Empty(t, report.ValidationWarnings)
}

func TestValidate_NoEvaluableFields(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	report, err := engine.Validate(testInvoice(), models.DocTypePackingList, mustRaw(t, models.PackingList{}))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Completeness)
	assert.Equal(t, 0, report.CrossDocumentMatches.TotalFieldsChecked)
	// Degenerate by design: no evaluated rule failed, so the verdict stays
	// true and a low-confidence warning is attached instead.
	assert.True(t, report.IsValid)
	assert.NotEmpty(t, report.ValidationWarnings)
}

func TestValidate_ExportDeclarationDateOrderViolation(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.ExportDeclaration{
		InvoiceNumber:    "INV100",
		ShippingBillDate: "2025-01-05", // before invoice date 2025-01-10
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeExportDeclaration, mustRaw(t, doc))
	require.NoError(t, err)

	require.Contains(t, report.ValidationDetails, "shippingBillDate")
	res := report.ValidationDetails["shippingBillDate"]
	assert.False(t, res.Matched)
	assert.Contains(t, res.Message, "cannot be before")
	assert.False(t, report.IsValid)
}

func TestValidate_ExportDeclarationRules(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.ExportDeclaration{
		InvoiceNumber:     "INV100",
		InvoiceDate:       "10.01.2025",
		PaymentTerms:      "Letter of Credit",
		ShippingBillNo:    "SB-99871",
		ShippingBillDate:  "12.01.2025",
		SignedDate:        "2025-01-12",
		DeclarationStatus: "submitted",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeExportDeclaration, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid, "errors: %v", report.ValidationErrors)
	assert.Equal(t, 100, report.Completeness)
	assert.True(t, report.ValidationDetails["paymentTerms"].Matched)
	assert.True(t, report.ValidationDetails["shippingBillNo"].Matched)
	assert.Equal(t, NoInvoiceCounterpart, report.ValidationDetails["shippingBillNo"].InvoiceValue)
}

func TestValidate_FumigationShippingMark(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	inv := testInvoice()
	inv.InvoiceNo = "222500187"
	inv.InvoiceDate = "2025-07-17"

	doc := models.FumigationCertificate{
		ShippingMark:  "222500187 Dt 17.07.2025",
		ExporterName:  "Acme Exports",
		ConsigneeName: "Beta Imports",
	}

	report, err := engine.Validate(inv, models.DocTypeFumigation, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.True(t, report.ValidationDetails["shippingMarkInvoiceNo"].Matched)
	assert.True(t, report.ValidationDetails["shippingMarkInvoiceDate"].Matched)
	assert.Equal(t, true, report.CrossDocumentMatches.Extras["shippingMarkPresent"])
}

func TestValidate_FumigationNoShippingMarkFallsBack(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.FumigationCertificate{
		InvoiceNumber: "INV100",
		InvoiceDate:   "10.01.2025",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeFumigation, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.NotContains(t, report.ValidationDetails, "shippingMarkInvoiceNo")
	assert.Contains(t, report.ValidationDetails, "invoiceNumber")
	assert.Equal(t, false, report.CrossDocumentMatches.Extras["shippingMarkPresent"])

	var sawMarkWarning bool
	for _, w := range report.ValidationWarnings {
		if w != allFieldsMatchWarning {
			sawMarkWarning = true
		}
	}
	assert.True(t, sawMarkWarning, "expected a no-shipping-mark warning, got %v", report.ValidationWarnings)
}

func TestValidate_AirwayBill(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.AirwayBill{
		AWBNumber:            "020-12345675",
		InvoiceNumber:        "INV100",
		ShippersName:         "ACME Exports",
		IssuingCarriersName:  "LUFTHANSA CARGO",
		IssuingCarriersCity:  "Frankfurt",
		AirportOfDeparture:   "Nhava Sheva",
		AirportOfDestination: "Hamburg",
		GrossWeight:          "1250.8 KGS",
		NatureOfGoods:        "Paracetamol tablets",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeAirwayBill, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid, "errors: %v", report.ValidationErrors)
	require.NotNil(t, report.AmountsMatchVerified)
	assert.True(t, *report.AmountsMatchVerified)
	assert.True(t, report.ValidationDetails["natureOfGoods"].Matched)
}

func TestValidate_AirwayBillWeightMismatch(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.AirwayBill{
		InvoiceNumber: "INV100",
		GrossWeight:   "1300",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeAirwayBill, mustRaw(t, doc))
	require.NoError(t, err)

	assert.False(t, report.IsValid)
	require.NotNil(t, report.AmountsMatchVerified)
	assert.False(t, *report.AmountsMatchVerified)
}

func TestValidate_SCOMET(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	doc := models.SCOMETDeclaration{
		InvoiceNumber:      "INV100",
		InvoiceDate:        "2025-01-10",
		ConsigneeName:      "Beta Imports",
		DestinationCountry: "Germany",
		HSCode:             "300490",
		ScometCategory:     "SCOMET 3A001",
	}

	report, err := engine.Validate(testInvoice(), models.DocTypeSCOMET, mustRaw(t, doc))
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.Completeness)
}

func TestValidate_Deterministic(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	doc := mustRaw(t, models.PackingList{InvoiceNumber: "INV100", ConsigneeName: "Someone Else"})

	first, err := engine.Validate(testInvoice(), models.DocTypePackingList, doc)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.Validate(testInvoice(), models.DocTypePackingList, doc)
		require.NoError(t, err)
		assert.Equal(t, first.ValidationDetails, again.ValidationDetails)
		assert.Equal(t, first.Completeness, again.Completeness)
		assert.Equal(t, first.IsValid, again.IsValid)
	}
}

func TestScore(t *testing.T) {
	completeness, isValid := Score(nil)
	assert.Equal(t, 0, completeness)
	assert.True(t, isValid)

	results := []models.FieldResult{
		{Field: "a", Matched: true},
		{Field: "b", Matched: true},
		{Field: "c", Matched: false},
	}
	completeness, isValid = Score(results)
	assert.Equal(t, 67, completeness)
	assert.False(t, isValid)
}
