package crossverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_ExactCI(t *testing.T) {
	tests := []struct {
		name    string
		inv     string
		doc     string
		matched bool
	}{
		{"case and spacing differ", "Acme Exports", "  ACME   EXPORTS ", true},
		{"different values", "Acme Exports", "Beta Imports", false},
		{"both empty", "", "", true},
		{"invoice side empty", "", "Acme Exports", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := evaluate(Rule{Field: "exporterName", InvValue: tt.inv, DocValue: tt.doc, Kind: MatchExactCI})
			assert.Equal(t, tt.matched, res.Matched)
			if !tt.matched {
				assert.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestEvaluate_DateEquality(t *testing.T) {
	res := evaluate(Rule{Field: "invoiceDate", InvValue: "2025-07-17", DocValue: "17.07.2025", Kind: MatchDateEquality})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "invoiceDate", InvValue: "2025-07-17", DocValue: "18.07.2025", Kind: MatchDateEquality})
	assert.False(t, res.Matched)
	assert.Contains(t, res.Message, "2025-07-18")

	res = evaluate(Rule{Field: "invoiceDate", InvValue: "2025-07-17", DocValue: "garbage", Kind: MatchDateEquality})
	assert.False(t, res.Matched)
	assert.Contains(t, res.Message, "garbage")
}

func TestEvaluate_SubstringDerived(t *testing.T) {
	mark := "222500187 Dt 17.07.2025"

	num := evaluate(Rule{Field: "shippingMarkInvoiceNo", InvValue: "222500187", DocValue: mark, Kind: MatchSubstringDerivedNumber})
	assert.True(t, num.Matched)

	date := evaluate(Rule{Field: "shippingMarkInvoiceDate", InvValue: "2025-07-17", DocValue: mark, Kind: MatchSubstringDerivedDate})
	assert.True(t, date.Matched)
}

func TestEvaluate_SubstringDerived_Mismatch(t *testing.T) {
	num := evaluate(Rule{Field: "shippingMarkInvoiceNo", InvValue: "999", DocValue: "222500187 Dt 17.07.2025", Kind: MatchSubstringDerivedNumber})
	assert.False(t, num.Matched)
	assert.Contains(t, num.Message, "222500187")

	noNum := evaluate(Rule{Field: "shippingMarkInvoiceNo", InvValue: "999", DocValue: "NO DIGITS HERE", Kind: MatchSubstringDerivedNumber})
	assert.False(t, noNum.Matched)

	noDate := evaluate(Rule{Field: "shippingMarkInvoiceDate", InvValue: "2025-07-17", DocValue: "222500187 only", Kind: MatchSubstringDerivedDate})
	assert.False(t, noDate.Matched)
}

func TestEvaluate_SubstringDerivedDate_YearFirstFallback(t *testing.T) {
	res := evaluate(Rule{Field: "shippingMarkInvoiceDate", InvValue: "2025-07-17", DocValue: "INV 2025-07-17 REF", Kind: MatchSubstringDerivedDate})
	assert.True(t, res.Matched)
}

func TestEvaluate_NumericTolerance(t *testing.T) {
	res := evaluate(Rule{Field: "totalWeight", InvValue: "1,250.5 KGS", DocValue: "1250.8 kg", Kind: MatchNumericTolerance, Epsilon: 0.5})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "totalWeight", InvValue: "1250.5", DocValue: "1252.0", Kind: MatchNumericTolerance, Epsilon: 0.5})
	assert.False(t, res.Matched)

	res = evaluate(Rule{Field: "totalWeight", InvValue: "unknown", DocValue: "1250", Kind: MatchNumericTolerance, Epsilon: 0.5})
	assert.False(t, res.Matched)
	assert.Contains(t, res.Message, "numerically")
}

func TestEvaluate_PresenceOnly(t *testing.T) {
	res := evaluate(Rule{Field: "shippingBillNo", InvValue: NoInvoiceCounterpart, DocValue: "SB-4432", Kind: MatchPresenceOnly})
	assert.True(t, res.Matched)
	assert.Equal(t, NoInvoiceCounterpart, res.InvoiceValue)
}

func TestEvaluate_DateOrder(t *testing.T) {
	// Document date on or after the reference passes.
	res := evaluate(Rule{Field: "shippingBillDate", InvValue: "2025-01-10", DocValue: "2025-01-10", Kind: MatchDateOrder})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "shippingBillDate", InvValue: "2025-01-10", DocValue: "15.01.2025", Kind: MatchDateOrder})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "shippingBillDate", InvValue: "2025-01-10", DocValue: "2025-01-05", Kind: MatchDateOrder})
	require.False(t, res.Matched)
	assert.Contains(t, res.Message, "cannot be before")
}

func TestEvaluate_PaymentTerms(t *testing.T) {
	res := evaluate(Rule{Field: "paymentTerms", InvValue: "L/C", DocValue: "Letter of Credit", Kind: MatchPaymentTerms})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "paymentTerms", InvValue: "L/C", DocValue: "100% Advance", Kind: MatchPaymentTerms})
	assert.False(t, res.Matched)
}

func TestEvaluate_StatusEnum(t *testing.T) {
	allowed := []string{"draft", "submitted", "approved"}

	res := evaluate(Rule{Field: "declarationStatus", DocValue: "SUBMITTED", Kind: MatchStatusEnum, Allowed: allowed})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "declarationStatus", DocValue: "bogus", Kind: MatchStatusEnum, Allowed: allowed})
	assert.False(t, res.Matched)
	assert.Contains(t, res.Message, "bogus")
}

func TestEvaluate_TextOverlap(t *testing.T) {
	res := evaluate(Rule{Field: "natureOfGoods", InvValue: "Pharmaceutical products - Paracetamol tablets", DocValue: "PARACETAMOL TABLETS", Kind: MatchTextOverlap})
	assert.True(t, res.Matched)

	res = evaluate(Rule{Field: "natureOfGoods", InvValue: "Textile goods", DocValue: "Machine parts", Kind: MatchTextOverlap})
	assert.False(t, res.Matched)
}
