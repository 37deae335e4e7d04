package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

func sampleReport() *models.ValidationReport {
	return &models.ValidationReport{
		Success:              true,
		DocumentType:         models.DocTypePackingList,
		IsValid:              false,
		Completeness:         50,
		InvoiceMatchVerified: true,
		ValidationDetails: map[string]models.FieldResult{
			"invoiceNumber": {
				Field:         "invoiceNumber",
				Matched:       true,
				InvoiceValue:  "INV100",
				DocumentValue: "INV100",
			},
			"exporterName": {
				Field:         "exporterName",
				Matched:       false,
				InvoiceValue:  "Acme Exports",
				DocumentValue: "Acme Export",
				Message:       "exporterName does not match commercial invoice",
			},
		},
		ValidationErrors:   []string{"exporterName does not match commercial invoice"},
		ValidationWarnings: []string{},
		CrossDocumentMatches: models.CrossDocumentMatches{
			TotalFieldsChecked: 2,
			MatchedFields:      1,
			MatchPercentage:    50,
		},
		CommercialInvoice: models.InvoiceSummary{
			InvoiceNo:   "INV100",
			InvoiceDate: "2025-01-10",
		},
		Timestamp: "2025-01-15T10:00:00Z",
	}
}

func TestExcelExporter_WriteReport(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())
	outputPath := filepath.Join(t.TempDir(), "report.xlsx")

	err := exporter.WriteReport(sampleReport(), outputPath)
	require.NoError(t, err)

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheetName}, f.GetSheetList())

	docType, err := f.GetCellValue(reportSheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "packinglist", docType)

	valid, err := f.GetCellValue(reportSheetName, "B5")
	require.NoError(t, err)
	assert.Equal(t, "no", valid)

	completeness, err := f.GetCellValue(reportSheetName, "B6")
	require.NoError(t, err)
	assert.Equal(t, "50%", completeness)

	// Field rows are sorted by field name, so exporterName comes first.
	firstField, err := f.GetCellValue(reportSheetName, "A12")
	require.NoError(t, err)
	assert.Equal(t, "exporterName", firstField)

	secondField, err := f.GetCellValue(reportSheetName, "A13")
	require.NoError(t, err)
	assert.Equal(t, "invoiceNumber", secondField)

	message, err := f.GetCellValue(reportSheetName, "E12")
	require.NoError(t, err)
	assert.Equal(t, "exporterName does not match commercial invoice", message)
}

func TestExcelExporter_WriteReport_NilReport(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())
	err := exporter.WriteReport(nil, filepath.Join(t.TempDir(), "report.xlsx"))
	assert.Error(t, err)
}

func TestExcelExporter_Render_IncludesIssues(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())
	report := sampleReport()
	report.ValidationWarnings = []string{"No shipping mark found on certificate"}

	f, err := exporter.Render(report)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheetName)
	require.NoError(t, err)

	var flat []string
	for _, row := range rows {
		flat = append(flat, row...)
	}
	assert.Contains(t, flat, "Errors")
	assert.Contains(t, flat, "Warnings")
	assert.Contains(t, flat, "No shipping mark found on certificate")
}
