package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

const reportSheetName = "Validation Report"

// ExcelExporter renders validation reports as Excel workbooks so that
// compliance teams can archive or annotate them outside the service.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Render builds an in-memory workbook from the report. Callers own the
// returned file and must Close it.
func (ee *ExcelExporter) Render(report *models.ValidationReport) (*excelize.File, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(reportSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		ee.logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	ee.fillSummary(f, report)
	row := ee.fillFieldResults(f, report)
	ee.fillIssues(f, report, row)

	return f, nil
}

// Export renders the report and streams the workbook to w, for HTTP
// attachment responses.
func (ee *ExcelExporter) Export(report *models.ValidationReport, w io.Writer) error {
	f, err := ee.Render(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// WriteReport renders the report and saves it to outputPath.
func (ee *ExcelExporter) WriteReport(report *models.ValidationReport, outputPath string) error {
	f, err := ee.Render(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	ee.logger.Info("Validation report exported",
		zap.String("document_type", string(report.DocumentType)),
		zap.String("output_path", outputPath))
	return nil
}

func (ee *ExcelExporter) fillSummary(f *excelize.File, report *models.ValidationReport) {
	ee.setCell(f, "A1", "Document Validation Report")
	ee.setCell(f, "A2", "Document Type")
	ee.setCell(f, "B2", string(report.DocumentType))
	ee.setCell(f, "A3", "Invoice No")
	ee.setCell(f, "B3", report.CommercialInvoice.InvoiceNo)
	ee.setCell(f, "A4", "Invoice Date")
	ee.setCell(f, "B4", report.CommercialInvoice.InvoiceDate)
	ee.setCell(f, "A5", "Valid")
	ee.setCell(f, "B5", yesNo(report.IsValid))
	ee.setCell(f, "A6", "Completeness")
	ee.setCell(f, "B6", fmt.Sprintf("%d%%", report.Completeness))
	ee.setCell(f, "A7", "Fields Checked")
	ee.setCell(f, "B7", fmt.Sprintf("%d", report.CrossDocumentMatches.TotalFieldsChecked))
	ee.setCell(f, "A8", "Fields Matched")
	ee.setCell(f, "B8", fmt.Sprintf("%d", report.CrossDocumentMatches.MatchedFields))
	ee.setCell(f, "A9", "Generated At")
	ee.setCell(f, "B9", report.Timestamp)
}

// fillFieldResults writes one row per evaluated field, sorted by field name
// so that exports of the same report are byte-comparable. Returns the next
// free row.
func (ee *ExcelExporter) fillFieldResults(f *excelize.File, report *models.ValidationReport) int {
	const headerRow = 11
	ee.setCell(f, cell("A", headerRow), "Field")
	ee.setCell(f, cell("B", headerRow), "Matched")
	ee.setCell(f, cell("C", headerRow), "Invoice Value")
	ee.setCell(f, cell("D", headerRow), "Document Value")
	ee.setCell(f, cell("E", headerRow), "Message")

	fields := make([]string, 0, len(report.ValidationDetails))
	for name := range report.ValidationDetails {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	row := headerRow + 1
	for _, name := range fields {
		result := report.ValidationDetails[name]
		ee.setCell(f, cell("A", row), result.Field)
		ee.setCell(f, cell("B", row), yesNo(result.Matched))
		ee.setCell(f, cell("C", row), result.InvoiceValue)
		ee.setCell(f, cell("D", row), result.DocumentValue)
		ee.setCell(f, cell("E", row), result.Message)
		row++
	}
	return row + 1
}

func (ee *ExcelExporter) fillIssues(f *excelize.File, report *models.ValidationReport, row int) {
	if len(report.ValidationErrors) > 0 {
		ee.setCell(f, cell("A", row), "Errors")
		row++
		for _, msg := range report.ValidationErrors {
			ee.setCell(f, cell("A", row), msg)
			row++
		}
		row++
	}
	if len(report.ValidationWarnings) > 0 {
		ee.setCell(f, cell("A", row), "Warnings")
		row++
		for _, msg := range report.ValidationWarnings {
			ee.setCell(f, cell("A", row), msg)
			row++
		}
	}
}

// setCell sets a cell value on the report sheet
func (ee *ExcelExporter) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(reportSheetName, cell, value); err != nil {
		ee.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
