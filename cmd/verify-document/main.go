// verify-document runs one cross-document validation from local JSON files,
// without a database or API key. Useful for checking extracted documents
// before wiring them through the service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/crossverify"
	"github.com/chaitanyajadhav1/freightdocbot/internal/export"
	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

func main() {
	invoicePath := flag.String("invoice", "", "Path to commercial invoice JSON")
	documentPath := flag.String("document", "", "Path to extracted document JSON")
	docType := flag.String("type", "", "Document type (scomet, packinglist, fumigation, exportdeclaration, airwaybill)")
	xlsxPath := flag.String("xlsx", "", "Optional path to also write the report as an Excel workbook")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *invoicePath == "" || *documentPath == "" || *docType == "" {
		fmt.Fprintf(os.Stderr, "Usage: verify-document --invoice <invoice.json> --document <document.json> --type <document type>\n")
		os.Exit(2)
	}

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	parsedType, err := models.ParseDocumentType(*docType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}

	inv := &models.CommercialInvoice{}
	if err := readJSON(*invoicePath, inv); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load invoice: %v\n", err)
		os.Exit(1)
	}

	documentData, err := os.ReadFile(*documentPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load document: %v\n", err)
		os.Exit(1)
	}

	engine := crossverify.NewEngine(logger)
	report, err := engine.Validate(inv, parsedType, documentData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Validation failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to encode report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *xlsxPath != "" {
		exporter := export.NewExcelExporter(logger)
		if err := exporter.WriteReport(report, *xlsxPath); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write Excel report: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *xlsxPath)
	}

	if !report.IsValid {
		os.Exit(1)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
