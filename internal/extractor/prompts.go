package extractor

import (
	"fmt"
	"strings"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

const systemPrompt = "You are an expert in reading international trade and export documents " +
	"(commercial invoices, packing lists, SCOMET declarations, fumigation certificates, " +
	"customs export declarations, air waybills). Extract fields exactly as printed. " +
	"Always respond with valid JSON."

// documentFieldHints lists, per document type, the JSON keys the extraction
// must produce. The keys mirror the typed record structs in internal/models.
var documentFieldHints = map[models.DocumentType][]string{
	models.DocTypeSCOMET: {
		"invoiceNumber", "invoiceDate", "exporterName", "consigneeName",
		"destinationCountry", "hsCode", "scometCategory", "endUseDeclaration",
	},
	models.DocTypePackingList: {
		"invoiceNumber", "invoiceDate", "exporterName", "exporterAddress",
		"consigneeName", "consigneeAddress", "portOfLoading", "portOfDischarge",
		"countryOfOrigin", "countryOfDestination", "finalDestination", "hsnCode",
		"marksAndNumbers", "referenceNo", "proformaNo", "totalWeight",
	},
	models.DocTypeFumigation: {
		"shippingMark", "invoiceNumber", "invoiceDate", "exporterName", "consigneeName",
	},
	models.DocTypeExportDeclaration: {
		"invoiceNumber", "invoiceDate", "exporterName", "exporterAddress",
		"consigneeName", "consigneeAddress", "portOfLoading", "portOfDischarge",
		"countryOfOrigin", "finalDestination", "hsnCode", "paymentTerms",
		"shippingBillNo", "shippingBillDate", "declarationStatus", "signedDate",
	},
	models.DocTypeAirwayBill: {
		"awbNumber", "invoiceNumber", "invoiceDate", "shippersName", "shippersAddress",
		"consigneeName", "consigneeAddress", "issuingCarriersName", "issuingCarriersCity",
		"hsCode", "airportOfDeparture", "airportOfDestination", "grossWeight", "natureOfGoods",
	},
}

// buildDocumentPrompt builds the extraction prompt for one document type.
func buildDocumentPrompt(docType models.DocumentType, text string) string {
	fields := documentFieldHints[docType]
	var schema strings.Builder
	for i, f := range fields {
		if i > 0 {
			schema.WriteString(",\n")
		}
		schema.WriteString(fmt.Sprintf("  %q: \"string\"", f))
	}

	return fmt.Sprintf(`Extract the following fields from this %s document.

Document text:
%s

Return a JSON object with exactly this structure:
{
%s
}

IMPORTANT:
- Extract EXACTLY what is printed. Do not guess or make up values.
- Use "" for any field that is not present in the document.
- Dates may be in any format found on the document; copy them verbatim.
- Weights should include the printed unit (e.g. "1250.5 KGS").`,
		documentTypeLabel(docType), text, schema.String())
}

// buildInvoicePrompt builds the extraction prompt for a commercial invoice.
func buildInvoicePrompt(text string) string {
	return fmt.Sprintf(`Extract the following fields from this commercial invoice.

Document text:
%s

Return a JSON object with exactly this structure:
{
  "invoice_no": "string",
  "invoice_date": "YYYY-MM-DD",
  "exporter_name": "string",
  "exporter_address": "string",
  "consignee_name": "string",
  "consignee_address": "string",
  "port_of_loading": "string",
  "port_of_discharge": "string",
  "final_destination": "string",
  "country_of_origin": "string",
  "country_of_destination": "string",
  "hsn_code": "string",
  "total_amount": number,
  "currency": "string",
  "payment_terms": "string",
  "delivery_terms": "string",
  "marks_and_numbers": "string",
  "reference_no": "string",
  "proforma_no": "string",
  "total_weight": "string",
  "carrier_name_or_vessel": "string",
  "goods_description": "string"
}

IMPORTANT:
- Extract EXACTLY what is printed. Do not guess or make up values.
- Use "" (or 0 for total_amount) for any field not present.
- Normalize the invoice date to YYYY-MM-DD; copy all other dates verbatim.`, text)
}

func documentTypeLabel(docType models.DocumentType) string {
	switch docType {
	case models.DocTypeSCOMET:
		return "SCOMET export-control declaration"
	case models.DocTypePackingList:
		return "packing list"
	case models.DocTypeFumigation:
		return "fumigation certificate"
	case models.DocTypeExportDeclaration:
		return "customs export declaration (shipping bill)"
	case models.DocTypeAirwayBill:
		return "air waybill"
	default:
		return string(docType)
	}
}
