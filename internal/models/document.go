package models

import (
	"fmt"
	"time"
)

// DocumentType identifies the kind of export document being verified.
type DocumentType string

const (
	DocTypeSCOMET            DocumentType = "scomet"
	DocTypePackingList       DocumentType = "packinglist"
	DocTypeFumigation        DocumentType = "fumigation"
	DocTypeExportDeclaration DocumentType = "exportdeclaration"
	DocTypeAirwayBill        DocumentType = "airwaybill"
)

// ValidDocumentTypes returns the closed vocabulary of supported document
// types, used for request validation error messages.
func ValidDocumentTypes() []DocumentType {
	return []DocumentType{
		DocTypeSCOMET,
		DocTypePackingList,
		DocTypeFumigation,
		DocTypeExportDeclaration,
		DocTypeAirwayBill,
	}
}

// ParseDocumentType validates a raw type tag against the vocabulary.
func ParseDocumentType(raw string) (DocumentType, error) {
	dt := DocumentType(raw)
	for _, valid := range ValidDocumentTypes() {
		if dt == valid {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q, valid types: %v", raw, ValidDocumentTypes())
}

// Document processing status values.
const (
	DocStatusUploaded   = "UPLOADED"
	DocStatusProcessing = "PROCESSING"
	DocStatusExtracted  = "EXTRACTED"
	DocStatusFailed     = "FAILED"
)

// Document is a stored upload plus its extraction state. ExtractedData holds
// the JSON encoding of one of the typed record variants below once the
// extraction worker has run.
type Document struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	ThreadID      string       `json:"thread_id,omitempty"`
	DocumentType  DocumentType `json:"document_type"`
	FileName      string       `json:"file_name"`
	FilePath      string       `json:"file_path"`
	Status        string       `json:"status"`
	ExtractedData string       `json:"extracted_data,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// SCOMETDeclaration carries the fields extracted from a SCOMET export-control
// declaration.
type SCOMETDeclaration struct {
	InvoiceNumber      string `json:"invoiceNumber"`
	InvoiceDate        string `json:"invoiceDate"`
	ExporterName       string `json:"exporterName"`
	ConsigneeName      string `json:"consigneeName"`
	DestinationCountry string `json:"destinationCountry"`
	HSCode             string `json:"hsCode"`
	ScometCategory     string `json:"scometCategory"`
	EndUseDeclaration  string `json:"endUseDeclaration"`
}

// PackingList carries the fields extracted from a packing list.
type PackingList struct {
	InvoiceNumber        string `json:"invoiceNumber"`
	InvoiceDate          string `json:"invoiceDate"`
	ExporterName         string `json:"exporterName"`
	ExporterAddress      string `json:"exporterAddress"`
	ConsigneeName        string `json:"consigneeName"`
	ConsigneeAddress     string `json:"consigneeAddress"`
	PortOfLoading        string `json:"portOfLoading"`
	PortOfDischarge      string `json:"portOfDischarge"`
	CountryOfOrigin      string `json:"countryOfOrigin"`
	CountryOfDestination string `json:"countryOfDestination"`
	FinalDestination     string `json:"finalDestination"`
	HSNCode              string `json:"hsnCode"`
	MarksAndNumbers      string `json:"marksAndNumbers"`
	ReferenceNo          string `json:"referenceNo"`
	ProformaNo           string `json:"proformaNo"`
	TotalWeight          string `json:"totalWeight"`
}

// FumigationCertificate carries the fields extracted from a fumigation
// certificate. The shipping mark is a free-text composite that conventionally
// embeds the commercial invoice number and date.
type FumigationCertificate struct {
	ShippingMark  string `json:"shippingMark"`
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	ExporterName  string `json:"exporterName"`
	ConsigneeName string `json:"consigneeName"`
}

// Declaration status vocabulary accepted on export declarations.
var ExportDeclarationStatuses = []string{"draft", "submitted", "approved", "cleared", "signed"}

// ExportDeclaration carries the fields extracted from a customs export
// declaration (shipping bill).
type ExportDeclaration struct {
	InvoiceNumber     string `json:"invoiceNumber"`
	InvoiceDate       string `json:"invoiceDate"`
	ExporterName      string `json:"exporterName"`
	ExporterAddress   string `json:"exporterAddress"`
	ConsigneeName     string `json:"consigneeName"`
	ConsigneeAddress  string `json:"consigneeAddress"`
	PortOfLoading     string `json:"portOfLoading"`
	PortOfDischarge   string `json:"portOfDischarge"`
	CountryOfOrigin   string `json:"countryOfOrigin"`
	FinalDestination  string `json:"finalDestination"`
	HSNCode           string `json:"hsnCode"`
	PaymentTerms      string `json:"paymentTerms"`
	ShippingBillNo    string `json:"shippingBillNo"`
	ShippingBillDate  string `json:"shippingBillDate"`
	DeclarationStatus string `json:"declarationStatus"`
	SignedDate        string `json:"signedDate"`
}

// AirwayBill carries the fields extracted from an air waybill.
type AirwayBill struct {
	AWBNumber            string `json:"awbNumber"`
	InvoiceNumber        string `json:"invoiceNumber"`
	InvoiceDate          string `json:"invoiceDate"`
	ShippersName         string `json:"shippersName"`
	ShippersAddress      string `json:"shippersAddress"`
	ConsigneeName        string `json:"consigneeName"`
	ConsigneeAddress     string `json:"consigneeAddress"`
	IssuingCarriersName  string `json:"issuingCarriersName"`
	IssuingCarriersCity  string `json:"issuingCarriersCity"`
	HSCode               string `json:"hsCode"`
	AirportOfDeparture   string `json:"airportOfDeparture"`
	AirportOfDestination string `json:"airportOfDestination"`
	GrossWeight          string `json:"grossWeight"`
	NatureOfGoods        string `json:"natureOfGoods"`
}
