package models

import "time"

// CommercialInvoice is the reference document for a shipment thread. Every
// other export document uploaded for the same shipment is cross-checked
// against it.
type CommercialInvoice struct {
	ID                   int64     `json:"id"`
	UserID               string    `json:"user_id"`
	ThreadID             string    `json:"thread_id,omitempty"`
	InvoiceNo            string    `json:"invoice_no"`
	InvoiceDate          string    `json:"invoice_date"` // canonical YYYY-MM-DD
	ExporterName         string    `json:"exporter_name"`
	ExporterAddress      string    `json:"exporter_address"`
	ConsigneeName        string    `json:"consignee_name"`
	ConsigneeAddress     string    `json:"consignee_address"`
	PortOfLoading        string    `json:"port_of_loading"`
	PortOfDischarge      string    `json:"port_of_discharge"`
	FinalDestination     string    `json:"final_destination"`
	CountryOfOrigin      string    `json:"country_of_origin"`
	CountryOfDestination string    `json:"country_of_destination"`
	HSNCode              string    `json:"hsn_code"`
	TotalAmount          float64   `json:"total_amount"`
	Currency             string    `json:"currency"`
	PaymentTerms         string    `json:"payment_terms"`
	DeliveryTerms        string    `json:"delivery_terms"`
	MarksAndNumbers      string    `json:"marks_and_numbers"`
	ReferenceNo          string    `json:"reference_no"`
	ProformaNo           string    `json:"proforma_no"`
	TotalWeight          string    `json:"total_weight"`
	CarrierNameOrVessel  string    `json:"carrier_name_or_vessel"`
	GoodsDescription     string    `json:"goods_description"`
	FilePath             string    `json:"file_path,omitempty"`
	ExtractedData        string    `json:"-"` // full extraction JSON as stored
	CreatedAt            time.Time `json:"created_at"`
}

// InvoiceSummary is the echo block attached to validation reports so clients
// can display the reference invoice without a second fetch.
type InvoiceSummary struct {
	InvoiceNo       string  `json:"invoice_no"`
	InvoiceDate     string  `json:"invoice_date"`
	ExporterName    string  `json:"exporter_name"`
	ConsigneeName   string  `json:"consignee_name"`
	TotalAmount     float64 `json:"total_amount"`
	Currency        string  `json:"currency"`
	PortOfLoading   string  `json:"port_of_loading"`
	PortOfDischarge string  `json:"port_of_discharge"`
	PaymentTerms    string  `json:"payment_terms"`
	DeliveryTerms   string  `json:"delivery_terms"`
}

// Summary returns the client-facing echo of the invoice's key fields.
func (ci *CommercialInvoice) Summary() InvoiceSummary {
	return InvoiceSummary{
		InvoiceNo:       ci.InvoiceNo,
		InvoiceDate:     ci.InvoiceDate,
		ExporterName:    ci.ExporterName,
		ConsigneeName:   ci.ConsigneeName,
		TotalAmount:     ci.TotalAmount,
		Currency:        ci.Currency,
		PortOfLoading:   ci.PortOfLoading,
		PortOfDischarge: ci.PortOfDischarge,
		PaymentTerms:    ci.PaymentTerms,
		DeliveryTerms:   ci.DeliveryTerms,
	}
}
