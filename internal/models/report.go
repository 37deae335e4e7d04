package models

import "encoding/json"

// FieldResult is the outcome of evaluating one field rule against the
// reference commercial invoice. Rules whose document field is absent are
// skipped and produce no FieldResult at all.
type FieldResult struct {
	Field         string `json:"field"`
	Matched       bool   `json:"matched"`
	InvoiceValue  string `json:"invoice_value"`
	DocumentValue string `json:"document_value"`
	Message       string `json:"message,omitempty"`
}

// CrossDocumentMatches summarizes how many fields were checked and agreed.
// Extras carries type-specific counters (e.g. shipping-mark derivations).
type CrossDocumentMatches struct {
	TotalFieldsChecked int            `json:"totalFieldsChecked"`
	MatchedFields      int            `json:"matchedFields"`
	MatchPercentage    int            `json:"matchPercentage"`
	Extras             map[string]any `json:"extras,omitempty"`
}

// ValidationReport is the aggregate result of cross-verifying one document
// against its commercial invoice.
type ValidationReport struct {
	ID                   string                 `json:"id,omitempty"`
	Success              bool                   `json:"success"`
	DocumentType         DocumentType           `json:"document_type"`
	IsValid              bool                   `json:"isValid"`
	Completeness         int                    `json:"completeness"`
	InvoiceMatchVerified bool                   `json:"invoiceMatchVerified"`
	AmountsMatchVerified *bool                  `json:"amountsMatchVerified,omitempty"`
	ValidationDetails    map[string]FieldResult `json:"validationDetails"`
	ValidationErrors     []string               `json:"validation_errors"`
	ValidationWarnings   []string               `json:"validation_warnings"`
	CrossDocumentMatches CrossDocumentMatches   `json:"crossDocumentMatches"`
	CommercialInvoice    InvoiceSummary         `json:"commercialInvoice"`
	Timestamp            string                 `json:"timestamp"`
}

// ValidationRequest is the service-layer input contract. DocumentData is
// decoded into the typed variant for DocumentType at the boundary; the
// engine never probes loose maps.
type ValidationRequest struct {
	CommercialInvoiceNumber string          `json:"commercialInvoiceNumber"`
	DocumentType            string          `json:"documentType"`
	DocumentData            json.RawMessage `json:"documentData"`
	UserID                  string          `json:"userId"`
	ThreadID                string          `json:"threadId,omitempty"`
}
