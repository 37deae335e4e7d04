package crossverify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

var (
	// ErrUnknownDocumentType marks a document-type tag outside the fixed
	// vocabulary. A client error, surfaced as 4xx by the HTTP layer.
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrInvalidDocumentData marks a payload that does not decode into the
	// typed record for its document type.
	ErrInvalidDocumentData = errors.New("invalid document data")
)

// Engine runs cross-document validations. Stateless: one call is a pure
// synchronous computation, safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a validation engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Validate decodes documentData into the typed record for docType, runs the
// type's rule table against the invoice and returns the aggregated report.
func (e *Engine) Validate(inv *models.CommercialInvoice, docType models.DocumentType, documentData json.RawMessage) (*models.ValidationReport, error) {
	validator, err := e.dispatch(docType, documentData)
	if err != nil {
		return nil, err
	}

	results := runRules(validator.rules(inv))
	report := buildReport(inv, docType, results)
	validator.annotate(report)

	e.logger.Info("Cross-document validation completed",
		zap.String("document_type", string(docType)),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.Bool("is_valid", report.IsValid),
		zap.Int("completeness", report.Completeness),
		zap.Int("fields_checked", report.CrossDocumentMatches.TotalFieldsChecked))

	return report, nil
}

// dispatch picks the validator for a document type and decodes the payload
// into that type's record. Unknown types and undecodable payloads are client
// errors, never panics.
func (e *Engine) dispatch(docType models.DocumentType, data json.RawMessage) (documentValidator, error) {
	decode := func(v any) error {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w for type %s: %v", ErrInvalidDocumentData, docType, err)
		}
		return nil
	}

	switch docType {
	case models.DocTypeSCOMET:
		doc := &models.SCOMETDeclaration{}
		if err := decode(doc); err != nil {
			return nil, err
		}
		return &scometValidator{doc: doc}, nil
	case models.DocTypePackingList:
		doc := &models.PackingList{}
		if err := decode(doc); err != nil {
			return nil, err
		}
		return &packingListValidator{doc: doc}, nil
	case models.DocTypeFumigation:
		doc := &models.FumigationCertificate{}
		if err := decode(doc); err != nil {
			return nil, err
		}
		return &fumigationValidator{doc: doc}, nil
	case models.DocTypeExportDeclaration:
		doc := &models.ExportDeclaration{}
		if err := decode(doc); err != nil {
			return nil, err
		}
		return &exportDeclarationValidator{doc: doc}, nil
	case models.DocTypeAirwayBill:
		doc := &models.AirwayBill{}
		if err := decode(doc); err != nil {
			return nil, err
		}
		return &airwayBillValidator{doc: doc}, nil
	default:
		return nil, fmt.Errorf("%w %q, valid types: %v", ErrUnknownDocumentType, docType, models.ValidDocumentTypes())
	}
}
