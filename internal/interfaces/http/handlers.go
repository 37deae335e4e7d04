package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/crossverify"
	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
	"github.com/chaitanyajadhav1/freightdocbot/internal/repository"
	"github.com/chaitanyajadhav1/freightdocbot/pkg/utils"
)

// maxUploadBytes caps multipart PDF uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// InvoiceStore is the invoice persistence surface the handlers need.
type InvoiceStore interface {
	Create(inv *models.CommercialInvoice) error
	GetByNumberAndUser(invoiceNo, userID, threadID string) (*models.CommercialInvoice, error)
}

// DocumentStore is the document persistence surface the handlers need.
type DocumentStore interface {
	Create(doc *models.Document) error
	GetByID(id string) (*models.Document, error)
}

// ReportStore is the report persistence surface the handlers need.
type ReportStore interface {
	Create(report *models.ValidationReport, userID, documentID string) error
	GetByID(id string) (*models.ValidationReport, error)
}

// FileStore saves uploaded files under per-user directories.
type FileStore interface {
	Save(userID, id, fileName string, content []byte) (string, error)
}

// TextReader pulls the text layer out of an uploaded PDF.
type TextReader interface {
	ExtractText(pdfPath string) (text string, ok bool, err error)
}

// InvoiceExtractor turns invoice PDF text into a structured record.
type InvoiceExtractor interface {
	ExtractInvoice(ctx context.Context, text string) (*models.CommercialInvoice, error)
}

// Verifier runs one document against its commercial invoice.
type Verifier interface {
	Validate(inv *models.CommercialInvoice, docType models.DocumentType, documentData json.RawMessage) (*models.ValidationReport, error)
}

// ReportExporter streams a report as an Excel workbook.
type ReportExporter interface {
	Export(report *models.ValidationReport, w io.Writer) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoices  InvoiceStore
	documents DocumentStore
	reports   ReportStore
	files     FileStore
	pdf       TextReader
	extractor InvoiceExtractor
	verifier  Verifier
	exporter  ReportExporter
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoices InvoiceStore,
	documents DocumentStore,
	reports ReportStore,
	files FileStore,
	pdf TextReader,
	extractor InvoiceExtractor,
	verifier Verifier,
	exporter ReportExporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		invoices:  invoices,
		documents: documents,
		reports:   reports,
		files:     files,
		pdf:       pdf,
		extractor: extractor,
		verifier:  verifier,
		exporter:  exporter,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// DocumentResponse represents a stored document in API responses
type DocumentResponse struct {
	ID            string          `json:"id"`
	DocumentType  string          `json:"document_type"`
	FileName      string          `json:"file_name"`
	Status        string          `json:"status"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// UploadInvoice handles POST /api/invoices/upload. The commercial invoice is
// the reference document for every later validation, so extraction runs
// synchronously and the caller gets the structured record back.
func (h *Handlers) UploadInvoice(c *gin.Context) {
	userID := c.PostForm("user_id")
	if err := utils.ValidateUserID(userID); err != nil {
		badRequest(c, err.Error())
		return
	}
	threadID := c.PostForm("thread_id")

	fileName, content, ok := h.readUpload(c)
	if !ok {
		return
	}

	id := uuid.New().String()
	path, err := h.files.Save(userID, id, fileName, content)
	if err != nil {
		h.logger.Error("Failed to store invoice upload", zap.Error(err))
		serverError(c, "failed to store uploaded file")
		return
	}

	text, textOK, err := h.pdf.ExtractText(path)
	if err != nil {
		h.logger.Error("Failed to read invoice PDF", zap.String("path", path), zap.Error(err))
		serverError(c, "failed to read PDF")
		return
	}
	if !textOK {
		badRequest(c, "PDF has no extractable text layer")
		return
	}

	inv, err := h.extractor.ExtractInvoice(c.Request.Context(), text)
	if err != nil {
		h.logger.Error("Invoice extraction failed", zap.Error(err))
		serverError(c, "invoice extraction failed")
		return
	}
	inv.UserID = userID
	inv.ThreadID = threadID
	inv.FilePath = path

	if err := h.invoices.Create(inv); err != nil {
		h.logger.Error("Failed to persist invoice",
			zap.String("invoice_no", inv.InvoiceNo),
			zap.Error(err))
		serverError(c, "failed to persist invoice")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: inv})
}

// UploadDocument handles POST /api/documents/upload. Extraction is deferred
// to the background worker; the caller polls GET /api/documents/:id.
func (h *Handlers) UploadDocument(c *gin.Context) {
	userID := c.PostForm("user_id")
	if err := utils.ValidateUserID(userID); err != nil {
		badRequest(c, err.Error())
		return
	}

	docType, err := models.ParseDocumentType(c.PostForm("document_type"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	fileName, content, ok := h.readUpload(c)
	if !ok {
		return
	}

	id := uuid.New().String()
	path, err := h.files.Save(userID, id, fileName, content)
	if err != nil {
		h.logger.Error("Failed to store document upload", zap.Error(err))
		serverError(c, "failed to store uploaded file")
		return
	}

	doc := &models.Document{
		ID:           id,
		UserID:       userID,
		ThreadID:     c.PostForm("thread_id"),
		DocumentType: docType,
		FileName:     fileName,
		FilePath:     path,
		Status:       models.DocStatusUploaded,
	}
	if err := h.documents.Create(doc); err != nil {
		h.logger.Error("Failed to persist document", zap.String("id", id), zap.Error(err))
		serverError(c, "failed to persist document")
		return
	}

	h.logger.Info("Document accepted for extraction",
		zap.String("id", id),
		zap.String("document_type", string(docType)))

	c.JSON(http.StatusAccepted, Response{Success: true, Data: toDocumentResponse(doc)})
}

// GetDocument handles GET /api/documents/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	doc, err := h.documents.GetByID(c.Param("id"))
	if errors.Is(err, repository.ErrDocumentNotFound) {
		notFound(c, "document not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch document", zap.String("id", c.Param("id")), zap.Error(err))
		serverError(c, "failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toDocumentResponse(doc)})
}

// ValidateDocument handles POST /api/validate. All request-shape errors are
// rejected before the verification engine runs.
func (h *Handlers) ValidateDocument(c *gin.Context) {
	var req models.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.CommercialInvoiceNumber == "" {
		badRequest(c, "commercialInvoiceNumber is required")
		return
	}
	if req.DocumentType == "" {
		badRequest(c, fmt.Sprintf("documentType is required, valid types: %v", models.ValidDocumentTypes()))
		return
	}
	if len(req.DocumentData) == 0 {
		badRequest(c, "documentData is required")
		return
	}
	if req.UserID == "" {
		badRequest(c, "userId is required")
		return
	}

	docType, err := models.ParseDocumentType(req.DocumentType)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	inv, err := h.invoices.GetByNumberAndUser(req.CommercialInvoiceNumber, req.UserID, req.ThreadID)
	if errors.Is(err, repository.ErrInvoiceNotFound) {
		notFound(c, fmt.Sprintf("commercial invoice %s not found", req.CommercialInvoiceNumber))
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch invoice for validation",
			zap.String("invoice_no", req.CommercialInvoiceNumber),
			zap.Error(err))
		serverError(c, "failed to retrieve commercial invoice")
		return
	}

	report, err := h.verifier.Validate(inv, docType, req.DocumentData)
	if errors.Is(err, crossverify.ErrInvalidDocumentData) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("Validation failed",
			zap.String("invoice_no", req.CommercialInvoiceNumber),
			zap.String("document_type", string(docType)),
			zap.Error(err))
		serverError(c, "validation failed")
		return
	}

	report.ID = uuid.New().String()
	if err := h.reports.Create(report, req.UserID, ""); err != nil {
		h.logger.Error("Failed to persist validation report",
			zap.String("report_id", report.ID),
			zap.Error(err))
		serverError(c, "failed to persist validation report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetValidation handles GET /api/validations/:id
func (h *Handlers) GetValidation(c *gin.Context) {
	report, ok := h.fetchReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportValidation handles GET /api/validations/:id/export
func (h *Handlers) ExportValidation(c *gin.Context) {
	report, ok := h.fetchReport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=validation-%s.xlsx", c.Param("id")))
	if err := h.exporter.Export(report, c.Writer); err != nil {
		h.logger.Error("Failed to export validation report",
			zap.String("report_id", c.Param("id")),
			zap.Error(err))
	}
}

func (h *Handlers) fetchReport(c *gin.Context) (*models.ValidationReport, bool) {
	report, err := h.reports.GetByID(c.Param("id"))
	if errors.Is(err, repository.ErrReportNotFound) {
		notFound(c, "validation report not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to fetch validation report",
			zap.String("id", c.Param("id")),
			zap.Error(err))
		serverError(c, "failed to retrieve validation report")
		return nil, false
	}
	return report, true
}

// readUpload pulls the multipart "file" part, enforcing the PDF extension
// and size cap. Responds with the error itself when validation fails.
func (h *Handlers) readUpload(c *gin.Context) (fileName string, content []byte, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return "", nil, false
	}
	if header.Size > maxUploadBytes {
		badRequest(c, "file exceeds maximum upload size")
		return "", nil, false
	}

	fileName = utils.SanitizeFileName(header.Filename)
	if !utils.IsPDF(fileName) {
		badRequest(c, "only PDF files are accepted")
		return "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		serverError(c, "failed to read uploaded file")
		return "", nil, false
	}
	defer f.Close()

	content, err = io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		serverError(c, "failed to read uploaded file")
		return "", nil, false
	}
	return fileName, content, true
}

func toDocumentResponse(doc *models.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           doc.ID,
		DocumentType: string(doc.DocumentType),
		FileName:     doc.FileName,
		Status:       doc.Status,
		ErrorMessage: doc.ErrorMessage,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    doc.UpdatedAt.Format(time.RFC3339),
	}
	if doc.ExtractedData != "" {
		resp.ExtractedData = json.RawMessage(doc.ExtractedData)
	}
	return resp
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Error: msg})
}

func serverError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: msg})
}
