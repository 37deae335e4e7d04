package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/crossverify"
	"github.com/chaitanyajadhav1/freightdocbot/internal/export"
	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
	"github.com/chaitanyajadhav1/freightdocbot/internal/repository"
)

type fakeInvoiceStore struct {
	invoices map[string]*models.CommercialInvoice
	created  []*models.CommercialInvoice
}

func (s *fakeInvoiceStore) Create(inv *models.CommercialInvoice) error {
	s.created = append(s.created, inv)
	return nil
}

func (s *fakeInvoiceStore) GetByNumberAndUser(invoiceNo, userID, threadID string) (*models.CommercialInvoice, error) {
	if inv, ok := s.invoices[invoiceNo]; ok && inv.UserID == userID {
		return inv, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrInvoiceNotFound, invoiceNo)
}

type fakeDocumentStore struct {
	docs map[string]*models.Document
}

func (s *fakeDocumentStore) Create(doc *models.Document) error {
	s.docs[doc.ID] = doc
	return nil
}

func (s *fakeDocumentStore) GetByID(id string) (*models.Document, error) {
	if doc, ok := s.docs[id]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrDocumentNotFound, id)
}

type fakeReportStore struct {
	reports map[string]*models.ValidationReport
}

func (s *fakeReportStore) Create(report *models.ValidationReport, userID, documentID string) error {
	s.reports[report.ID] = report
	return nil
}

func (s *fakeReportStore) GetByID(id string) (*models.ValidationReport, error) {
	if report, ok := s.reports[id]; ok {
		return report, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrReportNotFound, id)
}

type fakeFileStore struct {
	saved []string
}

func (s *fakeFileStore) Save(userID, id, fileName string, content []byte) (string, error) {
	path := "/uploads/" + userID + "/" + id + "_" + fileName
	s.saved = append(s.saved, path)
	return path, nil
}

type fakeTextReader struct {
	text string
	ok   bool
	err  error
}

func (r *fakeTextReader) ExtractText(string) (string, bool, error) {
	return r.text, r.ok, r.err
}

type fakeInvoiceExtractor struct {
	invoice *models.CommercialInvoice
	err     error
}

func (e *fakeInvoiceExtractor) ExtractInvoice(context.Context, string) (*models.CommercialInvoice, error) {
	return e.invoice, e.err
}

type testEnv struct {
	router    http.Handler
	invoices  *fakeInvoiceStore
	documents *fakeDocumentStore
	reports   *fakeReportStore
	files     *fakeFileStore
	reader    *fakeTextReader
	extractor *fakeInvoiceExtractor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	env := &testEnv{
		invoices:  &fakeInvoiceStore{invoices: map[string]*models.CommercialInvoice{}},
		documents: &fakeDocumentStore{docs: map[string]*models.Document{}},
		reports:   &fakeReportStore{reports: map[string]*models.ValidationReport{}},
		files:     &fakeFileStore{},
		reader:    &fakeTextReader{text: "COMMERCIAL INVOICE INV100", ok: true},
		extractor: &fakeInvoiceExtractor{invoice: &models.CommercialInvoice{InvoiceNo: "INV100"}},
	}

	handlers := NewHandlers(
		env.invoices,
		env.documents,
		env.reports,
		env.files,
		env.reader,
		env.extractor,
		crossverify.NewEngine(logger),
		export.NewExcelExporter(logger),
		logger,
	)
	env.router = NewServer(DefaultServerConfig(), handlers, logger).Router()
	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestUploadInvoice(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t,
		map[string]string{"user_id": "user-1", "thread_id": "thread-9"},
		"invoice.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, env.invoices.created, 1)
	created := env.invoices.created[0]
	assert.Equal(t, "INV100", created.InvoiceNo)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "thread-9", created.ThreadID)
	assert.NotEmpty(t, created.FilePath)
	require.Len(t, env.files.saved, 1)
}

func TestUploadInvoice_MissingUserID(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, nil, "invoice.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.invoices.created)
}

func TestUploadInvoice_RejectsNonPDF(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t,
		map[string]string{"user_id": "user-1"}, "invoice.docx", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF")
}

func TestUploadInvoice_NoTextLayer(t *testing.T) {
	env := newTestEnv(t)
	env.reader.ok = false

	body, contentType := multipartBody(t,
		map[string]string{"user_id": "user-1"}, "scan.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text layer")
}

func TestUploadDocument(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t,
		map[string]string{"user_id": "user-1", "document_type": "packinglist"},
		"packing.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var doc DocumentResponse
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, models.DocStatusUploaded, doc.Status)

	stored, ok := env.documents.docs[doc.ID]
	require.True(t, ok)
	assert.Equal(t, models.DocTypePackingList, stored.DocumentType)
}

func TestUploadDocument_UnknownType(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t,
		map[string]string{"user_id": "user-1", "document_type": "billoflading"},
		"doc.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid types")
}

func TestGetDocument_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocument_IncludesExtractedData(t *testing.T) {
	env := newTestEnv(t)
	env.documents.docs["doc-1"] = &models.Document{
		ID:            "doc-1",
		DocumentType:  models.DocTypeFumigation,
		Status:        models.DocStatusExtracted,
		ExtractedData: `{"shippingMark":"222500187 Dt 17.07.2025"}`,
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/documents/doc-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "222500187")
	assert.Contains(t, rec.Body.String(), models.DocStatusExtracted)
}

func validateRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestValidateDocument(t *testing.T) {
	env := newTestEnv(t)
	env.invoices.invoices["INV100"] = &models.CommercialInvoice{
		InvoiceNo:   "INV100",
		InvoiceDate: "2025-01-10",
		UserID:      "user-1",
	}

	rec := env.do(validateRequest(t, `{
		"commercialInvoiceNumber": "INV100",
		"documentType": "packinglist",
		"documentData": {"invoiceNumber": "INV100"},
		"userId": "user-1"
	}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.True(t, report.IsValid)
	assert.Equal(t, 100, report.Completeness)
	assert.NotEmpty(t, report.ID)

	// The report must be retrievable afterwards.
	_, ok := env.reports.reports[report.ID]
	assert.True(t, ok)
}

func TestValidateDocument_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing invoice number",
			body: `{"documentType": "packinglist", "documentData": {}, "userId": "u"}`,
			want: "commercialInvoiceNumber",
		},
		{
			name: "missing document type",
			body: `{"commercialInvoiceNumber": "INV100", "documentData": {}, "userId": "u"}`,
			want: "valid types",
		},
		{
			name: "missing document data",
			body: `{"commercialInvoiceNumber": "INV100", "documentType": "packinglist", "userId": "u"}`,
			want: "documentData",
		},
		{
			name: "missing user id",
			body: `{"commercialInvoiceNumber": "INV100", "documentType": "packinglist", "documentData": {}}`,
			want: "userId",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(validateRequest(t, tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestValidateDocument_UnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(validateRequest(t, `{
		"commercialInvoiceNumber": "INV100",
		"documentType": "billoflading",
		"documentData": {},
		"userId": "user-1"
	}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "packinglist")
	assert.Contains(t, rec.Body.String(), "scomet")
}

func TestValidateDocument_InvoiceNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(validateRequest(t, `{
		"commercialInvoiceNumber": "INV404",
		"documentType": "packinglist",
		"documentData": {},
		"userId": "user-1"
	}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "INV404")
}

func TestValidateDocument_MalformedDocumentData(t *testing.T) {
	env := newTestEnv(t)
	env.invoices.invoices["INV100"] = &models.CommercialInvoice{
		InvoiceNo: "INV100",
		UserID:    "user-1",
	}

	rec := env.do(validateRequest(t, `{
		"commercialInvoiceNumber": "INV100",
		"documentType": "packinglist",
		"documentData": {"noSuchField": true},
		"userId": "user-1"
	}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetValidation(t *testing.T) {
	env := newTestEnv(t)
	env.reports.reports["rep-1"] = &models.ValidationReport{
		ID:           "rep-1",
		Success:      true,
		DocumentType: models.DocTypeAirwayBill,
		IsValid:      true,
		Completeness: 80,
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/validations/rep-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "airwaybill")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/validations/rep-2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportValidation(t *testing.T) {
	env := newTestEnv(t)
	env.reports.reports["rep-1"] = &models.ValidationReport{
		ID:           "rep-1",
		Success:      true,
		DocumentType: models.DocTypePackingList,
		IsValid:      true,
		Completeness: 100,
		CommercialInvoice: models.InvoiceSummary{
			InvoiceNo: "INV100",
		},
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/validations/rep-1/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "validation-rep-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	invoiceNo, err := f.GetCellValue("Validation Report", "B3")
	require.NoError(t, err)
	assert.Equal(t, "INV100", invoiceNo)
}
