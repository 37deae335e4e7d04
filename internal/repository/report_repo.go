package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// ErrReportNotFound is returned when no validation report matches the id.
var ErrReportNotFound = errors.New("validation report not found")

// ReportRepository persists validation reports for later retrieval and export
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

// Create stores a report. The full report is kept as JSON; verdict and score
// are broken out as columns for listing without unmarshaling.
func (r *ReportRepository) Create(report *models.ValidationReport, userID, documentID string) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	query := `INSERT INTO validation_reports
		(id, user_id, document_id, invoice_no, document_type, is_valid, completeness, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.Exec(query,
		report.ID, userID, documentID, report.CommercialInvoice.InvoiceNo,
		string(report.DocumentType), report.IsValid, report.Completeness, string(payload),
	); err != nil {
		r.logger.Error("Failed to store validation report",
			zap.String("report_id", report.ID),
			zap.Error(err))
		return fmt.Errorf("failed to store validation report: %w", err)
	}
	return nil
}

// GetByID fetches a stored report and decodes its JSON payload.
func (r *ReportRepository) GetByID(id string) (*models.ValidationReport, error) {
	var payload string
	err := r.db.QueryRow(`SELECT report FROM validation_reports WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation report: %w", err)
	}

	report := &models.ValidationReport{}
	if err := json.Unmarshal([]byte(payload), report); err != nil {
		return nil, fmt.Errorf("failed to decode validation report: %w", err)
	}
	return report, nil
}

// ListByInvoice returns report summaries for an invoice, newest first.
func (r *ReportRepository) ListByInvoice(invoiceNo, userID string) ([]*models.ValidationReport, error) {
	rows, err := r.db.Query(`SELECT report FROM validation_reports
		WHERE invoice_no = ? AND user_id = ? ORDER BY created_at DESC`, invoiceNo, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.ValidationReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report := &models.ValidationReport{}
		if err := json.Unmarshal([]byte(payload), report); err != nil {
			return nil, fmt.Errorf("failed to decode validation report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
