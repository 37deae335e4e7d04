package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// ErrInvoiceNotFound is returned when no commercial invoice matches the
// requested number for the user. Surfaced as 404 by the HTTP layer.
var ErrInvoiceNotFound = errors.New("commercial invoice not found")

// InvoiceRepository handles commercial invoice database operations
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `invoice_no, invoice_date, exporter_name, exporter_address,
	consignee_name, consignee_address, port_of_loading, port_of_discharge,
	final_destination, country_of_origin, country_of_destination, hsn_code,
	total_amount, currency, payment_terms, delivery_terms, marks_and_numbers,
	reference_no, proforma_no, total_weight, carrier_name_or_vessel,
	goods_description, user_id, thread_id, file_path, extracted_data`

// Create inserts a commercial invoice record. The invoice number is unique
// per user; re-uploading the same invoice is reported as a conflict.
func (r *InvoiceRepository) Create(inv *models.CommercialInvoice) error {
	query := `INSERT INTO commercial_invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		inv.InvoiceNo, inv.InvoiceDate, inv.ExporterName, inv.ExporterAddress,
		inv.ConsigneeName, inv.ConsigneeAddress, inv.PortOfLoading, inv.PortOfDischarge,
		inv.FinalDestination, inv.CountryOfOrigin, inv.CountryOfDestination, inv.HSNCode,
		inv.TotalAmount, inv.Currency, inv.PaymentTerms, inv.DeliveryTerms, inv.MarksAndNumbers,
		inv.ReferenceNo, inv.ProformaNo, inv.TotalWeight, inv.CarrierNameOrVessel,
		inv.GoodsDescription, inv.UserID, inv.ThreadID, inv.FilePath, inv.ExtractedData,
	)
	if err != nil {
		r.logger.Error("Failed to create commercial invoice",
			zap.String("invoice_no", inv.InvoiceNo),
			zap.Error(err))
		return fmt.Errorf("failed to create commercial invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	inv.ID = id
	return nil
}

// GetByNumberAndUser fetches the reference invoice for a validation run.
// ThreadID narrows the lookup when provided; shipments in different threads
// may legitimately reuse invoice numbers across users.
func (r *InvoiceRepository) GetByNumberAndUser(invoiceNo, userID, threadID string) (*models.CommercialInvoice, error) {
	query := `SELECT id, ` + invoiceColumns + `, created_at
		FROM commercial_invoices
		WHERE invoice_no = ? AND user_id = ?`
	args := []any{invoiceNo, userID}
	if threadID != "" {
		query += " AND thread_id = ?"
		args = append(args, threadID)
	}
	query += " ORDER BY created_at DESC LIMIT 1"

	inv := &models.CommercialInvoice{}
	err := r.db.QueryRow(query, args...).Scan(
		&inv.ID,
		&inv.InvoiceNo, &inv.InvoiceDate, &inv.ExporterName, &inv.ExporterAddress,
		&inv.ConsigneeName, &inv.ConsigneeAddress, &inv.PortOfLoading, &inv.PortOfDischarge,
		&inv.FinalDestination, &inv.CountryOfOrigin, &inv.CountryOfDestination, &inv.HSNCode,
		&inv.TotalAmount, &inv.Currency, &inv.PaymentTerms, &inv.DeliveryTerms, &inv.MarksAndNumbers,
		&inv.ReferenceNo, &inv.ProformaNo, &inv.TotalWeight, &inv.CarrierNameOrVessel,
		&inv.GoodsDescription, &inv.UserID, &inv.ThreadID, &inv.FilePath, &inv.ExtractedData,
		&inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s for user %s", ErrInvoiceNotFound, invoiceNo, userID)
	}
	if err != nil {
		r.logger.Error("Failed to fetch commercial invoice",
			zap.String("invoice_no", invoiceNo),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch commercial invoice: %w", err)
	}
	return inv, nil
}

// ListByUser returns the user's invoices, newest first.
func (r *InvoiceRepository) ListByUser(userID string, limit int) ([]*models.CommercialInvoice, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, invoice_no, invoice_date, exporter_name, consignee_name,
		total_amount, currency, created_at
		FROM commercial_invoices WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.CommercialInvoice
	for rows.Next() {
		inv := &models.CommercialInvoice{UserID: userID}
		if err := rows.Scan(&inv.ID, &inv.InvoiceNo, &inv.InvoiceDate, &inv.ExporterName,
			&inv.ConsigneeName, &inv.TotalAmount, &inv.Currency, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
