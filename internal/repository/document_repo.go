package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
	"github.com/chaitanyajadhav1/freightdocbot/pkg/database"
)

// ErrDocumentNotFound is returned when no document matches the requested id.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository handles uploaded document database operations
type DocumentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// Create inserts a freshly uploaded document in UPLOADED state.
func (r *DocumentRepository) Create(doc *models.Document) error {
	query := `INSERT INTO documents (id, user_id, thread_id, document_type, file_name, file_path, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.Exec(query,
		doc.ID, doc.UserID, doc.ThreadID, string(doc.DocumentType),
		doc.FileName, doc.FilePath, doc.Status,
	); err != nil {
		r.logger.Error("Failed to create document",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByID fetches one document.
func (r *DocumentRepository) GetByID(id string) (*models.Document, error) {
	query := `SELECT id, user_id, thread_id, document_type, file_name, file_path,
		status, extracted_data, error_message, created_at, updated_at
		FROM documents WHERE id = ?`

	doc := &models.Document{}
	var docType string
	err := r.db.QueryRow(query, id).Scan(
		&doc.ID, &doc.UserID, &doc.ThreadID, &docType, &doc.FileName, &doc.FilePath,
		&doc.Status, &doc.ExtractedData, &doc.ErrorMessage, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	doc.DocumentType = models.DocumentType(docType)
	return doc, nil
}

// ClaimPending atomically moves up to limit UPLOADED documents to PROCESSING
// and returns them, so concurrent extraction workers never pick up the same
// document twice.
func (r *DocumentRepository) ClaimPending(limit int) ([]*models.Document, error) {
	var claimed []*models.Document

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT id, user_id, thread_id, document_type, file_name, file_path
			FROM documents WHERE status = ? ORDER BY created_at LIMIT ?`,
			models.DocStatusUploaded, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			doc := &models.Document{Status: models.DocStatusProcessing}
			var docType string
			if err := rows.Scan(&doc.ID, &doc.UserID, &doc.ThreadID, &docType,
				&doc.FileName, &doc.FilePath); err != nil {
				return err
			}
			doc.DocumentType = models.DocumentType(docType)
			claimed = append(claimed, doc)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, doc := range claimed {
			if _, err := tx.Exec(
				`UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				models.DocStatusProcessing, doc.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to claim pending documents", zap.Error(err))
		return nil, fmt.Errorf("failed to claim pending documents: %w", err)
	}
	return claimed, nil
}

// MarkExtracted stores the extraction result and flips the document to
// EXTRACTED.
func (r *DocumentRepository) MarkExtracted(id, extractedJSON string) error {
	return r.setStatus(id, models.DocStatusExtracted, extractedJSON, "")
}

// MarkFailed records the failure reason and flips the document to FAILED.
func (r *DocumentRepository) MarkFailed(id, errMsg string) error {
	return r.setStatus(id, models.DocStatusFailed, "", errMsg)
}

func (r *DocumentRepository) setStatus(id, status, extracted, errMsg string) error {
	result, err := r.db.Exec(
		`UPDATE documents SET status = ?, extracted_data = ?, error_message = ?,
			updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, extracted, errMsg, id)
	if err != nil {
		r.logger.Error("Failed to update document status",
			zap.String("document_id", id),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update document status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return nil
}

// ListByUser returns the user's documents, newest first.
func (r *DocumentRepository) ListByUser(userID string, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, user_id, thread_id, document_type, file_name,
		status, error_message, created_at, updated_at
		FROM documents WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		var docType string
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.ThreadID, &docType, &doc.FileName,
			&doc.Status, &doc.ErrorMessage, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc.DocumentType = models.DocumentType(docType)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
