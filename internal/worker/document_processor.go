package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// maxVisionPages bounds how many scanned pages are sent to the vision model.
const maxVisionPages = 2

// DocumentClaimer is the repository slice the processor needs.
type DocumentClaimer interface {
	ClaimPending(limit int) ([]*models.Document, error)
	MarkExtracted(id, extractedJSON string) error
	MarkFailed(id, errMsg string) error
}

// PageReader reads document files: text layer first, page images as the
// fallback for scans.
type PageReader interface {
	ExtractText(pdfPath string) (text string, ok bool, err error)
	ExtractPageImages(pdfPath string, maxPages int) ([][]byte, error)
}

// FieldExtractor turns document content into the typed record JSON.
type FieldExtractor interface {
	ExtractDocument(ctx context.Context, docType models.DocumentType, text string) (json.RawMessage, error)
	ExtractDocumentFromImages(ctx context.Context, docType models.DocumentType, images [][]byte) (json.RawMessage, error)
}

// Config holds processor tuning.
type Config struct {
	PollInterval   time.Duration
	BatchSize      int
	ProcessTimeout time.Duration
}

// DocumentProcessor polls for uploaded documents and runs field extraction
// on them in the background, moving each through
// UPLOADED -> PROCESSING -> EXTRACTED | FAILED.
type DocumentProcessor struct {
	cfg       Config
	docs      DocumentClaimer
	reader    PageReader
	extractor FieldExtractor
	logger    *zap.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	processed int
	failed    int
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(cfg Config, docs DocumentClaimer, reader PageReader, extractor FieldExtractor, logger *zap.Logger) *DocumentProcessor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = 2 * time.Minute
	}
	return &DocumentProcessor{
		cfg:       cfg,
		docs:      docs,
		reader:    reader,
		extractor: extractor,
		logger:    logger,
	}
}

// Name implements Worker.
func (p *DocumentProcessor) Name() string { return "document-processor" }

// Start begins the polling loop.
func (p *DocumentProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return fmt.Errorf("document processor already started")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go p.run(ctx)
	return nil
}

// Stop cancels the polling loop and waits for in-flight work to finish.
func (p *DocumentProcessor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *DocumentProcessor) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	// Drain anything pending at startup before the first tick.
	p.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *DocumentProcessor) processBatch(ctx context.Context) {
	claimed, err := p.docs.ClaimPending(p.cfg.BatchSize)
	if err != nil {
		p.logger.Error("Failed to claim pending documents", zap.Error(err))
		return
	}

	for _, doc := range claimed {
		if ctx.Err() != nil {
			// Shutdown mid-batch: release the claim so a restart retries.
			if err := p.docs.MarkFailed(doc.ID, "processing interrupted by shutdown"); err != nil {
				p.logger.Error("Failed to mark interrupted document", zap.Error(err))
			}
			continue
		}
		p.processOne(ctx, doc)
	}
}

func (p *DocumentProcessor) processOne(ctx context.Context, doc *models.Document) {
	p.logger.Info("Extracting document",
		zap.String("document_id", doc.ID),
		zap.String("document_type", string(doc.DocumentType)),
		zap.String("file", doc.FileName))

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProcessTimeout)
	defer cancel()

	extracted, err := p.extract(ctx, doc)
	if err != nil {
		p.mu.Lock()
		p.failed++
		p.mu.Unlock()

		p.logger.Error("Document extraction failed",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		if markErr := p.docs.MarkFailed(doc.ID, err.Error()); markErr != nil {
			p.logger.Error("Failed to mark document failed", zap.Error(markErr))
		}
		return
	}

	if err := p.docs.MarkExtracted(doc.ID, string(extracted)); err != nil {
		p.logger.Error("Failed to store extraction result",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	p.processed++
	p.mu.Unlock()

	p.logger.Info("Document extracted",
		zap.String("document_id", doc.ID),
		zap.String("document_type", string(doc.DocumentType)))
}

// extract tries the text layer first and falls back to page images.
func (p *DocumentProcessor) extract(ctx context.Context, doc *models.Document) (json.RawMessage, error) {
	text, ok, err := p.reader.ExtractText(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if ok {
		return p.extractor.ExtractDocument(ctx, doc.DocumentType, text)
	}

	images, err := p.reader.ExtractPageImages(doc.FilePath, maxVisionPages)
	if err != nil {
		return nil, fmt.Errorf("no usable text layer and rasterization failed: %w", err)
	}
	return p.extractor.ExtractDocumentFromImages(ctx, doc.DocumentType, images)
}

// Stats returns processed/failed counters for health reporting.
func (p *DocumentProcessor) Stats() (processed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.failed
}
