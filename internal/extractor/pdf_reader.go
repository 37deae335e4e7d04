// Package extractor turns uploaded trade document PDFs into the typed field
// records consumed by the cross-verification engine.
package extractor

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PDFReader pulls text out of trade document PDFs. Most export documents are
// digitally generated and carry a text layer; scanned certificates do not,
// so the reader also rasterizes pages for vision-based extraction.
type PDFReader struct {
	// minTextLength is the threshold below which the text layer is treated
	// as unusable (stamps-only or scanned pages).
	minTextLength int
	logger        *zap.Logger
}

// NewPDFReader creates a new PDF reader
func NewPDFReader(minTextLength int, logger *zap.Logger) *PDFReader {
	if minTextLength <= 0 {
		minTextLength = 100
	}
	return &PDFReader{minTextLength: minTextLength, logger: logger}
}

// ExtractText returns the concatenated text of all pages. ok reports whether
// enough text was found for LLM extraction to be worthwhile; on ok=false the
// caller should fall back to ExtractPageImages.
func (r *PDFReader) ExtractText(pdfPath string) (text string, ok bool, err error) {
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", false, fmt.Errorf("PDF file not found: %s", pdfPath)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	pageCount := doc.NumPage()
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		pageText, err := doc.Text(pageNum)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.String("path", pdfPath),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	text = strings.TrimSpace(sb.String())
	if len(text) < r.minTextLength {
		r.logger.Info("PDF text layer too short, vision fallback required",
			zap.String("path", pdfPath),
			zap.Int("text_length", len(text)),
			zap.Int("pages", pageCount))
		return text, false, nil
	}

	r.logger.Debug("Extracted PDF text",
		zap.String("path", pdfPath),
		zap.Int("text_length", len(text)),
		zap.Int("pages", pageCount))
	return text, true, nil
}

// ExtractPageImages rasterizes up to maxPages pages to JPEG for the vision
// extraction path.
func (r *PDFReader) ExtractPageImages(pdfPath string, maxPages int) ([][]byte, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if maxPages > 0 && pageCount > maxPages {
		pageCount = maxPages
	}

	var images [][]byte
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			r.logger.Warn("Failed to rasterize page",
				zap.String("path", pdfPath),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			r.logger.Warn("Failed to encode page to JPEG",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		images = append(images, buf.Bytes())
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no pages could be rasterized from %s", pdfPath)
	}
	return images, nil
}
