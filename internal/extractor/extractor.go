package extractor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/internal/models"
)

// completionClient is the slice of the OpenAI client the extractor uses;
// tests substitute a stub.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds LLM extraction settings.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Extractor extracts typed field records from document text (or page images
// when no usable text layer exists) using the OpenAI chat API.
type Extractor struct {
	client completionClient
	cfg    Config
	logger *zap.Logger
}

// New creates an extractor backed by the real OpenAI client.
func New(apiKey string, cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		cfg:    cfg,
		logger: logger,
	}
}

// NewWithClient creates an extractor with an injected completion client.
func NewWithClient(client completionClient, cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{client: client, cfg: cfg, logger: logger}
}

// ExtractDocument turns raw document text into the typed record JSON for
// docType. The response is round-tripped through the typed struct so stored
// data carries exactly the known fields.
func (e *Extractor) ExtractDocument(ctx context.Context, docType models.DocumentType, text string) (json.RawMessage, error) {
	content, err := e.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: buildDocumentPrompt(docType, text)},
	})
	if err != nil {
		return nil, err
	}
	return normalizeDocumentJSON(docType, []byte(content))
}

// ExtractDocumentFromImages is the vision fallback for scanned documents.
func (e *Extractor) ExtractDocumentFromImages(ctx context.Context, docType models.DocumentType, images [][]byte) (json.RawMessage, error) {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: buildDocumentPrompt(docType, "(see attached page images)"),
	}}
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(img)),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	content, err := e.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, MultiContent: parts},
	})
	if err != nil {
		return nil, err
	}
	return normalizeDocumentJSON(docType, []byte(content))
}

// ExtractInvoice turns commercial invoice text into a CommercialInvoice
// record. The raw extraction JSON is preserved on the record for storage.
func (e *Extractor) ExtractInvoice(ctx context.Context, text string) (*models.CommercialInvoice, error) {
	content, err := e.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: buildInvoicePrompt(text)},
	})
	if err != nil {
		return nil, err
	}

	inv := &models.CommercialInvoice{}
	if err := json.Unmarshal([]byte(content), inv); err != nil {
		e.logger.Error("Failed to parse invoice extraction result",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse invoice extraction result: %w", err)
	}
	if inv.InvoiceNo == "" {
		return nil, fmt.Errorf("extraction found no invoice number")
	}
	inv.ExtractedData = content

	e.logger.Info("Commercial invoice extracted",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.Float64("total_amount", inv.TotalAmount))
	return inv, nil
}

// complete sends one JSON-mode chat completion and returns the content.
func (e *Extractor) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Messages:    messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// normalizeDocumentJSON decodes the model output into the typed record for
// docType and re-encodes it, dropping any keys outside the known schema.
func normalizeDocumentJSON(docType models.DocumentType, raw []byte) (json.RawMessage, error) {
	var record any
	switch docType {
	case models.DocTypeSCOMET:
		record = &models.SCOMETDeclaration{}
	case models.DocTypePackingList:
		record = &models.PackingList{}
	case models.DocTypeFumigation:
		record = &models.FumigationCertificate{}
	case models.DocTypeExportDeclaration:
		record = &models.ExportDeclaration{}
	case models.DocTypeAirwayBill:
		record = &models.AirwayBill{}
	default:
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("failed to parse extraction result for %s: %w", docType, err)
	}
	normalized, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s record: %w", docType, err)
	}
	return normalized, nil
}
