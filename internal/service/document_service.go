package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

// CreateDocumentRequest registers a receipt or invoice that has already been
// uploaded to object storage. OCR runs outside this service; extracted fields
// land here through UpdateDocumentRequest.
type CreateDocumentRequest struct {
	FileKey  string `json:"file_key" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required,oneof=receipt invoice"`
	MimeType string `json:"mime_type"`
	Currency string `json:"currency"`
}

type UpdateDocumentRequest struct {
	Provider      string  `json:"provider"`
	DocumentDate  string  `json:"document_date"` // YYYY-MM-DD
	Amount        *int64  `json:"amount"`        // minor units
	Currency      string  `json:"currency"`
	TaxAmount     *int64  `json:"tax_amount"`
	Category      string  `json:"category"`
	Jurisdiction  string  `json:"jurisdiction"`
	ExtractedData string  `json:"extracted_data"`
	Status        *string `json:"status" binding:"omitempty,oneof=pending processed verified rejected"`
}

type DocumentResponse struct {
	ID           string  `json:"id"`
	FileKey      string  `json:"file_key"`
	FileURL      string  `json:"file_url"`
	FileName     string  `json:"file_name"`
	FileType     string  `json:"file_type"`
	MimeType     string  `json:"mime_type"`
	Provider     string  `json:"provider"`
	DocumentDate *string `json:"document_date"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	TaxAmount    *string `json:"tax_amount"`
	Category     string  `json:"category"`
	Jurisdiction string  `json:"jurisdiction"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// --- Interface ---

type DocumentService interface {
	CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (DocumentResponse, error)
	GetDocument(ctx context.Context, userID, id string) (DocumentResponse, error)
	ListDocuments(ctx context.Context, userID string, page, limit int) ([]DocumentResponse, int64, error)
	UpdateDocument(ctx context.Context, userID, id string, req UpdateDocumentRequest) (DocumentResponse, error)
}

type documentService struct {
	docRepo   repository.DocumentRepository
	auditRepo repository.AuditRepository
}

func NewDocumentService(docRepo repository.DocumentRepository, auditRepo repository.AuditRepository) DocumentService {
	return &documentService{docRepo: docRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *documentService) CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (DocumentResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = model.BaseCurrency
	}

	doc := model.Document{
		UserID:   uid,
		FileKey:  req.FileKey,
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileType: req.FileType,
		MimeType: req.MimeType,
		Currency: currency,
		Status:   model.DocStatusPending,
	}
	if err := s.docRepo.Create(ctx, &doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to create document: %w", err)
	}

	s.writeDocumentAudit(ctx, uid, model.ActionUploadDocument, doc.ID.String(), req.FileName, req)

	return toDocumentResponse(doc), nil
}

func (s *documentService) GetDocument(ctx context.Context, userID, id string) (DocumentResponse, error) {
	doc, err := s.findOwnedDocument(ctx, userID, id)
	if err != nil {
		return DocumentResponse{}, err
	}
	return toDocumentResponse(*doc), nil
}

func (s *documentService) ListDocuments(ctx context.Context, userID string, page, limit int) ([]DocumentResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	docs, total, err := s.docRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}

	res := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, toDocumentResponse(d))
	}
	return res, total, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, userID, id string, req UpdateDocumentRequest) (DocumentResponse, error) {
	doc, err := s.findOwnedDocument(ctx, userID, id)
	if err != nil {
		return DocumentResponse{}, err
	}

	if req.Provider != "" {
		doc.Provider = req.Provider
	}
	if req.DocumentDate != "" {
		d, parseErr := time.Parse("2006-01-02", req.DocumentDate)
		if parseErr != nil {
			return DocumentResponse{}, fmt.Errorf("invalid document_date format (expected YYYY-MM-DD): %w", parseErr)
		}
		doc.DocumentDate = &d
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return DocumentResponse{}, fmt.Errorf("amount must be non-negative")
		}
		doc.Amount = *req.Amount
	}
	if req.Currency != "" {
		doc.Currency = req.Currency
	}
	if req.TaxAmount != nil {
		doc.TaxAmount = req.TaxAmount
	}
	if req.Category != "" {
		doc.Category = req.Category
	}
	if req.Jurisdiction != "" {
		doc.Jurisdiction = req.Jurisdiction
	}
	if req.ExtractedData != "" {
		if !json.Valid([]byte(req.ExtractedData)) {
			return DocumentResponse{}, fmt.Errorf("extracted_data must be valid JSON")
		}
		doc.ExtractedData = req.ExtractedData
	}
	if req.Status != nil {
		doc.Status = *req.Status
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to update document: %w", err)
	}

	s.writeDocumentAudit(ctx, doc.UserID, model.ActionUpdateDocument, doc.ID.String(), doc.FileName, req)

	return toDocumentResponse(*doc), nil
}

// --- Helpers ---

func (s *documentService) findOwnedDocument(ctx context.Context, userID, id string) (*model.Document, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id: %w", err)
	}

	doc, err := s.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document not found")
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if doc.UserID != uid {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

func (s *documentService) writeDocumentAudit(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	})
}

func toDocumentResponse(d model.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           d.ID.String(),
		FileKey:      d.FileKey,
		FileURL:      d.FileURL,
		FileName:     d.FileName,
		FileType:     d.FileType,
		MimeType:     d.MimeType,
		Provider:     d.Provider,
		Amount:       minorToMajorString(d.Amount),
		Currency:     d.Currency,
		Category:     d.Category,
		Jurisdiction: d.Jurisdiction,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
	if d.DocumentDate != nil {
		s := d.DocumentDate.Format("2006-01-02")
		resp.DocumentDate = &s
	}
	if d.TaxAmount != nil {
		s := minorToMajorString(*d.TaxAmount)
		resp.TaxAmount = &s
	}
	return resp
}
