package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/dealership-contracts/internal/model"
)

func (s *Store) CreateDocument(ctx context.Context, doc *model.ContractDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*model.ContractDocument, error) {
	var doc model.ContractDocument
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocuments resolves a batch of document ids, preserving no order.
func (s *Store) GetDocuments(ctx context.Context, ids []uuid.UUID) ([]model.ContractDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []model.ContractDocument
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// ListCompanyDocuments pages through documents linked to the company's
// contracts, newest first, optionally filtered by file name.
func (s *Store) ListCompanyDocuments(ctx context.Context, companyID uuid.UUID, keyword string, offset, limit int) ([]model.ContractDocument, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.ContractDocument{}).
		Joins("JOIN contract_document_links ON contract_document_links.contract_document_id = contract_documents.id").
		Joins("JOIN contracts ON contracts.id = contract_document_links.contract_id").
		Where("contracts.company_id = ?", companyID)
	if keyword != "" {
		query = query.Where("contract_documents.file_name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []model.ContractDocument
	err := query.
		Order("contract_documents.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}
