package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/repository"
)

const (
	defaultDocumentPageSize = 10
	maxDocumentPageSize     = 100
)

// DocumentService registers and lists contract document metadata. The
// binary blobs live outside this service.
type DocumentService struct {
	store *repository.Store
	log   zerolog.Logger
}

func NewDocumentService(store *repository.Store, log zerolog.Logger) *DocumentService {
	return &DocumentService{store: store, log: log}
}

func (s *DocumentService) Register(ctx context.Context, fileName string) (*DocumentView, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: fileName is required", ErrInvalidInput)
	}

	doc := &model.ContractDocument{FileName: fileName}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &DocumentView{ID: doc.ID, FileName: doc.FileName}, nil
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*DocumentView, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document", ErrNotFound)
		}
		return nil, err
	}
	return &DocumentView{ID: doc.ID, FileName: doc.FileName}, nil
}

type DocumentPage struct {
	TotalItemCount int64          `json:"totalItemCount"`
	Data           []DocumentView `json:"data"`
}

// List pages through the documents attached to the operator company's
// contracts.
func (s *DocumentService) List(ctx context.Context, operatorID uuid.UUID, page, pageSize int, keyword string) (*DocumentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultDocumentPageSize
	}
	if pageSize > maxDocumentPageSize {
		pageSize = maxDocumentPageSize
	}

	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}

	docs, total, err := s.store.ListCompanyDocuments(ctx, companyID, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	result := &DocumentPage{
		TotalItemCount: total,
		Data:           make([]DocumentView, 0, len(docs)),
	}
	for _, doc := range docs {
		result.Data = append(result.Data, DocumentView{ID: doc.ID, FileName: doc.FileName})
	}
	return result, nil
}
