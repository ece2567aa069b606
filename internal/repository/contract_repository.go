package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/dealership-contracts/internal/model"
)

// ContractSearch narrows the contract list. By is one of the values
// accepted by the service layer ("customerName", "userName") or empty.
type ContractSearch struct {
	By      string
	Keyword string
}

func (s *Store) CreateContract(ctx context.Context, contract *model.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Omit("Car", "Customer", "User", "Meetings").Create(contract).Error
}

// GetContract loads a contract with its car, customer, user, meetings
// and linked documents.
func (s *Store) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := s.db.WithContext(ctx).
		Preload("Car.CarModel").
		Preload("Customer").
		Preload("User").
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Order("meetings.date ASC")
		}).
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	docs, err := s.ListContractDocuments(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	contract.Documents = docs
	return &contract, nil
}

func (s *Store) SaveContract(ctx context.Context, contract *model.Contract) error {
	result := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("id = ?", contract.ID).
		Updates(map[string]interface{}{
			"status":          contract.Status,
			"contract_price":  contract.ContractPrice,
			"resolution_date": contract.ResolutionDate,
			"car_id":          contract.CarID,
			"customer_id":     contract.CustomerID,
			"user_id":         contract.UserID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteContract removes the contract together with its meetings and
// document links. The document rows themselves stay.
func (s *Store) DeleteContract(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("contract_id = ?", id).Delete(&model.Meeting{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("contract_id = ?", id).Delete(&model.ContractDocumentLink{}).Error; err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Delete(&model.Contract{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) ListContracts(ctx context.Context, companyID uuid.UUID, search ContractSearch) ([]model.Contract, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("contracts.company_id = ?", companyID).
		Preload("Car.CarModel").
		Preload("Customer").
		Preload("User").
		Preload("Meetings").
		Order("contracts.created_at DESC")

	if search.Keyword != "" {
		pattern := "%" + search.Keyword + "%"
		switch search.By {
		case "customerName":
			query = query.
				Joins("JOIN customers ON customers.id = contracts.customer_id").
				Where("customers.name LIKE ?", pattern)
		case "userName":
			query = query.
				Joins("JOIN users ON users.id = contracts.user_id").
				Where("users.name LIKE ?", pattern)
		}
	}

	var contracts []model.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// ReplaceMeetings drops the contract's meeting set and recreates it.
func (s *Store) ReplaceMeetings(ctx context.Context, contractID uuid.UUID, meetings []model.Meeting) error {
	if err := s.db.WithContext(ctx).Where("contract_id = ?", contractID).Delete(&model.Meeting{}).Error; err != nil {
		return err
	}
	if len(meetings) == 0 {
		return nil
	}
	for i := range meetings {
		if meetings[i].ID == uuid.Nil {
			meetings[i].ID = uuid.New()
		}
		meetings[i].ContractID = contractID
	}
	return s.db.WithContext(ctx).Create(&meetings).Error
}

// ReplaceDocumentLinks drops the contract's document links and
// recreates them for the given document ids.
func (s *Store) ReplaceDocumentLinks(ctx context.Context, contractID uuid.UUID, documentIDs []uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("contract_id = ?", contractID).Delete(&model.ContractDocumentLink{}).Error; err != nil {
		return err
	}
	if len(documentIDs) == 0 {
		return nil
	}
	links := make([]model.ContractDocumentLink, 0, len(documentIDs))
	for _, docID := range documentIDs {
		links = append(links, model.ContractDocumentLink{
			ContractID:         contractID,
			ContractDocumentID: docID,
		})
	}
	return s.db.WithContext(ctx).Create(&links).Error
}

func (s *Store) ListContractDocuments(ctx context.Context, contractID uuid.UUID) ([]model.ContractDocument, error) {
	var docs []model.ContractDocument
	err := s.db.WithContext(ctx).
		Joins("JOIN contract_document_links ON contract_document_links.contract_document_id = contract_documents.id").
		Where("contract_document_links.contract_id = ?", contractID).
		Order("contract_documents.file_name ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ActiveContractExistsForCar reports whether any non-terminal contract
// other than excludeID still references the car.
func (s *Store) ActiveContractExistsForCar(ctx context.Context, carID, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("car_id = ? AND id <> ?", carID, excludeID).
		Where("status IN ?", []model.ContractStatus{
			model.ContractStatusCarInspection,
			model.ContractStatusPriceNegotiation,
			model.ContractStatusContractDraft,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
