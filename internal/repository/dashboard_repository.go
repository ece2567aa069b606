package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/dealership-contracts/internal/model"
)

// CarTypeAggregate is one dashboard breakdown row: successful-contract
// count and summed sale price for a car model type.
type CarTypeAggregate struct {
	CarType string
	Count   int64
	Sales   int64
}

// SalesSum totals the sale price of successful contracts resolved
// inside [from, to].
func (s *Store) SalesSum(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Select("COALESCE(SUM(contract_price), 0)").
		Where("company_id = ? AND status = ?", companyID, model.ContractStatusSuccessful).
		Where("resolution_date >= ? AND resolution_date <= ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ProceedingContractsCount(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ?", companyID).
		Where("status IN ?", []model.ContractStatus{
			model.ContractStatusCarInspection,
			model.ContractStatusPriceNegotiation,
			model.ContractStatusContractDraft,
		}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CompletedContractsCount(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND status = ?", companyID, model.ContractStatusSuccessful).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SuccessfulContractsByCarType aggregates all-time successful
// contracts by the linked car's model type.
func (s *Store) SuccessfulContractsByCarType(ctx context.Context, companyID uuid.UUID) ([]CarTypeAggregate, error) {
	var rows []CarTypeAggregate
	err := s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Select("car_models.type AS car_type, COUNT(*) AS count, COALESCE(SUM(contracts.contract_price), 0) AS sales").
		Joins("JOIN cars ON cars.id = contracts.car_id").
		Joins("JOIN car_models ON car_models.id = cars.car_model_id").
		Where("contracts.company_id = ? AND contracts.status = ?", companyID, model.ContractStatusSuccessful).
		Group("car_models.type").
		Order("car_models.type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
