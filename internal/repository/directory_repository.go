package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/dealership-contracts/internal/model"
)

func (s *Store) GetCar(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	if err := s.db.WithContext(ctx).Preload("CarModel").First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// UpdateCarStatus sets the car's status unconditionally.
func (s *Store) UpdateCarStatus(ctx context.Context, id uuid.UUID, status model.CarStatus) error {
	result := s.db.WithContext(ctx).
		Model(&model.Car{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClaimCar flips a car from `from` to `to` only when it is still in
// `from`. A false return means another contract claimed it first.
func (s *Store) ClaimCar(ctx context.Context, id uuid.UUID, from, to model.CarStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Car{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// GetCompanyIDForUser resolves the operator's company.
func (s *Store) GetCompanyIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var user model.User
	err := s.db.WithContext(ctx).Select("id", "company_id").First(&user, "id = ?", userID).Error
	if err != nil {
		return uuid.Nil, err
	}
	return user.CompanyID, nil
}

// ListAvailableCars returns the company's cars still in possession,
// the candidates for a new contract.
func (s *Store) ListAvailableCars(ctx context.Context, companyID uuid.UUID) ([]model.Car, error) {
	var cars []model.Car
	err := s.db.WithContext(ctx).
		Preload("CarModel").
		Where("company_id = ? AND status = ?", companyID, model.CarStatusPossession).
		Order("car_number ASC").
		Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (s *Store) ListCustomers(ctx context.Context, companyID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) ListUsers(ctx context.Context, companyID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
