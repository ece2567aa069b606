package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusCarInspection    ContractStatus = "carInspection"
	ContractStatusPriceNegotiation ContractStatus = "priceNegotiation"
	ContractStatusContractDraft    ContractStatus = "contractDraft"
	ContractStatusSuccessful       ContractStatus = "contractSuccessful"
	ContractStatusFailed           ContractStatus = "contractFailed"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusCarInspection,
		ContractStatusPriceNegotiation,
		ContractStatusContractDraft,
		ContractStatusSuccessful,
		ContractStatusFailed:
		return true
	}
	return false
}

func (s ContractStatus) Terminal() bool {
	return s == ContractStatusSuccessful || s == ContractStatusFailed
}

// CarStatus is the car state a contract in this status pins its car to.
func (s ContractStatus) CarStatus() CarStatus {
	switch s {
	case ContractStatusSuccessful:
		return CarStatusContractCompleted
	case ContractStatusFailed:
		return CarStatusPossession
	default:
		return CarStatusContractProceeding
	}
}

// ContractStatuses lists every status in lifecycle order. The list
// endpoint returns one bucket per entry even when a bucket is empty.
var ContractStatuses = []ContractStatus{
	ContractStatusCarInspection,
	ContractStatusPriceNegotiation,
	ContractStatusContractDraft,
	ContractStatusSuccessful,
	ContractStatusFailed,
}

type Contract struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status         ContractStatus
	ContractPrice  int64
	ResolutionDate *time.Time
	CarID          uuid.UUID `gorm:"type:uuid;index"`
	Car            Car
	CustomerID     uuid.UUID `gorm:"type:uuid;index"`
	Customer       Customer
	UserID         uuid.UUID `gorm:"type:uuid;index"`
	User           User
	CompanyID      uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Meetings       []Meeting          `gorm:"constraint:OnDelete:CASCADE"`
	Documents      []ContractDocument `gorm:"-"`
}
