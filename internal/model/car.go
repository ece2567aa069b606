package model

import "github.com/google/uuid"

type CarStatus string

const (
	CarStatusPossession         CarStatus = "possession"
	CarStatusContractProceeding CarStatus = "contractProceeding"
	CarStatusContractCompleted  CarStatus = "contractCompleted"
)

type CarModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Model        string    `gorm:"uniqueIndex"`
	Manufacturer string
	Type         string
}

type Car struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarNumber         string    `gorm:"uniqueIndex"`
	CarModelID        uuid.UUID `gorm:"type:uuid"`
	CarModel          CarModel
	ManufacturingYear int
	Mileage           int64
	Price             int64
	AccidentCount     int
	Explanation       *string
	AccidentDetails   *string
	Status            CarStatus `gorm:"index"`
	CompanyID         uuid.UUID `gorm:"type:uuid;index"`
}
