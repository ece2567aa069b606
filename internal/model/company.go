package model

import "github.com/google/uuid"

type Company struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName string
	CompanyCode string `gorm:"uniqueIndex"`
}
