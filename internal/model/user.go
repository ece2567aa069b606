package model

import "github.com/google/uuid"

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Email          string `gorm:"uniqueIndex"`
	EmployeeNumber string `gorm:"uniqueIndex"`
	PhoneNumber    string
	Password       string
	IsAdmin        bool
	CompanyID      uuid.UUID `gorm:"type:uuid;index"`
	Company        Company
}

type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Gender      string
	PhoneNumber string
	AgeGroup    string
	Region      string
	Email       string
	CompanyID   uuid.UUID `gorm:"type:uuid;index"`
}
