package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Meeting is wholly owned by its contract. Updates replace the whole
// set, so meeting IDs are not stable across contract updates.
type Meeting struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractID uuid.UUID `gorm:"type:uuid;index"`
	Date       time.Time
	Alarms     datatypes.JSONSlice[string]
}
