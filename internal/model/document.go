package model

import (
	"time"

	"github.com/google/uuid"
)

// ContractDocument holds file metadata only. Binary storage lives
// outside this service.
type ContractDocument struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FileName  string
	CreatedAt time.Time
}

// ContractDocumentLink joins documents to contracts. The link set is
// replaced wholesale on contract update; the document rows survive.
type ContractDocumentLink struct {
	ContractID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractDocumentID uuid.UUID `gorm:"type:uuid;primaryKey"`
}
