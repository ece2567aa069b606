package model

import "github.com/google/uuid"

// Principal identifies the authenticated dealership employee making
// the request.
type Principal struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	IsAdmin   bool
}
