package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleOwner UserRole = "owner"
	RoleAdmin UserRole = "admin"
)

// Requester is the identity the identity service resolved for the current
// request. The ledger only treats Role as a precondition input.
type Requester struct {
	ID   uuid.UUID
	Role UserRole
}

func (r Requester) IsGuest() bool {
	return r.Role == RoleGuest
}
