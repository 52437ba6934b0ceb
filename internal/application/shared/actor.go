package shared

import (
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf a service call runs
type Actor struct {
	UserID uuid.UUID
	Name   string
	Role   identity.Role
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == identity.RoleAdmin
}

// RepresentativeScope returns the representative a query must be restricted
// to, or nil when the actor sees everything
func (a Actor) RepresentativeScope() *uuid.UUID {
	if a.IsAdmin() {
		return nil
	}
	id := a.UserID
	return &id
}

// CanAccess reports whether the actor may read or change a record owned by ownerID
func (a Actor) CanAccess(ownerID *uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == a.UserID
}
