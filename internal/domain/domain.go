package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RolePharmacist   Role = "pharmacist"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePharmacist, RoleDoctor, RoleNurse, RoleReceptionist:
		return true
	}
	return false
}

// CanManageInventory reports whether the role may mutate stock.
func (r Role) CanManageInventory() bool {
	return r == RoleAdmin || r == RolePharmacist
}

type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Always "Bearer"
}

// Claims identifies the staff member behind a request. Name is recorded as
// the actor on stock log entries.
type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
}

// ValidationError carries one message per offending field. It blocks the
// operation; values are never coerced.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Add appends a field message.
func (e *ValidationError) Add(msg string) {
	e.Fields = append(e.Fields, msg)
}

// OrNil returns nil when no field was rejected.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
