package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the single role tag carried by every account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCaregiver Role = "caregiver"
	RolePatient   Role = "patient"
)

// ParseRole accepts only the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCaregiver, RolePatient:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of an operation. It is always passed explicitly.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsCaregiver() bool {
	return a.Role == RoleCaregiver
}

func (a Actor) IsPatient() bool {
	return a.Role == RolePatient
}

// IDPtr returns a pointer to the actor ID, or nil for the zero actor.
func (a Actor) IDPtr() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
