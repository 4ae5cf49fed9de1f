package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role governs what a caller may do in user management.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return Role(s), nil
	}
	return "", errors.New("unknown role: " + s)
}

// Profile mirrors the identity provider's account record. The id is
// assigned by the provider and immutable; the dispatch core only ever
// reads it.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileCreateRequest is the input for the idempotent profile
// bootstrap. Name falls back to the email local part when empty.
type ProfileCreateRequest struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   Role
}

func (p *ProfileCreateRequest) Validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("userId is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = strings.SplitN(p.Email, "@", 2)[0]
	}
	return nil
}
