package authz

import (
	"testing"

	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCanEditUser(t *testing.T) {
	tests := []struct {
		name     string
		actor    model.Role
		target   model.Role
		expected bool
	}{
		{"superadmin edits user", model.RoleSuperadmin, model.RoleUser, true},
		{"superadmin edits admin", model.RoleSuperadmin, model.RoleAdmin, true},
		{"superadmin edits superadmin", model.RoleSuperadmin, model.RoleSuperadmin, true},
		{"admin edits user", model.RoleAdmin, model.RoleUser, true},
		{"admin edits admin", model.RoleAdmin, model.RoleAdmin, false},
		{"admin edits superadmin", model.RoleAdmin, model.RoleSuperadmin, false},
		{"user edits user", model.RoleUser, model.RoleUser, false},
		{"user edits admin", model.RoleUser, model.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanEditUser(tt.actor, tt.target))
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	tests := []struct {
		name     string
		actor    model.Role
		target   model.Role
		expected bool
	}{
		{"superadmin deletes user", model.RoleSuperadmin, model.RoleUser, true},
		{"superadmin deletes admin", model.RoleSuperadmin, model.RoleAdmin, true},
		{"superadmin deletes superadmin", model.RoleSuperadmin, model.RoleSuperadmin, false},
		{"admin deletes user", model.RoleAdmin, model.RoleUser, true},
		{"admin deletes admin", model.RoleAdmin, model.RoleAdmin, false},
		{"admin deletes superadmin", model.RoleAdmin, model.RoleSuperadmin, false},
		{"user deletes user", model.RoleUser, model.RoleUser, false},
		{"user deletes superadmin", model.RoleUser, model.RoleSuperadmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanDeleteUser(tt.actor, tt.target))
		})
	}
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(model.RoleSuperadmin, model.RoleSuperadmin))
	assert.False(t, CanAssignRole(model.RoleAdmin, model.RoleSuperadmin))
	assert.True(t, CanAssignRole(model.RoleAdmin, model.RoleUser))
	assert.True(t, CanAssignRole(model.RoleAdmin, model.RoleAdmin))
	assert.False(t, CanAssignRole(model.RoleUser, model.RoleUser))
}
