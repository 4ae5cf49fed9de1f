// Package authz centralizes the role predicates that gate user
// management. The rules are explicit per-role branches rather than a
// numeric hierarchy: an admin outranks a user but may not touch other
// admins, and superadmin accounts can never be deleted by anyone.
package authz

import "github.com/mrezan/sms-dashboard/internal/model"

// CanEditUser reports whether actor may change target's role.
func CanEditUser(actor, target model.Role) bool {
	switch actor {
	case model.RoleSuperadmin:
		return true
	case model.RoleAdmin:
		return target == model.RoleUser
	default:
		return false
	}
}

// CanDeleteUser reports whether actor may delete target's account.
// Superadmin targets are refused regardless of actor.
func CanDeleteUser(actor, target model.Role) bool {
	if target == model.RoleSuperadmin {
		return false
	}
	switch actor {
	case model.RoleSuperadmin:
		return true
	case model.RoleAdmin:
		return target == model.RoleUser
	default:
		return false
	}
}

// CanViewUsers reports whether actor may read the account list at all.
func CanViewUsers(actor model.Role) bool {
	return actor == model.RoleAdmin || actor == model.RoleSuperadmin
}

// CanAssignRole reports whether actor may hand out the given role when
// creating or editing an account. Only superadmins mint superadmins.
func CanAssignRole(actor, assigned model.Role) bool {
	if assigned == model.RoleSuperadmin {
		return actor == model.RoleSuperadmin
	}
	return CanViewUsers(actor)
}
