// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package perm is the single source of truth for role-based authorization.

It defines the closed set of roles, the closed set of permissions, and the
static mapping between them. Both enforcement points — the server-side route
guard in [middleware] and the advisory command gating in the terminal client —
consult this one table, so the two can never drift apart.

# Fail Closed

Every lookup over an unknown role or permission returns "no access". There is
no error path that an authorization check could mistake for "allow".
*/
package perm

// # Roles

// Role is the authorization category assigned to an account.
type Role string

const (
	// RoleAdmin manages the full patient registry and provisions accounts.
	RoleAdmin Role = "ADMIN"

	// RoleUser has read-only access to the patient registry.
	RoleUser Role = "USER"
)

// Valid reports whether the role is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// # Permissions

// Permission identifies a single allowed action on a resource.
type Permission string

const (
	PatientList   Permission = "patient:list"
	PatientView   Permission = "patient:view"
	PatientCreate Permission = "patient:create"
	PatientUpdate Permission = "patient:update"
	PatientDelete Permission = "patient:delete"

	AccountCreate Permission = "account:create"
)

// # Role → Permission Table

// rolePermissions is the static authorization table. Each role's set is
// defined independently; no role inherits from another.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: {
		PatientList:   {},
		PatientView:   {},
		PatientCreate: {},
		PatientUpdate: {},
		PatientDelete: {},
		AccountCreate: {},
	},
	RoleUser: {
		PatientList: {},
		PatientView: {},
	},
}

// Has reports whether the role is allowed to perform the given permission.
// Unknown roles and unknown permissions are denied.
func Has(role Role, permission Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// PermissionsFor returns a copy of the permission set for a role.
// Unknown roles yield an empty set, never nil-map surprises for callers.
func PermissionsFor(role Role) map[Permission]struct{} {
	set, ok := rolePermissions[role]
	if !ok {
		return map[Permission]struct{}{}
	}
	out := make(map[Permission]struct{}, len(set))
	for p := range set {
		out[p] = struct{}{}
	}
	return out
}
