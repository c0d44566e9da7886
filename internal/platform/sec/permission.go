// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Capabilities

// Permissions is the fixed capability set granted to a role.
type Permissions struct {
	CanViewAllUsers bool `json:"can_view_all_users"`
	CanEditAllUsers bool `json:"can_edit_all_users"`
	CanDeleteUsers  bool `json:"can_delete_users"`
	CanChangeRoles  bool `json:"can_change_roles"`
	CanManageSystem bool `json:"can_manage_system"`
}

// rolePermissions is the complete capability table. Roles not listed,
// including unknown ones, get the zero value.
var rolePermissions = map[Role]Permissions{
	RoleAdmin: {
		CanViewAllUsers: true,
		CanEditAllUsers: true,
		CanDeleteUsers:  true,
		CanChangeRoles:  true,
		CanManageSystem: true,
	},
	RoleOwner:     {},
	RoleDeveloper: {},
}

// PermissionsFor returns the capabilities of role.
func PermissionsFor(role Role) Permissions {
	return rolePermissions[role]
}

// CanViewAllUsers reports whether role may list every account.
func CanViewAllUsers(role Role) bool { return PermissionsFor(role).CanViewAllUsers }

// CanEditAllUsers reports whether role may edit any account.
func CanEditAllUsers(role Role) bool { return PermissionsFor(role).CanEditAllUsers }

// CanDeleteUsers reports whether role may delete accounts.
func CanDeleteUsers(role Role) bool { return PermissionsFor(role).CanDeleteUsers }

// CanChangeRoles reports whether role may change roles and account flags.
func CanChangeRoles(role Role) bool { return PermissionsFor(role).CanChangeRoles }

// CanManageSystem reports whether role may access system administration.
func CanManageSystem(role Role) bool { return PermissionsFor(role).CanManageSystem }

// # Derived Checks

// CanEditUser reports whether an actor may edit the target account.
// Self-edit is always allowed, whatever the role.
func CanEditUser(role Role, targetID, currentID string) bool {
	if targetID != "" && targetID == currentID {
		return true
	}
	return CanEditAllUsers(role)
}

// CanDeleteUser reports whether an actor may delete the target account.
// Nobody may delete their own account, admins included.
func CanDeleteUser(role Role, targetID, currentID string) bool {
	if targetID == "" || targetID == currentID {
		return false
	}
	return CanDeleteUsers(role)
}
