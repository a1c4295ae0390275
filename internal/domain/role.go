package domain

import "time"

type RoleType string

const (
	RoleTypeAdmin RoleType = "admin"
	RoleTypeUser  RoleType = "user"
)

const (
	// SuperAdminRole passes every permission check regardless of its assignments.
	SuperAdminRole = "Super Admin"
	// SubUserRole is the baseline role every sub-user can fall back to.
	SubUserRole = "Sub-User"

	DefaultGuard = "web"
)

// Permission names checked by the admin surface.
const (
	PermViewUsers        = "view-users"
	PermApproveUsers     = "approve-users"
	PermBlockUsers       = "block-users"
	PermDeleteUsers      = "delete-users"
	PermManageRoles      = "manage-roles"
	PermViewLoginHistory = "view-login-history"
)

// Join tables shared by the role repository and the user repository.
const (
	UserRolesTable       = "model_has_roles"
	RolePermissionsTable = "role_has_permissions"
)

type Permission struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_permissions_name_guard"`
	GuardName string    `json:"guard_name" gorm:"not null;default:web;uniqueIndex:idx_permissions_name_guard"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Permission) TableName() string { return "permissions" }

// Role is a platform-wide role managed by administrators.
type Role struct {
	ID          int64        `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"not null;uniqueIndex:idx_roles_name_guard"`
	Type        RoleType     `json:"type" gorm:"type:varchar(16);not null;default:user;index"`
	GuardName   string       `json:"guard_name" gorm:"not null;default:web;uniqueIndex:idx_roles_name_guard"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_has_permissions;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

// PermissionNames flattens the loaded permissions.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}
