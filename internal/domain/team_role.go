package domain

import (
	"slices"
	"time"
)

// teamPermissions is the closed set of permissions an organizer may grant to a team role.
var teamPermissions = [...]string{
	"create-events",
	"edit-events",
	"delete-events",
	"view-sub-users",
	"manage-sub-user-roles",
}

const (
	TeamPermCreateEvents       = "create-events"
	TeamPermEditEvents         = "edit-events"
	TeamPermDeleteEvents       = "delete-events"
	TeamPermViewSubUsers       = "view-sub-users"
	TeamPermManageSubUserRoles = "manage-sub-user-roles"
)

// TeamPermissions returns a copy of the team permission whitelist.
func TeamPermissions() []string {
	return slices.Clone(teamPermissions[:])
}

func IsTeamPermission(name string) bool {
	return slices.Contains(teamPermissions[:], name)
}

// TeamRole is an organizer-owned role for sub-users. Its permissions are plain
// strings from the whitelist, not rows of the permissions table.
type TeamRole struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	ParentUserID int64     `json:"parent_user_id" gorm:"index;not null"`
	Parent       *User     `json:"-" gorm:"foreignKey:ParentUserID;constraint:OnDelete:CASCADE"`
	Permissions  []string  `json:"permissions" gorm:"serializer:json;type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (TeamRole) TableName() string { return "team_roles" }

func (r *TeamRole) Grants(permission string) bool {
	return slices.Contains(r.Permissions, permission)
}

// AssignableRole is one entry of the role picker shown to an organizer.
type AssignableRole struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Scope       string   `json:"scope"` // global | team
	Permissions []string `json:"permissions"`
}
