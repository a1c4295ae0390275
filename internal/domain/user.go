package domain

import (
	"time"

	"gorm.io/gorm"
)

type AccountStatus string

const (
	StatusPendingApproval AccountStatus = "pending_approval"
	StatusActive          AccountStatus = "active"
	StatusBlocked         AccountStatus = "blocked"
)

type OrganizationType string

const (
	OrgIndividual     OrganizationType = "individual"
	OrgCorporate      OrganizationType = "corporate"
	OrgCompany        OrganizationType = "company"
	OrgNonProfit      OrganizationType = "non-profit"
	OrgEventOrganizer OrganizationType = "event-organizer"
	OrgSubUser        OrganizationType = "sub-user"
)

// User is a platform account. Admins, organizers and sub-users share the table;
// sub-users point at their organizer through ParentID.
type User struct {
	ID               int64            `json:"id" gorm:"primaryKey"`
	Name             string           `json:"name" gorm:"not null"`
	FirstName        string           `json:"first_name,omitempty"`
	LastName         string           `json:"last_name,omitempty"`
	CompanyName      string           `json:"company_name,omitempty"`
	Email            string           `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string           `json:"-" gorm:"column:password_hash;not null"`
	IsAdmin          bool             `json:"is_admin" gorm:"default:false"`
	OrganizationType OrganizationType `json:"organization_type" gorm:"type:varchar(32)"`

	Status        AccountStatus  `json:"status" gorm:"type:varchar(32);default:pending_approval;index"`
	StatusReason  string         `json:"status_reason,omitempty"`
	IsBlocked     bool           `json:"is_blocked" gorm:"default:false"`
	BlockedAt     *time.Time     `json:"blocked_at,omitempty"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	DeletedReason string         `json:"deleted_reason,omitempty"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	ParentID   *int64 `json:"parent_id,omitempty" gorm:"index"`
	SubUsers   []User `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Roles      []Role `json:"roles,omitempty" gorm:"many2many:model_has_roles;constraint:OnDelete:CASCADE"`
	TeamRoleID *int64 `json:"team_role_id,omitempty" gorm:"index"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty" gorm:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsDeleted reports whether the account carries a soft-delete marker.
func (u *User) IsDeleted() bool {
	return u.DeletedAt.Valid
}

// IsSubUser reports whether the account hangs under an organizer.
func (u *User) IsSubUser() bool {
	return u.ParentID != nil
}

// AccountOwnerID is the id that owns resources on behalf of u: the organizer for
// sub-users, the account itself otherwise.
func (u *User) AccountOwnerID() int64 {
	if u.ParentID != nil {
		return *u.ParentID
	}
	return u.ID
}

// LoginHistory is an append-only row written on every successful login.
type LoginHistory struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	LoginAt   time.Time `json:"login_at" gorm:"index;not null"`
}

func (LoginHistory) TableName() string { return "login_histories" }

// RevokedToken blacklists an access token id until it would have expired anyway.
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;type:varchar(64)"`
	UserID    int64     `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
