package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ticketadmin/internal/database"
	"ticketadmin/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, mutate ...func(*domain.User)) *domain.User {
	t.Helper()

	u := &domain.User{
		Name:             "User " + email,
		Email:            email,
		PasswordHash:     "hash",
		OrganizationType: domain.OrgEventOrganizer,
		Status:           domain.StatusActive,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, db.Omit("Roles").Create(u).Error)
	return u
}

func seedRole(t *testing.T, db *gorm.DB, name string, roleType domain.RoleType, perms ...string) *domain.Role {
	t.Helper()

	repo := NewRoleRepository(db)
	permRepo := NewPermissionRepository(db)

	ids := make([]int64, 0, len(perms))
	for _, name := range perms {
		p, err := permRepo.Ensure(context.Background(), name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	role := &domain.Role{Name: name, Type: roleType}
	require.NoError(t, repo.Create(context.Background(), role, ids))
	return role
}
