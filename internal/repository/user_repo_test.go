package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketadmin/internal/domain"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"}))

	err := repo.Create(ctx, &domain.User{Name: "B", Email: " A@X.com ", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserRepository_SaveLifecycle_SoftDeleteIsSingleWrite(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "del@x.com")

	require.NoError(t, u.SoftDelete("duplicate account cleanup", time.Now()))
	require.NoError(t, repo.SaveLifecycle(ctx, u))

	_, err := repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	trashed, err := repo.GetByIDWithTrashed(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, trashed.IsDeleted())
	assert.Equal(t, "duplicate account cleanup", trashed.DeletedReason)

	require.NoError(t, trashed.Restore())
	require.NoError(t, repo.SaveLifecycle(ctx, trashed))

	restored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, restored.Status)
	assert.Empty(t, restored.DeletedReason)
}

func TestUserRepository_SaveLifecycle_BlockFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "blk@x.com")

	require.NoError(t, u.Block("fraudulent ticket sales", time.Now()))
	require.NoError(t, repo.SaveLifecycle(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked)
	assert.Equal(t, domain.StatusBlocked, got.Status)
	assert.NotNil(t, got.BlockedAt)

	require.NoError(t, got.Unblock())
	require.NoError(t, repo.SaveLifecycle(ctx, got))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBlocked)
	assert.Nil(t, got.BlockedAt)
	assert.Empty(t, got.BlockedReason)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestUserRepository_SaveLifecycle_Missing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.SaveLifecycle(context.Background(), &domain.User{ID: 999, Status: domain.StatusActive})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_ListNonAdmins(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "admin@x.com", func(u *domain.User) { u.IsAdmin = true })
	seedUser(t, db, "pending@x.com", func(u *domain.User) { u.Status = domain.StatusPendingApproval })
	active := seedUser(t, db, "active@x.com")
	gone := seedUser(t, db, "gone@x.com")
	require.NoError(t, gone.SoftDelete("removed by request", time.Now()))
	require.NoError(t, repo.SaveLifecycle(ctx, gone))

	all, err := repo.ListNonAdmins(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, u := range all {
		assert.False(t, u.IsAdmin)
	}

	deleted, err := repo.ListNonAdmins(ctx, UserFilter{Status: "deleted"})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, gone.ID, deleted[0].ID)

	byStatus, err := repo.ListNonAdmins(ctx, UserFilter{Status: "active"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, active.ID, byStatus[0].ID)

	byQuery, err := repo.ListNonAdmins(ctx, UserFilter{Query: "PEND"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "pending@x.com", byQuery[0].Email)
}

func TestUserRepository_ForceDeleteCascadesToSubUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	parent := seedUser(t, db, "org@x.com")
	child := seedUser(t, db, "sub@x.com", func(u *domain.User) {
		u.ParentID = &parent.ID
		u.OrganizationType = domain.OrgSubUser
	})
	require.NoError(t, db.Create(&domain.LoginHistory{UserID: parent.ID, LoginAt: time.Now()}).Error)

	require.NoError(t, repo.ForceDelete(ctx, parent.ID))

	_, err := repo.GetByIDWithTrashed(ctx, child.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var histories int64
	require.NoError(t, db.Model(&domain.LoginHistory{}).Count(&histories).Error)
	assert.Zero(t, histories)

	assert.ErrorIs(t, repo.ForceDelete(ctx, parent.ID), domain.ErrNotFound)
}

func TestUserRepository_ReplaceRoles(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "roles@x.com")
	first := seedRole(t, db, "Box Office", domain.RoleTypeUser)
	second := seedRole(t, db, "Door Staff", domain.RoleTypeUser)

	require.NoError(t, repo.ReplaceRoles(ctx, u.ID, []int64{first.ID, second.ID}, nil))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got.Roles, 2)

	team := &domain.TeamRole{Name: "Scanner", ParentUserID: u.ID, Permissions: []string{"view-sub-users"}}
	require.NoError(t, NewTeamRoleRepository(db).Create(ctx, team))

	require.NoError(t, repo.ReplaceRoles(ctx, u.ID, nil, &team.ID))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Roles)
	require.NotNil(t, got.TeamRoleID)
	assert.Equal(t, team.ID, *got.TeamRoleID)
}

func TestUserRepository_ListByParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	parent := seedUser(t, db, "org@x.com")
	other := seedUser(t, db, "other@x.com")
	seedUser(t, db, "s1@x.com", func(u *domain.User) { u.ParentID = &parent.ID })
	seedUser(t, db, "s2@x.com", func(u *domain.User) { u.ParentID = &other.ID })

	subs, err := repo.ListByParent(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "s1@x.com", subs[0].Email)
}
