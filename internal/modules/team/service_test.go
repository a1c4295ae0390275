package team

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/database"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	users     *repository.UserRepository
	roles     *repository.RoleRepository
	teamRoles *repository.TeamRoleRepository
	svc       *Service
	subUser   *domain.Role
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		roles:     repository.NewRoleRepository(db),
		teamRoles: repository.NewTeamRoleRepository(db),
	}
	env.svc = NewService(env.users, env.roles, env.teamRoles, authz.NewGate(env.roles, env.teamRoles))

	env.subUser = &domain.Role{Name: domain.SubUserRole, Type: domain.RoleTypeUser}
	require.NoError(t, env.roles.Create(context.Background(), env.subUser, nil))
	return env
}

func (e *testEnv) organizer(t *testing.T, email string, orgType domain.OrganizationType) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:             email,
		Email:            email,
		PasswordHash:     "hash",
		OrganizationType: orgType,
		Status:           domain.StatusActive,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) createSubUser(t *testing.T, organizer *domain.User, email string) *domain.User {
	t.Helper()
	u, err := e.svc.CreateSubUser(context.Background(), organizer, CreateSubUserRequest{
		Name:     "Member",
		Email:    email,
		Password: "secret-pass",
	})
	require.NoError(t, err)
	return u
}

func TestService_CreateSubUser(t *testing.T) {
	env := newEnv(t)
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)

	sub := env.createSubUser(t, org, "Member@X.com")

	require.NotNil(t, sub.ParentID)
	assert.Equal(t, org.ID, *sub.ParentID)
	assert.Equal(t, domain.StatusActive, sub.Status)
	assert.Equal(t, domain.OrgSubUser, sub.OrganizationType)
	assert.Equal(t, "member@x.com", sub.Email)
	require.Len(t, sub.Roles, 1)
	assert.Equal(t, domain.SubUserRole, sub.Roles[0].Name)
	assert.NotEqual(t, "secret-pass", sub.PasswordHash)
}

func TestService_CreateSubUserRejectsIndividualAndSubUsers(t *testing.T) {
	env := newEnv(t)
	individual := env.organizer(t, "solo@x.com", domain.OrgIndividual)

	_, err := env.svc.CreateSubUser(context.Background(), individual, CreateSubUserRequest{Name: "n", Email: "n@x.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	org := env.organizer(t, "org@x.com", domain.OrgCompany)
	sub := env.createSubUser(t, org, "sub@x.com")

	_, err = env.svc.CreateSubUser(context.Background(), sub, CreateSubUserRequest{Name: "n", Email: "n@x.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	exists, err := env.users.ExistsByEmail(context.Background(), "n@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_CreateSubUserDuplicateEmail(t *testing.T) {
	env := newEnv(t)
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)

	_, err := env.svc.CreateSubUser(context.Background(), org, CreateSubUserRequest{Name: "n", Email: "org@x.com", Password: "secret-pass"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestService_RemoveSubUser(t *testing.T) {
	env := newEnv(t)
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, org, "sub@x.com")

	_, err := env.svc.PerformAction(context.Background(), org, sub.ID, ActionRemove, "")
	require.NoError(t, err)

	reloaded, err := env.users.GetByIDWithTrashed(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDeleted())
}

func TestService_BlockSubUserOnlyTouchesStatus(t *testing.T) {
	env := newEnv(t)
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, org, "sub@x.com")

	_, err := env.svc.PerformAction(context.Background(), org, sub.ID, ActionBlock, "late")
	require.NoError(t, err)

	reloaded, err := env.users.GetByID(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, reloaded.Status)
	assert.False(t, reloaded.IsBlocked)
	assert.Nil(t, reloaded.BlockedAt)
	assert.Empty(t, reloaded.BlockedReason)

	_, err = env.svc.PerformAction(context.Background(), org, sub.ID, ActionUnblock, "")
	require.NoError(t, err)
	reloaded, err = env.users.GetByID(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, reloaded.Status)
}

func TestService_UnblockCannotLiftAdminBlock(t *testing.T) {
	env := newEnv(t)
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, org, "sub@x.com")
	ctx := context.Background()

	_, err := env.svc.PerformAction(ctx, org, sub.ID, ActionUnblock, "")
	assert.ErrorIs(t, err, domain.ErrNotBlocked)

	stored, err := env.users.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	require.NoError(t, stored.Block("violated the terms", time.Now()))
	require.NoError(t, env.users.SaveLifecycle(ctx, stored))

	_, err = env.svc.PerformAction(ctx, org, sub.ID, ActionUnblock, "")
	assert.ErrorIs(t, err, domain.ErrAdminBlocked)

	reloaded, err := env.users.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, reloaded.Status)
	assert.True(t, reloaded.IsBlocked)
	assert.Equal(t, "violated the terms", reloaded.BlockedReason)
}

func TestService_HierarchyCheck(t *testing.T) {
	env := newEnv(t)
	owner := env.organizer(t, "owner@x.com", domain.OrgEventOrganizer)
	other := env.organizer(t, "other@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, owner, "sub@x.com")
	ctx := context.Background()

	_, err := env.svc.PerformAction(ctx, other, sub.ID, ActionRemove, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.svc.AssignRole(ctx, other, sub.ID, domain.SubUserRole)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.svc.PerformAction(ctx, owner, 9999, ActionBlock, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	reloaded, err := env.users.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDeleted())
	assert.Equal(t, domain.StatusActive, reloaded.Status)
}

func TestService_AssignTeamRoleReplacesRoleSet(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, org, "sub@x.com")

	role, err := env.svc.CreateTeamRole(ctx, org, TeamRoleRequest{Name: "Editor", Permissions: []string{domain.TeamPermEditEvents}})
	require.NoError(t, err)

	got, err := env.svc.AssignRole(ctx, org, sub.ID, "Editor")
	require.NoError(t, err)
	assert.Empty(t, got.Roles)
	require.NotNil(t, got.TeamRoleID)
	assert.Equal(t, role.ID, *got.TeamRoleID)

	got, err = env.svc.AssignRole(ctx, org, sub.ID, domain.SubUserRole)
	require.NoError(t, err)
	require.Len(t, got.Roles, 1)
	assert.Nil(t, got.TeamRoleID)
}

func TestService_TeamPermissionsDelegateTeamManagement(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	other := env.organizer(t, "other@x.com", domain.OrgEventOrganizer)
	lead := env.createSubUser(t, org, "lead@x.com")
	member := env.createSubUser(t, org, "member@x.com")
	outsider := env.createSubUser(t, other, "outsider@x.com")

	_, err := env.svc.ListSubUsers(ctx, lead)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.svc.AssignRole(ctx, lead, member.ID, domain.SubUserRole)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.svc.CreateTeamRole(ctx, org, TeamRoleRequest{
		Name:        "Team lead",
		Permissions: []string{domain.TeamPermViewSubUsers, domain.TeamPermManageSubUserRoles},
	})
	require.NoError(t, err)
	_, err = env.svc.CreateTeamRole(ctx, org, TeamRoleRequest{Name: "Editor", Permissions: []string{domain.TeamPermEditEvents}})
	require.NoError(t, err)
	lead, err = env.svc.AssignRole(ctx, org, lead.ID, "Team lead")
	require.NoError(t, err)

	team, err := env.svc.ListSubUsers(ctx, lead)
	require.NoError(t, err)
	assert.Len(t, team, 2)

	got, err := env.svc.AssignRole(ctx, lead, member.ID, "Editor")
	require.NoError(t, err)
	require.NotNil(t, got.TeamRoleID)

	_, err = env.svc.AssignRole(ctx, lead, lead.ID, "Editor")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.svc.AssignRole(ctx, lead, outsider.ID, "Editor")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.svc.PerformAction(ctx, lead, member.ID, ActionBlock, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_AssignRoleUnknownName(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	other := env.organizer(t, "other@x.com", domain.OrgEventOrganizer)
	sub := env.createSubUser(t, org, "sub@x.com")

	_, err := env.svc.CreateTeamRole(ctx, other, TeamRoleRequest{Name: "Theirs"})
	require.NoError(t, err)
	require.NoError(t, env.roles.Create(ctx, &domain.Role{Name: "Auditor", Type: domain.RoleTypeAdmin}, nil))

	for _, name := range []string{"Nope", "Theirs", "Auditor"} {
		_, err = env.svc.AssignRole(ctx, org, sub.ID, name)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, name)
		assert.Contains(t, verr.Fields, "role")
	}
}

func TestService_TeamRoleWhitelist(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)

	_, err := env.svc.CreateTeamRole(ctx, org, TeamRoleRequest{
		Name:        "Bad",
		Permissions: []string{domain.TeamPermCreateEvents, domain.PermDeleteUsers},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "permissions.1")

	roles, err := env.svc.ListTeamRoles(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestService_TeamRoleOwnership(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.organizer(t, "owner@x.com", domain.OrgEventOrganizer)
	other := env.organizer(t, "other@x.com", domain.OrgEventOrganizer)

	role, err := env.svc.CreateTeamRole(ctx, owner, TeamRoleRequest{Name: "Editor", Permissions: []string{domain.TeamPermEditEvents}})
	require.NoError(t, err)

	_, err = env.svc.UpdateTeamRole(ctx, other, role.ID, TeamRoleRequest{Name: "Hijacked"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, env.svc.DeleteTeamRole(ctx, other, role.ID), domain.ErrForbidden)

	stored, err := env.teamRoles.GetByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editor", stored.Name)

	updated, err := env.svc.UpdateTeamRole(ctx, owner, role.ID, TeamRoleRequest{
		Name:        "Editor",
		Permissions: []string{domain.TeamPermCreateEvents, domain.TeamPermCreateEvents},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TeamPermCreateEvents}, updated.Permissions)

	require.NoError(t, env.svc.DeleteTeamRole(ctx, owner, role.ID))
}

func TestService_TeamRoleNameUniquePerOrganizer(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.organizer(t, "a@x.com", domain.OrgEventOrganizer)
	b := env.organizer(t, "b@x.com", domain.OrgEventOrganizer)

	_, err := env.svc.CreateTeamRole(ctx, a, TeamRoleRequest{Name: "Editor"})
	require.NoError(t, err)
	_, err = env.svc.CreateTeamRole(ctx, b, TeamRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	_, err = env.svc.CreateTeamRole(ctx, a, TeamRoleRequest{Name: "Editor"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestService_AssignableRoles(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	org := env.organizer(t, "org@x.com", domain.OrgEventOrganizer)
	other := env.organizer(t, "other@x.com", domain.OrgEventOrganizer)

	_, err := env.svc.CreateTeamRole(ctx, org, TeamRoleRequest{Name: "Editor", Permissions: []string{domain.TeamPermEditEvents}})
	require.NoError(t, err)
	_, err = env.svc.CreateTeamRole(ctx, other, TeamRoleRequest{Name: "Foreign"})
	require.NoError(t, err)

	roles, err := env.svc.AssignableRoles(ctx, org)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, domain.SubUserRole, roles[0].Name)
	assert.Equal(t, "global", roles[0].Scope)
	assert.Equal(t, "Editor", roles[1].Name)
	assert.Equal(t, "team", roles[1].Scope)
	assert.Equal(t, []string{domain.TeamPermEditEvents}, roles[1].Permissions)
}
