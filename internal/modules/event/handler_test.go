package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/database"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/middleware"
	"ticketadmin/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	users     *repository.UserRepository
	events    *repository.EventRepository
	teamRoles *repository.TeamRoleRepository
	handler   *Handler
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
		events:    repository.NewEventRepository(db),
		teamRoles: repository.NewTeamRoleRepository(db),
	}
	gate := authz.NewGate(repository.NewRoleRepository(db), env.teamRoles)
	env.handler = NewHandler(NewService(env.events, gate), middleware.NewOwnershipChecker(env.events, gate))
	return env
}

func (e *testEnv) user(t *testing.T, email string, parent *domain.User, teamPerms ...string) *domain.User {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{Name: email, Email: email, PasswordHash: "h", Status: domain.StatusActive, OrganizationType: domain.OrgEventOrganizer}
	if parent != nil {
		u.ParentID = &parent.ID
		u.OrganizationType = domain.OrgSubUser
	}
	require.NoError(t, e.users.Create(ctx, u))

	if parent != nil && len(teamPerms) > 0 {
		role := &domain.TeamRole{Name: "role-" + email, ParentUserID: parent.ID, Permissions: teamPerms}
		require.NoError(t, e.teamRoles.Create(ctx, role))
		require.NoError(t, e.users.ReplaceRoles(ctx, u.ID, nil, &role.ID))
		u.TeamRoleID = &role.ID
	}
	return u
}

func (e *testEnv) event(t *testing.T, owner *domain.User) *domain.Event {
	t.Helper()
	ev := &domain.Event{OwnerID: owner.ID, Title: "Concert"}
	require.NoError(t, e.events.Create(context.Background(), ev))
	return ev
}

func (e *testEnv) router(principal *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", func(c *gin.Context) {
		middleware.SetPrincipal(c, principal)
		c.Next()
	})
	e.handler.RegisterRoutes(group)
	return r
}

func call(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_OwnerManagesEvent(t *testing.T) {
	env := newEnv(t)
	owner := env.user(t, "owner@x.com", nil)
	r := env.router(owner)

	w := call(r, http.MethodPost, "/events", gin.H{"title": "Gala"})
	require.Equal(t, http.StatusCreated, w.Code)

	events, err := env.events.ListByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	path := fmt.Sprintf("/events/%d", events[0].ID)

	assert.Equal(t, http.StatusOK, call(r, http.MethodPut, path, gin.H{"title": "Gala 2"}).Code)
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, path+"/tickets", gin.H{"name": "VIP", "price_cents": 5000, "quantity": 10}).Code)
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, path+"/coupons", gin.H{"code": "early10", "discount_percent": 10}).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, path+"/coupons", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodDelete, path, nil).Code)
}

func TestHandler_ForeignEventForbidden(t *testing.T) {
	env := newEnv(t)
	owner := env.user(t, "owner@x.com", nil)
	ev := env.event(t, owner)
	r := env.router(env.user(t, "intruder@x.com", nil))
	path := fmt.Sprintf("/events/%d", ev.ID)

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, gin.H{"title": "Mine now"}},
		{http.MethodDelete, path, nil},
		{http.MethodPost, path + "/tickets", gin.H{"name": "Free", "quantity": 1}},
		{http.MethodGet, path + "/coupons", nil},
		{http.MethodGet, "/events/99999", nil},
	} {
		w := call(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}

	stored, err := env.events.GetByID(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concert", stored.Title)
}

func TestHandler_SubUserNeedsTeamPermission(t *testing.T) {
	env := newEnv(t)
	owner := env.user(t, "owner@x.com", nil)
	ev := env.event(t, owner)
	path := fmt.Sprintf("/events/%d", ev.ID)

	viewer := env.router(env.user(t, "viewer@x.com", owner))
	assert.Equal(t, http.StatusOK, call(viewer, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, call(viewer, http.MethodPut, path, gin.H{"title": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, call(viewer, http.MethodPost, "/events", gin.H{"title": "x"}).Code)

	editor := env.router(env.user(t, "editor@x.com", owner, domain.TeamPermEditEvents, domain.TeamPermCreateEvents))
	assert.Equal(t, http.StatusOK, call(editor, http.MethodPut, path, gin.H{"title": "Edited"}).Code)
	assert.Equal(t, http.StatusCreated, call(editor, http.MethodPost, "/events", gin.H{"title": "New"}).Code)
	assert.Equal(t, http.StatusForbidden, call(editor, http.MethodDelete, path, nil).Code)

	events, err := env.events.ListByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestHandler_InvalidTicket(t *testing.T) {
	env := newEnv(t)
	owner := env.user(t, "owner@x.com", nil)
	ev := env.event(t, owner)
	r := env.router(owner)

	w := call(r, http.MethodPost, fmt.Sprintf("/events/%d/tickets", ev.ID), gin.H{"name": "Bad", "price_cents": -1, "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
