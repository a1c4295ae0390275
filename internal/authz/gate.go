// Package authz answers "may this principal do that" for the request handlers.
//
// It is a set of small checks rather than a policy engine: permission
// resolution through global roles and team roles, resource ownership, and the
// organizer/sub-user hierarchy. Every failure is reported as domain.ErrForbidden
// so callers cannot tell a missing target from a foreign one.
package authz

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"ticketadmin/internal/domain"
)

type RoleSource interface {
	RoleNamesForUser(ctx context.Context, userID int64) ([]string, error)
	PermissionNamesForUser(ctx context.Context, userID int64) ([]string, error)
}

type TeamRoleSource interface {
	GetByID(ctx context.Context, id int64) (*domain.TeamRole, error)
}

type Gate struct {
	roles     RoleSource
	teamRoles TeamRoleSource
}

func NewGate(roles RoleSource, teamRoles TeamRoleSource) *Gate {
	return &Gate{roles: roles, teamRoles: teamRoles}
}

// IsSuperAdmin reports whether u holds the role that bypasses every permission check.
func (g *Gate) IsSuperAdmin(ctx context.Context, u *domain.User) (bool, error) {
	names, err := g.roles.RoleNamesForUser(ctx, u.ID)
	if err != nil {
		return false, fmt.Errorf("load roles: %w", err)
	}
	return slices.Contains(names, domain.SuperAdminRole), nil
}

// HasPermission resolves perm against the roles of u at call time.
func (g *Gate) HasPermission(ctx context.Context, u *domain.User, perm string) (bool, error) {
	if u == nil {
		return false, nil
	}

	super, err := g.IsSuperAdmin(ctx, u)
	if err != nil || super {
		return super, err
	}

	perms, err := g.roles.PermissionNamesForUser(ctx, u.ID)
	if err != nil {
		return false, fmt.Errorf("load permissions: %w", err)
	}
	if slices.Contains(perms, perm) {
		return true, nil
	}

	team, err := g.teamRole(ctx, u)
	if err != nil {
		return false, err
	}
	return team != nil && team.Grants(perm), nil
}

// Authorize is HasPermission turned into an error.
func (g *Gate) Authorize(ctx context.Context, u *domain.User, perm string) error {
	ok, err := g.HasPermission(ctx, u, perm)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// EffectivePermissions lists what u may do: global role permissions followed by
// team role permissions, without duplicates.
func (g *Gate) EffectivePermissions(ctx context.Context, u *domain.User) ([]string, error) {
	perms, err := g.roles.PermissionNamesForUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	team, err := g.teamRole(ctx, u)
	if err != nil {
		return nil, err
	}
	if team != nil {
		for _, p := range team.Permissions {
			if !slices.Contains(perms, p) {
				perms = append(perms, p)
			}
		}
	}
	if perms == nil {
		perms = []string{}
	}
	return perms, nil
}

func (g *Gate) teamRole(ctx context.Context, u *domain.User) (*domain.TeamRole, error) {
	if u.TeamRoleID == nil {
		return nil, nil
	}
	role, err := g.teamRoles.GetByID(ctx, *u.TeamRoleID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load team role: %w", err)
	}
	// a stale assignment pointing into another organizer's roles grants nothing
	if u.ParentID == nil || role.ParentUserID != *u.ParentID {
		return nil, nil
	}
	return role, nil
}

// CanActOnEvent checks that u may perform an event action guarded by teamPerm.
// Organizers act on their own events. Sub-users act on their organizer's
// events when their team role grants teamPerm. An empty teamPerm only checks
// ownership.
func (g *Gate) CanActOnEvent(ctx context.Context, u *domain.User, e *domain.Event, teamPerm string) error {
	if e != nil && e.OwnerID != u.AccountOwnerID() {
		return domain.ErrForbidden
	}
	if !u.IsSubUser() || teamPerm == "" {
		return nil
	}

	team, err := g.teamRole(ctx, u)
	if err != nil {
		return err
	}
	if team == nil || !team.Grants(teamPerm) {
		return domain.ErrForbidden
	}
	return nil
}

// TeamLeaderFor returns the id of the organizer whose team u manages under
// teamPerm. Organizers manage their own team. Sub-users manage their
// organizer's team only when their team role grants teamPerm.
func (g *Gate) TeamLeaderFor(ctx context.Context, u *domain.User, teamPerm string) (int64, error) {
	if !u.IsSubUser() {
		return u.ID, nil
	}

	team, err := g.teamRole(ctx, u)
	if err != nil {
		return 0, err
	}
	if team == nil || !team.Grants(teamPerm) {
		return 0, domain.ErrForbidden
	}
	return *u.ParentID, nil
}

// Owns is the plain ownership check: the resource belongs to the principal itself.
func Owns(principal *domain.User, ownerID int64) bool {
	return principal != nil && principal.ID == ownerID
}

// IsParentOf is the hierarchy check between an organizer and a sub-user.
func IsParentOf(principal, target *domain.User) bool {
	return principal != nil && target != nil &&
		target.ParentID != nil && *target.ParentID == principal.ID
}

// RequireParent returns domain.ErrForbidden unless target hangs under principal.
func RequireParent(principal, target *domain.User) error {
	if !IsParentOf(principal, target) {
		return domain.ErrForbidden
	}
	return nil
}
