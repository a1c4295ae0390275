package team

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/modules/auth"
)

const (
	ActionBlock   = "block"
	ActionUnblock = "unblock"
	ActionRemove  = "remove"
)

const (
	scopeGlobal = "global"
	scopeTeam   = "team"
)

// Service manages an organizer's sub-users and the team roles handed to them.
type Service struct {
	users     UserRepository
	roles     RoleRepository
	teamRoles TeamRoleRepository
	gate      Authorizer
	now       func() time.Time
}

func NewService(users UserRepository, roles RoleRepository, teamRoles TeamRoleRepository, gate Authorizer) *Service {
	return &Service{users: users, roles: roles, teamRoles: teamRoles, gate: gate, now: time.Now}
}

// canLeadTeam rejects individuals and sub-users. Sub-users never get children
// of their own, so the hierarchy stays one level deep.
func canLeadTeam(u *domain.User) error {
	if u.IsSubUser() || u.OrganizationType == domain.OrgIndividual || u.OrganizationType == domain.OrgSubUser {
		return domain.ErrForbidden
	}
	return nil
}

// CreateSubUser adds a pre-approved account under the organizer and gives it
// the baseline Sub-User role.
func (s *Service) CreateSubUser(ctx context.Context, organizer *domain.User, req CreateSubUserRequest) (*domain.User, error) {
	if err := canLeadTeam(organizer); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewValidationError("email", "The email has already been taken.")
	}

	baseline, err := s.roles.GetByName(ctx, domain.SubUserRole)
	if err != nil {
		return nil, fmt.Errorf("load %q role: %w", domain.SubUserRole, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	parentID := organizer.ID
	user := &domain.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            req.Email,
		PasswordHash:     hash,
		OrganizationType: domain.OrgSubUser,
		Status:           domain.StatusActive,
		ParentID:         &parentID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("email", "The email has already been taken.")
		}
		return nil, err
	}
	if err := s.users.ReplaceRoles(ctx, user.ID, []int64{baseline.ID}, nil); err != nil {
		return nil, fmt.Errorf("assign baseline role: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("organizer_id", organizer.ID).
		Int64("sub_user_id", user.ID).
		Msg("sub-user created")

	return s.users.GetByID(ctx, user.ID)
}

// ListSubUsers lists the team of the principal. Sub-users see their
// organizer's team when their team role grants view-sub-users.
func (s *Service) ListSubUsers(ctx context.Context, principal *domain.User) ([]domain.User, error) {
	leaderID, err := s.gate.TeamLeaderFor(ctx, principal, domain.TeamPermViewSubUsers)
	if err != nil {
		return nil, err
	}
	return s.users.ListByParent(ctx, leaderID)
}

// subUserOf loads the target and runs the hierarchy check. A missing target
// looks the same as someone else's sub-user.
func (s *Service) subUserOf(ctx context.Context, organizer *domain.User, id int64) (*domain.User, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireParent(organizer, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrForbidden
	}
	return target, err
}

// AssignRole replaces the whole role set of a sub-user with the named role.
// Global user-type roles win over team roles of the same name. A sub-user
// whose team role grants manage-sub-user-roles may assign roles to the other
// members of its organizer's team, never to itself.
func (s *Service) AssignRole(ctx context.Context, principal *domain.User, subUserID int64, roleName string) (*domain.User, error) {
	leaderID, err := s.gate.TeamLeaderFor(ctx, principal, domain.TeamPermManageSubUserRoles)
	if err != nil {
		return nil, err
	}
	if principal.ID == subUserID {
		return nil, domain.ErrForbidden
	}
	target, err := s.load(ctx, subUserID)
	if err != nil {
		return nil, err
	}
	if target.ParentID == nil || *target.ParentID != leaderID {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(roleName)
	global, err := s.roles.GetByName(ctx, name)
	switch {
	case err == nil && global.Type == domain.RoleTypeUser:
		err = s.users.ReplaceRoles(ctx, target.ID, []int64{global.ID}, nil)
	case err == nil || errors.Is(err, domain.ErrNotFound):
		var teamRole *domain.TeamRole
		teamRole, err = s.teamRoles.GetByParentAndName(ctx, leaderID, name)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("role", "The selected role is invalid.")
		}
		if err == nil {
			err = s.users.ReplaceRoles(ctx, target.ID, nil, &teamRole.ID)
		}
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("assigned_by", principal.ID).
		Int64("sub_user_id", target.ID).
		Str("role", name).
		Msg("sub-user role assigned")

	return s.users.GetByID(ctx, target.ID)
}

// PerformAction moderates one of the organizer's sub-users.
func (s *Service) PerformAction(ctx context.Context, organizer *domain.User, subUserID int64, action, reason string) (*domain.User, error) {
	target, err := s.subUserOf(ctx, organizer, subUserID)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionBlock:
		err = target.TeamBlock(reason)
	case ActionUnblock:
		err = target.TeamUnblock()
	case ActionRemove:
		err = target.TeamRemove(reason, s.now())
	default:
		return nil, domain.NewValidationError("action", "The selected action is invalid.")
	}
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveLifecycle(ctx, target); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("organizer_id", organizer.ID).
		Int64("sub_user_id", target.ID).
		Str("action", action).
		Msg("sub-user action applied")

	return target, nil
}

/* ==================== TEAM ROLES ==================== */

func (s *Service) ListTeamRoles(ctx context.Context, organizer *domain.User) ([]domain.TeamRole, error) {
	return s.teamRoles.ListByParent(ctx, organizer.ID)
}

func (s *Service) CreateTeamRole(ctx context.Context, organizer *domain.User, req TeamRoleRequest) (*domain.TeamRole, error) {
	if err := canLeadTeam(organizer); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkTeamRoleName(ctx, organizer.ID, name, 0); err != nil {
		return nil, err
	}
	perms, err := checkTeamPermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &domain.TeamRole{Name: name, ParentUserID: organizer.ID, Permissions: perms}
	if err := s.teamRoles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ownedTeamRole enforces parent_user_id == organizer. Missing and foreign
// roles both come back as ErrForbidden.
func (s *Service) ownedTeamRole(ctx context.Context, organizer *domain.User, id int64) (*domain.TeamRole, error) {
	role, err := s.teamRoles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if role.ParentUserID != organizer.ID {
		return nil, domain.ErrForbidden
	}
	return role, nil
}

func (s *Service) UpdateTeamRole(ctx context.Context, organizer *domain.User, id int64, req TeamRoleRequest) (*domain.TeamRole, error) {
	role, err := s.ownedTeamRole(ctx, organizer, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkTeamRoleName(ctx, organizer.ID, name, id); err != nil {
		return nil, err
	}
	perms, err := checkTeamPermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role.Name = name
	role.Permissions = perms
	if err := s.teamRoles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) DeleteTeamRole(ctx context.Context, organizer *domain.User, id int64) error {
	if _, err := s.ownedTeamRole(ctx, organizer, id); err != nil {
		return err
	}
	return s.teamRoles.Delete(ctx, id)
}

// AssignableRoles is the baseline Sub-User role followed by the organizer's
// own team roles.
func (s *Service) AssignableRoles(ctx context.Context, organizer *domain.User) ([]domain.AssignableRole, error) {
	out := make([]domain.AssignableRole, 0, 1)

	baseline, err := s.roles.GetByName(ctx, domain.SubUserRole)
	switch {
	case err == nil:
		out = append(out, domain.AssignableRole{
			ID:          baseline.ID,
			Name:        baseline.Name,
			Scope:       scopeGlobal,
			Permissions: baseline.PermissionNames(),
		})
	case errors.Is(err, domain.ErrNotFound):
		zerolog.Ctx(ctx).Warn().Str("role", domain.SubUserRole).Msg("baseline role missing")
	default:
		return nil, err
	}

	teamRoles, err := s.teamRoles.ListByParent(ctx, organizer.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range teamRoles {
		out = append(out, domain.AssignableRole{
			ID:          r.ID,
			Name:        r.Name,
			Scope:       scopeTeam,
			Permissions: slices.Clone(r.Permissions),
		})
	}
	return out, nil
}

func (s *Service) checkTeamRoleName(ctx context.Context, organizerID int64, name string, excludeID int64) error {
	if name == "" {
		return domain.NewValidationError("name", "The name field is required.")
	}
	existing, err := s.teamRoles.GetByParentAndName(ctx, organizerID, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != excludeID {
		return domain.NewValidationError("name", "The name has already been taken.")
	}
	return nil
}

// checkTeamPermissions rejects anything outside the whitelist and drops duplicates.
func checkTeamPermissions(perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	for i, p := range perms {
		if !domain.IsTeamPermission(p) {
			return nil, domain.NewValidationError(fmt.Sprintf("permissions.%d", i), fmt.Sprintf("The selected permission %q is invalid.", p))
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}
