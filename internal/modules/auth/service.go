package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/pkg/jwt"
)

// Service contains all business logic for authentication
type Service struct {
	users     UserRepository
	history   LoginHistoryRepository
	tokens    TokenRepository
	teamRoles TeamRoleReader
	jwt       TokenIssuer
	access    AccessResolver
	now       func() time.Time
}

func NewService(
	users UserRepository,
	history LoginHistoryRepository,
	tokens TokenRepository,
	teamRoles TeamRoleReader,
	jwt TokenIssuer,
	access AccessResolver,
) *Service {
	return &Service{
		users:     users,
		history:   history,
		tokens:    tokens,
		teamRoles: teamRoles,
		jwt:       jwt,
		access:    access,
		now:       time.Now,
	}
}

// Register creates an organizer account waiting for admin approval.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewValidationError("email", "The email has already been taken.")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:             strings.TrimSpace(req.Name),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		CompanyName:      strings.TrimSpace(req.CompanyName),
		Email:            req.Email,
		PasswordHash:     hash,
		OrganizationType: domain.OrganizationType(req.OrganizationType),
		Status:           domain.StatusPendingApproval,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("email", "The email has already been taken.")
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("account registered")
	return user, nil
}

// Login checks credentials and account state, issues a token and records the login.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	switch {
	case user.IsBlocked || user.Status == domain.StatusBlocked:
		return nil, ErrAccountBlocked
	case user.Status == domain.StatusPendingApproval:
		return nil, ErrAccountPending
	}

	token, claims, err := s.jwt.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	now := s.now()
	entry := &domain.LoginHistory{UserID: user.ID, IPAddress: ip, LoginAt: now}
	if err := s.history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	return &LoginResult{User: user, Token: token, ExpiresAt: s.jwt.ExpiresAt(claims)}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.UserID, s.jwt.ExpiresAt(claims))
}

func (s *Service) Me(ctx context.Context, u *domain.User) (*MeResponse, error) {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}

	perms, err := s.access.EffectivePermissions(ctx, u)
	if err != nil {
		return nil, err
	}
	super, err := s.access.IsSuperAdmin(ctx, u)
	if err != nil {
		return nil, err
	}

	out := &MeResponse{User: u, Roles: roles, Permissions: perms, SuperAdmin: super}
	if u.TeamRoleID != nil {
		team, err := s.teamRoles.GetByID(ctx, *u.TeamRoleID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		out.TeamRole = team
	}
	return out, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
