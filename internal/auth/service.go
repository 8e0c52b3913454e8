// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const roleUser = "user"

type UserInfo struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	TouchLogin(ctx context.Context, userID string) error
}

// AuditRecorder is the slice of the audit service auth needs.
type AuditRecorder interface {
	Record(ctx context.Context, rec audit.Record) (*audit.Entry, error)
}

type Service struct {
	jwt             *JWTManager
	users           UserProvider
	blacklist       Blacklist
	audit           AuditRecorder
	logger          *slog.Logger
	allowRoleSignup bool
}

type ServiceConfig struct {
	JWT             *JWTManager
	Users           UserProvider
	Blacklist       Blacklist
	Audit           AuditRecorder
	Logger          *slog.Logger
	AllowRoleSignup bool
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		jwt:             cfg.JWT,
		users:           cfg.Users,
		blacklist:       cfg.Blacklist,
		audit:           cfg.Audit,
		logger:          logger,
		allowRoleSignup: cfg.AllowRoleSignup,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Signup")
	defer span.End()

	role := roleUser
	if s.allowRoleSignup && req.Role != "" {
		role = req.Role
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, passwordHash, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.recordSession(ctx, user, audit.ActionLogin, audit.Details{
		"action": "signup",
		"role":   user.Role,
	})

	return resp, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "update last login failed", "user_id", user.ID, "error", err)
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.recordSession(ctx, user, audit.ActionLogin, audit.Details{"action": "login"})

	return resp, nil
}

// Logout revokes the caller's token and records a LOGOUT entry. Neither
// step can fail the request once the caller is authenticated.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if claims == nil || claims.UserID == "" {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	ctx, span := core.StartSpan(ctx, "auth.Logout",
		attribute.String("user.id", claims.UserID),
	)
	defer span.End()

	if s.blacklist != nil && claims.TokenID != "" {
		if err := s.blacklist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
			s.logger.WarnContext(ctx, "token revocation failed",
				"user_id", claims.UserID,
				"error", err,
			)
		}
	}

	s.recordSession(ctx, &UserInfo{ID: claims.UserID, Email: claims.Email},
		audit.ActionLogout, audit.Details{"action": "logout"})

	return nil
}

func (s *Service) Me(ctx context.Context, userID string) (*UserResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("me: %w", core.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// VerifyAccessToken validates the token, rejects revoked ones and
// reloads the user so role changes and deletions apply immediately.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "blacklist unavailable, allowing token",
				"user_id", claims.UserID,
				"error", err,
			)
		case revoked:
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	claims.Email = user.Email
	claims.Role = user.Role

	return claims, nil
}

func (s *Service) issue(user *UserInfo) (*AuthResponse, error) {
	issued, err := s.jwt.CreateAccessToken(TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		User:      toUserResponse(user),
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// recordSession appends a LOGIN or LOGOUT entry. Failures are logged and
// swallowed.
func (s *Service) recordSession(
	ctx context.Context,
	user *UserInfo,
	action audit.Action,
	details audit.Details,
) {
	if s.audit == nil {
		return
	}

	_, err := s.audit.Record(ctx, audit.Record{
		Actor:   audit.Actor{ID: user.ID, Email: user.Email},
		Action:  action,
		Details: details,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "session audit failed",
			"action", action,
			"user_id", user.ID,
			"error", err,
		)
	}
}
