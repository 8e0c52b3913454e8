// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/catalog-admin/internal/auth"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, role string,
) (*auth.UserInfo, error) {
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"create user: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) TouchLogin(ctx context.Context, userID string) error {
	return s.repo.TouchLogin(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, core.Pagination, error) {
	params.Normalize()

	if params.Role != "" && !ValidRole(params.Role) {
		return nil, core.Pagination{}, fmt.Errorf(
			"list users: invalid role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, core.Pagination{}, err
	}

	return users, core.NewPagination(params.Page, params.Limit, total), nil
}

// UpdateUserRole changes targetID's role. An admin cannot demote
// themselves.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	actorID, targetID, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	if actorID == targetID && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: cannot remove your own admin role: %w",
			core.ErrForbidden,
		)
	}

	user, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user role updated",
		"actor_id", actorID,
		"user_id", targetID,
		"role", role,
	)

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return err
	}

	if actorID == targetID {
		return fmt.Errorf(
			"delete user: cannot delete your own account: %w",
			core.ErrForbidden,
		)
	}

	if err := s.repo.SoftDelete(ctx, targetID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted",
		"actor_id", actorID,
		"user_id", targetID,
	)

	return nil
}

// EnsureAdmin creates an admin account for email unless an active
// account with that email already exists. It reports whether a row was
// created.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	email, password string,
) (bool, error) {
	if email == "" || password == "" {
		return false, fmt.Errorf(
			"ensure admin: email and password required: %w",
			core.ErrInvalidInput,
		)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	if _, err := s.Create(ctx, email, hash, RoleAdmin); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	s.logger.InfoContext(ctx, "default admin user created", "email", email)

	return true, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
