package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/identity"
	"github.com/itam/backend/internal/domain/shared"
)

// UserService handles admin user management
type UserService struct {
	users identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUserRequest carries input for user creation
type CreateUserRequest struct {
	Username    string
	Password    string
	DisplayName string
	IsAdmin     bool
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*identity.User, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this username already exists")
	}

	user, err := identity.NewUser(req.Username, req.Password, req.IsAdmin)
	if err != nil {
		return nil, err
	}
	user.DisplayName = req.DisplayName

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]identity.User, error) {
	return s.users.FindAll(ctx)
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, id)
}

// ToggleAdmin flips a user's admin flag. The last active admin cannot be
// demoted, which would lock administration out entirely.
func (s *UserService) ToggleAdmin(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, shared.NewDomainError("INVALID_STATE", "Cannot demote the last admin")
		}
	}
	user.ToggleAdmin()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword sets a new password for a user
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// Delete removes a user. The last active admin cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return shared.NewDomainError("INVALID_STATE", "Cannot delete the last admin")
		}
	}
	return s.users.Delete(ctx, id)
}
