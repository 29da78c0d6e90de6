package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/itam/backend/internal/domain/identity"
	"github.com/itam/backend/internal/domain/shared"
	"github.com/itam/backend/internal/infrastructure/auth"
)

// AuthService handles authentication
type AuthService struct {
	users  identity.UserRepository
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, jwt: jwt, logger: logger.Named("auth")}
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token *auth.Token    `json:"token"`
	User  *identity.User `json:"user"`
}

// Login verifies credentials and issues an access token. Failures are
// reported with a single generic error so usernames cannot be probed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	invalidCredentials := shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, invalidCredentials
	}
	if !user.CheckPassword(password) {
		s.logger.Warn("Failed login attempt", zap.String("username", user.Username))
		return nil, invalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return &LoginResponse{Token: token, User: user}, nil
}

// ChangePassword changes the authenticated user's own password
func (s *AuthService) ChangePassword(ctx context.Context, username, current, next string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return shared.NewDomainError("UNAUTHORIZED", "Current password is incorrect")
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}
