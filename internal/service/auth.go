package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/entities"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	SaveUser(ctx context.Context, u entities.User, passwordHash string) error
	GetUserByID(ctx context.Context, userID string) (entities.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (entities.User, string, error)
}

type DriverEnsurer interface {
	EnsureDriver(ctx context.Context, userID, name string) (entities.Driver, error)
}

type authService struct {
	logger  *slog.Logger
	users   UserRepo
	tokens  *auth.JWTService
	drivers DriverEnsurer
}

func NewAuthService(logger *slog.Logger, users UserRepo, tokens *auth.JWTService, drivers DriverEnsurer) *authService {
	return &authService{
		logger:  logger.With(slog.String("service", "auth")),
		users:   users,
		tokens:  tokens,
		drivers: drivers,
	}
}

func (s *authService) Register(ctx context.Context, email, password, firstName string, role entities.Role) (entities.User, error) {
	if !role.Valid() {
		role = entities.RoleCommerce
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entities.User{}, err
	}

	user := entities.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(email),
		FirstName: firstName,
		Role:      role,
		IsActive:  true,
	}
	if err := s.users.SaveUser(ctx, user, string(hash)); err != nil {
		return entities.User{}, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID), slog.String("role", string(role)))
	return user, nil
}

// Login verifies credentials and issues a session token with the role
// claim. A driver-role identity gets its registry record ensured here, on
// first login, so the publisher always has a record to write into.
func (s *authService) Login(ctx context.Context, email, password string) (entities.User, string, error) {
	user, hash, err := s.users.GetCredentialsByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, entities.ErrUserNotFound) {
		return entities.User{}, "", entities.ErrInvalidCredentials
	}
	if err != nil {
		return entities.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return entities.User{}, "", entities.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return entities.User{}, "", err
	}

	if user.Role == entities.RoleDriver {
		if _, err := s.drivers.EnsureDriver(ctx, user.ID, user.FirstName); err != nil {
			// Registry creation failing must not block login; the publish
			// path reports the missing record if it persists.
			s.logger.Error("failed to ensure driver on login",
				slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}

	return user, token, nil
}

// Profile resolves the full user record behind a session. When the store
// cannot produce the row, a minimal identity is synthesized from the token
// claims instead of blocking entry: availability over strict correctness.
func (s *authService) Profile(ctx context.Context, claims *auth.Claims) entities.User {
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err == nil {
		return user
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		s.logger.Error("profile fetch failed, synthesizing identity",
			slog.String("user_id", claims.UserID), slog.Any("error", err))
	}

	name := claims.Email
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	return entities.User{
		ID:        claims.UserID,
		Email:     claims.Email,
		FirstName: name,
		Role:      entities.Role(claims.Role),
		IsActive:  true,
	}
}
