package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/config"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/repository"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	alreadyRegisteredMessage  = "username or email already registered"
)

// ClaimUserID carries the numeric user id in issued tokens.
const ClaimUserID = "uid"

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
	logger   *zap.Logger

	decoyOnce sync.Once
	decoyHash string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		hasher:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:   logger.Named("auth"),
	}
}

// Register creates a new active, non-admin account. A username or email
// collision fails with a conflict that does not say which field collided.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.users.FindByUsernameOrEmail(ctx, username, email); err == nil {
		s.logger.Info("registration rejected", zap.String("username", username))
		return nil, apperrors.NewConflict(alreadyRegisteredMessage, nil)
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		IsAdmin:        false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("registration failed", zap.String("username", username), zap.Error(err))
		return nil, apperrors.NewRegistrationFailed(err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", username))
	return withoutSecret(user), nil
}

// Authenticate checks credentials. Unknown users, wrong passwords and inactive
// accounts fail with the same error. The store lookup itself is not timing-safe;
// a decoy hash comparison runs for unknown users to narrow the gap.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			_, _ = s.hasher.Verify(password, s.decoy())
			s.logger.Info("login rejected", zap.String("username", username))
			return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}

	ok, err := s.hasher.Verify(password, user.HashedPassword)
	if err != nil {
		s.logger.Error("stored password hash is malformed", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	if !ok || !user.IsActive {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	return withoutSecret(user), nil
}

// Login authenticates and issues an access token whose subject is the username.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.AccessToken, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, domain.AccessToken{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username, map[string]any{
		ClaimUserID: strconv.FormatInt(user.ID, 10),
	})
	if err != nil {
		return nil, domain.AccessToken{}, apperrors.NewInternalError(err)
	}
	return user, domain.AccessToken{Token: token, Subject: user.Username, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("inventory-decoy-password")
	})
	return s.decoyHash
}

func withoutSecret(user *domain.User) *domain.User {
	out := *user
	out.HashedPassword = ""
	return &out
}
