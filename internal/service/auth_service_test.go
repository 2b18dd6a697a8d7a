package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/inventory-service/internal/config"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/repository/repositorytest"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "service-test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func newAuthFixture(t *testing.T) (*AuthService, *repositorytest.Users) {
	t.Helper()
	users := repositorytest.NewUsers()
	return NewAuthService(testConfig(), AuthDependencies{UserRepo: users}), users
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, users := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "a@x.io", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.Empty(t, user.HashedPassword)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("pw1")))
}

func TestRegisterConflictDoesNotRevealField(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "a@x.io", "pw1")
	require.NoError(t, err)

	_, usernameErr := svc.Register(ctx, "alice", "other@x.io", "pw2")
	_, emailErr := svc.Register(ctx, "alicia", "a@x.io", "pw2")

	for _, err := range []error{usernameErr, emailErr} {
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	}
	assert.Equal(t, apperrors.ToDomainError(usernameErr).Message, apperrors.ToDomainError(emailErr).Message)
}

func TestRegisterStoreFailure(t *testing.T) {
	t.Parallel()

	svc, users := newAuthFixture(t)
	users.CreateErr = errors.New("disk full")

	_, err := svc.Register(context.Background(), "alice", "a@x.io", "pw1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRegistrationFailed))
	assert.Equal(t, "error during user registration", apperrors.ToDomainError(err).Message)
}

func TestRegisterInvalidPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)
	_, err := svc.Register(context.Background(), "alice", "a@x.io", string([]byte{0xff}))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, users := newAuthFixture(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, "alice", "a@x.io", "pw1")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice", token.Subject)
	assert.False(t, token.ExpiresAt.IsZero())

	claims, ok := svc.TokenManager().Verify(token.Token)
	require.True(t, ok)
	sub, _ := claims.GetSubject()
	assert.Equal(t, "alice", sub)
	assert.Equal(t, "1", claims[ClaimUserID])

	_, err = svc.Register(ctx, "bob", "b@x.io", "pw2")
	require.NoError(t, err)
	users.Update(2, func(u *domain.User) { u.IsActive = false })

	var messages []string
	for _, attempt := range []struct{ username, password string }{
		{"alice", "wrong"},
		{"nobody", "pw1"},
		{"bob", "pw2"},
	} {
		_, _, err := svc.Login(ctx, attempt.username, attempt.password)
		require.Error(t, err, attempt.username)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized), attempt.username)
		messages = append(messages, apperrors.ToDomainError(err).Message)
	}
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[0], messages[2])
}

func TestAuthenticateMalformedStoredHash(t *testing.T) {
	t.Parallel()

	svc, users := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "a@x.io", "pw1")
	require.NoError(t, err)
	users.Update(1, func(u *domain.User) { u.HashedPassword = "corrupted" })

	_, err = svc.Authenticate(ctx, "alice", "pw1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
