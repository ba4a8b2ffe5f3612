package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

func newAuthService(t *testing.T) (*AuthService, *harness) {
	t.Helper()
	h := newHarness(t)
	svc := NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}, AuthDependencies{
		UserRepo: h.store.Users,
	})
	return svc, h
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: " Erin ", Email: "  Erin@Example.COM ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Erin", user.Name)
	assert.Equal(t, "erin@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	session, err := svc.Login(ctx, "ERIN@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestAuthService_RegisterRejections(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com"})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))
	assert.Equal(t, []string{"name", "password"}, apperrors.ToDomainError(err).Details["required"])

	_, err = svc.Register(ctx, RegisterInput{Name: "Al", Email: "a@example.com", Password: "short"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))

	// carol@example.com is seeded by the harness.
	_, err = svc.Register(ctx, RegisterInput{Name: "Carol", Email: "CAROL@example.com", Password: "long enough"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, h := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Erin", Email: "erin@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "erin@example.com", "wrong password")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))

	erin, err := h.store.Users.GetByEmail(ctx, "erin@example.com")
	require.NoError(t, err)
	erin.IsActive = false
	require.NoError(t, h.store.Users.Update(ctx, erin))

	_, err = svc.Login(ctx, "erin@example.com", "correct horse")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
