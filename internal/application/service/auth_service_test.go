package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, jwtManager), users
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password string, active bool) *entity.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &entity.User{
		Name:     "Linh",
		Email:    email,
		Password: hashed,
		Role:     "cashier",
		Active:   active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "linh@example.com", "secret123", true)

	out, err := svc.Login(context.Background(), &LoginInput{
		Email:    "linh@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "linh@example.com", out.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "linh@example.com", "secret123", true)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "linh@example.com",
		Password: "wrong",
	})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "linh@example.com", "secret123", false)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "linh@example.com",
		Password: "secret123",
	})
	assert.True(t, apperror.IsCode(err, http.StatusForbidden))
}

func TestRegisterDefaultsRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Minh",
		Email:    "minh@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "cashier", user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Minh",
		Email:    "minh@example.com",
		Password: "secret123",
		Role:     "manager",
	})
	assert.True(t, apperror.IsCode(err, http.StatusUnprocessableEntity))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "minh@example.com", "secret123", true)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Minh",
		Email:    "minh@example.com",
		Password: "secret123",
	})
	assert.True(t, apperror.IsCode(err, http.StatusConflict))
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "linh@example.com", "secret123", true)

	out, err := svc.Login(context.Background(), &LoginInput{
		Email:    "linh@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.Equal(t, apperror.ErrInvalidToken, err)
}
