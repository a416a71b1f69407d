package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagescript/sage_go_server/config"
	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/pkg/jwt"
	"github.com/sagescript/sage_go_server/internal/repository"
	"github.com/sagescript/sage_go_server/internal/testutil"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	cfg := testAuthConfig()
	svc := NewAuthService(repository.NewUserRepository(db), cfg)
	user := testutil.TestUser(t, db, testutil.WithDisplayName("alice"))

	resp, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "alice", resp.DisplayName)

	// 签出的 token 能解析回同一个用户
	claims, err := jwt.ParseToken(resp.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())
	user := testutil.TestUser(t, db)

	resp, err := svc.Login(&dto.LoginRequest{Username: user.Email, Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())
	testutil.TestUser(t, db, testutil.WithDisplayName("bob"))

	_, err := svc.Login(&dto.LoginRequest{Username: "bob", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	_, err := svc.Login(&dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_LockedUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())
	testutil.TestUser(t, db, testutil.WithDisplayName("carol"), testutil.WithUserStatus("locked"))

	_, err := svc.Login(&dto.LoginRequest{Username: "carol", Password: testutil.TestPassword})
	assert.ErrorIs(t, err, ErrUserInactive)
}
