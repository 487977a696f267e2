package services

import (
	"testing"

	"arenasvc/internal/models"
	"arenasvc/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *WalletService) {
	t.Helper()
	store := storage.NewMemoryStore()
	wallets := NewWalletService(store, zerolog.Nop())
	users := NewUserService(store, wallets, zerolog.Nop())
	return users, wallets
}

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	users, wallets := newUserFixture(t)

	created, err := users.Register(&models.RegisterRequest{
		Username: "player1",
		Email:    "player1@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleUser), created.Role)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	wallet, err := wallets.GetWallet(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users, _ := newUserFixture(t)

	_, err := users.Register(&models.RegisterRequest{Username: "player1", Email: "player1@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = users.Register(&models.RegisterRequest{Username: "player2", Email: "player1@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserExists)
	_, err = users.Register(&models.RegisterRequest{Username: "player1", Email: "other@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticate(t *testing.T) {
	users, _ := newUserFixture(t)

	created, err := users.Register(&models.RegisterRequest{Username: "player1", Email: "player1@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := users.Authenticate(&models.LoginRequest{Email: "player1@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = users.Authenticate(&models.LoginRequest{Email: "player1@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(&models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", zerolog.Nop())

	token, err := auth.GenerateToken(7, "player1@example.com", "admin")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}
