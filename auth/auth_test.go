package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portal-chat/domain"
	"portal-chat/errors"
)

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-1", "Alice", domain.RoleClient, time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
	req.Equal("Alice", claims.Name)
	req.Equal(domain.RoleClient, claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-1", "Alice", domain.RoleClient, -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("definitely.not.a.token")
	require.Error(t, err)
}

func TestHashAndComparePassword(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("Sup3r$ecretPass!")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	ok, err := ComparePassword("Sup3r$ecretPass!", hash)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(ok)
}

func TestValidateRegister(t *testing.T) {
	req := require.New(t)

	err := ValidateRegister(RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "ComplexPass123!",
	})
	req.NoError(err)

	err = ValidateRegister(RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "alllowercase1234",
	})
	req.ErrorIs(err, errors.ErrInvalidPassword)

	err = ValidateRegister(RegisterRequest{
		Email:    "not-an-email",
		Name:     "Alice",
		Password: "ComplexPass123!",
	})
	req.Error(err)
}
