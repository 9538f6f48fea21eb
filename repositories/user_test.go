package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"portal-chat/domain"
	"portal-chat/errors"
)

func Test_CreateUser_And_GetByEmail(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	id, err := repo.CreateUser("alice@example.com", "Alice", "hash", domain.RoleAdmin)
	req.NoError(err)
	req.NotEmpty(id)

	user, err := repo.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("Alice", user.Name)
	req.Equal(domain.RoleAdmin, user.Role)
}

func Test_CreateUser_Duplicate(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.CreateUser("alice@example.com", "Alice", "hash", domain.RoleClient)
	req.NoError(err)

	_, err = repo.CreateUser("alice@example.com", "Alice Again", "hash2", domain.RoleClient)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}
