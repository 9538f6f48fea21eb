package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"portal-chat/domain"
)

func Test_SetTyping_And_List(t *testing.T) {
	req := require.New(t)
	repo := NewTypingRepository(openTestDB(t))

	alice := domain.TypingUser{UserID: "u1", Name: "Alice"}
	bob := domain.TypingUser{UserID: "u2", Name: "Bob"}

	req.NoError(repo.SetTyping("proj-1", alice, true))
	req.NoError(repo.SetTyping("proj-1", bob, true))
	req.NoError(repo.SetTyping("proj-2", alice, true))

	users, err := repo.TypingUsers("proj-1")
	req.NoError(err)
	req.Len(users, 2)
}

func Test_SetTyping_Clear(t *testing.T) {
	req := require.New(t)
	repo := NewTypingRepository(openTestDB(t))

	alice := domain.TypingUser{UserID: "u1", Name: "Alice"}
	req.NoError(repo.SetTyping("proj-1", alice, true))
	req.NoError(repo.SetTyping("proj-1", alice, false))

	users, err := repo.TypingUsers("proj-1")
	req.NoError(err)
	req.Empty(users)

	// Clearing an absent signal is not an error.
	req.NoError(repo.SetTyping("proj-1", alice, false))
}
