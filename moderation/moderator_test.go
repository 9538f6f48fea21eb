package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensor_SimpleMatch(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	out, found := m.Censor("this contains a badword here")
	req.Equal("this contains a ******* here", out)
	req.Equal([]string{"badword"}, found)
}

func TestCensor_LeetSpeak(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	out, found := m.Censor("b4dw0rd sneaks through")
	req.Equal("******* sneaks through", out)
	req.Len(found, 1)
}

func TestCensor_NoMatch(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	out, found := m.Censor("a perfectly clean sentence")
	req.Equal("a perfectly clean sentence", out)
	req.Empty(found)
}

func TestCensor_EmptyWordList_PassThrough(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator(nil, '*')
	req.NoError(err)

	out, found := m.Censor("anything goes")
	req.Equal("anything goes", out)
	req.Empty(found)
}

func TestLanguage(t *testing.T) {
	req := require.New(t)
	req.Equal("en", Language("this is clearly an english sentence about invoices and projects"))
}
