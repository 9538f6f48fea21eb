package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowed_Images(t *testing.T) {
	req := require.New(t)
	for _, ct := range []string{"image/png", "image/jpeg", "image/gif; charset=binary"} {
		mt, ok := Allowed(ct)
		req.True(ok, ct)
		req.NotEqual(Unknown, mt)
	}
}

func TestAllowed_Documents(t *testing.T) {
	req := require.New(t)
	_, ok := Allowed("application/pdf")
	req.True(ok)
	_, ok = Allowed("application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	req.True(ok)
	_, ok = Allowed("application/zip")
	req.True(ok)
}

func TestAllowed_Rejected(t *testing.T) {
	req := require.New(t)
	for _, ct := range []string{"application/x-msdownload", "video/mp4", "not a mime"} {
		mt, ok := Allowed(ct)
		req.False(ok, ct)
		req.Equal(Unknown, mt)
	}
}

func TestMatches(t *testing.T) {
	req := require.New(t)
	mt, ok := Matches("text/plain; charset=utf-8", TextPlain)
	req.True(ok)
	req.Equal(TextPlain, mt)

	_, ok = Matches("application/pdf", TextPlain)
	req.False(ok)
}
