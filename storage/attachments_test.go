package storage

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"portal-chat/errors"
)

// Minimal valid PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestSave_Image(t *testing.T) {
	req := require.New(t)
	store, err := NewAttachmentStore(t.TempDir(), slog.Default())
	req.NoError(err)

	att, err := store.Save("proj-1", "screenshot.png", bytes.NewReader(pngBytes))
	req.NoError(err)
	req.Equal("screenshot.png", att.FileName)
	req.Equal("image/png", att.MimeType)
	req.Equal(int64(len(pngBytes)), att.FileSize)
	req.True(strings.HasPrefix(att.FileURL, "/files/proj-1/"))

	// The stored file exists under the project directory.
	stored := filepath.Join(store.Root(), "proj-1", filepath.Base(att.FileURL))
	data, err := os.ReadFile(stored)
	req.NoError(err)
	req.Equal(pngBytes, data)
}

func TestSave_PlainText(t *testing.T) {
	req := require.New(t)
	store, err := NewAttachmentStore(t.TempDir(), slog.Default())
	req.NoError(err)

	att, err := store.Save("proj-1", "notes.txt", strings.NewReader("meeting notes"))
	req.NoError(err)
	req.Equal("text/plain", att.MimeType)
}

func TestSave_RejectsExecutable(t *testing.T) {
	req := require.New(t)
	store, err := NewAttachmentStore(t.TempDir(), slog.Default())
	req.NoError(err)

	// DOS/PE header is detected as an executable type and rejected.
	exe := append([]byte("MZ"), make([]byte, 64)...)
	_, err = store.Save("proj-1", "b.exe", bytes.NewReader(exe))
	req.ErrorIs(err, errors.ErrUnsupportedType)
	req.Contains(err.Error(), "b.exe")
}

func TestSave_StripsDirectoryFromName(t *testing.T) {
	req := require.New(t)
	store, err := NewAttachmentStore(t.TempDir(), slog.Default())
	req.NoError(err)

	att, err := store.Save("proj-1", "../../etc/passwd.txt", strings.NewReader("plain text"))
	req.NoError(err)
	req.Equal("passwd.txt", att.FileName)
}
