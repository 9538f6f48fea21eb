// Package storage persists uploaded attachment files on disk and produces
// the descriptors referenced by messages.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"portal-chat/domain"
	"portal-chat/domain/mimetypes"
	"portal-chat/errors"
)

type AttachmentStore struct {
	root string
	log  *slog.Logger
}

func NewAttachmentStore(root string, log *slog.Logger) (*AttachmentStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("attachment root creation failed: %w", err)
	}
	return &AttachmentStore{root: root, log: log}, nil
}

// Root is the directory served under /files/.
func (s *AttachmentStore) Root() string {
	return s.root
}

// Save sniffs the content type, checks it against the allow-list and writes
// the file under a per-project directory. The stored name is randomized;
// the original name survives only in the descriptor.
func (s *AttachmentStore) Save(projectID, fileName string, r io.Reader) (domain.Attachment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Attachment{}, err
	}

	detected := mimetype.Detect(data)
	mt, ok := mimetypes.Allowed(detected.String())
	if !ok {
		return domain.Attachment{}, fmt.Errorf("%w: %s (%s)", errors.ErrUnsupportedType, fileName, detected.String())
	}

	// The 10MB ceiling is advisory; oversized files are stored but flagged.
	if len(data) > mimetypes.MaxRecommendedSize {
		s.log.Warn("Attachment exceeds recommended size",
			"file", fileName, "size", len(data), "project", projectID)
	}

	dir := filepath.Join(s.root, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Attachment{}, err
	}

	storedName := uuid.New().String() + extensionOf(fileName, detected)
	if err := os.WriteFile(filepath.Join(dir, storedName), data, 0o644); err != nil {
		return domain.Attachment{}, err
	}

	return domain.Attachment{
		FileName: filepath.Base(fileName),
		FileURL:  "/files/" + projectID + "/" + storedName,
		FileSize: int64(len(data)),
		MimeType: string(mt),
	}, nil
}

// extensionOf keeps the original extension when present, falling back to
// the one implied by the detected content type.
func extensionOf(fileName string, detected *mimetype.MIME) string {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		return ext
	}
	return detected.Extension()
}
