package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"portal-chat/domain"
)

// File is one pending upload handed to the uploader.
type File struct {
	Name    string
	Content io.Reader
}

// UploadError names the file that failed and carries the server's message
// verbatim so the UI can show it as-is.
type UploadError struct {
	FileName string
	Message  string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Message)
}

// Uploader pushes files one at a time. Uploads are strictly sequential: a
// failure stops the batch but the descriptors already produced are kept, so
// the caller loses no partial progress.
type Uploader struct {
	api ChatAPI
	log *slog.Logger
}

func NewUploader(api ChatAPI, log *slog.Logger) *Uploader {
	return &Uploader{api: api, log: log}
}

// UploadFiles returns the descriptors produced so far and, when a file
// failed, an UploadError for it. A nil error means the whole batch landed.
func (u *Uploader) UploadFiles(ctx context.Context, projectID string, files []File) ([]domain.Attachment, error) {
	var done []domain.Attachment
	for _, f := range files {
		attachment, err := u.api.Upload(ctx, projectID, f.Name, f.Content)
		if err != nil {
			u.log.Warn("Upload failed", "project", projectID, "file", f.Name, "error", err)
			return done, &UploadError{FileName: f.Name, Message: serverMessage(err)}
		}
		done = append(done, attachment)
	}
	return done, nil
}

// serverMessage extracts the server's error text, falling back to a generic
// label when the failure produced none (network error, empty body).
func serverMessage(err error) string {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Upload failed"
}
