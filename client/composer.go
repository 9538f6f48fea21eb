package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"portal-chat/domain"
)

// Confirmer asks the user for an explicit yes before a destructive action.
// There is no default-accept path: only a positive answer proceeds.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Composer owns the outgoing message state: the text buffer, the pending
// attachment descriptors and the edit buffer. It never updates the message
// list itself; after a confirmed mutation the caller refetches.
//
// On send failure the whole draft (text and attachments) is preserved so the
// author can retry.
type Composer struct {
	api       ChatAPI
	uploader  *Uploader
	projectID string
	session   Session
	confirmer Confirmer
	log       *slog.Logger

	mu      sync.Mutex
	text    string
	pending []domain.Attachment
	editing *domain.Message
	editBuf string
}

func NewComposer(api ChatAPI, uploader *Uploader, projectID string, session Session,
	confirmer Confirmer, log *slog.Logger) *Composer {
	return &Composer{
		api:       api,
		uploader:  uploader,
		projectID: projectID,
		session:   session,
		confirmer: confirmer,
		log:       log,
	}
}

func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Composer) PendingAttachments() []domain.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Attachment, len(c.pending))
	copy(out, c.pending)
	return out
}

// AddFiles uploads the given files sequentially and appends every descriptor
// produced, including the partial batch in front of a failure.
func (c *Composer) AddFiles(ctx context.Context, files []File) error {
	done, err := c.uploader.UploadFiles(ctx, c.projectID, files)

	c.mu.Lock()
	c.pending = append(c.pending, done...)
	c.mu.Unlock()

	return err
}

// Send submits the draft. A draft with no trimmed text and no attachments is
// a silent no-op, as is an unauthenticated composer: no network call happens.
// The buffers are cleared only after the server confirmed the message.
func (c *Composer) Send(ctx context.Context) (domain.Message, bool, error) {
	if c.session.Token == "" {
		return domain.Message{}, false, nil
	}

	c.mu.Lock()
	text := strings.TrimSpace(c.text)
	pending := c.pending
	c.mu.Unlock()

	if text == "" && len(pending) == 0 {
		return domain.Message{}, false, nil
	}

	message, err := c.api.SendMessage(ctx, c.projectID, text, pending)
	if err != nil {
		return domain.Message{}, false, err
	}

	c.mu.Lock()
	c.text = ""
	c.pending = nil
	c.mu.Unlock()

	return message, true, nil
}

// BeginEdit loads a message into the edit buffer. Only the author's own
// messages are editable; anything else is refused.
func (c *Composer) BeginEdit(message domain.Message) bool {
	if message.SenderID != c.session.UserID {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &message
	c.editBuf = message.Content
	return true
}

func (c *Composer) Editing() (domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return domain.Message{}, false
	}
	return *c.editing, true
}

func (c *Composer) SetEditText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editBuf = text
}

// SaveEdit pushes the edit buffer to the server. Empty replacements are
// refused locally; on failure the edit state is preserved for retry.
func (c *Composer) SaveEdit(ctx context.Context) (domain.Message, bool, error) {
	c.mu.Lock()
	editing := c.editing
	content := strings.TrimSpace(c.editBuf)
	c.mu.Unlock()

	if editing == nil || content == "" {
		return domain.Message{}, false, nil
	}

	message, err := c.api.EditMessage(ctx, c.projectID, editing.ID, content)
	if err != nil {
		return domain.Message{}, false, err
	}

	c.CancelEdit()
	return message, true, nil
}

func (c *Composer) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.editBuf = ""
}

// Delete removes one of the author's own messages after an explicit
// confirmation. A dismissed prompt issues no call at all.
func (c *Composer) Delete(ctx context.Context, message domain.Message) (bool, error) {
	if message.SenderID != c.session.UserID {
		return false, nil
	}
	if !c.confirmer.Confirm("Delete this message?") {
		return false, nil
	}

	if err := c.api.DeleteMessage(ctx, message.ID); err != nil {
		return false, err
	}
	return true, nil
}
