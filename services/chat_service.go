package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"portal-chat/domain"
	"portal-chat/errors"
	"portal-chat/moderation"
	"portal-chat/repositories"
	"portal-chat/search"
)

type IChatService interface {
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	EditMessage(cmd domain.EditMessageCommand) (domain.Message, error)
	DeleteMessage(cmd domain.DeleteMessageCommand) error
	ClearProjectChat(cmd domain.ClearChatCommand) error
	SetTyping(projectID string, user domain.TypingUser, isTyping bool) error
	TypingUsers(projectID string) ([]domain.TypingUser, error)
	MarkRead(projectID, readerID string) (int, error)
	UnreadCounts(userID string) (map[string]int, error)
	Search(ctx context.Context, projectID, terms string, limit int) ([]search.Hit, error)
}

// ChatService owns the message lifecycle rules: placeholder content for
// attachment-only sends, author-only edit/delete, admin-only clear, and the
// moderation + search-index side effects of every content mutation.
type ChatService struct {
	messages  repositories.IMessageRepository
	typing    repositories.ITypingRepository
	index     *search.MessageIndex
	moderator moderation.Moderator
	log       *slog.Logger
}

func NewChatService(messages repositories.IMessageRepository, typing repositories.ITypingRepository,
	index *search.MessageIndex, moderator moderation.Moderator, log *slog.Logger) *ChatService {
	return &ChatService{
		messages:  messages,
		typing:    typing,
		index:     index,
		moderator: moderator,
		log:       log,
	}
}

func (s *ChatService) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	return s.messages.GetMessages(cmd.ProjectID)
}

// SendMessage validates, censors and persists an outgoing message.
// An attachment-only submission gets the placeholder content. The sender's
// typing signal is cleared best-effort, mirroring the composer contract.
func (s *ChatService) SendMessage(_ context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	content := strings.TrimSpace(cmd.Content)
	if content == "" && len(cmd.Attachments) == 0 {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if content == "" {
		content = domain.AttachmentPlaceholder
	}

	content = s.censor(content, cmd.SenderID)

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	message := domain.Message{
		ID:          uuid.New(),
		ProjectID:   cmd.ProjectID,
		SenderID:    cmd.SenderID,
		Sender:      cmd.Sender,
		Content:     content,
		Attachments: cmd.Attachments,
		CreatedAt:   createdAt,
	}

	if err := s.messages.Store(message); err != nil {
		return domain.Message{}, err
	}
	s.indexMessage(message)

	// The sender stopped typing by definition; failure here is ignored.
	_ = s.typing.SetTyping(cmd.ProjectID, domain.TypingUser{UserID: cmd.SenderID, Name: cmd.Sender.Name}, false)

	return message, nil
}

// EditMessage replaces the content of an existing message. Only the author
// may edit, empty content is rejected, and IsEdited is set permanently.
func (s *ChatService) EditMessage(cmd domain.EditMessageCommand) (domain.Message, error) {
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != cmd.SenderID {
		return domain.Message{}, errors.ErrNotAuthor
	}

	message.Content = s.censor(content, cmd.SenderID)
	message.IsEdited = true

	if err := s.messages.Update(message); err != nil {
		return domain.Message{}, err
	}
	s.indexMessage(message)

	return message, nil
}

// DeleteMessage hard-removes a message. The server is the authority on
// authorship; the client merely hides the control for non-authors.
func (s *ChatService) DeleteMessage(cmd domain.DeleteMessageCommand) error {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return err
	}
	if message.SenderID != cmd.SenderID {
		return errors.ErrNotAuthor
	}

	if err := s.messages.Delete(cmd.MessageID); err != nil {
		return err
	}
	if err := s.index.Remove(cmd.MessageID); err != nil {
		s.log.Warn("Search index removal failed", "message", cmd.MessageID, "error", err)
	}
	return nil
}

// ClearProjectChat bulk-deletes a project's history. Irreversible, admin only.
func (s *ChatService) ClearProjectChat(cmd domain.ClearChatCommand) error {
	if cmd.Requester.Role != domain.RoleAdmin {
		return errors.ErrAdminOnly
	}

	removed, err := s.messages.ClearProject(cmd.ProjectID)
	if err != nil {
		return err
	}
	if err := s.index.RemoveMany(removed); err != nil {
		s.log.Warn("Search index purge failed", "project", cmd.ProjectID, "error", err)
	}
	return nil
}

func (s *ChatService) SetTyping(projectID string, user domain.TypingUser, isTyping bool) error {
	return s.typing.SetTyping(projectID, user, isTyping)
}

func (s *ChatService) TypingUsers(projectID string) ([]domain.TypingUser, error) {
	return s.typing.TypingUsers(projectID)
}

func (s *ChatService) MarkRead(projectID, readerID string) (int, error) {
	return s.messages.MarkRead(projectID, readerID)
}

func (s *ChatService) UnreadCounts(userID string) (map[string]int, error) {
	return s.messages.UnreadCounts(userID)
}

func (s *ChatService) Search(ctx context.Context, projectID, terms string, limit int) ([]search.Hit, error) {
	return s.index.Search(ctx, projectID, terms, limit)
}

func (s *ChatService) censor(content, senderID string) string {
	sanitized, found := s.moderator.Censor(content)
	if len(found) > 0 {
		s.log.Warn("Message content censored",
			"sender", senderID,
			"words", len(found),
			"lang", moderation.Language(content))
	}
	return sanitized
}

func (s *ChatService) indexMessage(message domain.Message) {
	err := s.index.Index(search.Indexable{
		ID:         message.ID,
		ProjectID:  message.ProjectID,
		SenderName: message.Sender.Name,
		Content:    message.Content,
	})
	if err != nil {
		s.log.Warn("Search indexing failed", "message", message.ID, "error", err)
	}
}
