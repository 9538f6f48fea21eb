package domain

import (
	"time"

	"github.com/google/uuid"
)

// Command is implemented by every chat operation addressed to a project.
type Command interface {
	Project() string
}

type SendMessageCommand struct {
	ProjectID   string
	SenderID    string
	Sender      Sender
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
}

func (c SendMessageCommand) Project() string { return c.ProjectID }

type GetMessagesCommand struct {
	ProjectID string
}

func (c GetMessagesCommand) Project() string { return c.ProjectID }

type EditMessageCommand struct {
	ProjectID string
	MessageID uuid.UUID
	SenderID  string
	Content   string
}

func (c EditMessageCommand) Project() string { return c.ProjectID }

type DeleteMessageCommand struct {
	ProjectID string
	MessageID uuid.UUID
	SenderID  string
}

func (c DeleteMessageCommand) Project() string { return c.ProjectID }

// ClearChatCommand removes every message of a project. Admin only.
type ClearChatCommand struct {
	ProjectID string
	Requester Sender
}

func (c ClearChatCommand) Project() string { return c.ProjectID }
