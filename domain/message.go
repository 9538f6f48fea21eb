// Package domain contains core concepts of the portal chat system.
// This file defines messages, senders and attachments.
// Validation and persistence live in the outer layers.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege tag carried by every sender.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// AttachmentPlaceholder is stored as content when a message carries
// attachments but no text.
const AttachmentPlaceholder = "📎 File attachment"

// Sender is the identity snapshot embedded in a message.
type Sender struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Attachment is the descriptor of an uploaded file usable in a message.
type Attachment struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// Message is a chat entry scoped to a project.
// Edit mutates Content in place and sets IsEdited; delete is a hard removal.
type Message struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   string       `json:"projectId"`
	SenderID    string       `json:"senderId"`
	Sender      Sender       `json:"sender"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	IsEdited    bool         `json:"isEdited"`
	ReadBy      []string     `json:"readBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// SeenByOther reports whether at least one recipient has read the message.
func (m Message) SeenByOther() bool {
	return len(m.ReadBy) > 0
}
