// Package api exposes the chat system over HTTP with JSON payloads.
// All authorization rules are enforced here and in the services; clients
// hiding controls is a convenience, not a security boundary.
package api

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portal-chat/domain"
	"portal-chat/errors"
	"portal-chat/services"
	"portal-chat/storage"
)

type Handler struct {
	chat        services.IChatService
	auth        services.IAuthService
	attachments *storage.AttachmentStore
	log         *slog.Logger
}

func NewHandler(chat services.IChatService, authSvc services.IAuthService,
	attachments *storage.AttachmentStore, log *slog.Logger) *Handler {
	return &Handler{chat: chat, auth: authSvc, attachments: attachments, log: log}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Name     string      `json:"name" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role"`
}

type sendMessageRequest struct {
	ProjectID   string              `json:"projectId" binding:"required"`
	Content     string              `json:"content"`
	Attachments []domain.Attachment `json:"attachments"`
}

type editMessageRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type typingRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	IsTyping  bool   `json:"isTyping"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, claims, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":   claims.UserID,
			"name": claims.Name,
			"role": claims.Role,
		},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleClient
	}

	token, err := h.auth.Register(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case stderrors.Is(err, errors.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.chat.GetMessages(domain.GetMessagesCommand{ProjectID: c.Param("projectId")})
	if err != nil {
		h.serverError(c, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) SendMessage(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), domain.SendMessageCommand{
		ProjectID:   req.ProjectID,
		SenderID:    claims.UserID,
		Sender:      domain.Sender{Name: claims.Name, Role: claims.Role},
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *Handler) EditMessage(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chat.EditMessage(domain.EditMessageCommand{
		ProjectID: req.ProjectID,
		MessageID: messageID,
		SenderID:  claims.UserID,
		Content:   req.Content,
	})
	if err != nil {
		h.chatError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	err = h.chat.DeleteMessage(domain.DeleteMessageCommand{
		MessageID: messageID,
		SenderID:  claims.UserID,
	})
	if err != nil {
		h.chatError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SetTyping(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}

	var req typingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := domain.TypingUser{UserID: claims.UserID, Name: claims.Name}
	if err := h.chat.SetTyping(req.ProjectID, user, req.IsTyping); err != nil {
		h.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetTypingUsers(c *gin.Context) {
	users, err := h.chat.TypingUsers(c.Param("projectId"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if users == nil {
		users = []domain.TypingUser{}
	}
	c.JSON(http.StatusOK, gin.H{"typing": users})
}

func (h *Handler) GetUnreadCounts(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}

	counts, err := h.chat.UnreadCounts(claims.UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"byProject": counts})
}

func (h *Handler) MarkRead(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}

	updated, err := h.chat.MarkRead(c.Param("projectId"), claims.UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) ClearProjectChat(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrNotAuthenticated.Error()})
		return
	}

	err := h.chat.ClearProjectChat(domain.ClearChatCommand{
		ProjectID: c.Param("projectId"),
		Requester: domain.Sender{Name: claims.Name, Role: claims.Role},
	})
	if err != nil {
		h.chatError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Search(c *gin.Context) {
	terms := c.Query("q")
	if terms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	hits, err := h.chat.Search(c.Request.Context(), c.Param("projectId"), terms, limit)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

// Upload stores one file and returns the attachment descriptor the client
// then references in a sendMessage call. One file per request; the client
// uploads batches sequentially.
func (h *Handler) Upload(c *gin.Context) {
	projectID := c.PostForm("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId form field is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	attachment, err := h.attachments.Save(projectID, fileHeader.Filename, file)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// chatError maps the service sentinels onto HTTP statuses.
func (h *Handler) chatError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errors.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.Is(err, errors.ErrNotAuthor), stderrors.Is(err, errors.ErrAdminOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case stderrors.Is(err, errors.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.serverError(c, err)
	}
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
