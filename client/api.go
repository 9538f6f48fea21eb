// Package client is the typed library used by portal frontends: an HTTP API
// client plus the interaction components around it (polling, typing debounce,
// sequential uploads, composer state). Nothing here updates local state
// optimistically; views change only after the server confirms.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"portal-chat/domain"
	"portal-chat/search"
)

// ChatAPI is the server surface the interaction components depend on.
// RestClient is the production implementation; tests substitute fakes.
type ChatAPI interface {
	Login(ctx context.Context, email, password string) (Session, error)
	GetMessages(ctx context.Context, projectID string) ([]domain.Message, error)
	SendMessage(ctx context.Context, projectID, content string, attachments []domain.Attachment) (domain.Message, error)
	EditMessage(ctx context.Context, projectID string, messageID uuid.UUID, content string) (domain.Message, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
	SetTyping(ctx context.Context, projectID string, isTyping bool) error
	TypingUsers(ctx context.Context, projectID string) ([]domain.TypingUser, error)
	MarkRead(ctx context.Context, projectID string) (int, error)
	UnreadCounts(ctx context.Context) (map[string]int, error)
	Search(ctx context.Context, projectID, terms string) ([]search.Hit, error)
	ClearProjectChat(ctx context.Context, projectID string) error
	Upload(ctx context.Context, projectID, fileName string, content io.Reader) (domain.Attachment, error)
}

// Session is the authenticated identity returned by Login.
type Session struct {
	Token  string      `json:"token"`
	UserID string      `json:"userId"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
}

// APIError carries the server's error message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return e.Message
}

type RestClient struct {
	http    *resty.Client
	session Session
}

func NewRestClient(baseURL string) *RestClient {
	return &RestClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

// Session returns the identity of the logged-in user, zero before Login.
func (c *RestClient) Session() Session {
	return c.session
}

// Authenticated reports whether Login succeeded on this client.
func (c *RestClient) Authenticated() bool {
	return c.session.Token != ""
}

func (c *RestClient) Login(ctx context.Context, email, password string) (Session, error) {
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID   string      `json:"id"`
			Name string      `json:"name"`
			Role domain.Role `json:"role"`
		} `json:"user"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/login")
	if err != nil {
		return Session{}, err
	}
	if resp.IsError() {
		return Session{}, apiError(resp)
	}

	c.session = Session{
		Token:  out.Token,
		UserID: out.User.ID,
		Name:   out.User.Name,
		Role:   out.User.Role,
	}
	c.http.SetAuthToken(out.Token)
	return c.session, nil
}

func (c *RestClient) GetMessages(ctx context.Context, projectID string) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/projects/" + projectID + "/messages")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Messages, nil
}

func (c *RestClient) SendMessage(ctx context.Context, projectID, content string,
	attachments []domain.Attachment) (domain.Message, error) {
	var out domain.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"projectId":   projectID,
			"content":     content,
			"attachments": attachments,
		}).
		SetResult(&out).
		Post("/api/messages")
	if err != nil {
		return domain.Message{}, err
	}
	if resp.IsError() {
		return domain.Message{}, apiError(resp)
	}
	return out, nil
}

func (c *RestClient) EditMessage(ctx context.Context, projectID string,
	messageID uuid.UUID, content string) (domain.Message, error) {
	var out domain.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"projectId": projectID, "content": content}).
		SetResult(&out).
		Put("/api/messages/" + messageID.String())
	if err != nil {
		return domain.Message{}, err
	}
	if resp.IsError() {
		return domain.Message{}, apiError(resp)
	}
	return out, nil
}

func (c *RestClient) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/messages/" + messageID.String())
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *RestClient) SetTyping(ctx context.Context, projectID string, isTyping bool) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"projectId": projectID, "isTyping": isTyping}).
		Post("/api/typing")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *RestClient) TypingUsers(ctx context.Context, projectID string) ([]domain.TypingUser, error) {
	var out struct {
		Typing []domain.TypingUser `json:"typing"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/projects/" + projectID + "/typing")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Typing, nil
}

func (c *RestClient) MarkRead(ctx context.Context, projectID string) (int, error) {
	var out struct {
		Updated int `json:"updated"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/api/projects/" + projectID + "/read")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, apiError(resp)
	}
	return out.Updated, nil
}

func (c *RestClient) UnreadCounts(ctx context.Context) (map[string]int, error) {
	var out struct {
		ByProject map[string]int `json:"byProject"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/unread")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.ByProject, nil
}

func (c *RestClient) Search(ctx context.Context, projectID, terms string) ([]search.Hit, error) {
	var out struct {
		Hits []search.Hit `json:"hits"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", terms).
		SetResult(&out).
		Get("/api/projects/" + projectID + "/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out.Hits, nil
}

func (c *RestClient) ClearProjectChat(ctx context.Context, projectID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/projects/" + projectID + "/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// Upload sends one file as multipart form data and returns its descriptor.
func (c *RestClient) Upload(ctx context.Context, projectID, fileName string,
	content io.Reader) (domain.Attachment, error) {
	var out domain.Attachment
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", fileName, content).
		SetFormData(map[string]string{"projectId": projectID}).
		SetResult(&out).
		Post("/api/upload")
	if err != nil {
		return domain.Attachment{}, err
	}
	if resp.IsError() {
		return domain.Attachment{}, apiError(resp)
	}
	return out, nil
}

// apiError extracts the server's {"error": ...} payload, keeping the
// message verbatim for display.
func apiError(resp *resty.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	return &APIError{StatusCode: resp.StatusCode(), Message: body.Error}
}
