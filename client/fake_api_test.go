package client

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"portal-chat/domain"
	"portal-chat/search"
)

// fakeAPI records every call and serves canned responses. Shared by the
// poller, typing, uploader and composer tests.
type fakeAPI struct {
	mu sync.Mutex

	messages    []domain.Message
	getErr      error
	getCalls    int
	sendErr     error
	sentCalls   []sentCall
	editErr     error
	editCalls   []editCall
	deleteErr   error
	deleteCalls []uuid.UUID
	typingCalls []bool
	uploads     []string
	uploadErrAt map[string]error
	typingUsers []domain.TypingUser
}

type sentCall struct {
	projectID   string
	content     string
	attachments []domain.Attachment
}

type editCall struct {
	messageID uuid.UUID
	content   string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{uploadErrAt: map[string]error{}}
}

func (f *fakeAPI) Login(context.Context, string, string) (Session, error) {
	return Session{Token: "fake", UserID: "self", Name: "Self"}, nil
}

func (f *fakeAPI) GetMessages(context.Context, string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]domain.Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, projectID, content string,
	attachments []domain.Attachment) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return domain.Message{}, f.sendErr
	}
	f.sentCalls = append(f.sentCalls, sentCall{projectID, content, attachments})
	return domain.Message{ID: uuid.New(), ProjectID: projectID, Content: content, Attachments: attachments}, nil
}

func (f *fakeAPI) EditMessage(_ context.Context, _ string, messageID uuid.UUID,
	content string) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return domain.Message{}, f.editErr
	}
	f.editCalls = append(f.editCalls, editCall{messageID, content})
	return domain.Message{ID: messageID, Content: content, IsEdited: true}, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, messageID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, messageID)
	return nil
}

func (f *fakeAPI) SetTyping(_ context.Context, _ string, isTyping bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typingCalls = append(f.typingCalls, isTyping)
	return nil
}

func (f *fakeAPI) TypingUsers(context.Context, string) ([]domain.TypingUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.typingUsers, nil
}

func (f *fakeAPI) MarkRead(context.Context, string) (int, error) { return 0, nil }

func (f *fakeAPI) UnreadCounts(context.Context) (map[string]int, error) { return nil, nil }

func (f *fakeAPI) Search(context.Context, string, string) ([]search.Hit, error) { return nil, nil }

func (f *fakeAPI) ClearProjectChat(context.Context, string) error { return nil }

func (f *fakeAPI) Upload(_ context.Context, projectID, fileName string, _ io.Reader) (domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.uploadErrAt[fileName]; ok {
		return domain.Attachment{}, err
	}
	f.uploads = append(f.uploads, fileName)
	return domain.Attachment{
		FileName: fileName,
		FileURL:  "/files/" + projectID + "/" + fileName,
		MimeType: "text/plain",
	}, nil
}

func (f *fakeAPI) recordedTyping() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.typingCalls))
	copy(out, f.typingCalls)
	return out
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeAPI) setMessages(messages []domain.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = messages
}
