package client

import (
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"portal-chat/domain"
)

func msgFrom(senderID string) domain.Message {
	return domain.Message{ID: uuid.New(), ProjectID: "proj-1", SenderID: senderID, Content: "hi"}
}

func TestPoller_FirstFetchSetsWatermarkSilently(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.setMessages([]domain.Message{msgFrom("other"), msgFrom("other")})

	var notified []domain.Message
	var received []domain.Message
	p := NewPoller(api, "proj-1", "self", func(m []domain.Message) { received = m },
		slog.Default(), WithNewMessageFunc(func(m domain.Message) { notified = append(notified, m) }))

	// A full history on the first fetch is not "new": the watermark starts there.
	p.fetch(context.Background())
	req.Len(received, 2)
	req.Empty(notified)
}

func TestPoller_NotifiesOnGrowthFromOthers(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.setMessages([]domain.Message{msgFrom("other")})

	var notified []domain.Message
	p := NewPoller(api, "proj-1", "self", func([]domain.Message) {},
		slog.Default(), WithNewMessageFunc(func(m domain.Message) { notified = append(notified, m) }))

	p.fetch(context.Background())
	req.Empty(notified)

	incoming := msgFrom("other")
	api.setMessages([]domain.Message{msgFrom("other"), incoming})
	p.fetch(context.Background())

	req.Len(notified, 1)
	req.Equal(incoming.ID, notified[0].ID)
}

func TestPoller_OwnMessageNeverNotifies(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.setMessages([]domain.Message{msgFrom("other")})

	var notified []domain.Message
	p := NewPoller(api, "proj-1", "self", func([]domain.Message) {},
		slog.Default(), WithNewMessageFunc(func(m domain.Message) { notified = append(notified, m) }))

	p.fetch(context.Background())
	api.setMessages([]domain.Message{msgFrom("other"), msgFrom("self")})
	p.fetch(context.Background())

	req.Empty(notified)
}

func TestPoller_HiddenViewFetchesNothing(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()

	p := NewPoller(api, "proj-1", "self", func([]domain.Message) {}, slog.Default())
	p.SetVisible(false)

	p.fetch(context.Background())
	p.fetch(context.Background())
	req.Zero(api.fetchCount())
}

func TestPoller_ErrorIsRetriedSilently(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.getErr = stderrors.New("connection refused")

	var received [][]domain.Message
	p := NewPoller(api, "proj-1", "self", func(m []domain.Message) { received = append(received, m) },
		slog.Default())

	p.fetch(context.Background())
	req.Empty(received)

	// Next tick succeeds and the view updates normally.
	api.getErr = nil
	api.setMessages([]domain.Message{msgFrom("other")})
	p.fetch(context.Background())
	req.Len(received, 1)
	req.Len(received[0], 1)
}

func TestPoller_WatermarkUpdatesEvenAfterShrink(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.setMessages([]domain.Message{msgFrom("other"), msgFrom("other"), msgFrom("other")})

	var notified []domain.Message
	p := NewPoller(api, "proj-1", "self", func([]domain.Message) {},
		slog.Default(), WithNewMessageFunc(func(m domain.Message) { notified = append(notified, m) }))

	p.fetch(context.Background())

	// A deletion shrinks the list; the watermark follows it down so the
	// next single arrival still notifies.
	api.setMessages([]domain.Message{msgFrom("other")})
	p.fetch(context.Background())
	req.Empty(notified)

	api.setMessages([]domain.Message{msgFrom("other"), msgFrom("other")})
	p.fetch(context.Background())
	req.Len(notified, 1)
}

func TestPoller_TypingUsersDisabledByDefault(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.typingUsers = []domain.TypingUser{{UserID: "other", Name: "Other"}}

	p := NewPoller(api, "proj-1", "self", func([]domain.Message) {}, slog.Default())
	p.fetch(context.Background())
	req.False(p.showTyping)

	var typing []domain.TypingUser
	enabled := NewPoller(api, "proj-1", "self", func([]domain.Message) {}, slog.Default(),
		WithTypingUsers(func(u []domain.TypingUser) { typing = u }))
	enabled.fetch(context.Background())
	req.Len(typing, 1)
}
