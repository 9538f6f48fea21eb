package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portal-chat/domain"
)

// DefaultPollInterval is how often the message list is refetched while the
// view is visible.
const DefaultPollInterval = 15 * time.Second

// Poller periodically refetches a project's full message list and replaces
// the local view wholesale. Fetching is gated on visibility: a hidden view
// polls nothing. A fetch error is dropped and retried on the next tick.
//
// The new-message watermark is the message count of the previous fetch. It
// is updated after every fetch, including the first, so a reload never
// re-announces history.
type Poller struct {
	api       ChatAPI
	projectID string
	selfID    string
	interval  time.Duration
	log       *slog.Logger

	// onMessages receives the full replacement list after each fetch.
	onMessages func([]domain.Message)
	// onNewMessage fires when the count grew and the newest message is
	// from someone else.
	onNewMessage func(domain.Message)
	// onTyping receives live typing users, only when showTyping is set.
	onTyping   func([]domain.TypingUser)
	showTyping bool

	mu      sync.Mutex
	visible bool
	primed  bool
	count   int
	kick    chan struct{}
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

func WithNewMessageFunc(fn func(domain.Message)) PollerOption {
	return func(p *Poller) { p.onNewMessage = fn }
}

// WithTypingUsers enables the typing-users fetch alongside each poll.
// Off by default; the display is plumbed but not shown yet.
func WithTypingUsers(fn func([]domain.TypingUser)) PollerOption {
	return func(p *Poller) {
		p.showTyping = true
		p.onTyping = fn
	}
}

func NewPoller(api ChatAPI, projectID, selfID string, onMessages func([]domain.Message),
	log *slog.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		api:        api,
		projectID:  projectID,
		selfID:     selfID,
		interval:   DefaultPollInterval,
		log:        log,
		onMessages: onMessages,
		visible:    true,
		kick:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetVisible gates polling. Becoming visible triggers an immediate fetch
// instead of waiting out the current tick.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = visible
	p.mu.Unlock()

	if visible && !wasVisible {
		p.Refresh()
	}
}

// Refresh requests an immediate fetch, used after a confirmed mutation.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run polls until the context is canceled. Satisfies the worker contract.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.fetch(ctx)
		case <-p.kick:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	p.mu.Lock()
	visible := p.visible
	p.mu.Unlock()
	if !visible {
		return
	}

	messages, err := p.api.GetMessages(ctx, p.projectID)
	if err != nil {
		// Silent retry on the next tick.
		p.log.Debug("Message poll failed", "project", p.projectID, "error", err)
		return
	}

	p.mu.Lock()
	grew := p.primed && len(messages) > p.count
	p.count = len(messages)
	p.primed = true
	p.mu.Unlock()

	if grew && p.onNewMessage != nil && len(messages) > 0 {
		newest := messages[len(messages)-1]
		if newest.SenderID != p.selfID {
			p.onNewMessage(newest)
		}
	}

	p.onMessages(messages)

	if p.showTyping && p.onTyping != nil {
		typing, err := p.api.TypingUsers(ctx, p.projectID)
		if err != nil {
			p.log.Debug("Typing poll failed", "project", p.projectID, "error", err)
			return
		}
		p.onTyping(typing)
	}
}
