package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portal-chat/domain"
)

// TypingCoordinator debounces keystrokes into at most one typing=true signal
// per burst, followed by exactly one typing=false once the author pauses for
// the debounce window. At most one timer is pending at any time.
type TypingCoordinator struct {
	api       ChatAPI
	projectID string
	delay     time.Duration
	log       *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	active bool
}

func NewTypingCoordinator(api ChatAPI, projectID string, log *slog.Logger) *TypingCoordinator {
	return &TypingCoordinator{
		api:       api,
		projectID: projectID,
		delay:     domain.TypingTTL,
		log:       log,
	}
}

// Notify records one keystroke. The first call of a burst sends typing=true;
// every call re-arms the silence timer that will send typing=false.
func (t *TypingCoordinator) Notify() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	first := !t.active
	t.active = true
	t.timer = time.AfterFunc(t.delay, t.expire)
	t.mu.Unlock()

	if first {
		t.send(true)
	}
}

// Stop cancels any pending timer and, if a burst was live, sends a final
// typing=false. Called when the composer sends or the view closes.
func (t *TypingCoordinator) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		t.send(false)
	}
}

func (t *TypingCoordinator) expire() {
	t.mu.Lock()
	t.timer = nil
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		t.send(false)
	}
}

// send is best-effort; the server-side TTL expires stale signals anyway.
func (t *TypingCoordinator) send(isTyping bool) {
	if err := t.api.SetTyping(context.Background(), t.projectID, isTyping); err != nil {
		t.log.Debug("Typing signal failed", "project", t.projectID, "isTyping", isTyping, "error", err)
	}
}
