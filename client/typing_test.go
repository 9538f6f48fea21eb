package client

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCoordinator(api *fakeAPI, delay time.Duration) *TypingCoordinator {
	c := NewTypingCoordinator(api, "proj-1", slog.Default())
	c.delay = delay
	return c
}

func TestTypingCoordinator_OneTruePerBurst(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	c := newTestCoordinator(api, 50*time.Millisecond)

	// A burst of keystrokes produces exactly one typing=true.
	for i := 0; i < 10; i++ {
		c.Notify()
	}
	req.Equal([]bool{true}, api.recordedTyping())

	// Silence for the debounce window produces exactly one typing=false.
	req.Eventually(func() bool {
		calls := api.recordedTyping()
		return len(calls) == 2 && !calls[1]
	}, time.Second, 5*time.Millisecond)
}

func TestTypingCoordinator_KeystrokeReArmsTimer(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	c := newTestCoordinator(api, 60*time.Millisecond)

	c.Notify()
	time.Sleep(30 * time.Millisecond)
	c.Notify() // re-arms before expiry
	time.Sleep(40 * time.Millisecond)

	// Still inside the re-armed window: no false yet.
	req.Equal([]bool{true}, api.recordedTyping())

	req.Eventually(func() bool {
		return len(api.recordedTyping()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestTypingCoordinator_StopSendsFalseOnce(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	c := newTestCoordinator(api, time.Minute)

	c.Notify()
	c.Stop()
	req.Equal([]bool{true, false}, api.recordedTyping())

	// Stop on an idle coordinator sends nothing.
	c.Stop()
	req.Equal([]bool{true, false}, api.recordedTyping())
}

func TestTypingCoordinator_StopWithoutBurstIsSilent(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	c := newTestCoordinator(api, time.Minute)

	c.Stop()
	req.Empty(api.recordedTyping())
}
