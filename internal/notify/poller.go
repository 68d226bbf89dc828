package notify

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerconnect/client/internal/api"
)

// UnreadCountMsg is a tea.Msg carrying a freshly polled unread count.
type UnreadCountMsg struct {
	Count int
	Err   error
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 15 * time.Second

// Poller refreshes the unread notification count on a fixed interval. It
// is the only recurring background task in the client; it must be stopped
// when the owning view is torn down or the session ends so it never polls
// with an invalid token.
type Poller struct {
	center   *Center
	interval time.Duration

	// usable reports whether a session able to authorize the poll exists.
	usable func() bool

	resultCh chan UnreadCountMsg
	stopCh   chan struct{}
	mu       gosync.Mutex
	running  bool
}

// NewPoller creates a poller over the given center. usable gates each tick;
// ticks without a usable session are skipped silently.
func NewPoller(center *Center, interval time.Duration, usable func() bool) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if usable == nil {
		usable = func() bool { return true }
	}
	return &Poller{
		center:   center,
		interval: interval,
		usable:   usable,
		resultCh: make(chan UnreadCountMsg, 16),
	}
}

// Start begins polling and returns a tea.Cmd that subscribes to results.
// Starting an already running poller returns only a new subscription.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return p.waitForResult()
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	go p.loop(stopCh)
	return p.waitForResult()
}

// Stop halts the polling goroutine. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// Running reports whether the poller is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// Call it after processing an UnreadCountMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

// loop runs the polling schedule until stopped.
func (p *Poller) loop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial poll immediately.
	p.pollOnce(stopCh)

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.pollOnce(stopCh)
		}
	}
}

// pollOnce fetches the unread count and reports it, skipping ticks that
// arrive without a usable session.
func (p *Poller) pollOnce(stopCh <-chan struct{}) {
	if !p.usable() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	count, err := p.center.backend.UnreadCount(ctx)
	if err != nil {
		// A token that died mid-session means the poll must not repeat;
		// the UI reacts to the message by stopping the poller.
		p.sendResult(stopCh, UnreadCountMsg{Err: err})
		return
	}

	p.center.SetUnread(count)
	p.sendResult(stopCh, UnreadCountMsg{Count: count})
}

// sendResult delivers a result without blocking a stopped poller.
func (p *Poller) sendResult(stopCh <-chan struct{}, msg UnreadCountMsg) {
	select {
	case p.resultCh <- msg:
	case <-stopCh:
	default:
		// Drop if the channel is full to avoid blocking the poller.
	}
}

// waitForResult returns a tea.Cmd that waits for the next poll result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// IsAuthResult reports whether a poll failure means the session is no
// longer usable and polling should stop.
func IsAuthResult(msg UnreadCountMsg) bool {
	return msg.Err != nil &&
		(api.IsAuthError(msg.Err) || errors.Is(msg.Err, api.ErrNotAuthenticated))
}
