package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/careerconnect/client/internal/api"
)

func TestPollerReportsCountAndUpdatesCenter(t *testing.T) {
	backend := &fakeNotifyBackend{unread: 4}
	center := NewCenter(backend, nil)
	p := NewPoller(center, 10*time.Millisecond, nil)
	defer p.Stop()

	cmd := p.Start()
	raw := cmd()
	msg, ok := raw.(UnreadCountMsg)
	if !ok {
		t.Fatalf("expected UnreadCountMsg, got %T", raw)
	}
	if msg.Err != nil || msg.Count != 4 {
		t.Fatalf("unexpected result %+v", msg)
	}
	if center.Unread() != 4 {
		t.Fatalf("center not updated, unread %d", center.Unread())
	}
}

func TestPollerSkipsTicksWithoutUsableSession(t *testing.T) {
	backend := &fakeNotifyBackend{unread: 4}
	center := NewCenter(backend, nil)
	p := NewPoller(center, 5*time.Millisecond, func() bool { return false })
	defer p.Stop()

	p.Start()
	time.Sleep(30 * time.Millisecond)

	select {
	case msg := <-p.resultCh:
		t.Fatalf("gated poller must not emit results, got %+v", msg)
	default:
	}
	if center.Unread() != 0 {
		t.Fatalf("gated poller must not touch the center, unread %d", center.Unread())
	}
}

func TestPollerStopHaltsLoop(t *testing.T) {
	backend := &fakeNotifyBackend{unread: 1}
	center := NewCenter(backend, nil)
	p := NewPoller(center, 5*time.Millisecond, nil)

	p.Start()
	if !p.Running() {
		t.Fatal("poller should be running after Start")
	}

	p.Stop()
	if p.Running() {
		t.Fatal("poller should not be running after Stop")
	}

	// Stopping again must not panic.
	p.Stop()
}

func TestPollerStartWhileRunningOnlyResubscribes(t *testing.T) {
	backend := &fakeNotifyBackend{unread: 1}
	center := NewCenter(backend, nil)
	p := NewPoller(center, time.Hour, nil)
	defer p.Stop()

	p.Start()
	if cmd := p.Start(); cmd == nil {
		t.Fatal("second Start should still return a subscription")
	}
	if !p.Running() {
		t.Fatal("poller should stay running")
	}
}

func TestIsAuthResult(t *testing.T) {
	if !IsAuthResult(UnreadCountMsg{Err: &api.AuthError{Message: "token expired"}}) {
		t.Fatal("AuthError should be an auth result")
	}
	if !IsAuthResult(UnreadCountMsg{Err: api.ErrNotAuthenticated}) {
		t.Fatal("ErrNotAuthenticated should be an auth result")
	}
	if IsAuthResult(UnreadCountMsg{Err: errors.New("connection refused")}) {
		t.Fatal("plain network error is not an auth result")
	}
	if IsAuthResult(UnreadCountMsg{Count: 3}) {
		t.Fatal("successful poll is not an auth result")
	}
}

func TestPollerErrorIsDelivered(t *testing.T) {
	backend := &fakeNotifyBackend{unreadErr: &api.AuthError{Message: "token expired"}}
	center := NewCenter(backend, nil)
	p := NewPoller(center, time.Hour, nil)
	defer p.Stop()

	cmd := p.Start()
	raw := cmd()
	msg, ok := raw.(UnreadCountMsg)
	if !ok {
		t.Fatalf("expected UnreadCountMsg, got %T", raw)
	}
	if !IsAuthResult(msg) {
		t.Fatalf("expected auth failure result, got %+v", msg)
	}
}
