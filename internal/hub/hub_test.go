package hub

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/session"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, session.Deps{Dealer: engine.Dealer{Timing: engine.DefaultTiming()}})
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := newHub(t)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "ABC123", Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "ABC123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}

	h.Inbox() <- EnsureSession{Code: "ABC123", Reply: reply}
	if s3 := <-reply; s3 != s1 {
		t.Fatalf("EnsureSession must reuse the existing session")
	}
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	h := newHub(t)
	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "NOPE00", Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil for unknown code")
	}
}

func TestHub_RemoveShutsSessionDown(t *testing.T) {
	h := newHub(t)
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "GONE01", Reply: reply}
	s := <-reply

	h.Inbox() <- RemoveSession{Code: "GONE01"}
	select {
	case <-s.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("removed session still running")
	}

	count := make(chan int, 1)
	h.Inbox() <- CountSessions{Reply: count}
	if n := <-count; n != 0 {
		t.Fatalf("want 0 sessions, got %d", n)
	}
}

func TestHub_ShutdownStopsEverything(t *testing.T) {
	h := newHub(t)
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "ONE001", Reply: reply}
	s := <-reply

	h.Inbox() <- ShutdownHub{}
	for _, done := range []<-chan struct{}{h.Done(), s.Done()} {
		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("hub shutdown left something running")
		}
	}
}

func TestHub_RemoveDoesNotBlockOnExitedSession(t *testing.T) {
	h := newHub(t)
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "DEAD01", Reply: reply}
	s := <-reply

	s.Inbox() <- session.Shutdown{}
	<-s.Done()
	// Nothing drains the inbox any more; fill it up.
	for full := false; !full; {
		select {
		case s.Inbox() <- session.Leave{ClientID: "x"}:
		default:
			full = true
		}
	}

	h.Inbox() <- RemoveSession{Code: "DEAD01"}
	count := make(chan int, 1)
	h.Inbox() <- CountSessions{Reply: count}
	select {
	case n := <-count:
		if n != 0 {
			t.Fatalf("want 0 sessions, got %d", n)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("hub blocked removing an exited session")
	}
}
