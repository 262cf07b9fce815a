package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	time.Sleep(150 * time.Millisecond)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

func newTestHub() *Hub {
	return NewHub(
		NewRegistry(),
		NewMembership(),
		NewHistory(100, time.Hour),
		NewGate(Credentials{"REKT": "s3cret"}),
		nil,
		nil,
	)
}

// joinClient registers a client and joins it under name, consuming its own
// join notice.
func joinClient(t *testing.T, hub *Hub, id, name string) *Client {
	t.Helper()

	c := NewClient(id)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandUserJoin, Username: name}
	mustEvent(t, c.Events, EventSystem)
	return c
}
