package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testClient(h *Hub, branchID uuid.UUID) *Client {
	return &Client{hub: h, branchID: branchID, send: make(chan []byte, 8)}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case frame := <-c.send:
		var ev Event
		if err := json.Unmarshal(frame, &ev); err != nil {
			t.Fatalf("bad frame %s: %v", frame, err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_PublishReachesOnlyItsBranch(t *testing.T) {
	h := startHub(t)
	branchA, branchB := uuid.New(), uuid.New()
	a := testClient(h, branchA)
	b := testClient(h, branchB)
	h.register <- a
	h.register <- b

	h.Publish(branchA, EventOrderUpdated, map[string]string{"order_id": "o-1"})

	ev := receive(t, a)
	if ev.Type != EventOrderUpdated {
		t.Fatalf("unexpected event type %q", ev.Type)
	}
	var payload map[string]string
	_ = json.Unmarshal(ev.Payload, &payload)
	if payload["order_id"] != "o-1" {
		t.Fatalf("unexpected payload %s", ev.Payload)
	}

	select {
	case frame := <-b.send:
		t.Fatalf("branch B should not receive %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterRemovesEmptyRoom(t *testing.T) {
	h := startHub(t)
	branch := uuid.New()
	c := testClient(h, branch)

	h.register <- c
	h.unregister <- c

	// a second register round-trip guarantees the unregister was processed
	other := testClient(h, uuid.New())
	h.register <- other

	if n := h.Subscribers(branch); n != 0 {
		t.Fatalf("expected empty room, got %d subscribers", n)
	}
	if _, open := <-c.send; open {
		t.Fatal("send channel should be closed")
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	branch := uuid.New()
	slow := &Client{hub: h, branchID: branch, send: make(chan []byte)}
	h.register <- slow

	h.Publish(branch, EventOrdersInvalidated, nil)

	deadline := time.Now().Add(time.Second)
	for h.Subscribers(branch) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
