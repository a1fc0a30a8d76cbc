package hub

import "testing"

func TestBroadcastScoping(t *testing.T) {
	h := New()
	a := &Client{ID: "a", Send: make(chan []byte, 1), Subscription: Subscription{RestaurantID: "r1", Topic: "kitchen_update"}}
	b := &Client{ID: "b", Send: make(chan []byte, 1), Subscription: Subscription{RestaurantID: "r2", Topic: "kitchen_update"}}
	c := &Client{ID: "c", Send: make(chan []byte, 1)}
	h.Register(a)
	h.Register(b)
	h.Register(c)

	h.Broadcast([]byte("x"), Subscription{RestaurantID: "r1", Topic: "kitchen_update"})

	if len(a.Send) != 1 {
		t.Fatal("subscribed client for r1 missed the event")
	}
	if len(b.Send) != 0 {
		t.Fatal("client for r2 received an r1 event")
	}
	if len(c.Send) != 0 {
		t.Fatal("client without a subscription received an event")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New()
	slow := &Client{ID: "slow", Send: make(chan []byte, 1), Subscription: Subscription{RestaurantID: "r1"}}
	h.Register(slow)

	h.Broadcast([]byte("one"), Subscription{RestaurantID: "r1", Topic: "kitchen_update"})
	h.Broadcast([]byte("two"), Subscription{RestaurantID: "r1", Topic: "kitchen_update"})

	if len(slow.Send) != 1 {
		t.Fatalf("expected exactly one buffered message, got %d", len(slow.Send))
	}
	if got := <-slow.Send; string(got) != "one" {
		t.Fatalf("buffered message %q, want the first one", got)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New()
	client := &Client{ID: "a", Send: make(chan []byte, 1)}
	h.Register(client)
	h.Unregister(client)
	if _, open := <-client.Send; open {
		t.Fatal("send channel still open after unregister")
	}
	h.Broadcast([]byte("x"), Subscription{RestaurantID: "r1"})
}

func TestParseSubscribe(t *testing.T) {
	msg, ok := ParseSubscribe([]byte(`{"action":"subscribe","restaurant_id":"r1","topic":"kitchen_update"}`))
	if !ok {
		t.Fatal("valid subscribe message rejected")
	}
	if msg.RestaurantID != "r1" || msg.Topic != "kitchen_update" {
		t.Fatalf("unexpected parse result: %+v", msg)
	}

	if _, ok := ParseSubscribe([]byte(`{"action":"ping"}`)); ok {
		t.Fatal("unknown action accepted")
	}
	if _, ok := ParseSubscribe([]byte(`not json`)); ok {
		t.Fatal("invalid JSON accepted")
	}
}
