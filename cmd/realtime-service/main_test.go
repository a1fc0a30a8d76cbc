package main

import (
	"net/http/httptest"
	"testing"
)

func TestExtractMeta(t *testing.T) {
	meta := extractMeta([]byte(`{"restaurant_id":"r1","topic":"kitchen_update","order_id":"o1"}`))
	if meta.RestaurantID != "r1" || meta.Topic != "kitchen_update" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	meta = extractMeta([]byte(`not json`))
	if meta.RestaurantID != "" || meta.Topic != "" {
		t.Fatalf("garbage payload produced meta: %+v", meta)
	}
}

func TestSessionIDFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/realtime?session_id=s1", nil)
	if got := sessionIDFromRequest(req); got != "s1" {
		t.Fatalf("got %q, want s1", got)
	}

	req = httptest.NewRequest("GET", "/realtime", nil)
	req.Header.Set("Authorization", "Bearer token-7")
	if got := sessionIDFromRequest(req); got != "token-7" {
		t.Fatalf("got %q, want token-7", got)
	}

	req = httptest.NewRequest("GET", "/realtime", nil)
	req.Header.Set("Authorization", "Basic abc")
	if got := sessionIDFromRequest(req); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
