package store

import "testing"

func TestKnownStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "preparing", "ready", "served", "completed", "cancelled"} {
		if !KnownStatus(status) {
			t.Fatalf("KnownStatus(%q)=false, want true", status)
		}
	}
	for _, status := range []string{"", "done", "cooking", "Pending"} {
		if KnownStatus(status) {
			t.Fatalf("KnownStatus(%q)=true, want false", status)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		valid bool
	}{
		{"pending", "confirmed", true},
		{"confirmed", "preparing", true},
		{"preparing", "ready", true},
		{"ready", "served", true},
		{"served", "completed", true},
		{"pending", "ready", true},
		{"ready", "preparing", true},
		{"pending", "cancelled", true},
		{"preparing", "cancelled", true},
		{"served", "cancelled", false},
		{"completed", "served", false},
		{"completed", "cancelled", false},
		{"cancelled", "pending", false},
		{"cancelled", "cancelled", false},
		{"completed", "completed", false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestTimestampColumn(t *testing.T) {
	cases := map[string]string{
		"pending":   "",
		"confirmed": "confirmed_at",
		"preparing": "started_preparing_at",
		"ready":     "ready_at",
		"served":    "served_at",
		"completed": "completed_at",
		"cancelled": "",
	}
	for status, want := range cases {
		if got := TimestampColumn(status); got != want {
			t.Fatalf("TimestampColumn(%q)=%q, want %q", status, got, want)
		}
	}
}
