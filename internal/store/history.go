package store

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// HistoryEntry is one row of an order's append-only status log. Entries are
// hash-chained per order so the audit trail can be verified after the fact.
type HistoryEntry struct {
	OrderID   string    `json:"order_id"`
	Seq       int       `json:"seq"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	ActorID   string    `json:"actor_id"`
	StationID string    `json:"station_id,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	PrevHash  string    `json:"prev_hash,omitempty"`
	Hash      string    `json:"hash"`
}

func ComputeHistoryHash(prevHash string, entry HistoryEntry) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d", prevHash, entry.OrderID, entry.OldStatus, entry.NewStatus, entry.ItemID, entry.CreatedAt.UTC().Format(time.RFC3339Nano), entry.Seq)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", sum)
}

// VerifyChain recomputes the hash chain over entries (assumed in seq order)
// and returns the seq of the first corrupt entry, or 0 when the chain holds.
func VerifyChain(entries []HistoryEntry) (int, bool) {
	prev := ""
	for _, entry := range entries {
		if entry.PrevHash != prev {
			return entry.Seq, false
		}
		if ComputeHistoryHash(prev, entry) != entry.Hash {
			return entry.Seq, false
		}
		prev = entry.Hash
	}
	return 0, true
}

// ReplayResult is the order-level state reconstructed from the history log.
type ReplayResult struct {
	Status    string
	ReachedAt map[string]time.Time
}

// ReplayOrder folds the status log in order. Item-level entries do not move
// the order status. The first time a status is reached wins for ReachedAt,
// matching the set-at-most-once timestamp columns.
func ReplayOrder(entries []HistoryEntry) ReplayResult {
	result := ReplayResult{ReachedAt: make(map[string]time.Time)}
	for _, entry := range entries {
		if entry.ItemID != "" {
			continue
		}
		result.Status = entry.NewStatus
		if _, seen := result.ReachedAt[entry.NewStatus]; !seen {
			result.ReachedAt[entry.NewStatus] = entry.CreatedAt
		}
	}
	return result
}

// DefaultNote is used when a transition is recorded without an explicit note.
func DefaultNote(status string) string {
	return "Status changed to " + status
}
