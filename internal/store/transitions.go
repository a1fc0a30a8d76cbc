package store

import "tablepos/orderflow/internal/models"

var knownStatuses = map[string]struct{}{
	models.StatusPending:   {},
	models.StatusConfirmed: {},
	models.StatusPreparing: {},
	models.StatusReady:     {},
	models.StatusServed:    {},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

func KnownStatus(status string) bool {
	_, ok := knownStatuses[status]
	return ok
}

func Terminal(status string) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// CanTransition enforces the terminal rule only. The rest of the graph is
// permissive: kitchen batch actions jump states (pending -> ready, or a
// whole order marked served at once), so forward and backward moves are
// accepted as long as the order is still live. A served order cannot be
// cancelled anymore, only completed.
func CanTransition(from, to string) bool {
	if Terminal(from) {
		return false
	}
	if to == models.StatusCancelled && from == models.StatusServed {
		return false
	}
	return true
}

// TimestampColumn maps a target status to the orders column stamped when the
// transition lands. Empty means the status carries no timestamp of its own.
func TimestampColumn(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "confirmed_at"
	case models.StatusPreparing:
		return "started_preparing_at"
	case models.StatusReady:
		return "ready_at"
	case models.StatusServed:
		return "served_at"
	case models.StatusCompleted:
		return "completed_at"
	default:
		return ""
	}
}

// EventType names the outbox event emitted for a transition into status.
func EventType(status string) string {
	return "order." + status
}
