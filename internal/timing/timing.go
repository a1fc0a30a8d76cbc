// Package timing derives display-only timing state for kitchen orders.
// Nothing here is persisted; the kitchen queue recomputes it on every poll.
package timing

import (
	"time"

	"tablepos/orderflow/internal/models"
)

const DefaultPrepMinutes = 20

type Derived struct {
	ElapsedMinutes      int       `json:"elapsed_minutes"`
	MaxPrepMinutes      int       `json:"max_prep_minutes"`
	IsOverdue           bool      `json:"is_overdue"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// Derive computes elapsed/overdue state for an order as of now. An order is
// only ever overdue while it is actively being worked (confirmed, preparing,
// ready); pending, served and terminal orders never are.
func Derive(now time.Time, order models.Order, defaultPrepMinutes int) Derived {
	if defaultPrepMinutes <= 0 {
		defaultPrepMinutes = DefaultPrepMinutes
	}

	elapsed := int(now.Sub(order.CreatedAt) / time.Minute)
	if elapsed < 0 {
		elapsed = 0
	}

	maxPrep := 0
	for _, item := range order.Items {
		if item.PrepMinutes > maxPrep {
			maxPrep = item.PrepMinutes
		}
	}
	if maxPrep == 0 {
		maxPrep = defaultPrepMinutes
	}

	return Derived{
		ElapsedMinutes:      elapsed,
		MaxPrepMinutes:      maxPrep,
		IsOverdue:           elapsed > maxPrep && activeStatus(order.Status),
		EstimatedCompletion: order.CreatedAt.Add(time.Duration(maxPrep) * time.Minute),
	}
}

func activeStatus(status string) bool {
	switch status {
	case models.StatusConfirmed, models.StatusPreparing, models.StatusReady:
		return true
	default:
		return false
	}
}
