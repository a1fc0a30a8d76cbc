// Package automation runs secondary effects of order transitions. Failures
// here are logged and swallowed by the dispatcher; they never abort the
// transition that fired them.
package automation

import (
	"context"
	"log"

	"tablepos/orderflow/internal/models"
)

const TriggerOrderStatusChange = "order_status_change"

type BookingAdvancer interface {
	AdvanceBooking(ctx context.Context, restaurantID, bookingID, fromStatus, toStatus string) (bool, error)
}

type Trigger struct {
	Type         string
	RestaurantID string
	OrderID      string
	BookingID    string
	OldStatus    string
	NewStatus    string
}

type Engine struct {
	store BookingAdvancer
}

func New(store BookingAdvancer) *Engine {
	return &Engine{store: store}
}

// ProcessTrigger applies the codified automation rules. The only rule today:
// when an order is confirmed and its booking is still seated, the booking
// advances to ordered. Bookings in any other status are left alone.
func (e *Engine) ProcessTrigger(ctx context.Context, trigger Trigger) error {
	if trigger.Type != TriggerOrderStatusChange {
		return nil
	}
	if trigger.NewStatus != models.StatusConfirmed {
		return nil
	}
	if trigger.BookingID == "" {
		return nil
	}

	advanced, err := e.store.AdvanceBooking(ctx, trigger.RestaurantID, trigger.BookingID, models.BookingStatusSeated, models.BookingStatusOrdered)
	if err != nil {
		return err
	}
	if advanced {
		log.Printf("booking %s advanced to %s after order %s confirmed", trigger.BookingID, models.BookingStatusOrdered, trigger.OrderID)
	}
	return nil
}
