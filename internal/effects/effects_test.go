package effects

import (
	"context"
	"strings"
	"testing"

	"tablepos/orderflow/internal/automation"
	"tablepos/orderflow/internal/models"
	"tablepos/orderflow/internal/printing"
)

type panicAdvancer struct{}

func (panicAdvancer) AdvanceBooking(ctx context.Context, restaurantID, bookingID, fromStatus, toStatus string) (bool, error) {
	panic("boom")
}

type okAdvancer struct{ calls int }

func (a *okAdvancer) AdvanceBooking(ctx context.Context, restaurantID, bookingID, fromStatus, toStatus string) (bool, error) {
	a.calls++
	return true, nil
}

func TestRunHappyPath(t *testing.T) {
	advancer := &okAdvancer{}
	d := NewDispatcher(
		printing.NewService(printing.NewPrinter("noop", printing.KindKitchen), printing.NewPrinter("noop", printing.KindService)),
		automation.New(advancer),
	)

	warnings := d.Run(context.Background(), Transition{
		Order:     models.Order{OrderID: "o1", RestaurantID: "r1", BookingID: "b1"},
		OldStatus: models.StatusPending,
		NewStatus: models.StatusConfirmed,
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if advancer.calls != 1 {
		t.Fatalf("automation ran %d times, want 1", advancer.calls)
	}
}

func TestRunCollectsPrintFailureAsWarning(t *testing.T) {
	advancer := &okAdvancer{}
	d := NewDispatcher(
		printing.NewService(printing.NewPrinter("fail", printing.KindKitchen), printing.NewPrinter("noop", printing.KindService)),
		automation.New(advancer),
	)

	warnings := d.Run(context.Background(), Transition{
		Order:     models.Order{OrderID: "o1", RestaurantID: "r1", BookingID: "b1"},
		OldStatus: models.StatusPending,
		NewStatus: models.StatusConfirmed,
	})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.HasPrefix(warnings[0], "print:") {
		t.Fatalf("warning %q does not name the print stage", warnings[0])
	}
	// A failed print must not stop the automation stage.
	if advancer.calls != 1 {
		t.Fatal("automation stage skipped after print failure")
	}
}

func TestRunContainsPanics(t *testing.T) {
	d := NewDispatcher(
		printing.NewService(printing.NewPrinter("noop", printing.KindKitchen), printing.NewPrinter("noop", printing.KindService)),
		automation.New(panicAdvancer{}),
	)

	warnings := d.Run(context.Background(), Transition{
		Order:     models.Order{OrderID: "o1", RestaurantID: "r1", BookingID: "b1"},
		NewStatus: models.StatusConfirmed,
	})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if warnings[0] != "automation failed" {
		t.Fatalf("unexpected warning: %q", warnings[0])
	}
}
