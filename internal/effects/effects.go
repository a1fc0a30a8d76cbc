// Package effects runs the post-persist stages of a transition: print, then
// automate. Each stage has its own failure boundary and can only contribute
// warnings; nothing here can roll back the committed status change.
package effects

import (
	"context"
	"fmt"
	"log"

	"tablepos/orderflow/internal/automation"
	"tablepos/orderflow/internal/models"
	"tablepos/orderflow/internal/printing"
)

type Transition struct {
	Order     models.Order
	OldStatus string
	NewStatus string
	ActorID   string
}

type Dispatcher struct {
	printer    *printing.Service
	automation *automation.Engine
}

func NewDispatcher(printer *printing.Service, engine *automation.Engine) *Dispatcher {
	return &Dispatcher{printer: printer, automation: engine}
}

// Run executes the side-effect pipeline for a committed transition and
// returns the warnings to attach to the response.
func (d *Dispatcher) Run(ctx context.Context, transition Transition) []string {
	var warnings []string

	if d.printer != nil {
		runStage(ctx, "print", &warnings, func() error {
			return d.printer.AutoPrint(ctx, transition.Order, transition.NewStatus)
		})
	}

	if d.automation != nil {
		runStage(ctx, "automation", &warnings, func() error {
			return d.automation.ProcessTrigger(ctx, automation.Trigger{
				Type:         automation.TriggerOrderStatusChange,
				RestaurantID: transition.Order.RestaurantID,
				OrderID:      transition.Order.OrderID,
				BookingID:    transition.Order.BookingID,
				OldStatus:    transition.OldStatus,
				NewStatus:    transition.NewStatus,
			})
		})
	}

	return warnings
}

func runStage(ctx context.Context, stage string, warnings *[]string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s stage panic: %v", stage, r)
			*warnings = append(*warnings, fmt.Sprintf("%s failed", stage))
		}
	}()
	if err := fn(); err != nil {
		log.Printf("%s stage error: %v", stage, err)
		*warnings = append(*warnings, fmt.Sprintf("%s: %v", stage, err))
	}
}
