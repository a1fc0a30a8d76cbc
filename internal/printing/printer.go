package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"tablepos/orderflow/internal/models"
)

const (
	KindKitchen = "kitchen"
	KindService = "service"
)

// Ticket is what gets handed to a printer. No dedup is kept anywhere; a
// retried transition prints again.
type Ticket struct {
	Kind        string `json:"kind"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OrderType   string `json:"order_type"`
	TableID     string `json:"table_id,omitempty"`
	Status      string `json:"status"`
}

// TicketKind maps a transition target to the ticket it triggers: entering
// confirmed prints the kitchen ticket, entering ready the service ticket.
func TicketKind(status string) string {
	switch status {
	case models.StatusConfirmed:
		return KindKitchen
	case models.StatusReady:
		return KindService
	default:
		return ""
	}
}

type Printer interface {
	Print(ctx context.Context, ticket Ticket) error
}

type Service struct {
	kitchen Printer
	service Printer
}

func NewService(kitchen, service Printer) *Service {
	return &Service{kitchen: kitchen, service: service}
}

// AutoPrint runs after every successful transition and prints at most one
// ticket. Errors bubble up to the dispatcher; they never fail the transition.
func (s *Service) AutoPrint(ctx context.Context, order models.Order, newStatus string) error {
	kind := TicketKind(newStatus)
	if kind == "" {
		return nil
	}

	ticket := Ticket{
		Kind:        kind,
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		OrderType:   order.OrderType,
		Status:      newStatus,
	}
	if order.TableID != nil {
		ticket.TableID = *order.TableID
	}

	if kind == KindKitchen {
		return s.kitchen.Print(ctx, ticket)
	}
	return s.service.Print(ctx, ticket)
}

// NewPrinter builds a printer from its configured kind. Webhook printers
// read PRINT_<KIND>_WEBHOOK_URL / PRINT_<KIND>_WEBHOOK_TOKEN.
func NewPrinter(kind, ticketKind string) Printer {
	switch kind {
	case "", "stub", "log":
		return logPrinter{kind: ticketKind}
	case "noop":
		return noopPrinter{}
	case "fail":
		return failPrinter{}
	case "webhook":
		url := os.Getenv("PRINT_" + strings.ToUpper(ticketKind) + "_WEBHOOK_URL")
		token := os.Getenv("PRINT_" + strings.ToUpper(ticketKind) + "_WEBHOOK_TOKEN")
		if url == "" {
			return logPrinter{kind: ticketKind}
		}
		return webhookPrinter{url: url, token: token}
	default:
		if strings.HasPrefix(kind, "http://") || strings.HasPrefix(kind, "https://") {
			return webhookPrinter{url: kind}
		}
		return logPrinter{kind: ticketKind}
	}
}

type logPrinter struct {
	kind string
}

func (p logPrinter) Print(ctx context.Context, ticket Ticket) error {
	log.Printf("print %s ticket order=%s number=%s type=%s", p.kind, ticket.OrderID, ticket.OrderNumber, ticket.OrderType)
	return nil
}

type noopPrinter struct{}

func (noopPrinter) Print(ctx context.Context, ticket Ticket) error {
	return nil
}

type failPrinter struct{}

func (failPrinter) Print(ctx context.Context, ticket Ticket) error {
	return errors.New("printer failure")
}

type webhookPrinter struct {
	url   string
	token string
}

func (p webhookPrinter) Print(ctx context.Context, ticket Ticket) error {
	body, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("print endpoint rejected ticket")
	}
	return nil
}
