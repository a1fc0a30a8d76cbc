package store

import (
	"context"
	"encoding/json"
	"time"

	"tablepos/orderflow/internal/models"

	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	RestaurantID        string
	BookingID           string
	TableID             string
	OrderType           string
	CourseType          string
	Priority            int
	SpecialInstructions string
	DietaryTags         []string
	ActorID             string
	Items               []CreateOrderItemInput
	CreatedAt           time.Time
}

type CreateOrderItemInput struct {
	MenuItemName         string
	Quantity             int
	UnitPrice            decimal.Decimal
	PrepMinutes          int
	StationID            string
	SpecialInstructions  string
	DietaryModifications []string
}

type TransitionInput struct {
	RestaurantID string
	OrderID      string
	Status       string
	ActorID      string
	StationID    string
	Notes        string
	OccurredAt   time.Time
}

type ItemTransitionInput struct {
	RestaurantID string
	OrderID      string
	ItemID       string
	Status       string
	ActorID      string
	Notes        string
	OccurredAt   time.Time
}

type OutboxEvent struct {
	EventID      string          `json:"event_id"`
	RestaurantID string          `json:"restaurant_id"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Session struct {
	SessionID    string
	UserID       string
	RestaurantID string
	Role         string
	ExpiresAt    time.Time
}

type OrderStore interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (models.Order, error)
	GetOrder(ctx context.Context, restaurantID, orderID string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, input TransitionInput) (models.Order, error)
	UpdateItemStatus(ctx context.Context, input ItemTransitionInput) (models.OrderItem, error)
	ListKitchenQueue(ctx context.Context, restaurantID, stationID string) ([]models.Order, error)
	ListStatusHistory(ctx context.Context, restaurantID, orderID string) ([]HistoryEntry, error)
	ListStations(ctx context.Context, restaurantID string) ([]models.Station, error)
	ListOutboxEvents(ctx context.Context, restaurantID string, after time.Time, limit int) ([]OutboxEvent, error)
	AdvanceBooking(ctx context.Context, restaurantID, bookingID, fromStatus, toStatus string) (bool, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
}
