package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID             string          `json:"order_id"`
	OrderNumber         string          `json:"order_number"`
	RestaurantID        string          `json:"restaurant_id"`
	BookingID           string          `json:"booking_id"`
	TableID             *string         `json:"table_id,omitempty"`
	Status              string          `json:"status"`
	OrderType           string          `json:"order_type"`
	CourseType          string          `json:"course_type,omitempty"`
	Priority            int             `json:"priority"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	DietaryTags         []string        `json:"dietary_tags,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Tax                 decimal.Decimal `json:"tax"`
	Total               decimal.Decimal `json:"total"`
	CreatedAt           time.Time       `json:"created_at"`
	ConfirmedAt         *time.Time      `json:"confirmed_at,omitempty"`
	StartedPreparingAt  *time.Time      `json:"started_preparing_at,omitempty"`
	ReadyAt             *time.Time      `json:"ready_at,omitempty"`
	ServedAt            *time.Time      `json:"served_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	ActualPrepMinutes   *int            `json:"actual_prep_minutes,omitempty"`
	Items               []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ItemID               string          `json:"item_id"`
	OrderID              string          `json:"order_id"`
	MenuItemName         string          `json:"menu_item_name"`
	Quantity             int             `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	LineTotal            decimal.Decimal `json:"line_total"`
	Status               string          `json:"status"`
	PrepMinutes          int             `json:"prep_minutes"`
	StationID            *string         `json:"station_id,omitempty"`
	SpecialInstructions  string          `json:"special_instructions,omitempty"`
	DietaryModifications []string        `json:"dietary_modifications,omitempty"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeout  = "takeout"
	OrderTypeDelivery = "delivery"
)
