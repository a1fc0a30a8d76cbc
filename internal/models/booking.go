package models

import "time"

type Booking struct {
	BookingID    string    `json:"booking_id"`
	RestaurantID string    `json:"restaurant_id"`
	Status       string    `json:"status"`
	PartySize    int       `json:"party_size,omitempty"`
	BookedAt     time.Time `json:"booked_at"`
}

// Booking statuses this core acts on. Other values exist upstream but are
// opaque here.
const (
	BookingStatusSeated  = "seated"
	BookingStatusOrdered = "ordered"
)

type Station struct {
	StationID    string `json:"station_id"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	Name         string `json:"name"`
	StationType  string `json:"station_type"`
}
