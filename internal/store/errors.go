package store

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSessionNotFound   = errors.New("session not found")
)
