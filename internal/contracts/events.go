// Package contracts holds the event names and payloads exchanged with the
// other rent-a-car services over Kafka.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicCarEvents     = "car.events"
)

// Event types published by this service.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
)

// Event types consumed from the car inventory service.
const (
	CarCreated = "car.created"
	CarUpdated = "car.updated"
	CarRetired = "car.retired"
)

// BookingRequestedEvent is published when a reservation is accepted.
type BookingRequestedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	Reference   string    `json:"reference"`
	UserID      uuid.UUID `json:"user_id"`
	CarID       uuid.UUID `json:"car_id"`
	PickUpDate  string    `json:"pick_up_date"`
	DropOffDate string    `json:"drop_off_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when a booking is confirmed.
type BookingConfirmedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     uuid.UUID `json:"user_id"`
	CarID      uuid.UUID `json:"car_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is canceled, whether
// by the user or by a fleet retirement.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     uuid.UUID `json:"user_id"`
	CarID      uuid.UUID `json:"car_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CarUpsertedEvent carries a fleet snapshot for car.created/car.updated.
type CarUpsertedEvent struct {
	CarID      uuid.UUID `json:"car_id"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Available  bool      `json:"available"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CarRetiredEvent signals that a car left the fleet for good.
type CarRetiredEvent struct {
	CarID      uuid.UUID `json:"car_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
