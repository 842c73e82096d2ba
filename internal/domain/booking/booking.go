package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/rentacar/service-booking/pkg/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root of the reservation domain: one car,
// one user, one contiguous range of rental days.
type Booking struct {
	id        uuid.UUID
	reference string
	userID    uuid.UUID
	carID     uuid.UUID
	period    RentalPeriod
	status    BookingStatus

	confirmedAt *time.Time
	canceledAt  *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a human-readable reference like "BK-XK7N2Q".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking creates a Booking in the Pending state. Date ordering is
// already guaranteed by the RentalPeriod constructor.
func NewBooking(userID, carID uuid.UUID, period RentalPeriod) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		reference: reference,
		userID:    userID,
		carID:     carID,
		period:    period,
		status:    StatusPending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	reference string,
	userID, carID uuid.UUID,
	period RentalPeriod,
	status BookingStatus,
	confirmedAt, canceledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		reference:   reference,
		userID:      userID,
		carID:       carID,
		period:      period,
		status:      status,
		confirmedAt: confirmedAt,
		canceledAt:  canceledAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// UserID returns the renting user's id.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// CarID returns the rented car's id.
func (b *Booking) CarID() uuid.UUID { return b.carID }

// Period returns the rental period.
func (b *Booking) Period() RentalPeriod { return b.period }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// ConfirmedAt returns when the booking was confirmed, or nil.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CanceledAt returns when the booking was canceled, or nil.
func (b *Booking) CanceledAt() *time.Time { return b.canceledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsOwnedBy reports whether the booking belongs to the user.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool { return b.userID == userID }

// Confirm transitions the booking from Pending to Confirmed. Confirming a
// booking that is already Confirmed, or was Canceled, is rejected: a
// canceled reservation must never be resurrected and a double confirm
// must not silently no-op.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to Canceled. Cancellation is allowed
// from Pending and Confirmed alike; canceling twice is rejected.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCanceled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCanceled))
	}
	now := time.Now().UTC()
	b.status = StatusCanceled
	b.canceledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
