package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves bookings belonging to a user with pagination.
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindActiveByCarID retrieves all non-canceled bookings for a car.
	FindActiveByCarID(ctx context.Context, carID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CreateIfAvailable persists a new booking if and only if no
	// non-canceled booking for the same car overlaps its period. The
	// check and the insert are a single atomic unit per car: among
	// concurrent calls with mutually overlapping periods at most one
	// commits; the rest fail with a ConflictError and write nothing.
	CreateIfAvailable(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic
	// locking, failing with a ConflictError on a stale version.
	Update(ctx context.Context, b *Booking) error
}
