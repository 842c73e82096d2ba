package car

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for the car read model.
type Repository interface {
	// FindByID retrieves a car snapshot by id.
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// Upsert inserts or replaces a car snapshot.
	Upsert(ctx context.Context, c *Car) error
}
