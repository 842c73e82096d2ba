package car

import (
	"time"

	"github.com/google/uuid"
)

// Car is a local read model of a fleet vehicle, kept in sync from
// inventory events. The inventory service owns the source of truth;
// this snapshot only backs availability listings and retirement handling.
type Car struct {
	id        uuid.UUID
	make      string
	model     string
	year      int
	available bool
	updatedAt time.Time
}

// New creates a Car snapshot from inventory data.
func New(id uuid.UUID, carMake, model string, year int, available bool) *Car {
	return &Car{
		id:        id,
		make:      carMake,
		model:     model,
		year:      year,
		available: available,
		updatedAt: time.Now().UTC(),
	}
}

// Reconstruct rebuilds a Car from persistence data.
func Reconstruct(id uuid.UUID, carMake, model string, year int, available bool, updatedAt time.Time) *Car {
	return &Car{
		id:        id,
		make:      carMake,
		model:     model,
		year:      year,
		available: available,
		updatedAt: updatedAt,
	}
}

// ID returns the car's unique identifier.
func (c *Car) ID() uuid.UUID { return c.id }

// Make returns the manufacturer brand.
func (c *Car) Make() string { return c.make }

// Model returns the car model.
func (c *Car) Model() string { return c.model }

// Year returns the manufacture year.
func (c *Car) Year() int { return c.year }

// Available reports whether the car is rentable at all.
func (c *Car) Available() bool { return c.available }

// UpdatedAt returns the last time the snapshot was refreshed.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// Retire marks the car as withdrawn from the fleet.
func (c *Car) Retire() {
	c.available = false
	c.updatedAt = time.Now().UTC()
}
