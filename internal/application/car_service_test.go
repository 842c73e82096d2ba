package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentacar/service-booking/internal/contracts"
	carDomain "github.com/rentacar/service-booking/internal/domain/car"
	"github.com/rentacar/service-booking/pkg/domain"
)

type fakeCarRepository struct {
	cars map[uuid.UUID]*carDomain.Car
}

func newFakeCarRepository() *fakeCarRepository {
	return &fakeCarRepository{cars: make(map[uuid.UUID]*carDomain.Car)}
}

func (r *fakeCarRepository) FindByID(_ context.Context, id uuid.UUID) (*carDomain.Car, error) {
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.NewNotFoundError("car", id.String())
	}
	return c, nil
}

func (r *fakeCarRepository) Upsert(_ context.Context, c *carDomain.Car) error {
	r.cars[c.ID()] = c
	return nil
}

func TestApplyCarUpserted(t *testing.T) {
	repo := newFakeCarRepository()
	svc := NewCarService(repo, zap.NewNop())
	carID := uuid.New()

	err := svc.ApplyCarUpserted(context.Background(), contracts.CarUpsertedEvent{
		CarID: carID, Make: "Toyota", Model: "Corolla", Year: 2022, Available: true,
	})
	require.NoError(t, err)

	snapshot, err := repo.FindByID(context.Background(), carID)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", snapshot.Make())
	assert.True(t, snapshot.Available())

	// A later update replaces the snapshot.
	err = svc.ApplyCarUpserted(context.Background(), contracts.CarUpsertedEvent{
		CarID: carID, Make: "Toyota", Model: "Corolla", Year: 2022, Available: false,
	})
	require.NoError(t, err)

	snapshot, err = repo.FindByID(context.Background(), carID)
	require.NoError(t, err)
	assert.False(t, snapshot.Available())
}

func TestApplyCarRetired(t *testing.T) {
	repo := newFakeCarRepository()
	svc := NewCarService(repo, zap.NewNop())
	carID := uuid.New()

	require.NoError(t, svc.ApplyCarUpserted(context.Background(), contracts.CarUpsertedEvent{
		CarID: carID, Make: "Honda", Model: "Civic", Year: 2021, Available: true,
	}))

	err := svc.ApplyCarRetired(context.Background(), contracts.CarRetiredEvent{
		CarID: carID, OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	snapshot, err := repo.FindByID(context.Background(), carID)
	require.NoError(t, err)
	assert.False(t, snapshot.Available())
	assert.Equal(t, "Honda", snapshot.Make())
}

func TestApplyCarRetired_UnknownCarStillRecorded(t *testing.T) {
	repo := newFakeCarRepository()
	svc := NewCarService(repo, zap.NewNop())
	carID := uuid.New()

	err := svc.ApplyCarRetired(context.Background(), contracts.CarRetiredEvent{
		CarID: carID, OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	snapshot, err := repo.FindByID(context.Background(), carID)
	require.NoError(t, err)
	assert.False(t, snapshot.Available())
}
