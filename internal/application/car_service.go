package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rentacar/service-booking/internal/contracts"
	carDomain "github.com/rentacar/service-booking/internal/domain/car"
	"github.com/rentacar/service-booking/pkg/domain"
)

// CarService maintains the local read model of the fleet from inventory
// events.
type CarService struct {
	repo   carDomain.Repository
	logger *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(repo carDomain.Repository, logger *zap.Logger) *CarService {
	return &CarService{repo: repo, logger: logger}
}

// ApplyCarUpserted applies a car.created or car.updated event.
func (s *CarService) ApplyCarUpserted(ctx context.Context, evt contracts.CarUpsertedEvent) error {
	snapshot := carDomain.New(evt.CarID, evt.Make, evt.Model, evt.Year, evt.Available)
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to apply car snapshot: %w", err)
	}

	s.logger.Debug("car snapshot applied",
		zap.String("car_id", evt.CarID.String()),
		zap.Bool("available", evt.Available),
	)
	return nil
}

// ApplyCarRetired marks a car as withdrawn. A retirement for a car we
// never saw still produces an unavailable snapshot so later lookups agree
// with the inventory.
func (s *CarService) ApplyCarRetired(ctx context.Context, evt contracts.CarRetiredEvent) error {
	snapshot, err := s.repo.FindByID(ctx, evt.CarID)
	if err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		snapshot = carDomain.New(evt.CarID, "", "", 0, false)
	}

	snapshot.Retire()
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to retire car snapshot: %w", err)
	}

	s.logger.Info("car retired", zap.String("car_id", evt.CarID.String()))
	return nil
}
