package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentacar/service-booking/internal/contracts"
	bookingDomain "github.com/rentacar/service-booking/internal/domain/booking"
	"github.com/rentacar/service-booking/pkg/domain"
	"github.com/rentacar/service-booking/pkg/kafka"
	"github.com/rentacar/service-booking/pkg/metrics"
)

// EventPublisher publishes CloudEvents to a topic. Satisfied by
// *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// ReserveRequest holds the data needed to reserve a car.
type ReserveRequest struct {
	CarID       uuid.UUID `json:"carId" binding:"required"`
	UserID      uuid.UUID `json:"userId"`
	PickUpDate  string    `json:"pickUpDate" binding:"required"`
	DropOffDate string    `json:"dropOffDate" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          uuid.UUID  `json:"id"`
	Reference   string     `json:"reference"`
	UserID      uuid.UUID  `json:"userId"`
	CarID       uuid.UUID  `json:"carId"`
	PickUpDate  string     `json:"pickUpDate"`
	DropOffDate string     `json:"dropOffDate"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CanceledAt  *time.Time `json:"canceledAt,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating reservation and
// lifecycle use cases.
type BookingService struct {
	repo     bookingDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(repo bookingDomain.Repository, producer EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Reserve accepts a rental request for a car if the requested period is
// free. Validation happens before any store access; the overlap check and
// the insert are one atomic unit inside the repository, so among
// concurrent overlapping requests for a car at most one succeeds.
func (s *BookingService) Reserve(ctx context.Context, userID uuid.UUID, req ReserveRequest) (*BookingDTO, error) {
	period, err := bookingDomain.ParseRentalPeriod(req.PickUpDate, req.DropOffDate)
	if err != nil {
		metrics.IncReservation("invalid")
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(userID, req.CarID, period)
	if err != nil {
		metrics.IncReservation("invalid")
		return nil, err
	}

	if err := s.repo.CreateIfAvailable(ctx, bk); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncReservation("conflict")
			s.logger.Info("reservation rejected, period overlaps",
				zap.String("car_id", req.CarID.String()),
				zap.String("period", period.String()),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.IncReservation("accepted")
	s.logger.Info("booking reserved",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reference", bk.Reference()),
		zap.String("car_id", bk.CarID().String()),
		zap.String("period", period.String()),
	)

	s.publishEvent(ctx, contracts.BookingRequested, bk.ID().String(), contracts.BookingRequestedEvent{
		BookingID:   bk.ID(),
		Reference:   bk.Reference(),
		UserID:      bk.UserID(),
		CarID:       bk.CarID(),
		PickUpDate:  period.PickUp().Format(bookingDomain.DateLayout),
		DropOffDate: period.DropOff().Format(bookingDomain.DateLayout),
		OccurredAt:  time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// Confirm transitions a Pending booking to Confirmed.
func (s *BookingService) Confirm(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	metrics.IncTransition(string(bookingDomain.StatusConfirmed))
	s.publishEvent(ctx, contracts.BookingConfirmed, bk.ID().String(), contracts.BookingConfirmedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		UserID:     bk.UserID(),
		CarID:      bk.CarID(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// Cancel transitions a booking to Canceled. Allowed from Pending and
// Confirmed; the freed period becomes reservable again immediately.
func (s *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	metrics.IncTransition(string(bookingDomain.StatusCanceled))
	s.publishEvent(ctx, contracts.BookingCancelled, bk.ID().String(), contracts.BookingCancelledEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		UserID:     bk.UserID(),
		CarID:      bk.CarID(),
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBookingsForCar cancels every active booking of a car. Used when
// the inventory service retires a vehicle. Bookings that race into a
// terminal state are skipped. Returns the number of cancellations.
func (s *BookingService) CancelBookingsForCar(ctx context.Context, carID uuid.UUID, reason string) (int, error) {
	active, err := s.repo.FindActiveByCarID(ctx, carID)
	if err != nil {
		return 0, fmt.Errorf("failed to load active bookings: %w", err)
	}

	canceled := 0
	for _, bk := range active {
		if err := bk.Cancel(); err != nil {
			continue
		}
		bk.IncrementVersion()
		if err := s.repo.Update(ctx, bk); err != nil {
			s.logger.Warn("failed to cancel booking for retired car",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
			continue
		}
		canceled++

		metrics.IncTransition(string(bookingDomain.StatusCanceled))
		s.publishEvent(ctx, contracts.BookingCancelled, bk.ID().String(), contracts.BookingCancelledEvent{
			BookingID:  bk.ID(),
			Reference:  bk.Reference(),
			UserID:     bk.UserID(),
			CarID:      bk.CarID(),
			Reason:     reason,
			OccurredAt: time.Now().UTC(),
		})
	}

	return canceled, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves paginated bookings for a user.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetCarBookings retrieves all non-canceled bookings for a car, in
// calendar order (the car's occupancy view).
func (s *BookingService) GetCarBookings(ctx context.Context, carID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.repo.FindActiveByCarID(ctx, carID)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		Reference:   bk.Reference(),
		UserID:      bk.UserID(),
		CarID:       bk.CarID(),
		PickUpDate:  bk.Period().PickUp().Format(bookingDomain.DateLayout),
		DropOffDate: bk.Period().DropOff().Format(bookingDomain.DateLayout),
		Status:      string(bk.Status()),
		ConfirmedAt: bk.ConfirmedAt(),
		CanceledAt:  bk.CanceledAt(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, contracts.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", contracts.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
