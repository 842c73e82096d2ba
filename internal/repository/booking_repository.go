package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	bookingDomain "github.com/rentacar/service-booking/internal/domain/booking"
	"github.com/rentacar/service-booking/pkg/domain"
)

// pgExclusionViolation is the SQLSTATE raised by the bookings exclusion
// constraint when two ranges for one car intersect.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference   string     `gorm:"uniqueIndex;not null;size:20"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	CarID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	PickUpDate  time.Time  `gorm:"type:date;not null"`
	DropOffDate time.Time  `gorm:"type:date;not null"`
	Status      string     `gorm:"not null;size:20;index"`
	ConfirmedAt *time.Time `gorm:""`
	CanceledAt  *time.Time `gorm:""`
	Version     int64      `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// CreateIfAvailable checks the car's calendar and inserts the booking as
// one transaction. A transaction-scoped advisory lock keyed by the car id
// serializes reservations per car: plain row locks cannot exclude a
// concurrent first booking for a car that has no rows yet. The exclusion
// constraint installed by the migrations backstops the same invariant at
// the store level.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(bk.CarID())).Error; err != nil {
			return fmt.Errorf("failed to acquire car lock: %w", err)
		}

		var models []BookingModel
		if err := tx.
			Where("car_id = ? AND status <> ?", bk.CarID(), string(bookingDomain.StatusCanceled)).
			Find(&models).Error; err != nil {
			return fmt.Errorf("failed to load car bookings: %w", err)
		}

		existing, err := toDomainBookings(models)
		if err != nil {
			return err
		}
		if bookingDomain.HasConflict(existing, bk.CarID(), bk.Period()) {
			return domain.NewConflictError(fmt.Sprintf(
				"car %s already has a booking overlapping %s", bk.CarID(), bk.Period()))
		}

		return tx.Create(model).Error
	})

	if err != nil {
		if isExclusionViolation(err) {
			return domain.NewConflictError(fmt.Sprintf(
				"car %s already has a booking overlapping %s", bk.CarID(), bk.Period()))
		}
		return err
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves bookings for a user with pagination.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pick_up_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find user bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// FindActiveByCarID retrieves all non-canceled bookings for a car, in
// calendar order.
func (r *GormBookingRepository) FindActiveByCarID(ctx context.Context, carID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("car_id = ? AND status <> ?", carID, string(bookingDomain.StatusCanceled)).
		Order("pick_up_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find car bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion has already been called; match the stored row
	// against the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"confirmed_at": model.ConfirmedAt,
			"canceled_at":  model.CanceledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// advisoryLockKey folds a car id into the int64 key space of
// pg_advisory_xact_lock.
func advisoryLockKey(carID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write(carID[:])
	return int64(h.Sum64())
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:          bk.ID(),
		Reference:   bk.Reference(),
		UserID:      bk.UserID(),
		CarID:       bk.CarID(),
		PickUpDate:  bk.Period().PickUp(),
		DropOffDate: bk.Period().DropOff(),
		Status:      string(bk.Status()),
		ConfirmedAt: bk.ConfirmedAt(),
		CanceledAt:  bk.CanceledAt(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	period, err := bookingDomain.NewRentalPeriod(m.PickUpDate, m.DropOffDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt period on booking %s: %w", m.ID, err)
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.Reference,
		m.UserID,
		m.CarID,
		period,
		status,
		m.ConfirmedAt,
		m.CanceledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
