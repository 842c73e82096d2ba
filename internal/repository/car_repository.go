package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	carDomain "github.com/rentacar/service-booking/internal/domain/car"
	"github.com/rentacar/service-booking/pkg/domain"
)

// CarModel is the GORM model for the cars read-model table.
type CarModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Make      string    `gorm:"type:varchar(50);not null"`
	Model     string    `gorm:"type:varchar(50);not null"`
	Year      int       `gorm:"not null"`
	Available bool      `gorm:"not null;default:true"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string { return "cars" }

// GormCarRepository implements the car Repository using GORM.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID retrieves a car snapshot by id.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", id.String())
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return carDomain.Reconstruct(model.ID, model.Make, model.Model, model.Year, model.Available, model.UpdatedAt), nil
}

// Upsert inserts or replaces a car snapshot. Events may arrive out of
// order across restarts, so the newest write wins on conflict.
func (r *GormCarRepository) Upsert(ctx context.Context, c *carDomain.Car) error {
	model := &CarModel{
		ID:        c.ID(),
		Make:      c.Make(),
		Model:     c.Model(),
		Year:      c.Year(),
		Available: c.Available(),
		UpdatedAt: c.UpdatedAt(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"make", "model", "year", "available", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert car: %w", err)
	}
	return nil
}
