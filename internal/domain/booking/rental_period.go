package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentacar/service-booking/pkg/domain"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

// RentalPeriod is a closed interval of calendar days. The drop-off day is
// part of the rental, so two periods that share a single day overlap.
type RentalPeriod struct {
	pickUp  time.Time
	dropOff time.Time
}

// NewRentalPeriod creates a RentalPeriod, normalizing both bounds to UTC
// midnight. The pick-up day must not be after the drop-off day.
func NewRentalPeriod(pickUp, dropOff time.Time) (RentalPeriod, error) {
	p := truncateToDay(pickUp)
	d := truncateToDay(dropOff)
	if p.After(d) {
		return RentalPeriod{}, domain.NewValidationError("pick-up date must not be after drop-off date")
	}
	return RentalPeriod{pickUp: p, dropOff: d}, nil
}

// ParseRentalPeriod parses two YYYY-MM-DD strings into a RentalPeriod.
func ParseRentalPeriod(pickUp, dropOff string) (RentalPeriod, error) {
	p, err := time.Parse(DateLayout, pickUp)
	if err != nil {
		return RentalPeriod{}, domain.NewValidationError(fmt.Sprintf("invalid pick-up date %q, expected YYYY-MM-DD", pickUp))
	}
	d, err := time.Parse(DateLayout, dropOff)
	if err != nil {
		return RentalPeriod{}, domain.NewValidationError(fmt.Sprintf("invalid drop-off date %q, expected YYYY-MM-DD", dropOff))
	}
	return NewRentalPeriod(p, d)
}

// PickUp returns the first rental day.
func (r RentalPeriod) PickUp() time.Time { return r.pickUp }

// DropOff returns the last rental day.
func (r RentalPeriod) DropOff() time.Time { return r.dropOff }

// Days returns the rental length in calendar days, inclusive of both ends.
func (r RentalPeriod) Days() int {
	return int(r.dropOff.Sub(r.pickUp).Hours()/24) + 1
}

// Overlaps reports whether two closed intervals intersect:
// a1 <= b2 AND b1 <= a2. The single inequality pair covers partial,
// boundary-touching and containing overlaps alike.
func (r RentalPeriod) Overlaps(other RentalPeriod) bool {
	return !r.pickUp.After(other.dropOff) && !other.pickUp.After(r.dropOff)
}

func (r RentalPeriod) String() string {
	return r.pickUp.Format(DateLayout) + ".." + r.dropOff.Format(DateLayout)
}

// HasConflict reports whether any non-canceled booking for the car
// occupies a day of the candidate period. Canceled bookings no longer
// hold the calendar and are skipped. Pure; no storage dependency.
func HasConflict(existing []*Booking, carID uuid.UUID, period RentalPeriod) bool {
	for _, b := range existing {
		if b.CarID() != carID || b.Status() == StatusCanceled {
			continue
		}
		if b.Period().Overlaps(period) {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
