package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentacar/service-booking/pkg/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	period, err := ParseRentalPeriod("2024-04-10", "2024-04-15")
	require.NoError(t, err)
	bk, err := NewBooking(uuid.New(), uuid.New(), period)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	userID := uuid.New()
	carID := uuid.New()
	period, err := ParseRentalPeriod("2024-04-10", "2024-04-15")
	require.NoError(t, err)

	bk, err := NewBooking(userID, carID, period)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, bk.ID())
	assert.Equal(t, userID, bk.UserID())
	assert.Equal(t, carID, bk.CarID())
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, int64(1), bk.Version())
	assert.Nil(t, bk.ConfirmedAt())
	assert.Nil(t, bk.CanceledAt())

	assert.True(t, strings.HasPrefix(bk.Reference(), "BK-"))
	assert.Len(t, bk.Reference(), 9)
}

func TestNewBooking_RequiresIDs(t *testing.T) {
	period, err := ParseRentalPeriod("2024-04-10", "2024-04-15")
	require.NoError(t, err)

	var validationErr *domain.ValidationError

	_, err = NewBooking(uuid.Nil, uuid.New(), period)
	assert.ErrorAs(t, err, &validationErr)

	_, err = NewBooking(uuid.New(), uuid.Nil, period)
	assert.ErrorAs(t, err, &validationErr)
}

func TestBooking_Confirm(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())
	require.NotNil(t, bk.ConfirmedAt())
	assert.WithinDuration(t, time.Now().UTC(), *bk.ConfirmedAt(), 2*time.Second)
}

func TestBooking_DoubleConfirmRejected(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())

	err := bk.Confirm()
	require.Error(t, err)

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "Confirmed", stateErr.From)
	assert.Equal(t, "Confirmed", stateErr.To)
}

func TestBooking_CancelFromPending(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCanceled, bk.Status())
	require.NotNil(t, bk.CanceledAt())
}

func TestBooking_CancelFromConfirmed(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())

	require.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCanceled, bk.Status())
}

func TestBooking_CanceledIsTerminal(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel())

	var stateErr *domain.InvalidStateError

	err := bk.Confirm()
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, StatusCanceled, bk.Status(), "canceled booking must not be resurrected")

	err = bk.Cancel()
	assert.ErrorAs(t, err, &stateErr)
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	require.Equal(t, int64(1), bk.Version())

	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}

func TestBooking_IsOwnedBy(t *testing.T) {
	userID := uuid.New()
	period, err := ParseRentalPeriod("2024-04-10", "2024-04-15")
	require.NoError(t, err)
	bk, err := NewBooking(userID, uuid.New(), period)
	require.NoError(t, err)

	assert.True(t, bk.IsOwnedBy(userID))
	assert.False(t, bk.IsOwnedBy(uuid.New()))
}

func TestReconstruct_RoundTrip(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	carID := uuid.New()
	period, err := ParseRentalPeriod("2024-04-10", "2024-04-15")
	require.NoError(t, err)
	confirmed := time.Now().UTC().Add(-time.Hour)
	created := time.Now().UTC().Add(-2 * time.Hour)

	bk := Reconstruct(id, "BK-TEST42", userID, carID, period,
		StatusConfirmed, &confirmed, nil, 3, created, confirmed)

	assert.Equal(t, id, bk.ID())
	assert.Equal(t, "BK-TEST42", bk.Reference())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, int64(3), bk.Version())
	assert.Equal(t, &confirmed, bk.ConfirmedAt())
}
