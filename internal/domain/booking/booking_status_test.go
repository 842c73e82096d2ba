package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCanceled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCanceled))

	assert.False(t, StatusConfirmed.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPending))
	assert.False(t, StatusCanceled.CanTransitionTo(StatusPending))
	assert.False(t, StatusCanceled.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCanceled.CanTransitionTo(StatusCanceled))
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
}

func TestBookingStatus_OccupiesCalendar(t *testing.T) {
	assert.True(t, StatusPending.OccupiesCalendar())
	assert.True(t, StatusConfirmed.OccupiesCalendar())
	assert.False(t, StatusCanceled.OccupiesCalendar())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("confirmed")
	assert.Error(t, err, "status strings are case sensitive")

	_, err = ParseBookingStatus("Delivered")
	assert.Error(t, err)
}
