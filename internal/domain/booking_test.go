package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "pending to in_progress is illegal", from: StatusPending, to: StatusInProgress, want: false},
		{name: "pending to no_show is illegal", from: StatusPending, to: StatusNoShow, want: false},
		{name: "confirmed to in_progress", from: StatusConfirmed, to: StatusInProgress, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed to completed skips in_progress", from: StatusConfirmed, to: StatusCompleted, want: false},
		{name: "in_progress to completed", from: StatusInProgress, to: StatusCompleted, want: true},
		{name: "in_progress to no_show", from: StatusInProgress, to: StatusNoShow, want: true},
		{name: "in_progress to cancelled is illegal", from: StatusInProgress, to: StatusCancelled, want: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusConfirmed, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, want: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusCompleted, want: false},
		{name: "self transition is illegal", from: StatusConfirmed, to: StatusConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	got, err := ParseBookingStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	_, err = ParseBookingStatus("paused")
	require.Error(t, err)
}

func TestBooking_IsActive(t *testing.T) {
	for _, status := range ActiveStatuses {
		b := Booking{Status: status}
		assert.True(t, b.IsActive(), "status %s must occupy the calendar", status)
	}
	for _, status := range InactiveStatuses {
		b := Booking{Status: status}
		assert.False(t, b.IsActive(), "status %s must free the calendar", status)
	}
}

func TestBooking_StartAt(t *testing.T) {
	b := Booking{
		BookingDate: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
	}

	start, err := b.StartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC), start)
}
