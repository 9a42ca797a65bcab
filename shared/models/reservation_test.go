package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusConfirmed))
	assert.True(t, ValidStatus(StatusCanceled))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(ReservationStatus("archived")))
	assert.False(t, ValidStatus(ReservationStatus("")))
}

func TestReservationValidWindow(t *testing.T) {
	start := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	r := Reservation{StartTime: start, EndTime: start.Add(30 * time.Minute)}
	assert.True(t, r.ValidWindow())

	r.EndTime = start
	assert.False(t, r.ValidWindow())

	r.EndTime = start.Add(-time.Hour)
	assert.False(t, r.ValidWindow())
}

func TestReservationIsOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		status  ReservationStatus
		endTime time.Time
		want    bool
	}{
		{"pending and ended", StatusPending, past, true},
		{"confirmed and ended", StatusConfirmed, past, true},
		{"pending but upcoming", StatusPending, future, false},
		{"already completed", StatusCompleted, past, false},
		{"canceled", StatusCanceled, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reservation{Status: tt.status, EndTime: tt.endTime}
			assert.Equal(t, tt.want, r.IsOverdue(now))
		})
	}
}
