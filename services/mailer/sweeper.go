package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/models"
)

// Sweeper periodically completes reservations whose end time has passed.
// Sweep transitions are housekeeping and send no email.
type Sweeper struct {
	db        *gorm.DB
	publisher broadcast.Publisher
	interval  time.Duration
}

// NewSweeper creates an overdue reservation sweeper
func NewSweeper(db *gorm.DB, publisher broadcast.Publisher, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:        db,
		publisher: publisher,
		interval:  interval,
	}
}

// Run sweeps on the configured interval until the context is canceled
func (s *Sweeper) Run(ctx context.Context) {
	logrus.Infof("Starting reservation sweeper (interval %s)...", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep marks ended pending and confirmed reservations as completed
func (s *Sweeper) sweep() {
	result := s.db.Model(&models.Reservation{}).
		Where("status IN ? AND end_time < ?", []models.ReservationStatus{models.StatusPending, models.StatusConfirmed}, time.Now()).
		Update("status", models.StatusCompleted)

	if result.Error != nil {
		logrus.Errorf("Error sweeping overdue reservations: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		logrus.Infof("Completed %d overdue reservations", result.RowsAffected)
		s.publisher.Dashboard("reservations_swept", map[string]interface{}{
			"completed": result.RowsAffected,
		})
	}
}
