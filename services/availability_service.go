package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var lockingUpdate = clause.Locking{Strength: "UPDATE"}

// IsAvailable reports whether the provider has no confirmed or in-progress
// booking overlapping [start, start+durationHours). excludeID skips the
// booking being rescheduled or confirmed; pass uuid.Nil for none.
//
// Callers that act on the answer must hold lockProvider in the same tx.
func IsAvailable(tx *gorm.DB, providerID uuid.UUID, start time.Time, durationHours float64, excludeID uuid.UUID) (bool, error) {
	start = start.UTC().Truncate(time.Second)
	end := models.BookingEnd(start, durationHours)

	q := tx.Model(&models.Booking{}).
		Where("provider_id = ?", providerID).
		Where("status IN ?", models.BlockingStatuses).
		Where("booking_date_time < ? AND end_date_time > ?", end, start)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// lockProvider takes a row lock on the provider's user record. Every write
// that can add a blocking booking goes through it, so check-then-write is
// serialized per provider.
func lockProvider(tx *gorm.DB, providerID uuid.UUID) (*models.User, error) {
	var provider models.User
	err := tx.Clauses(lockingUpdate).First(&provider, "id = ?", providerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func ensureAvailable(tx *gorm.DB, providerID uuid.UUID, start time.Time, durationHours float64, excludeID uuid.UUID) error {
	ok, err := IsAvailable(tx, providerID, start, durationHours, excludeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSchedulingConflict
	}
	return nil
}
