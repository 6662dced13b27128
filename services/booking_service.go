package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/neighborhood_hub/metrics"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultBookingDuration = 1.0

// timeNow is swapped in tests.
var timeNow = time.Now

type CreateBookingInput struct {
	ServiceID       uuid.UUID
	BookingDateTime time.Time
	Duration        float64
	Address         string
	Message         string
}

type UpdateBookingInput struct {
	BookingDateTime *time.Time
	Duration        *float64
	Address         *string
	Message         *string
}

// TotalPrice is price × duration for hourly services and the flat price
// otherwise.
func TotalPrice(service *models.Service, durationHours float64) float64 {
	if service.PriceType == models.PriceTypeHourly {
		return service.Price * durationHours
	}
	return service.Price
}

func CreateBooking(db *gorm.DB, customerID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	duration := in.Duration
	if duration <= 0 {
		duration = DefaultBookingDuration
	}
	start := in.BookingDateTime.UTC().Truncate(time.Second)
	if start.Before(timeNow()) {
		return nil, ErrBookingInPast
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, "id = ?", in.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}
		if !service.IsActive {
			return ErrServiceInactive
		}
		if service.ProviderID == customerID {
			return ErrOwnService
		}

		if _, err := lockProvider(tx, service.ProviderID); err != nil {
			return err
		}
		if err := ensureAvailable(tx, service.ProviderID, start, duration, uuid.Nil); err != nil {
			return err
		}

		booking = models.Booking{
			ServiceID:  service.ID,
			UserID:     customerID,
			ProviderID: service.ProviderID,
			TotalPrice: TotalPrice(&service, duration),
			Address:    in.Address,
			Message:    in.Message,
			Status:     models.StatusPending,
		}
		booking.SetWindow(start, duration)
		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, ErrSchedulingConflict) {
			metrics.RecordBookingConflict("create")
		}
		return nil, err
	}

	metrics.RecordBookingCreated()
	return LoadBooking(db, booking.ID)
}

func LoadBooking(db *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Service").Preload("User").Preload("Provider").First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func ListCustomerBookings(db *gorm.DB, customerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("Service").Preload("Provider").
		Where("user_id = ?", customerID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func ListProviderBookings(db *gorm.DB, providerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("Service").Preload("User").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

// GetBookingForParty returns the booking only to its customer or provider.
func GetBookingForParty(db *gorm.DB, id, requesterID uuid.UUID) (*models.Booking, error) {
	booking, err := LoadBooking(db, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(requesterID) {
		return nil, ErrNotBookingParty
	}
	return booking, nil
}

// lockedBooking locks the provider that owns the booking and then re-reads
// the booking under that lock.
func lockedBooking(tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if _, err := lockProvider(tx, booking.ProviderID); err != nil {
		return nil, err
	}
	if err := tx.Clauses(lockingUpdate).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking lets the customer reschedule or edit a booking that has not
// started yet.
func UpdateBooking(db *gorm.DB, id, requesterID uuid.UUID, in UpdateBookingInput) (*models.Booking, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		booking, err := lockedBooking(tx, id)
		if err != nil {
			return err
		}
		if !booking.IsParty(requesterID) {
			return ErrNotBookingParty
		}
		if booking.UserID != requesterID {
			return ErrNotCustomer
		}
		if booking.Status.IsTerminal() || booking.Status == models.StatusInProgress {
			return ErrBookingNotEditable
		}

		start, duration := booking.BookingDateTime, booking.Duration
		if in.BookingDateTime != nil {
			start = in.BookingDateTime.UTC().Truncate(time.Second)
		}
		if in.Duration != nil && *in.Duration > 0 {
			duration = *in.Duration
		}

		updates := map[string]interface{}{}
		if !start.Equal(booking.BookingDateTime) || duration != booking.Duration {
			if start.Before(timeNow()) {
				return ErrBookingInPast
			}
			if err := ensureAvailable(tx, booking.ProviderID, start, duration, booking.ID); err != nil {
				return err
			}
			var service models.Service
			if err := tx.First(&service, "id = ?", booking.ServiceID).Error; err != nil {
				return err
			}
			booking.SetWindow(start, duration)
			updates["booking_date_time"] = booking.BookingDateTime
			updates["end_date_time"] = booking.EndDateTime
			updates["duration"] = booking.Duration
			updates["total_price"] = TotalPrice(&service, duration)
		}
		if in.Address != nil {
			updates["address"] = *in.Address
		}
		if in.Message != nil {
			updates["message"] = *in.Message
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, ErrSchedulingConflict) {
			metrics.RecordBookingConflict("reschedule")
		}
		return nil, err
	}
	return LoadBooking(db, id)
}

// UpdateBookingStatus applies one lifecycle transition on behalf of the
// requester. It returns the updated booking and the status it left.
func UpdateBookingStatus(db *gorm.DB, id, requesterID uuid.UUID, rawStatus string) (*models.Booking, models.BookingStatus, error) {
	next, err := models.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, "", err
	}

	var from models.BookingStatus
	err = db.Transaction(func(tx *gorm.DB) error {
		booking, err := lockedBooking(tx, id)
		if err != nil {
			return err
		}

		var actor models.BookingActor
		switch requesterID {
		case booking.ProviderID:
			actor = models.ActorProvider
		case booking.UserID:
			actor = models.ActorCustomer
		default:
			return ErrNotBookingParty
		}

		from = booking.Status
		if err := from.CheckTransition(next, actor); err != nil {
			return err
		}
		if next == models.StatusConfirmed {
			if err := ensureAvailable(tx, booking.ProviderID, booking.BookingDateTime, booking.Duration, booking.ID); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, from).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: status changed concurrently", models.ErrIllegalTransition)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSchedulingConflict) {
			metrics.RecordBookingConflict("confirm")
		}
		return nil, "", err
	}

	metrics.RecordBookingTransition(string(from), string(next))
	booking, err := LoadBooking(db, id)
	return booking, from, err
}

// AddBookingReview records the customer's rating of a completed booking and
// refreshes the provider aggregate in the same transaction.
func AddBookingReview(db *gorm.DB, id, requesterID uuid.UUID, rating int, review string) (*models.Booking, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		booking, err := lockedBooking(tx, id)
		if err != nil {
			return err
		}
		if booking.UserID != requesterID {
			return ErrNotCustomer
		}
		if booking.Status != models.StatusCompleted {
			return ErrBookingNotCompleted
		}
		if booking.UserRating != nil {
			return ErrAlreadyReviewed
		}

		updates := map[string]interface{}{"user_rating": rating}
		if review != "" {
			updates["user_review"] = review
		}
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND user_rating IS NULL", booking.ID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReviewed
		}
		return RecomputeProviderRating(tx, booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}
	return LoadBooking(db, id)
}

// UpcomingConfirmedBookings returns confirmed bookings starting within
// [from, to).
func UpcomingConfirmedBookings(db *gorm.DB, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("Service").Preload("User").Preload("Provider").
		Where("status = ? AND booking_date_time >= ? AND booking_date_time < ?", models.StatusConfirmed, from.UTC(), to.UTC()).
		Order("booking_date_time asc").
		Find(&bookings).Error
	return bookings, err
}

// ExpireStalePendingBookings cancels pending requests whose start time passed
// before the provider answered. It returns only the bookings it actually
// cancelled; a request confirmed in the meantime is left alone.
func ExpireStalePendingBookings(db *gorm.DB, cutoff time.Time) ([]models.Booking, error) {
	var ids []uuid.UUID
	err := db.Transaction(func(tx *gorm.DB) error {
		var stale []models.Booking
		err := tx.Clauses(lockingUpdate).
			Where("status = ? AND booking_date_time < ?", models.StatusPending, cutoff.UTC()).
			Order("booking_date_time asc").
			Find(&stale).Error
		if err != nil {
			return err
		}
		for _, b := range stale {
			res := tx.Model(&models.Booking{}).
				Where("id = ? AND status = ?", b.ID, models.StatusPending).
				Update("status", models.StatusCancelled)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				ids = append(ids, b.ID)
			}
		}
		return nil
	})
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	var cancelled []models.Booking
	if err := db.Preload("Service").Preload("User").Find(&cancelled, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	for range cancelled {
		metrics.RecordBookingTransition(string(models.StatusPending), string(models.StatusCancelled))
	}
	return cancelled, nil
}
