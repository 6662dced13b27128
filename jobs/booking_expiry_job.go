package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/metrics"
	"github.com/anjiri1684/neighborhood_hub/notifications"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/anjiri1684/neighborhood_hub/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpireUnansweredBookings cancels requests the provider never confirmed
// once their start time is more than 15 minutes gone.
func ExpireUnansweredBookings() {
	log.Println("Running job: ExpireUnansweredBookings...")
	expired, err := expireUnansweredBookings(database.DB, timeNow())
	metrics.RecordJobRun("booking_expiry", err == nil)
	if err != nil {
		log.Printf("Error expiring pending bookings: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Cancelled %d unanswered bookings", expired)
	}
}

func expireUnansweredBookings(db *gorm.DB, now time.Time) (int, error) {
	stale, err := services.ExpireStalePendingBookings(db, now.Add(-15*time.Minute))
	if err != nil {
		return 0, err
	}
	for _, booking := range stale {
		if booking.User != nil && booking.Service != nil {
			go notifications.SendBookingStatusEmail(booking.User.Name, booking.User.Email, booking.Service.Title, "cancelled")
		}
		websocket.Notify([]uuid.UUID{booking.UserID, booking.ProviderID}, "booking:status", map[string]string{
			"id":     booking.ID.String(),
			"status": "cancelled",
		})
	}
	return len(stale), nil
}
