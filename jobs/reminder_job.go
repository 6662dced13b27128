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

var timeNow = time.Now

// SendBookingReminders runs every five minutes, so each confirmed booking
// falls into exactly one 60-65 minute window.
func SendBookingReminders() {
	log.Println("Running job: SendBookingReminders...")
	sent, err := sendBookingReminders(database.DB, timeNow())
	metrics.RecordJobRun("booking_reminders", err == nil)
	if err != nil {
		log.Printf("Error checking for upcoming bookings: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("Sent reminders for %d bookings", sent)
	}
}

func sendBookingReminders(db *gorm.DB, now time.Time) (int, error) {
	upcoming, err := services.UpcomingConfirmedBookings(db, now.Add(60*time.Minute), now.Add(65*time.Minute))
	if err != nil {
		return 0, err
	}

	for _, booking := range upcoming {
		title := ""
		if booking.Service != nil {
			title = booking.Service.Title
		}
		if booking.User != nil {
			go notifications.SendBookingReminderEmail(booking.User.Name, booking.User.Email, title, booking.Address, booking.BookingDateTime)
		}
		if booking.Provider != nil {
			go notifications.SendBookingReminderEmail(booking.Provider.Name, booking.Provider.Email, title, booking.Address, booking.BookingDateTime)
		}
		websocket.Notify([]uuid.UUID{booking.UserID, booking.ProviderID}, "booking:reminder", booking)
	}
	return len(upcoming), nil
}
