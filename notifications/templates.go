package notifications

import (
	"fmt"
	"html"
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
)

func frontendURL(path string) string {
	return config.ConfigDefault("FRONTEND_URL", "http://localhost:3000") + path
}

func SendWelcomeEmail(name, email string) error {
	body := fmt.Sprintf(
		"<h1>Welcome to Neighborhood Hub</h1><p>Hi %s,</p><p>Your account is ready. Find services, post to your neighbors and list items you no longer need.</p><p><a href='%s'>Open Neighborhood Hub</a></p>",
		html.EscapeString(name), frontendURL("/"),
	)
	return SendEmail(name, email, "Welcome to Neighborhood Hub", body)
}

func SendPasswordResetEmail(name, email, token string) error {
	body := fmt.Sprintf(
		"<h1>Password Reset</h1><p>Hi %s,</p><p>Use the link below to choose a new password. It expires in 15 minutes.</p><p><a href='%s'>Reset password</a></p><p>If you did not request this, ignore this email.</p>",
		html.EscapeString(name), frontendURL("/reset-password/"+token),
	)
	return SendEmail(name, email, "Reset your password", body)
}

func SendBookingRequestEmail(providerName, providerEmail, serviceTitle string, start time.Time) error {
	body := fmt.Sprintf(
		"<h1>New Booking Request</h1><p>Hi %s,</p><p>You have a new request for <b>%s</b> on %s.</p><p><a href='%s'>Review the request</a></p>",
		html.EscapeString(providerName), html.EscapeString(serviceTitle),
		start.UTC().Format("Mon Jan 2, 15:04 MST"), frontendURL("/bookings"),
	)
	return SendEmail(providerName, providerEmail, "New booking request", body)
}

func SendBookingStatusEmail(name, email, serviceTitle, status string) error {
	body := fmt.Sprintf(
		"<h1>Booking Update</h1><p>Hi %s,</p><p>Your booking for <b>%s</b> is now <b>%s</b>.</p><p><a href='%s'>View booking</a></p>",
		html.EscapeString(name), html.EscapeString(serviceTitle), html.EscapeString(status), frontendURL("/bookings"),
	)
	return SendEmail(name, email, "Booking "+status, body)
}

func SendBookingReminderEmail(name, email, serviceTitle, address string, start time.Time) error {
	body := fmt.Sprintf(
		"<h1>Booking Reminder</h1><p>Hi %s,</p><p><b>%s</b> starts in one hour at %s.</p><p><b>Address:</b> %s</p>",
		html.EscapeString(name), html.EscapeString(serviceTitle),
		start.UTC().Format(time.Kitchen+" MST"), html.EscapeString(address),
	)
	return SendEmail(name, email, "Reminder: your booking starts in 1 hour", body)
}
