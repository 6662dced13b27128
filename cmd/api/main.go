package main

import (
	"log"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/jobs"
	"github.com/anjiri1684/neighborhood_hub/notifications"
	"github.com/anjiri1684/neighborhood_hub/routes"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/robfig/cron/v3"
)

func main() {
	if config.Config("JWT_SECRET") == "" {
		log.Fatal("🔥 JWT_SECRET must be set")
	}

	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()
	services.InitMediaService()

	c := cron.New()
	if _, err := c.AddFunc("*/5 * * * *", jobs.SendBookingReminders); err != nil {
		log.Fatalf("🔥 Failed to schedule booking reminders: %v", err)
	}
	if _, err := c.AddFunc("*/15 * * * *", jobs.ExpireUnansweredBookings); err != nil {
		log.Fatalf("🔥 Failed to schedule booking expiry: %v", err)
	}
	if _, err := c.AddFunc("@daily", jobs.ReconcileRatings); err != nil {
		log.Fatalf("🔥 Failed to schedule rating reconciliation: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := routes.NewApp()

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
