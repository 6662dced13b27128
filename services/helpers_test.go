package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:       id,
		Name:     "user " + id.String()[:8],
		Email:    fmt.Sprintf("%s@example.com", id.String()[:8]),
		Password: "not-a-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedService(t *testing.T, db *gorm.DB, provider *models.User, price float64, priceType string) *models.Service {
	t.Helper()
	service := &models.Service{
		Title:       "Leak repair",
		Description: "Kitchen and bathroom leaks",
		Category:    "plumbing",
		ProviderID:  provider.ID,
		Price:       price,
		PriceType:   priceType,
		IsActive:    true,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

// seedBooking inserts a booking directly in the given status, bypassing the
// lifecycle checks.
func seedBooking(t *testing.T, db *gorm.DB, service *models.Service, customer *models.User, start time.Time, hours float64, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{
		ServiceID:  service.ID,
		UserID:     customer.ID,
		ProviderID: service.ProviderID,
		TotalPrice: TotalPrice(service, hours),
		Address:    "12 Elm Street",
		Status:     status,
	}
	b.SetWindow(start, hours)
	require.NoError(t, db.Create(b).Error)
	return b
}
