package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"serviceId"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	ProviderID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_booking_provider_window" json:"providerId"`
	BookingDateTime time.Time     `gorm:"not null;index:idx_booking_provider_window" json:"bookingDateTime"`
	EndDateTime     time.Time     `gorm:"not null" json:"endDateTime"`
	Duration        float64       `gorm:"not null;default:1" json:"duration"`
	TotalPrice      float64       `gorm:"not null" json:"totalPrice"`
	Address         string        `gorm:"size:255;not null" json:"address"`
	Message         string        `gorm:"size:500" json:"message"`
	Status          BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	UserRating     *int    `json:"userRating,omitempty"`
	UserReview     *string `gorm:"size:500" json:"userReview,omitempty"`
	ProviderRating *int    `json:"providerRating,omitempty"`
	ProviderReview *string `gorm:"size:500" json:"providerReview,omitempty"`

	Service  *Service `gorm:"foreignkey:ServiceID" json:"service,omitempty"`
	User     *User    `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Provider *User    `gorm:"foreignkey:ProviderID" json:"provider,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SetWindow normalizes the start to UTC seconds and derives the end instant.
func (b *Booking) SetWindow(start time.Time, durationHours float64) {
	b.BookingDateTime = start.UTC().Truncate(time.Second)
	b.Duration = durationHours
	b.EndDateTime = BookingEnd(b.BookingDateTime, durationHours)
}

func BookingEnd(start time.Time, durationHours float64) time.Time {
	return start.Add(time.Duration(durationHours * float64(time.Hour))).UTC().Truncate(time.Second)
}

func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.UserID == userID || b.ProviderID == userID
}
