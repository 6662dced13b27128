package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PriceTypeFixed      = "fixed"
	PriceTypeHourly     = "hourly"
	PriceTypeNegotiable = "negotiable"
)

var ServiceCategories = []string{
	"plumbing", "electrical", "cleaning", "tutoring", "gardening", "carpentry",
	"painting", "moving", "pet_care", "beauty", "fitness", "other",
}

type Service struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Title        string                      `gorm:"size:100;not null" json:"title"`
	Description  string                      `gorm:"size:1000;not null" json:"description"`
	Category     string                      `gorm:"size:30;not null;index" json:"category"`
	ProviderID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"providerId"`
	Price        float64                     `gorm:"not null" json:"price"`
	PriceType    string                      `gorm:"size:20;not null;default:'fixed'" json:"priceType"`
	Availability string                      `gorm:"size:255;default:'Flexible'" json:"availability"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Rating       float64                     `gorm:"default:0" json:"rating"`
	ReviewCount  int                         `gorm:"default:0" json:"reviewCount"`
	IsActive     bool                        `gorm:"default:true;index" json:"isActive"`

	Provider *PublicUser     `gorm:"foreignkey:ProviderID" json:"provider,omitempty"`
	Reviews  []ServiceReview `gorm:"foreignkey:ServiceID" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ServiceReview is a review written directly against a listing, independent
// of the per-booking rating that feeds the provider aggregate.
type ServiceReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_review_author" json:"serviceId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_review_author" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:500" json:"comment"`

	User *PublicUser `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *ServiceReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
