package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ItemAvailable = "available"
	ItemPending   = "pending"
	ItemSold      = "sold"
)

var (
	ItemCategories = []string{"furniture", "electronics", "clothing", "sports", "home", "books", "vehicles", "other"}
	ItemConditions = []string{"new", "like_new", "good", "fair", "poor"}
	ItemStatuses   = []string{ItemAvailable, ItemPending, ItemSold}
)

type MarketplaceItem struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Title       string                      `gorm:"size:100;not null" json:"title"`
	Description string                      `gorm:"size:1000;not null" json:"description"`
	Price       float64                     `gorm:"not null" json:"price"`
	Category    string                      `gorm:"size:30;not null;index" json:"category"`
	Condition   string                      `gorm:"size:20;not null;default:'good'" json:"condition"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	SellerID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"sellerId"`
	Location    string                      `gorm:"size:255;not null" json:"location"`
	Address     Address                     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Status      string                      `gorm:"size:20;not null;default:'available';index" json:"status"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	ViewCount   int                         `gorm:"default:0" json:"viewCount"`
	IsActive    bool                        `gorm:"default:true;index" json:"isActive"`

	Seller *PublicUser `gorm:"foreignkey:SellerID" json:"seller,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *MarketplaceItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
