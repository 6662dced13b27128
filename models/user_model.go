package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleResident        = "resident"
	RoleServiceProvider = "service_provider"
	RoleAdmin           = "admin"
)

type Address struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zipCode"`
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'service_provider'" json:"role"`

	Phone   string                     `gorm:"size:30" json:"phone"`
	Avatar  string                     `gorm:"size:255" json:"avatar"`
	Bio     string                     `gorm:"size:500" json:"bio"`
	Address Address                    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Skills  datatypes.JSONSlice[string] `json:"skills"`

	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount"`
	IsVerified  bool    `gorm:"default:false" json:"isVerified"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleServiceProvider
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the view of an account other users may see. It reads the
// users table but carries no contact or account-state fields.
type PublicUser struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Name        string                      `json:"name"`
	Role        string                      `json:"role"`
	Avatar      string                      `json:"avatar"`
	Bio         string                      `json:"bio"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	Rating      float64                     `json:"rating"`
	ReviewCount int                         `json:"reviewCount"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func (PublicUser) TableName() string {
	return "users"
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Skills:      u.Skills,
		Rating:      u.Rating,
		ReviewCount: u.ReviewCount,
		CreatedAt:   u.CreatedAt,
	}
}
