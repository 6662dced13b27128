package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var PostTypes = []string{"general", "event", "alert", "question"}

type Post struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Content   string     `gorm:"size:1000;not null" json:"content"`
	Image     string     `gorm:"size:255" json:"image"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"authorId"`
	Type      string     `gorm:"size:20;not null;default:'general';index" json:"type"`
	EventDate *time.Time `json:"eventDate,omitempty"`
	Location  string     `gorm:"size:255" json:"location"`
	IsActive  bool       `gorm:"default:true;index" json:"isActive"`

	Author   *PublicUser   `gorm:"foreignkey:AuthorID" json:"author,omitempty"`
	Likes    []PostLike    `gorm:"foreignkey:PostID" json:"likes"`
	Comments []PostComment `gorm:"foreignkey:PostID" json:"comments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostLike is keyed by (post, user) so a user can like a post at most once.
type PostLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"postId"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostComment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PostID uuid.UUID `gorm:"type:uuid;not null;index" json:"postId"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Text   string    `gorm:"size:500;not null" json:"text"`

	User *PublicUser `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *PostComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
