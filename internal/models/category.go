package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryTypeGenre     = "genre"
	CategoryTypeSetting   = "setting"
	CategoryTypeEventType = "eventType"
)

// Category is a reusable tag of one of three kinds. Name is unique within a
// type (checked in the handler) and the type is fixed at creation.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"not null;index" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (category *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return
}
