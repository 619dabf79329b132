package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is a music event record. Category references are stored as jsonb
// arrays of Category ids; referential integrity is checked in the handlers,
// not by the database.
type Event struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Title            string                      `gorm:"not null" json:"title"`
	ShortDescription string                      `json:"shortDescription"`
	LongDescription  string                      `json:"longDescription"`
	HeroImage        string                      `json:"heroImage"`
	Date             *time.Time                  `json:"date,omitempty"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	GenreIDs         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"genreIds"`
	SettingIDs       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"settingIds"`
	EventTypeIDs     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"eventTypeIds"`
	Continent        string                      `json:"continent"`
	Country          string                      `json:"country"`
	City             string                      `json:"city"`
	LocationName     string                      `json:"locationName"`
	Latitude         *float64                    `json:"latitude,omitempty"`
	Longitude        *float64                    `json:"longitude,omitempty"`
	Approved         bool                        `gorm:"not null;default:false" json:"approved"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
