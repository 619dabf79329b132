package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is a user-submitted inquiry. It is written from the public
// site and read from the admin side; there is no update or delete lifecycle.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (message *ContactMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	return
}
