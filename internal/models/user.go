package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the owning account entity for events
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Events []Event `gorm:"constraint:OnDelete:CASCADE;" json:"events,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the public slice of a user embedded in event responses.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

// UserCreate carries the validated fields of a user creation request
type UserCreate struct {
	Email string
	Name  *string
}

// UserUpdate carries the validated fields of a partial user update.
// Nil pointers mean the field was absent from the request body; NameSet
// distinguishes an explicit null (clear) from absence for the nullable name.
type UserUpdate struct {
	Email   *string
	Name    *string
	NameSet bool
}
