package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event status constants
const (
	EventStatusScheduled = "SCHEDULED"
	EventStatusConfirmed = "CONFIRMED"
	EventStatusCancelled = "CANCELLED"
	EventStatusCompleted = "COMPLETED"
)

// DefaultEventColor is applied when a creation request carries no color
const DefaultEventColor = "#3b82f6"

// Event is a scheduled calendar item owned by exactly one user
type Event struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	StartDate   time.Time  `gorm:"index;not null" json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Location    *string    `json:"location"`
	IsAllDay    bool       `gorm:"not null;default:false" json:"isAllDay"`
	Color       string     `gorm:"not null;default:'#3b82f6'" json:"color"`
	Status      string     `gorm:"not null;default:'SCHEDULED';index" json:"status"`
	UserID      string     `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Owner summary, resolved by the service; not a mapped column.
	User *UserSummary `gorm:"-" json:"user,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventCreate carries the validated fields of an event creation request.
// Color and Status are already defaulted by the validation layer.
type EventCreate struct {
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     *time.Time
	Location    *string
	IsAllDay    bool
	Color       string
	Status      string
	UserID      string
}

// EventUpdate carries the validated fields of a partial event update.
// Nil pointers mean the field was absent from the request body. For the
// nullable fields (description, endDate, location) the paired Set flag
// distinguishes an explicit null (clear) from absence.
type EventUpdate struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	StartDate      *time.Time
	EndDate        *time.Time
	EndDateSet     bool
	Location       *string
	LocationSet    bool
	IsAllDay       *bool
	Color          *string
	Status         *string
}
