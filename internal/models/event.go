package models

import "time"

const (
	EventPlanning  = "Planning"
	EventActive    = "Active"
	EventCompleted = "Completed"
	EventCancelled = "Cancelled"
)

type Event struct {
	Base
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	StartsAt    time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity"`
	Status      string     `gorm:"not null;default:Planning;index" json:"status"`
	CategoryID  uint       `gorm:"not null;index" json:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	VenueID     uint       `gorm:"not null;index" json:"venue_id"`
	Venue       *Venue     `json:"venue,omitempty"`
	CreatedByID *uint      `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"-"`
}

func ValidEventStatus(s string) bool {
	switch s {
	case EventPlanning, EventActive, EventCompleted, EventCancelled:
		return true
	}
	return false
}
