package models

import "time"

// Participant is someone who can be registered for events. Participants are
// keyed by email; UserID links the account that provisioned or claimed it.
type Participant struct {
	Base
	FullName  string     `gorm:"not null" json:"full_name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `json:"gender"`
	City      string     `json:"city"`
	UserID    *uint      `gorm:"index" json:"user_id,omitempty"`
	User      *User      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
