package models

import "time"

// Base replaces gorm.Model: rows are hard-deleted, so there is no DeletedAt.
type Base struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Venue{},
		&Sponsor{},
		&Participant{},
		&Event{},
		&Registration{},
		&RegistrationHistory{},
		&EventSponsor{},
	}
}
