package models

import "time"

const ContributionFinancial = "Financial"

// EventSponsor records a sponsor's contribution to an event.
type EventSponsor struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	EventID          uint      `gorm:"not null;uniqueIndex:idx_event_sponsor" json:"event_id"`
	Event            *Event    `gorm:"constraint:OnDelete:CASCADE" json:"event,omitempty"`
	SponsorID        uint      `gorm:"not null;uniqueIndex:idx_event_sponsor;index" json:"sponsor_id"`
	Sponsor          *Sponsor  `gorm:"constraint:OnDelete:CASCADE" json:"sponsor,omitempty"`
	Amount           float64   `gorm:"not null;default:0" json:"amount"`
	ContributionType string    `gorm:"not null;default:Financial" json:"contribution_type"`
}
