package models

import "time"

const (
	ActionJoined    = "joined"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCancelled = "cancelled"
)

// RegistrationHistory is an append-only trail of registration changes. It has
// no foreign key to registrations so entries outlive cancelled rows.
type RegistrationHistory struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	RegistrationID     uint      `gorm:"index" json:"registration_id"`
	EventID            uint      `gorm:"index" json:"event_id"`
	ParticipantID      uint      `json:"participant_id"`
	Action             string    `gorm:"not null" json:"action"`
	ActorUserID        *uint     `json:"actor_user_id,omitempty"`
	RegistrationFields `gorm:"embedded"`
}
