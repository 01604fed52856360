package models

import (
	"time"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusCancelled = "Cancelled"

	AttendanceExpected = "Expected"
	AttendanceAttended = "Attended"
	AttendanceAbsent   = "Absent"
)

// RegistrationFields is the mutable part of a registration, snapshotted into
// the history on every change.
type RegistrationFields struct {
	Status     string `gorm:"not null" json:"status"`
	Attendance string `gorm:"not null" json:"attendance"`
}

type Registration struct {
	Base
	EventID            uint         `gorm:"not null;uniqueIndex:idx_event_participant" json:"event_id"`
	Event              *Event       `json:"event,omitempty"`
	ParticipantID      uint         `gorm:"not null;uniqueIndex:idx_event_participant;index" json:"participant_id"`
	Participant        *Participant `json:"participant,omitempty"`
	RegisteredAt       time.Time    `json:"registered_at"`
	RegistrationFields `gorm:"embedded"`
}

func ValidRegistrationStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

func ValidAttendance(s string) bool {
	switch s {
	case AttendanceExpected, AttendanceAttended, AttendanceAbsent:
		return true
	}
	return false
}
