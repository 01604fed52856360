package registration

import (
	"errors"

	"github.com/gdg-garage/eventhub-api/internal/database"
)

var (
	ErrAlreadyRegistered    = errors.New("participant is already registered for this event")
	ErrCallerNotFound       = errors.New("caller not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrForbidden            = errors.New("not allowed to manage this registration")
	ErrInvalidStatus        = errors.New("invalid registration status")
	ErrInvalidAttendance    = errors.New("invalid attendance")

	// ErrSchemaMismatch means the store is missing a table or column the
	// workflow writes to.
	ErrSchemaMismatch = database.ErrSchemaMismatch
)
