// Package registration implements joining events and the registration
// lifecycle around it.
package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/auth"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/models"
	"github.com/gdg-garage/eventhub-api/internal/notifier"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const notifyTimeout = 5 * time.Second

type Service struct {
	db       *gorm.DB
	log      logging.Logger
	notifier notifier.Notifier
	now      func() time.Time
}

// NewService wires the workflow. n may be nil.
func NewService(db *gorm.DB, log logging.Logger, n notifier.Notifier) *Service {
	return &Service{
		db:       db,
		log:      log.With("component", "registration"),
		notifier: n,
		now:      time.Now,
	}
}

type JoinOptions struct {
	// ParticipantID registers someone other than the caller. Admins only.
	ParticipantID uint
	// Status defaults to Approved.
	Status string
}

// Join registers a participant for an event exactly once. Without an explicit
// participant the caller's own participant record is used, and created from
// the caller's account on first use. Everything happens in one transaction.
func (s *Service) Join(ctx context.Context, caller auth.Identity, eventID uint, opts JoinOptions) (*models.Registration, error) {
	if caller.UserID == 0 {
		return nil, ErrCallerNotFound
	}
	if opts.ParticipantID != 0 && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	status := opts.Status
	if status == "" {
		status = models.StatusApproved
	}
	if !models.ValidRegistrationStatus(status) {
		return nil, ErrInvalidStatus
	}

	action := models.ActionJoined
	if opts.ParticipantID != 0 {
		action = models.ActionCreated
	}

	var (
		event       models.Event
		participant models.Participant
		reg         models.Registration
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, eventID).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrEventNotFound
			}
			return err
		}

		var err error
		participant, err = s.resolveParticipant(tx, caller, opts.ParticipantID)
		if err != nil {
			return err
		}

		// The unique index is the real guard; this only gives the common case a clean answer.
		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND participant_id = ?", event.ID, participant.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		reg = models.Registration{
			EventID:       event.ID,
			ParticipantID: participant.ID,
			RegisteredAt:  s.now(),
			RegistrationFields: models.RegistrationFields{
				Status:     status,
				Attendance: models.AttendanceExpected,
			},
		}
		if err := tx.Create(&reg).Error; err != nil {
			if errors.Is(database.Classify(err), database.ErrDuplicate) {
				return ErrAlreadyRegistered
			}
			return err
		}

		return appendHistory(tx, reg, action, caller.UserID)
	})
	if err != nil {
		err = database.Classify(err)
		if errors.Is(err, ErrSchemaMismatch) {
			s.log.Error(ctx, "join failed on schema mismatch", "event_id", eventID, "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "registration created",
		"registration_id", reg.ID, "event_id", event.ID, "participant_id", participant.ID, "action", action)
	s.notify(ctx, action, event, participant, reg)

	reg.Event = &event
	reg.Participant = &participant
	return &reg, nil
}

func (s *Service) resolveParticipant(tx *gorm.DB, caller auth.Identity, participantID uint) (models.Participant, error) {
	var p models.Participant

	if participantID != 0 {
		if err := tx.First(&p, participantID).Error; err != nil {
			if database.IsNotFound(err) {
				return p, ErrParticipantNotFound
			}
			return p, err
		}
		return p, nil
	}

	var user models.User
	if err := tx.First(&user, caller.UserID).Error; err != nil {
		if database.IsNotFound(err) {
			return p, ErrCallerNotFound
		}
		return p, err
	}
	email := models.NormalizeEmail(user.Email)

	err := tx.Where("email = ?", email).First(&p).Error
	switch {
	case err == nil:
		if p.UserID == nil {
			if err := tx.Model(&p).Update("user_id", user.ID).Error; err != nil {
				return p, err
			}
			p.UserID = &user.ID
		}
		return p, nil
	case !database.IsNotFound(err):
		return p, err
	}

	userID := user.ID
	p = models.Participant{FullName: user.FullName(), Email: email, UserID: &userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&p).Error; err != nil {
		return p, err
	}
	if p.ID == 0 {
		// Someone else provisioned the same email first.
		if err := tx.Where("email = ?", email).First(&p).Error; err != nil {
			return p, err
		}
	}
	return p, nil
}

// Cancel deletes a registration. Admins may cancel any registration, other
// callers only their own.
func (s *Service) Cancel(ctx context.Context, caller auth.Identity, registrationID uint) error {
	var reg models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Participant").Preload("Event").First(&reg, registrationID).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if !caller.IsAdmin() && !owns(caller, reg.Participant) {
			return ErrForbidden
		}

		if err := tx.Delete(&models.Registration{}, reg.ID).Error; err != nil {
			return err
		}

		cancelled := reg
		cancelled.Status = models.StatusCancelled
		return appendHistory(tx, cancelled, models.ActionCancelled, caller.UserID)
	})
	if err != nil {
		return database.Classify(err)
	}

	s.log.Info(ctx, "registration cancelled", "registration_id", reg.ID, "event_id", reg.EventID, "by", caller.UserID)

	var (
		event       models.Event
		participant models.Participant
	)
	if reg.Event != nil {
		event = *reg.Event
	}
	if reg.Participant != nil {
		participant = *reg.Participant
	}
	s.notify(ctx, models.ActionCancelled, event, participant, reg)
	return nil
}

func owns(caller auth.Identity, p *models.Participant) bool {
	if p == nil {
		return false
	}
	if p.UserID != nil && *p.UserID == caller.UserID {
		return true
	}
	return caller.Email != "" && strings.EqualFold(strings.TrimSpace(p.Email), strings.TrimSpace(caller.Email))
}

type UpdateInput struct {
	EventID       uint
	ParticipantID uint
	Status        string
	Attendance    string
}

// Update changes a registration. Zero fields are left untouched.
func (s *Service) Update(ctx context.Context, caller auth.Identity, registrationID uint, in UpdateInput) (*models.Registration, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if in.Status != "" && !models.ValidRegistrationStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.Attendance != "" && !models.ValidAttendance(in.Attendance) {
		return nil, ErrInvalidAttendance
	}

	var reg models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if in.EventID != 0 && in.EventID != reg.EventID {
			var n int64
			if err := tx.Model(&models.Event{}).Where("id = ?", in.EventID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrEventNotFound
			}
			reg.EventID = in.EventID
		}
		if in.ParticipantID != 0 && in.ParticipantID != reg.ParticipantID {
			var n int64
			if err := tx.Model(&models.Participant{}).Where("id = ?", in.ParticipantID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrParticipantNotFound
			}
			reg.ParticipantID = in.ParticipantID
		}
		if in.Status != "" {
			reg.Status = in.Status
		}
		if in.Attendance != "" {
			reg.Attendance = in.Attendance
		}

		if err := tx.Omit(clause.Associations).Save(&reg).Error; err != nil {
			if errors.Is(database.Classify(err), database.ErrDuplicate) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return appendHistory(tx, reg, models.ActionUpdated, caller.UserID)
	})
	if err != nil {
		return nil, database.Classify(err)
	}

	s.log.Info(ctx, "registration updated", "registration_id", reg.ID, "status", reg.Status, "attendance", reg.Attendance)
	return &reg, nil
}

// History returns the trail of a registration, newest first. The trail of a
// cancelled registration is still available.
func (s *Service) History(ctx context.Context, registrationID uint) ([]models.RegistrationHistory, error) {
	var entries []models.RegistrationHistory
	err := s.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return entries, nil
}

func appendHistory(tx *gorm.DB, reg models.Registration, action string, actorID uint) error {
	entry := models.RegistrationHistory{
		RegistrationID:     reg.ID,
		EventID:            reg.EventID,
		ParticipantID:      reg.ParticipantID,
		Action:             action,
		RegistrationFields: reg.RegistrationFields,
	}
	if actorID != 0 {
		entry.ActorUserID = &actorID
	}
	return tx.Create(&entry).Error
}

func (s *Service) notify(ctx context.Context, action string, event models.Event, p models.Participant, reg models.Registration) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := s.notifier.NotifyRegistration(ctx, notifier.Registration{
		Action:       action,
		Event:        event,
		Participant:  p,
		Registration: reg,
	})
	if err != nil {
		s.log.Warn(ctx, "registration notification failed", "registration_id", reg.ID, "error", err)
	}
}
