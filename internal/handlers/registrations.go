package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/models"
	"github.com/gdg-garage/eventhub-api/internal/registration"
)

// RegistrationHandler exposes the registration workflow. Every write goes
// through registration.Service.
type RegistrationHandler struct {
	base
	svc *registration.Service
}

func NewRegistrationHandler(d Deps, svc *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{base: newBase(d, "registrations"), svc: svc}
}

// RegistrationView is a registration flattened with the names the list pages show.
type RegistrationView struct {
	ID               uint      `json:"id"`
	EventID          uint      `json:"event_id"`
	EventName        string    `json:"event_name"`
	ParticipantID    uint      `json:"participant_id"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantEmail string    `json:"participant_email"`
	Status           string    `json:"status"`
	Attendance       string    `json:"attendance"`
	RegisteredAt     time.Time `json:"registered_at"`
}

func viewOf(r models.Registration) RegistrationView {
	v := RegistrationView{
		ID:            r.ID,
		EventID:       r.EventID,
		ParticipantID: r.ParticipantID,
		Status:        r.Status,
		Attendance:    r.Attendance,
		RegisteredAt:  r.RegisteredAt,
	}
	if r.Event != nil {
		v.EventName = r.Event.Name
	}
	if r.Participant != nil {
		v.ParticipantName = r.Participant.FullName
		v.ParticipantEmail = r.Participant.Email
	}
	return v
}

type JoinBody struct {
	ParticipantID uint `json:"participant_id,omitempty" doc:"Register someone else (admin only)"`
}

type JoinInput struct {
	ID   uint      `path:"id" doc:"Event id"`
	Body *JoinBody `required:"false"`
}

type JoinOutput struct {
	Body struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    RegistrationView `json:"data"`
	}
}

// Join registers the caller for an event.
func (h *RegistrationHandler) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	caller, err := h.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var opts registration.JoinOptions
	if input.Body != nil {
		opts.ParticipantID = input.Body.ParticipantID
	}

	reg, err := h.svc.Join(ctx, caller, input.ID, opts)
	if err != nil {
		return nil, h.workflowError(ctx, "join", err)
	}

	out := &JoinOutput{}
	out.Body.Success = true
	out.Body.Message = h.t(ctx, "registration.joined", nil)
	out.Body.Data = viewOf(*reg)
	return out, nil
}

type RegistrationListInput struct {
	EventID       uint   `query:"event_id"`
	ParticipantID uint   `query:"participant_id"`
	Status        string `query:"status"`
}

func (h *RegistrationHandler) List(ctx context.Context, input *RegistrationListInput) (*ListOutput[RegistrationView], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Preload("Event").Preload("Participant").Order("registered_at DESC, id DESC")
	if input.EventID != 0 {
		q = q.Where("event_id = ?", input.EventID)
	}
	if input.ParticipantID != 0 {
		q = q.Where("participant_id = ?", input.ParticipantID)
	}
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}

	var regs []models.Registration
	if err := q.Find(&regs).Error; err != nil {
		return nil, h.storeError(ctx, "list", "registration", err)
	}
	views := make([]RegistrationView, 0, len(regs))
	for _, r := range regs {
		views = append(views, viewOf(r))
	}
	return list(views), nil
}

func (h *RegistrationHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[RegistrationView], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	r, err := findByID[models.Registration](ctx, h.base, "registration", input.ID, "Event", "Participant")
	if err != nil {
		return nil, err
	}
	return item(viewOf(*r)), nil
}

type RegistrationCreateInput struct {
	Body struct {
		EventID       uint   `json:"event_id,omitempty"`
		ParticipantID uint   `json:"participant_id,omitempty"`
		Status        string `json:"status,omitempty" doc:"Defaults to Pending"`
	}
}

// Create is the admin entry point of the join workflow.
func (h *RegistrationHandler) Create(ctx context.Context, input *RegistrationCreateInput) (*CreatedOutput[RegistrationView], error) {
	caller, err := h.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	if input.Body.EventID == 0 {
		missing = append(missing, "event_id")
	}
	if input.Body.ParticipantID == 0 {
		missing = append(missing, "participant_id")
	}
	if len(missing) > 0 {
		return nil, h.required(ctx, missing...)
	}

	status := input.Body.Status
	if status == "" {
		status = models.StatusPending
	}
	reg, err := h.svc.Join(ctx, caller, input.Body.EventID, registration.JoinOptions{
		ParticipantID: input.Body.ParticipantID,
		Status:        status,
	})
	if err != nil {
		return nil, h.workflowError(ctx, "create", err)
	}
	return created(h.t(ctx, "registration.created", nil), reg.ID, viewOf(*reg)), nil
}

type RegistrationUpdateInput struct {
	ID   uint `path:"id"`
	Body struct {
		EventID       uint   `json:"event_id,omitempty"`
		ParticipantID uint   `json:"participant_id,omitempty"`
		Status        string `json:"status,omitempty"`
		Attendance    string `json:"attendance,omitempty"`
	}
}

func (h *RegistrationHandler) Update(ctx context.Context, input *RegistrationUpdateInput) (*ItemOutput[RegistrationView], error) {
	caller, err := h.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := h.svc.Update(ctx, caller, input.ID, registration.UpdateInput{
		EventID:       input.Body.EventID,
		ParticipantID: input.Body.ParticipantID,
		Status:        input.Body.Status,
		Attendance:    input.Body.Attendance,
	})
	if err != nil {
		return nil, h.workflowError(ctx, "update", err)
	}
	return item(viewOf(*reg)), nil
}

// Delete cancels a registration. Callers may cancel their own.
func (h *RegistrationHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	caller, err := h.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Cancel(ctx, caller, input.ID); err != nil {
		return nil, h.workflowError(ctx, "cancel", err)
	}
	return message(h.t(ctx, "registration.cancelled", nil)), nil
}

func (h *RegistrationHandler) History(ctx context.Context, input *IDInput) (*ListOutput[models.RegistrationHistory], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	entries, err := h.svc.History(ctx, input.ID)
	if err != nil {
		return nil, h.storeError(ctx, "history", "registration", err)
	}
	return list(entries), nil
}

func (h *RegistrationHandler) workflowError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return h.fail(ctx, http.StatusBadRequest, "registration.already_registered", nil)
	case errors.Is(err, registration.ErrCallerNotFound):
		return h.fail(ctx, http.StatusNotFound, "registration.caller_not_found", nil)
	case errors.Is(err, registration.ErrEventNotFound):
		return h.notFound(ctx, "event")
	case errors.Is(err, registration.ErrParticipantNotFound):
		return h.notFound(ctx, "participant")
	case errors.Is(err, registration.ErrRegistrationNotFound):
		return h.notFound(ctx, "registration")
	case errors.Is(err, registration.ErrForbidden):
		return h.fail(ctx, http.StatusForbidden, "registration.forbidden", nil)
	case errors.Is(err, registration.ErrInvalidStatus):
		return h.fail(ctx, http.StatusBadRequest, "registration.invalid_status", nil)
	case errors.Is(err, registration.ErrInvalidAttendance):
		return h.fail(ctx, http.StatusBadRequest, "registration.invalid_attendance", nil)
	}
	return h.storeError(ctx, op, "registration", err)
}

