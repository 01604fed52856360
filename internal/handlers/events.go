package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventHandler struct {
	base
}

func NewEventHandler(d Deps) *EventHandler {
	return &EventHandler{base: newBase(d, "events")}
}

type EventBody struct {
	Name        string     `json:"name,omitempty" maxLength:"200"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity,omitempty" minimum:"0"`
	Status      string     `json:"status,omitempty" enum:"Planning,Active,Completed,Cancelled"`
	CategoryID  uint       `json:"category_id,omitempty"`
	VenueID     uint       `json:"venue_id,omitempty"`
}

type EventInput struct {
	Body EventBody
}

type EventUpdateInput struct {
	ID   uint `path:"id"`
	Body EventBody
}

type EventListInput struct {
	Status     string `query:"status" doc:"Only events with this status"`
	CategoryID uint   `query:"category_id"`
	VenueID    uint   `query:"venue_id"`
}

func (h *EventHandler) validate(ctx context.Context, b EventBody) error {
	var missing []string
	if blank(b.Name) {
		missing = append(missing, "name")
	}
	if b.StartsAt == nil || b.StartsAt.IsZero() {
		missing = append(missing, "starts_at")
	}
	if b.CategoryID == 0 {
		missing = append(missing, "category_id")
	}
	if b.VenueID == 0 {
		missing = append(missing, "venue_id")
	}
	if len(missing) > 0 {
		return h.required(ctx, missing...)
	}

	if b.EndsAt != nil && b.EndsAt.Before(*b.StartsAt) {
		return h.fail(ctx, http.StatusBadRequest, "event.invalid_dates", nil)
	}
	if b.Status != "" && !models.ValidEventStatus(b.Status) {
		return h.fail(ctx, http.StatusBadRequest, "event.invalid_status", nil)
	}
	return nil
}

func (b EventBody) apply(e *models.Event) {
	e.Name = strings.TrimSpace(b.Name)
	e.Description = strings.TrimSpace(b.Description)
	e.StartsAt = *b.StartsAt
	e.EndsAt = b.EndsAt
	e.Capacity = b.Capacity
	e.CategoryID = b.CategoryID
	e.VenueID = b.VenueID
	if b.Status != "" {
		e.Status = b.Status
	} else if e.Status == "" {
		e.Status = models.EventPlanning
	}
}

func (h *EventHandler) List(ctx context.Context, input *EventListInput) (*ListOutput[models.Event], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	q := h.db.WithContext(ctx).Preload("Category").Preload("Venue").Order("starts_at")
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}
	if input.CategoryID != 0 {
		q = q.Where("category_id = ?", input.CategoryID)
	}
	if input.VenueID != 0 {
		q = q.Where("venue_id = ?", input.VenueID)
	}

	var items []models.Event
	if err := q.Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "event", err)
	}
	return list(items), nil
}

func (h *EventHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.Event], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	e, err := findByID[models.Event](ctx, h.base, "event", input.ID, "Category", "Venue")
	if err != nil {
		return nil, err
	}
	return item(*e), nil
}

func (h *EventHandler) Create(ctx context.Context, input *EventInput) (*CreatedOutput[models.Event], error) {
	caller, err := h.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate(ctx, input.Body); err != nil {
		return nil, err
	}

	var e models.Event
	input.Body.apply(&e)
	e.CreatedByID = &caller.UserID
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(&e).Error; err != nil {
		return nil, h.storeError(ctx, "create", "event", err)
	}

	h.log.Info(ctx, "event created", "event_id", e.ID, "by", caller.UserID)
	return created(h.entityMsg(ctx, "crud.created", "event"), e.ID, e), nil
}

func (h *EventHandler) Update(ctx context.Context, input *EventUpdateInput) (*ItemOutput[models.Event], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.validate(ctx, input.Body); err != nil {
		return nil, err
	}

	e, err := findByID[models.Event](ctx, h.base, "event", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(e)
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error; err != nil {
		return nil, h.storeError(ctx, "update", "event", err)
	}
	return item(*e), nil
}

// Delete refuses to remove events that still have registrations. Sponsor
// links go with the event.
func (h *EventHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}

	var registrations int64
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Event
		if err := tx.First(&e, input.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Registration{}).Where("event_id = ?", e.ID).Count(&registrations).Error; err != nil {
			return err
		}
		if registrations > 0 {
			return nil
		}
		return tx.Delete(&e).Error
	})
	if err != nil {
		return nil, h.storeError(ctx, "delete", "event", err)
	}
	if registrations > 0 {
		return nil, h.fail(ctx, http.StatusBadRequest, "event.has_registrations", map[string]any{"Count": registrations})
	}
	return message(h.entityMsg(ctx, "crud.deleted", "event")), nil
}
