package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/models"
	"gorm.io/gorm/clause"
)

type EventSponsorHandler struct {
	base
}

func NewEventSponsorHandler(d Deps) *EventSponsorHandler {
	return &EventSponsorHandler{base: newBase(d, "event_sponsors")}
}

type EventSponsorBody struct {
	EventID          uint    `json:"event_id,omitempty"`
	SponsorID        uint    `json:"sponsor_id,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	ContributionType string  `json:"contribution_type,omitempty" doc:"Defaults to Financial"`
}

type EventSponsorInput struct {
	Body EventSponsorBody
}

type EventSponsorUpdateInput struct {
	ID   uint `path:"id"`
	Body EventSponsorBody
}

func (h *EventSponsorHandler) validate(ctx context.Context, b EventSponsorBody) error {
	var missing []string
	if b.EventID == 0 {
		missing = append(missing, "event_id")
	}
	if b.SponsorID == 0 {
		missing = append(missing, "sponsor_id")
	}
	if len(missing) > 0 {
		return h.required(ctx, missing...)
	}
	if b.Amount < 0 {
		return h.fail(ctx, http.StatusBadRequest, "event_sponsor.invalid_amount", nil)
	}
	return nil
}

func (b EventSponsorBody) apply(es *models.EventSponsor) {
	es.EventID = b.EventID
	es.SponsorID = b.SponsorID
	es.Amount = b.Amount
	es.ContributionType = strings.TrimSpace(b.ContributionType)
	if es.ContributionType == "" {
		es.ContributionType = models.ContributionFinancial
	}
}

func (h *EventSponsorHandler) find(ctx context.Context, where string, args ...any) (*ListOutput[models.EventSponsor], error) {
	q := h.db.WithContext(ctx).Preload("Event").Preload("Sponsor").Order("id")
	if where != "" {
		q = q.Where(where, args...)
	}
	var items []models.EventSponsor
	if err := q.Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "event_sponsor", err)
	}
	return list(items), nil
}

func (h *EventSponsorHandler) List(ctx context.Context, _ *struct{}) (*ListOutput[models.EventSponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	return h.find(ctx, "")
}

func (h *EventSponsorHandler) ByEvent(ctx context.Context, input *IDInput) (*ListOutput[models.EventSponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	return h.find(ctx, "event_id = ?", input.ID)
}

func (h *EventSponsorHandler) BySponsor(ctx context.Context, input *IDInput) (*ListOutput[models.EventSponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	return h.find(ctx, "sponsor_id = ?", input.ID)
}

func (h *EventSponsorHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.EventSponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	es, err := findByID[models.EventSponsor](ctx, h.base, "event_sponsor", input.ID, "Event", "Sponsor")
	if err != nil {
		return nil, err
	}
	return item(*es), nil
}

func (h *EventSponsorHandler) Create(ctx context.Context, input *EventSponsorInput) (*CreatedOutput[models.EventSponsor], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.validate(ctx, input.Body); err != nil {
		return nil, err
	}

	var es models.EventSponsor
	input.Body.apply(&es)
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(&es).Error; err != nil {
		return nil, h.storeError(ctx, "create", "event_sponsor", err)
	}
	return created(h.entityMsg(ctx, "crud.created", "event_sponsor"), es.ID, es), nil
}

func (h *EventSponsorHandler) Update(ctx context.Context, input *EventSponsorUpdateInput) (*ItemOutput[models.EventSponsor], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.validate(ctx, input.Body); err != nil {
		return nil, err
	}

	es, err := findByID[models.EventSponsor](ctx, h.base, "event_sponsor", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(es)
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Save(es).Error; err != nil {
		return nil, h.storeError(ctx, "update", "event_sponsor", err)
	}
	return item(*es), nil
}

func (h *EventSponsorHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := deleteByID[models.EventSponsor](ctx, h.base, "event_sponsor", input.ID); err != nil {
		return nil, err
	}
	return message(h.entityMsg(ctx, "crud.deleted", "event_sponsor")), nil
}
