package handlers

import (
	"context"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/models"
)

type VenueHandler struct {
	base
}

func NewVenueHandler(d Deps) *VenueHandler {
	return &VenueHandler{base: newBase(d, "venues")}
}

type VenueBody struct {
	Name     string `json:"name,omitempty" maxLength:"150"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Capacity int    `json:"capacity,omitempty" minimum:"0"`
	Phone    string `json:"phone,omitempty"`
}

type VenueInput struct {
	Body VenueBody
}

type VenueUpdateInput struct {
	ID   uint `path:"id"`
	Body VenueBody
}

func (b VenueBody) apply(v *models.Venue) {
	v.Name = strings.TrimSpace(b.Name)
	v.Address = strings.TrimSpace(b.Address)
	v.City = strings.TrimSpace(b.City)
	v.Capacity = b.Capacity
	v.Phone = strings.TrimSpace(b.Phone)
}

type VenueListInput struct {
	City string `query:"city" doc:"Only venues in this city"`
}

func (h *VenueHandler) List(ctx context.Context, input *VenueListInput) (*ListOutput[models.Venue], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	q := h.db.WithContext(ctx).Order("name")
	if city := strings.TrimSpace(input.City); city != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	var items []models.Venue
	if err := q.Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "venue", err)
	}
	return list(items), nil
}

func (h *VenueHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.Venue], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	v, err := findByID[models.Venue](ctx, h.base, "venue", input.ID)
	if err != nil {
		return nil, err
	}
	return item(*v), nil
}

func (h *VenueHandler) Create(ctx context.Context, input *VenueInput) (*CreatedOutput[models.Venue], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	var v models.Venue
	input.Body.apply(&v)
	if err := h.db.WithContext(ctx).Create(&v).Error; err != nil {
		return nil, h.storeError(ctx, "create", "venue", err)
	}
	return created(h.entityMsg(ctx, "crud.created", "venue"), v.ID, v), nil
}

func (h *VenueHandler) Update(ctx context.Context, input *VenueUpdateInput) (*ItemOutput[models.Venue], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	v, err := findByID[models.Venue](ctx, h.base, "venue", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(v)
	if err := h.db.WithContext(ctx).Save(v).Error; err != nil {
		return nil, h.storeError(ctx, "update", "venue", err)
	}
	return item(*v), nil
}

func (h *VenueHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := deleteByID[models.Venue](ctx, h.base, "venue", input.ID); err != nil {
		return nil, err
	}
	return message(h.entityMsg(ctx, "crud.deleted", "venue")), nil
}
