package handlers

import (
	"context"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/models"
)

type SponsorHandler struct {
	base
}

func NewSponsorHandler(d Deps) *SponsorHandler {
	return &SponsorHandler{base: newBase(d, "sponsors")}
}

type SponsorBody struct {
	Name         string `json:"name,omitempty" maxLength:"150"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Website      string `json:"website,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Description  string `json:"description,omitempty"`
}

type SponsorInput struct {
	Body SponsorBody
}

type SponsorUpdateInput struct {
	ID   uint `path:"id"`
	Body SponsorBody
}

func (b SponsorBody) apply(s *models.Sponsor) {
	s.Name = strings.TrimSpace(b.Name)
	s.ContactEmail = models.NormalizeEmail(b.ContactEmail)
	s.ContactPhone = strings.TrimSpace(b.ContactPhone)
	s.Website = strings.TrimSpace(b.Website)
	s.Sector = strings.TrimSpace(b.Sector)
	s.Description = strings.TrimSpace(b.Description)
}

func (h *SponsorHandler) List(ctx context.Context, _ *struct{}) (*ListOutput[models.Sponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	var items []models.Sponsor
	if err := h.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "sponsor", err)
	}
	return list(items), nil
}

func (h *SponsorHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.Sponsor], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	s, err := findByID[models.Sponsor](ctx, h.base, "sponsor", input.ID)
	if err != nil {
		return nil, err
	}
	return item(*s), nil
}

func (h *SponsorHandler) Create(ctx context.Context, input *SponsorInput) (*CreatedOutput[models.Sponsor], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	var s models.Sponsor
	input.Body.apply(&s)
	if err := h.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, h.storeError(ctx, "create", "sponsor", err)
	}
	return created(h.entityMsg(ctx, "crud.created", "sponsor"), s.ID, s), nil
}

func (h *SponsorHandler) Update(ctx context.Context, input *SponsorUpdateInput) (*ItemOutput[models.Sponsor], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	s, err := findByID[models.Sponsor](ctx, h.base, "sponsor", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(s)
	if err := h.db.WithContext(ctx).Save(s).Error; err != nil {
		return nil, h.storeError(ctx, "update", "sponsor", err)
	}
	return item(*s), nil
}

func (h *SponsorHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := deleteByID[models.Sponsor](ctx, h.base, "sponsor", input.ID); err != nil {
		return nil, err
	}
	return message(h.entityMsg(ctx, "crud.deleted", "sponsor")), nil
}
