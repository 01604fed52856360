package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/models"
)

type ParticipantHandler struct {
	base
}

func NewParticipantHandler(d Deps) *ParticipantHandler {
	return &ParticipantHandler{base: newBase(d, "participants")}
}

type ParticipantBody struct {
	FullName  string `json:"full_name,omitempty" maxLength:"150"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date,omitempty" doc:"YYYY-MM-DD"`
	Gender    string `json:"gender,omitempty"`
	City      string `json:"city,omitempty"`
}

type ParticipantInput struct {
	Body ParticipantBody
}

type ParticipantUpdateInput struct {
	ID   uint `path:"id"`
	Body ParticipantBody
}

func (h *ParticipantHandler) validate(ctx context.Context, b ParticipantBody) (*time.Time, error) {
	var missing []string
	if blank(b.FullName) {
		missing = append(missing, "full_name")
	}
	if blank(b.Email) {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, h.required(ctx, missing...)
	}

	if blank(b.BirthDate) {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(b.BirthDate))
	if err != nil {
		return nil, h.fail(ctx, http.StatusBadRequest, "participant.invalid_birth_date", nil)
	}
	return &d, nil
}

func (b ParticipantBody) apply(p *models.Participant, birth *time.Time) {
	p.FullName = strings.TrimSpace(b.FullName)
	p.Email = models.NormalizeEmail(b.Email)
	p.Phone = strings.TrimSpace(b.Phone)
	p.BirthDate = birth
	p.Gender = strings.TrimSpace(b.Gender)
	p.City = strings.TrimSpace(b.City)
}

type ParticipantListInput struct {
	Search string `query:"q" doc:"Filter by name or email"`
}

func (h *ParticipantHandler) List(ctx context.Context, input *ParticipantListInput) (*ListOutput[models.Participant], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	q := h.db.WithContext(ctx).Order("full_name")
	if s := strings.ToLower(strings.TrimSpace(input.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR email LIKE ?", like, like)
	}
	var items []models.Participant
	if err := q.Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "participant", err)
	}
	return list(items), nil
}

func (h *ParticipantHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.Participant], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	p, err := findByID[models.Participant](ctx, h.base, "participant", input.ID)
	if err != nil {
		return nil, err
	}
	return item(*p), nil
}

func (h *ParticipantHandler) Create(ctx context.Context, input *ParticipantInput) (*CreatedOutput[models.Participant], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	birth, err := h.validate(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	var p models.Participant
	input.Body.apply(&p, birth)
	if err := h.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, h.storeError(ctx, "create", "participant", err)
	}
	return created(h.entityMsg(ctx, "crud.created", "participant"), p.ID, p), nil
}

func (h *ParticipantHandler) Update(ctx context.Context, input *ParticipantUpdateInput) (*ItemOutput[models.Participant], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	birth, err := h.validate(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	p, err := findByID[models.Participant](ctx, h.base, "participant", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(p, birth)
	if err := h.db.WithContext(ctx).Omit("User").Save(p).Error; err != nil {
		return nil, h.storeError(ctx, "update", "participant", err)
	}
	return item(*p), nil
}

func (h *ParticipantHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := deleteByID[models.Participant](ctx, h.base, "participant", input.ID); err != nil {
		return nil, err
	}
	return message(h.entityMsg(ctx, "crud.deleted", "participant")), nil
}
