package handlers

import (
	"context"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/models"
)

type CategoryHandler struct {
	base
}

func NewCategoryHandler(d Deps) *CategoryHandler {
	return &CategoryHandler{base: newBase(d, "categories")}
}

type CategoryBody struct {
	Name        string `json:"name,omitempty" maxLength:"100"`
	Description string `json:"description,omitempty"`
}

type CategoryInput struct {
	Body CategoryBody
}

type CategoryUpdateInput struct {
	ID   uint `path:"id"`
	Body CategoryBody
}

func (b CategoryBody) apply(c *models.Category) {
	c.Name = strings.TrimSpace(b.Name)
	c.Description = strings.TrimSpace(b.Description)
}

func (h *CategoryHandler) List(ctx context.Context, _ *struct{}) (*ListOutput[models.Category], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	var items []models.Category
	if err := h.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, h.storeError(ctx, "list", "category", err)
	}
	return list(items), nil
}

func (h *CategoryHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.Category], error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}
	c, err := findByID[models.Category](ctx, h.base, "category", input.ID)
	if err != nil {
		return nil, err
	}
	return item(*c), nil
}

func (h *CategoryHandler) Create(ctx context.Context, input *CategoryInput) (*CreatedOutput[models.Category], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	var c models.Category
	input.Body.apply(&c)
	if err := h.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, h.storeError(ctx, "create", "category", err)
	}
	return created(h.entityMsg(ctx, "crud.created", "category"), c.ID, c), nil
}

func (h *CategoryHandler) Update(ctx context.Context, input *CategoryUpdateInput) (*ItemOutput[models.Category], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if blank(input.Body.Name) {
		return nil, h.required(ctx, "name")
	}

	c, err := findByID[models.Category](ctx, h.base, "category", input.ID)
	if err != nil {
		return nil, err
	}
	input.Body.apply(c)
	if err := h.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, h.storeError(ctx, "update", "category", err)
	}
	return item(*c), nil
}

func (h *CategoryHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := deleteByID[models.Category](ctx, h.base, "category", input.ID); err != nil {
		return nil, err
	}
	return message(h.entityMsg(ctx, "crud.deleted", "category")), nil
}
