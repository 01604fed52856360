package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/models"
	"gorm.io/gorm"
)

var errSelfDelete = errors.New("cannot delete own account")

type UserHandler struct {
	base
}

func NewUserHandler(d Deps) *UserHandler {
	return &UserHandler{base: newBase(d, "users")}
}

func (h *UserHandler) List(ctx context.Context, _ *struct{}) (*ListOutput[models.User], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	var users []models.User
	if err := h.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, h.storeError(ctx, "list", "user", err)
	}
	return list(users), nil
}

func (h *UserHandler) Get(ctx context.Context, input *IDInput) (*ItemOutput[models.User], error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	u, err := findByID[models.User](ctx, h.base, "user", input.ID)
	if err != nil {
		return nil, err
	}
	return item(*u), nil
}

type RoleInput struct {
	ID   uint `path:"id"`
	Body struct {
		Rol string `json:"rol,omitempty" doc:"admin or user"`
	}
}

// UpdateRole changes a user's role. Admins cannot change their own.
func (h *UserHandler) UpdateRole(ctx context.Context, input *RoleInput) (*ItemOutput[models.User], error) {
	caller, err := h.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	role := strings.ToLower(strings.TrimSpace(input.Body.Rol))
	if !models.ValidRole(role) {
		return nil, h.fail(ctx, http.StatusBadRequest, "user.invalid_role", nil)
	}

	u, err := findByID[models.User](ctx, h.base, "user", input.ID)
	if err != nil {
		return nil, err
	}
	if u.ID == caller.UserID {
		return nil, h.fail(ctx, http.StatusForbidden, "user.own_role", nil)
	}

	if err := h.db.WithContext(ctx).Model(u).Update("rol", role).Error; err != nil {
		return nil, h.storeError(ctx, "update", "user", err)
	}
	u.Rol = role
	h.log.Info(ctx, "user role changed", "user_id", u.ID, "rol", role, "by", caller.UserID)
	return item(*u), nil
}

// Delete removes a user account. Users that created events are kept.
func (h *UserHandler) Delete(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	caller, err := h.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var owned int64
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, input.ID).Error; err != nil {
			return err
		}
		if u.ID == caller.UserID {
			return errSelfDelete
		}
		if err := tx.Model(&models.Event{}).Where("created_by_id = ?", u.ID).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return nil
		}
		return tx.Delete(&u).Error
	})
	switch {
	case errors.Is(err, errSelfDelete):
		return nil, h.fail(ctx, http.StatusForbidden, "user.self_delete", nil)
	case err != nil:
		return nil, h.storeError(ctx, "delete", "user", err)
	case owned > 0:
		return nil, h.fail(ctx, http.StatusBadRequest, "user.owns_events", map[string]any{"Count": owned})
	}

	h.log.Info(ctx, "user deleted", "user_id", input.ID, "by", caller.UserID)
	return message(h.entityMsg(ctx, "crud.deleted", "user")), nil
}
