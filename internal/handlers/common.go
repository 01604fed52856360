package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/apierror"
	"github.com/gdg-garage/eventhub-api/internal/auth"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/i18n"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"gorm.io/gorm"
)

// Deps are shared by every handler.
type Deps struct {
	DB         *gorm.DB
	Log        logging.Logger
	Translator *i18n.Translator
}

type base struct {
	db  *gorm.DB
	log logging.Logger
	tr  *i18n.Translator
}

func newBase(d Deps, component string) base {
	return base{db: d.DB, log: d.Log.With("component", component), tr: d.Translator}
}

type IDInput struct {
	ID uint `path:"id" doc:"Record id"`
}

type ListOutput[T any] struct {
	Body struct {
		Success bool `json:"success"`
		Data    []T  `json:"data"`
		Count   int  `json:"count"`
	}
}

type ItemOutput[T any] struct {
	Body struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
}

type CreatedOutput[T any] struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      uint   `json:"id"`
		Data    T      `json:"data"`
	}
}

type MessageOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

func list[T any](items []T) *ListOutput[T] {
	if items == nil {
		items = []T{}
	}
	out := &ListOutput[T]{}
	out.Body.Success = true
	out.Body.Data = items
	out.Body.Count = len(items)
	return out
}

func item[T any](v T) *ItemOutput[T] {
	out := &ItemOutput[T]{}
	out.Body.Success = true
	out.Body.Data = v
	return out
}

func created[T any](message string, id uint, v T) *CreatedOutput[T] {
	out := &CreatedOutput[T]{}
	out.Body.Success = true
	out.Body.Message = message
	out.Body.ID = id
	out.Body.Data = v
	return out
}

func message(msg string) *MessageOutput {
	out := &MessageOutput{}
	out.Body.Success = true
	out.Body.Message = msg
	return out
}

func (b base) t(ctx context.Context, key string, data map[string]any) string {
	return b.tr.Tc(ctx, key, data)
}

// entity returns the localized display name of an entity kind, e.g. "event".
func (b base) entity(ctx context.Context, kind string) string {
	return b.t(ctx, "entity."+kind, nil)
}

func (b base) entityMsg(ctx context.Context, key, kind string) string {
	return b.t(ctx, key, map[string]any{"Entity": b.entity(ctx, kind)})
}

func (b base) fail(ctx context.Context, status int, key string, data map[string]any) error {
	return apierror.New(status, b.t(ctx, key, data), strings.ReplaceAll(key, ".", "_"))
}

func (b base) notFound(ctx context.Context, kind string) error {
	return apierror.NotFound(b.entityMsg(ctx, "crud.not_found", kind))
}

func (b base) required(ctx context.Context, fields ...string) error {
	return apierror.New(http.StatusBadRequest,
		b.t(ctx, "crud.required", map[string]any{"Fields": strings.Join(fields, ", ")}),
		"missing_fields")
}

func (b base) requireUser(ctx context.Context) (auth.Identity, error) {
	id, err := auth.RequireUser(ctx)
	if err != nil {
		return id, b.fail(ctx, http.StatusUnauthorized, "auth.unauthorized", nil)
	}
	return id, nil
}

func (b base) requireAdmin(ctx context.Context) (auth.Identity, error) {
	id, err := auth.RequireAdmin(ctx)
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return id, b.fail(ctx, http.StatusUnauthorized, "auth.unauthorized", nil)
	case err != nil:
		return id, b.fail(ctx, http.StatusForbidden, "auth.forbidden", nil)
	}
	return id, nil
}

// storeError converts a store failure into an API error. Raw driver text is
// logged, never returned.
func (b base) storeError(ctx context.Context, op, kind string, err error) error {
	err = database.Classify(err)
	switch {
	case database.IsNotFound(err):
		return b.notFound(ctx, kind)
	case errors.Is(err, database.ErrDuplicate):
		return apierror.Conflict(b.entityMsg(ctx, "crud.duplicate", kind))
	case errors.Is(err, database.ErrForeignKey) && op == "delete":
		return apierror.New(http.StatusBadRequest, b.entityMsg(ctx, "crud.in_use", kind), "in_use")
	case errors.Is(err, database.ErrForeignKey):
		return b.fail(ctx, http.StatusBadRequest, "crud.invalid_reference", nil)
	case errors.Is(err, database.ErrSchemaMismatch):
		b.log.Error(ctx, "schema mismatch", "op", op, "entity", kind, "error", err)
		return b.fail(ctx, http.StatusInternalServerError, "server.schema_mismatch", nil)
	}
	b.log.Error(ctx, "store error", "op", op, "entity", kind, "error", err)
	return b.fail(ctx, http.StatusInternalServerError, "server.error", nil)
}

func findByID[T any](ctx context.Context, b base, kind string, id uint, preload ...string) (*T, error) {
	var v T
	q := b.db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.First(&v, id).Error; err != nil {
		return nil, b.storeError(ctx, "get", kind, err)
	}
	return &v, nil
}

func deleteByID[T any](ctx context.Context, b base, kind string, id uint) error {
	var v T
	res := b.db.WithContext(ctx).Delete(&v, id)
	if res.Error != nil {
		return b.storeError(ctx, "delete", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return b.notFound(ctx, kind)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
