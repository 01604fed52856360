package auth

import (
	"context"
	"errors"

	"github.com/gdg-garage/eventhub-api/internal/models"
)

type contextKey string

const IdentityKey contextKey = "identity"

const (
	SourceBearer  = "bearer"
	SourceSession = "session"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uint
	Email  string
	Role   string
	Source string
}

func (i Identity) IsAdmin() bool {
	return models.IsAdminRole(i.Role)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok && id.UserID != 0
}

// RequireUser returns the caller or ErrUnauthenticated.
func RequireUser(ctx context.Context) (Identity, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}

// RequireAdmin returns the caller, ErrUnauthenticated or ErrForbidden.
func RequireAdmin(ctx context.Context) (Identity, error) {
	id, err := RequireUser(ctx)
	if err != nil {
		return Identity{}, err
	}
	if !id.IsAdmin() {
		return id, ErrForbidden
	}
	return id, nil
}
