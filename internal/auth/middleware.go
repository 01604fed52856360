package auth

import (
	"net/http"
	"strings"
	"time"
)

const CookieName = "auth_token"

// Middleware resolves the caller from a bearer token or, when enabled, the
// session cookie. It never rejects: operations decide with RequireUser and
// RequireAdmin.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := h.identify(w, r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		raw, ok := bearerToken(header)
		if !ok {
			return Identity{}, false
		}
		claims, err := h.tokens.Parse(raw)
		if err != nil {
			h.log.Debug(r.Context(), "rejected bearer token", "error", err)
			return Identity{}, false
		}
		return identityFromClaims(claims, SourceBearer), true
	}

	if !h.cfg.SessionCookieEnabled {
		return Identity{}, false
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, false
	}
	claims, err := h.tokens.Parse(cookie.Value)
	if err != nil {
		h.log.Debug(r.Context(), "rejected session cookie", "error", err)
		return Identity{}, false
	}

	// Sliding session: refresh the cookie once it is more than halfway through its lifetime.
	if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < h.tokens.TTL()/2 {
		if fresh, err := h.tokens.Issue(claims.UserID, claims.Email, claims.Rol); err == nil {
			c := h.sessionCookie(fresh)
			http.SetCookie(w, &c)
		}
	}

	return identityFromClaims(claims, SourceSession), true
}

func (h *Handler) sessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func identityFromClaims(c *Claims, source string) Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Rol, Source: source}
}
