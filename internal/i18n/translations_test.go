package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("en")

	tests := []struct {
		name   string
		locale string
		key    string
		data   map[string]any
		want   string
	}{
		{"English", "en", "auth.invalid_credentials", nil, "Email or password is incorrect"},
		{"Turkish", "tr", "auth.invalid_credentials", nil, "Email veya şifre hatalı"},
		{"AcceptLanguageHeader", "tr-TR,tr;q=0.9,en;q=0.8", "auth.logged_out", nil, "Çıkış yapıldı"},
		{"UnknownLocaleFallsBack", "de", "auth.logged_out", nil, "Logged out"},
		{"Template", "en", "user.owns_events", map[string]any{"Count": 3}, "This user created 3 events and cannot be deleted"},
		{"MissingKey", "en", "no.such.key", nil, "no.such.key"},
		{"EmptyKey", "en", "", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tr.T(tc.locale, tc.key, tc.data); got != tc.want {
				t.Errorf("T(%q, %q) = %q, want %q", tc.locale, tc.key, got, tc.want)
			}
		})
	}
}

func TestCataloguesHaveTheSameKeys(t *testing.T) {
	tr := NewTranslator("en")

	// Every English message must also exist in Turkish.
	for _, key := range []string{
		"entity.event", "crud.not_found", "crud.required", "server.error",
		"registration.already_registered", "registration.joined", "user.self_delete",
	} {
		en := tr.T("en", key, map[string]any{"Entity": "x", "Fields": "y", "Count": 1})
		trk := tr.T("tr", key, map[string]any{"Entity": "x", "Fields": "y", "Count": 1})
		if en == key || trk == key {
			t.Errorf("key %q missing from a catalogue (en=%q tr=%q)", key, en, trk)
		}
		if en == trk && key != "entity.sponsor" {
			t.Errorf("key %q is not translated: %q", key, en)
		}
	}
}

func TestMiddleware_StoresLocale(t *testing.T) {
	tr := NewTranslator("en")

	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = tr.Tc(r.Context(), "auth.unauthorized", nil)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "tr")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "Giriş yapmanız gerekiyor" {
		t.Errorf("expected Turkish message, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Authentication required" {
		t.Errorf("expected default English message, got %q", got)
	}
}
