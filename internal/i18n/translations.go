// Package i18n renders user-facing messages in the caller's language.
package i18n

import (
	"context"
	"embed"
	"log"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogues = []string{"active.en.toml", "active.tr.toml"}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator from the embedded catalogues using the
// given default locale (e.g. "en").
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range catalogues {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// T renders the message identified by key for the given locale. locale may be
// a plain tag or a whole Accept-Language header value. If the key is missing it
// falls back to the default locale, then to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}

// Tc is T with the locale taken from ctx.
func (t *Translator) Tc(ctx context.Context, key string, data map[string]any) string {
	return t.T(Locale(ctx), key, data)
}

type localeKey struct{}

// WithLocale stores the requested locale in ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// Locale returns the locale stored by WithLocale, or "".
func Locale(ctx context.Context) string {
	l, _ := ctx.Value(localeKey{}).(string)
	return l
}

// Middleware records the request's Accept-Language header for later lookups.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if al := r.Header.Get("Accept-Language"); al != "" {
			r = r.WithContext(WithLocale(r.Context(), al))
		}
		next.ServeHTTP(w, r)
	})
}
