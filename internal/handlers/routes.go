package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/eventhub-api/internal/auth"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/i18n"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/registration"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const apiPrefix = "/api"

var security = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

func secured(tags ...string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Tags = tags
		o.Security = security
	}
}

func status(code int, tags ...string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		secured(tags...)(o)
		o.DefaultStatus = code
	}
}

// RegisterRoutes installs the middleware chain and every API operation on r.
func RegisterRoutes(r *chi.Mux, cfg *config.Config, d Deps, authHandler *auth.Handler, svc *registration.Service) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(d.Log))
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(i18n.Middleware)
	r.Use(authHandler.Middleware)

	hc := huma.DefaultConfig("EventHub API", "1.0.0")
	hc.CreateHooks = nil
	hc.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, hc)

	health := healthHandler(d.DB)
	huma.Get(api, "/health", health, func(o *huma.Operation) { o.Tags = []string{"health"} })
	huma.Get(api, apiPrefix+"/health", health, func(o *huma.Operation) { o.Tags = []string{"health"} })

	registerAuth(api, authHandler)
	registerCatalog(api, d)
	registerEvents(api, d, svc)
	registerUsers(api, d)

	return api
}

func registerAuth(api huma.API, h *auth.Handler) {
	p := apiPrefix + "/auth"
	tag := func(o *huma.Operation) { o.Tags = []string{"auth"} }

	huma.Post(api, p+"/register", h.HandleRegister, func(o *huma.Operation) {
		tag(o)
		o.DefaultStatus = http.StatusCreated
	})
	huma.Post(api, p+"/login", h.HandleLogin, tag)
	huma.Get(api, p+"/me", h.HandleMe, secured("auth"))
	huma.Post(api, p+"/logout", h.HandleLogout, tag)
	huma.Get(api, p+"/discord/login", h.HandleDiscordLogin, tag)
	huma.Get(api, p+"/discord/callback", h.HandleDiscordCallback, tag)
}

func registerCatalog(api huma.API, d Deps) {
	categories := NewCategoryHandler(d)
	huma.Get(api, apiPrefix+"/categories", categories.List, secured("categories"))
	huma.Get(api, apiPrefix+"/categories/{id}", categories.Get, secured("categories"))
	huma.Post(api, apiPrefix+"/categories", categories.Create, status(http.StatusCreated, "categories"))
	huma.Put(api, apiPrefix+"/categories/{id}", categories.Update, secured("categories"))
	huma.Delete(api, apiPrefix+"/categories/{id}", categories.Delete, status(http.StatusOK, "categories"))

	venues := NewVenueHandler(d)
	huma.Get(api, apiPrefix+"/venues", venues.List, secured("venues"))
	huma.Get(api, apiPrefix+"/venues/{id}", venues.Get, secured("venues"))
	huma.Post(api, apiPrefix+"/venues", venues.Create, status(http.StatusCreated, "venues"))
	huma.Put(api, apiPrefix+"/venues/{id}", venues.Update, secured("venues"))
	huma.Delete(api, apiPrefix+"/venues/{id}", venues.Delete, status(http.StatusOK, "venues"))

	sponsors := NewSponsorHandler(d)
	huma.Get(api, apiPrefix+"/sponsors", sponsors.List, secured("sponsors"))
	huma.Get(api, apiPrefix+"/sponsors/{id}", sponsors.Get, secured("sponsors"))
	huma.Post(api, apiPrefix+"/sponsors", sponsors.Create, status(http.StatusCreated, "sponsors"))
	huma.Put(api, apiPrefix+"/sponsors/{id}", sponsors.Update, secured("sponsors"))
	huma.Delete(api, apiPrefix+"/sponsors/{id}", sponsors.Delete, status(http.StatusOK, "sponsors"))

	participants := NewParticipantHandler(d)
	huma.Get(api, apiPrefix+"/participants", participants.List, secured("participants"))
	huma.Get(api, apiPrefix+"/participants/{id}", participants.Get, secured("participants"))
	huma.Post(api, apiPrefix+"/participants", participants.Create, status(http.StatusCreated, "participants"))
	huma.Put(api, apiPrefix+"/participants/{id}", participants.Update, secured("participants"))
	huma.Delete(api, apiPrefix+"/participants/{id}", participants.Delete, status(http.StatusOK, "participants"))
}

func registerEvents(api huma.API, d Deps, svc *registration.Service) {
	events := NewEventHandler(d)
	huma.Get(api, apiPrefix+"/events", events.List, secured("events"))
	huma.Get(api, apiPrefix+"/events/{id}", events.Get, secured("events"))
	huma.Post(api, apiPrefix+"/events", events.Create, status(http.StatusCreated, "events"))
	huma.Put(api, apiPrefix+"/events/{id}", events.Update, secured("events"))
	huma.Delete(api, apiPrefix+"/events/{id}", events.Delete, status(http.StatusOK, "events"))

	regs := NewRegistrationHandler(d, svc)
	huma.Post(api, apiPrefix+"/events/{id}/join", regs.Join, status(http.StatusOK, "registrations"))
	huma.Get(api, apiPrefix+"/registrations", regs.List, secured("registrations"))
	huma.Get(api, apiPrefix+"/registrations/{id}", regs.Get, secured("registrations"))
	huma.Get(api, apiPrefix+"/registrations/{id}/history", regs.History, secured("registrations"))
	huma.Post(api, apiPrefix+"/registrations", regs.Create, status(http.StatusCreated, "registrations"))
	huma.Put(api, apiPrefix+"/registrations/{id}", regs.Update, secured("registrations"))
	huma.Delete(api, apiPrefix+"/registrations/{id}", regs.Delete, status(http.StatusOK, "registrations"))

	es := NewEventSponsorHandler(d)
	huma.Get(api, apiPrefix+"/event-sponsors", es.List, secured("event-sponsors"))
	huma.Get(api, apiPrefix+"/event-sponsors/{id}", es.Get, secured("event-sponsors"))
	huma.Get(api, apiPrefix+"/event-sponsors/event/{id}", es.ByEvent, secured("event-sponsors"))
	huma.Get(api, apiPrefix+"/event-sponsors/sponsor/{id}", es.BySponsor, secured("event-sponsors"))
	huma.Post(api, apiPrefix+"/event-sponsors", es.Create, status(http.StatusCreated, "event-sponsors"))
	huma.Put(api, apiPrefix+"/event-sponsors/{id}", es.Update, secured("event-sponsors"))
	huma.Delete(api, apiPrefix+"/event-sponsors/{id}", es.Delete, status(http.StatusOK, "event-sponsors"))
}

func registerUsers(api huma.API, d Deps) {
	users := NewUserHandler(d)
	huma.Get(api, apiPrefix+"/users", users.List, secured("users"))
	huma.Get(api, apiPrefix+"/users/{id}", users.Get, secured("users"))
	huma.Put(api, apiPrefix+"/users/{id}/role", users.UpdateRole, secured("users"))
	huma.Delete(api, apiPrefix+"/users/{id}", users.Delete, status(http.StatusOK, "users"))

	dash := NewDashboardHandler(d)
	huma.Get(api, apiPrefix+"/dashboard", dash.Counts, secured("dashboard"))
	huma.Get(api, apiPrefix+"/dashboard/admin-stats", dash.AdminStats, secured("dashboard"))
	huma.Get(api, apiPrefix+"/dashboard/user-home", dash.UserHome, secured("dashboard"))
}
