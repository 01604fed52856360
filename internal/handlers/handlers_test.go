package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/apierror"
	"github.com/gdg-garage/eventhub-api/internal/auth"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/i18n"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/models"
	"github.com/gdg-garage/eventhub-api/internal/registration"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		DatabaseDriver:       config.DriverSQLite,
		DatabasePath:         ":memory:",
		DBMaxOpenConns:       1,
		JWTSecret:            "test-secret",
		TokenDuration:        time.Hour,
		SessionCookieEnabled: true,
		DefaultLocale:        "en",
	}
}

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	db, err := database.Open(testConfig(), logging.Discard())
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return Deps{DB: db, Log: logging.Discard(), Translator: i18n.NewTranslator("en")}
}

func asUser(u models.User) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Rol})
}

func apiErr(t *testing.T, err error) *apierror.Error {
	t.Helper()
	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apierror.Error, got %T (%v)", err, err)
	}
	return e
}

func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d, got no error", status)
	}
	if got := apiErr(t, err).Status; got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

type seed struct {
	admin models.User
	user  models.User
	cat   models.Category
	venue models.Venue
}

func seedData(t *testing.T, db *gorm.DB) seed {
	t.Helper()
	s := seed{
		admin: models.User{Ad: "Root", Soyad: "Admin", Email: "admin@x.com", Rol: models.RoleAdmin},
		user:  models.User{Ad: "Ayşe", Soyad: "Yılmaz", Email: "a@x.com", Rol: models.RoleUser},
		cat:   models.Category{Name: "Meetup"},
		venue: models.Venue{Name: "Hall A", City: "Ankara", Capacity: 100},
	}
	for _, v := range []any{&s.admin, &s.user, &s.cat, &s.venue} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

func eventInput(s seed, name string, starts time.Time) *EventInput {
	in := &EventInput{}
	in.Body.Name = name
	in.Body.StartsAt = &starts
	in.Body.CategoryID = s.cat.ID
	in.Body.VenueID = s.venue.ID
	return in
}

func TestCategoryHandler_CRUD(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)
	h := NewCategoryHandler(d)

	in := &CategoryInput{}
	in.Body.Name = "  Workshop "

	if _, err := h.Create(asUser(s.user), in); err == nil {
		t.Fatal("expected non-admin create to fail")
	} else {
		expectStatus(t, err, http.StatusForbidden)
	}

	res, err := h.Create(asUser(s.admin), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Body.Data.Name != "Workshop" {
		t.Errorf("expected trimmed name, got %q", res.Body.Data.Name)
	}

	_, err = h.Create(asUser(s.admin), &CategoryInput{})
	expectStatus(t, err, http.StatusBadRequest)

	got, err := h.Get(asUser(s.user), &IDInput{ID: res.Body.ID})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Body.Data.ID != res.Body.ID {
		t.Errorf("expected id %d, got %d", res.Body.ID, got.Body.Data.ID)
	}

	_, err = h.Get(asUser(s.user), &IDInput{ID: 9999})
	expectStatus(t, err, http.StatusNotFound)

	_, err = h.List(context.Background(), nil)
	expectStatus(t, err, http.StatusUnauthorized)

	if _, err := h.Delete(asUser(s.admin), &IDInput{ID: res.Body.ID}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, err = h.Delete(asUser(s.admin), &IDInput{ID: res.Body.ID})
	expectStatus(t, err, http.StatusNotFound)
}

func TestCategoryHandler_DeleteInUse(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)

	events := NewEventHandler(d)
	if _, err := events.Create(asUser(s.admin), eventInput(s, "GoLab", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("create event: %v", err)
	}

	_, err := NewCategoryHandler(d).Delete(asUser(s.admin), &IDInput{ID: s.cat.ID})
	expectStatus(t, err, http.StatusBadRequest)
}

func TestEventHandler_Validation(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)
	h := NewEventHandler(d)
	ctx := asUser(s.admin)

	_, err := h.Create(ctx, &EventInput{})
	expectStatus(t, err, http.StatusBadRequest)
	if msg := apiErr(t, err).Message; !strings.Contains(msg, "name") || !strings.Contains(msg, "venue_id") {
		t.Errorf("expected missing fields in message, got %q", msg)
	}

	starts := time.Now().Add(48 * time.Hour)
	in := eventInput(s, "GoLab", starts)
	ends := starts.Add(-time.Hour)
	in.Body.EndsAt = &ends
	_, err = h.Create(ctx, in)
	expectStatus(t, err, http.StatusBadRequest)

	in = eventInput(s, "GoLab", starts)
	in.Body.VenueID = 9999
	_, err = h.Create(ctx, in)
	expectStatus(t, err, http.StatusBadRequest)

	res, err := h.Create(ctx, eventInput(s, "GoLab", starts))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Body.Data.Status != models.EventPlanning {
		t.Errorf("expected default status Planning, got %q", res.Body.Data.Status)
	}
	if res.Body.Data.CreatedByID == nil || *res.Body.Data.CreatedByID != s.admin.ID {
		t.Errorf("expected creator %d, got %v", s.admin.ID, res.Body.Data.CreatedByID)
	}

	got, err := h.Get(asUser(s.user), &IDInput{ID: res.Body.ID})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Body.Data.Category == nil || got.Body.Data.Category.Name != "Meetup" {
		t.Errorf("expected category to be loaded, got %+v", got.Body.Data.Category)
	}
}

func TestEventHandler_DeleteBlockedByRegistrations(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)
	h := NewEventHandler(d)

	res, err := h.Create(asUser(s.admin), eventInput(s, "GoLab", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	svc := registration.NewService(d.DB, logging.Discard(), nil)
	if _, err := svc.Join(context.Background(), auth.Identity{UserID: s.user.ID, Email: s.user.Email}, res.Body.ID, registration.JoinOptions{}); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, err = h.Delete(asUser(s.admin), &IDInput{ID: res.Body.ID})
	expectStatus(t, err, http.StatusBadRequest)
	if msg := apiErr(t, err).Message; !strings.Contains(msg, "1") {
		t.Errorf("expected registration count in message, got %q", msg)
	}

	var count int64
	d.DB.Model(&models.Event{}).Count(&count)
	if count != 1 {
		t.Errorf("expected event to remain, got %d events", count)
	}

	_, err = h.Delete(asUser(s.admin), &IDInput{ID: 9999})
	expectStatus(t, err, http.StatusNotFound)
}

func TestRegistrationHandler_Join(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)

	ev, err := NewEventHandler(d).Create(asUser(s.admin), eventInput(s, "GoLab", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	h := NewRegistrationHandler(d, registration.NewService(d.DB, logging.Discard(), nil))

	res, err := h.Join(asUser(s.user), &JoinInput{ID: ev.Body.ID})
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if res.Body.Data.Status != models.StatusApproved {
		t.Errorf("expected Approved, got %q", res.Body.Data.Status)
	}
	if res.Body.Data.EventName != "GoLab" || res.Body.Data.ParticipantEmail != "a@x.com" {
		t.Errorf("unexpected view: %+v", res.Body.Data)
	}

	_, err = h.Join(asUser(s.user), &JoinInput{ID: ev.Body.ID})
	expectStatus(t, err, http.StatusBadRequest)

	_, err = h.Join(asUser(s.user), &JoinInput{ID: 9999})
	expectStatus(t, err, http.StatusNotFound)

	ghost := models.User{Email: "ghost@x.com"}
	ghost.ID = 4242
	_, err = h.Join(asUser(ghost), &JoinInput{ID: ev.Body.ID})
	expectStatus(t, err, http.StatusNotFound)

	other := &JoinInput{ID: ev.Body.ID, Body: &JoinBody{ParticipantID: res.Body.Data.ParticipantID}}
	_, err = h.Join(asUser(s.user), other)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRegistrationHandler_CreateAndCancel(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)

	ev, err := NewEventHandler(d).Create(asUser(s.admin), eventInput(s, "GoLab", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	p := models.Participant{FullName: "Mehmet Demir", Email: "m@x.com"}
	if err := d.DB.Create(&p).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}

	h := NewRegistrationHandler(d, registration.NewService(d.DB, logging.Discard(), nil))

	in := &RegistrationCreateInput{}
	in.Body.EventID = ev.Body.ID
	_, err = h.Create(asUser(s.admin), in)
	expectStatus(t, err, http.StatusBadRequest)

	in.Body.ParticipantID = p.ID
	_, err = h.Create(asUser(s.user), in)
	expectStatus(t, err, http.StatusForbidden)

	res, err := h.Create(asUser(s.admin), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Body.Data.Status != models.StatusPending {
		t.Errorf("expected Pending, got %q", res.Body.Data.Status)
	}

	// a@x.com does not own m@x.com's registration
	_, err = h.Delete(asUser(s.user), &IDInput{ID: res.Body.ID})
	expectStatus(t, err, http.StatusForbidden)

	up := &RegistrationUpdateInput{ID: res.Body.ID}
	up.Body.Attendance = "Maybe"
	_, err = h.Update(asUser(s.admin), up)
	expectStatus(t, err, http.StatusBadRequest)

	up.Body.Attendance = models.AttendanceAttended
	updated, err := h.Update(asUser(s.admin), up)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Body.Data.Attendance != models.AttendanceAttended {
		t.Errorf("expected Attended, got %q", updated.Body.Data.Attendance)
	}

	if _, err := h.Delete(asUser(s.admin), &IDInput{ID: res.Body.ID}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, err = h.Delete(asUser(s.admin), &IDInput{ID: res.Body.ID})
	expectStatus(t, err, http.StatusNotFound)

	hist, err := h.History(asUser(s.admin), &IDInput{ID: res.Body.ID})
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if hist.Body.Count != 3 {
		t.Fatalf("expected 3 history entries, got %d", hist.Body.Count)
	}
	if hist.Body.Data[0].Action != models.ActionCancelled {
		t.Errorf("expected newest entry to be cancelled, got %q", hist.Body.Data[0].Action)
	}
}

func TestUserHandler(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)
	h := NewUserHandler(d)
	admin := asUser(s.admin)

	role := &RoleInput{ID: s.user.ID}
	role.Body.Rol = "owner"
	_, err := h.UpdateRole(admin, role)
	expectStatus(t, err, http.StatusBadRequest)

	role.Body.Rol = "admin"
	role.ID = s.admin.ID
	_, err = h.UpdateRole(admin, role)
	expectStatus(t, err, http.StatusForbidden)

	role.ID = 9999
	_, err = h.UpdateRole(admin, role)
	expectStatus(t, err, http.StatusNotFound)

	role.ID = s.user.ID
	res, err := h.UpdateRole(admin, role)
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if res.Body.Data.Rol != models.RoleAdmin {
		t.Errorf("expected admin role, got %q", res.Body.Data.Rol)
	}

	_, err = h.Delete(admin, &IDInput{ID: s.admin.ID})
	expectStatus(t, err, http.StatusForbidden)

	_, err = h.Delete(admin, &IDInput{ID: 9999})
	expectStatus(t, err, http.StatusNotFound)

	creator := s.user
	creator.Rol = models.RoleAdmin
	if _, err := NewEventHandler(d).Create(asUser(creator), eventInput(s, "GoLab", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("create event: %v", err)
	}
	_, err = h.Delete(admin, &IDInput{ID: s.user.ID})
	expectStatus(t, err, http.StatusBadRequest)
	if msg := apiErr(t, err).Message; !strings.Contains(msg, "1 events") {
		t.Errorf("expected owned event count, got %q", msg)
	}

	plain := models.User{Ad: "Can", Soyad: "Kaya", Email: "c@x.com", Rol: models.RoleUser}
	d.DB.Create(&plain)
	if _, err := h.Delete(admin, &IDInput{ID: plain.ID}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	_, err = h.List(asUser(plain), nil)
	expectStatus(t, err, http.StatusForbidden)
}

func TestDashboardHandler(t *testing.T) {
	d := newTestDeps(t)
	s := seedData(t, d.DB)
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	mk := func(name, status string, starts time.Time, ends *time.Time) models.Event {
		e := models.Event{Name: name, Status: status, StartsAt: starts, EndsAt: ends, CategoryID: s.cat.ID, VenueID: s.venue.ID}
		if err := d.DB.Create(&e).Error; err != nil {
			t.Fatalf("create event: %v", err)
		}
		return e
	}
	past := now.Add(-24 * time.Hour)
	stale := mk("Stale", models.EventActive, now.Add(-48*time.Hour), &past)
	mk("Soon", models.EventActive, now.Add(24*time.Hour), nil)
	mk("Draft", models.EventPlanning, now.Add(24*time.Hour), nil)

	svc := registration.NewService(d.DB, logging.Discard(), nil)
	if _, err := svc.Join(context.Background(), auth.Identity{UserID: s.user.ID, Email: s.user.Email}, stale.ID, registration.JoinOptions{}); err != nil {
		t.Fatalf("join: %v", err)
	}

	h := NewDashboardHandler(d)
	h.now = func() time.Time { return now }

	counts, err := h.Counts(asUser(s.user), nil)
	if err != nil {
		t.Fatalf("Counts returned error: %v", err)
	}
	if c := counts.Body.Data; c.Events != 3 || c.Users != 2 || c.Registrations != 1 || c.Participants != 1 {
		t.Errorf("unexpected counts: %+v", c)
	}

	_, err = h.AdminStats(asUser(s.user), nil)
	expectStatus(t, err, http.StatusForbidden)

	stats, err := h.AdminStats(asUser(s.admin), nil)
	if err != nil {
		t.Fatalf("AdminStats returned error: %v", err)
	}
	if stats.Body.Data.ExpiredActiveCount != 1 || stats.Body.Data.TotalEvents != 3 {
		t.Errorf("unexpected stats: %+v", stats.Body.Data)
	}

	home, err := h.UserHome(asUser(s.user), nil)
	if err != nil {
		t.Fatalf("UserHome returned error: %v", err)
	}
	if len(home.Body.Data.JoinedEvents) != 1 || home.Body.Data.JoinedEvents[0].Name != "Stale" {
		t.Errorf("unexpected joined events: %+v", home.Body.Data.JoinedEvents)
	}
	if len(home.Body.Data.UpcomingEvents) != 1 || home.Body.Data.UpcomingEvents[0].Name != "Soon" {
		t.Errorf("unexpected upcoming events: %+v", home.Body.Data.UpcomingEvents)
	}

	empty, err := h.UserHome(asUser(s.admin), nil)
	if err != nil {
		t.Fatalf("UserHome returned error: %v", err)
	}
	if empty.Body.Data.JoinedEvents == nil || len(empty.Body.Data.JoinedEvents) != 0 {
		t.Errorf("expected empty joined events, got %v", empty.Body.Data.JoinedEvents)
	}
}
