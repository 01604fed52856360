package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/models"
	"gorm.io/gorm"
)

const upcomingLimit = 5

type DashboardHandler struct {
	base
	now func() time.Time
}

func NewDashboardHandler(d Deps) *DashboardHandler {
	return &DashboardHandler{base: newBase(d, "dashboard"), now: time.Now}
}

type Counts struct {
	Events        int64 `json:"events"`
	Categories    int64 `json:"categories"`
	Venues        int64 `json:"venues"`
	Sponsors      int64 `json:"sponsors"`
	Participants  int64 `json:"participants"`
	Registrations int64 `json:"registrations"`
	Users         int64 `json:"users"`
}

type CountsOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Data    Counts `json:"data"`
	}
}

func (h *DashboardHandler) Counts(ctx context.Context, _ *struct{}) (*CountsOutput, error) {
	if _, err := h.requireUser(ctx); err != nil {
		return nil, err
	}

	var c Counts
	db := h.db.WithContext(ctx)
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&models.Event{}, &c.Events},
		{&models.Category{}, &c.Categories},
		{&models.Venue{}, &c.Venues},
		{&models.Sponsor{}, &c.Sponsors},
		{&models.Participant{}, &c.Participants},
		{&models.Registration{}, &c.Registrations},
		{&models.User{}, &c.Users},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			return nil, h.storeError(ctx, "count", "event", err)
		}
	}

	out := &CountsOutput{}
	out.Body.Success = true
	out.Body.Data = c
	return out, nil
}

type AdminStats struct {
	TotalParticipants  int64 `json:"totalParticipants"`
	TotalEvents        int64 `json:"totalEvents"`
	TotalVenues        int64 `json:"totalVenues"`
	ExpiredActiveCount int64 `json:"expiredActiveCount"`
}

type AdminStatsOutput struct {
	Body struct {
		Success bool       `json:"success"`
		Data    AdminStats `json:"data"`
	}
}

// AdminStats also reports events still marked Active after they ended.
func (h *DashboardHandler) AdminStats(ctx context.Context, _ *struct{}) (*AdminStatsOutput, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}

	var s AdminStats
	db := h.db.WithContext(ctx)
	err := db.Model(&models.Participant{}).Count(&s.TotalParticipants).Error
	if err == nil {
		err = db.Model(&models.Event{}).Count(&s.TotalEvents).Error
	}
	if err == nil {
		err = db.Model(&models.Venue{}).Count(&s.TotalVenues).Error
	}
	if err == nil {
		err = db.Model(&models.Event{}).
			Where("status = ? AND ends_at IS NOT NULL AND ends_at < ?", models.EventActive, h.now()).
			Count(&s.ExpiredActiveCount).Error
	}
	if err != nil {
		return nil, h.storeError(ctx, "admin-stats", "event", err)
	}

	out := &AdminStatsOutput{}
	out.Body.Success = true
	out.Body.Data = s
	return out, nil
}

// JoinedEvent is an event the caller is registered for.
type JoinedEvent struct {
	models.Event
	RegistrationID     uint      `json:"registration_id"`
	RegistrationStatus string    `json:"registration_status"`
	Attendance         string    `json:"attendance"`
	RegisteredAt       time.Time `json:"registered_at"`
}

type UserHome struct {
	JoinedEvents   []JoinedEvent  `json:"joinedEvents"`
	UpcomingEvents []models.Event `json:"upcomingEvents"`
}

type UserHomeOutput struct {
	Body struct {
		Success bool     `json:"success"`
		Data    UserHome `json:"data"`
	}
}

func (h *DashboardHandler) UserHome(ctx context.Context, _ *struct{}) (*UserHomeOutput, error) {
	caller, err := h.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	mine := db.Model(&models.Participant{}).Select("id").
		Where("email = ? OR user_id = ?", models.NormalizeEmail(caller.Email), caller.UserID)

	var regs []models.Registration
	err = db.Preload("Event", func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Category").Preload("Venue")
	}).Where("participant_id IN (?)", mine).Order("registered_at DESC").Find(&regs).Error
	if err != nil {
		return nil, h.storeError(ctx, "user-home", "registration", err)
	}

	home := UserHome{JoinedEvents: []JoinedEvent{}, UpcomingEvents: []models.Event{}}
	for _, r := range regs {
		if r.Event == nil {
			continue
		}
		home.JoinedEvents = append(home.JoinedEvents, JoinedEvent{
			Event:              *r.Event,
			RegistrationID:     r.ID,
			RegistrationStatus: r.Status,
			Attendance:         r.Attendance,
			RegisteredAt:       r.RegisteredAt,
		})
	}

	err = db.Preload("Category").Preload("Venue").
		Where("status = ? AND starts_at > ?", models.EventActive, h.now()).
		Order("starts_at").Limit(upcomingLimit).
		Find(&home.UpcomingEvents).Error
	if err != nil {
		return nil, h.storeError(ctx, "user-home", "event", err)
	}

	out := &UserHomeOutput{}
	out.Body.Success = true
	out.Body.Data = home
	return out, nil
}
