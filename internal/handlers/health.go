package handlers

import (
	"context"
	"net/http"

	"github.com/gdg-garage/eventhub-api/internal/database"
	"gorm.io/gorm"
)

type HealthOutput struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func healthHandler(db *gorm.DB) func(context.Context, *struct{}) (*HealthOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
		out := &HealthOutput{Status: http.StatusOK}
		out.Body.Status = "ok"
		out.Body.Database = "up"
		if err := database.Ping(ctx, db); err != nil {
			out.Status = http.StatusServiceUnavailable
			out.Body.Status = "degraded"
			out.Body.Database = "down"
		}
		return out, nil
	}
}
