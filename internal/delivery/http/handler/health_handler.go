package handler

import (
	"context"
	"time"

	"teamskills/internal/database"
	"teamskills/internal/infrastructure/cache"
	"teamskills/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, cache *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/healthz", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if h.db == nil {
		checks["database"] = "unconfigured"
		healthy = false
	} else if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unreachable"
		healthy = false
	}

	if h.cache == nil {
		checks["cache"] = "unconfigured"
	} else if err := h.cache.Ping(ctx); err != nil {
		// Cache is a soft dependency; readers fall through to Postgres.
		checks["cache"] = "unreachable"
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, response.MessageOK, checks)
}
