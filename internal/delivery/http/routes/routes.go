package routes

import (
	"log"

	"teamskills/internal/config"
	"teamskills/internal/database"
	"teamskills/internal/delivery/http/handler"
	"teamskills/internal/infrastructure/cache"
	"teamskills/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg    config.Config
	db     database.DB
	cache  *cache.Redis
	health *handler.HealthHandler
	votes  *ws.Handler
}

func NewRegistry(cfg config.Config, db database.DB, cacheStore *cache.Redis, hub *ws.Hub, logger *log.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		db:     db,
		cache:  cacheStore,
		health: handler.NewHealthHandler(db, cacheStore),
		votes:  ws.NewHandler(hub, logger),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.cfg, r.db, r.cache)
}

func (r *Registry) registerWS(app *fiber.App) {
	app.Get("/ws/votes", r.votes.HandleVotesWS)
}
