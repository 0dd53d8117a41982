package routes

import (
	"teamskills/internal/config"
	"teamskills/internal/database"
	v1 "teamskills/internal/delivery/http/routes/v1"
	"teamskills/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, cacheStore *cache.Redis) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, db, cacheStore)
}
