package app

import (
	"context"
	"log"
	"os"
	"time"

	"teamskills/internal/config"
	"teamskills/internal/database"
	dbpostgres "teamskills/internal/database/postgres"
	"teamskills/internal/database/seeder"
	"teamskills/internal/infrastructure/cache"
	"teamskills/internal/ws"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := seeder.Runner{Seeders: seeder.Defaults(cfg.Admin.Email, cfg.Admin.Password)}
	if err := runner.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheStore := cache.NewRedis(logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	return &Container{Config: cfg, DB: db, Cache: cacheStore, Hub: hub, Logger: logger}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
