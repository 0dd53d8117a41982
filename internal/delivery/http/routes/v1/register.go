package v1

import (
	"teamskills/internal/config"
	"teamskills/internal/database"
	"teamskills/internal/delivery/http/handler"
	"teamskills/internal/delivery/http/middleware"
	"teamskills/internal/infrastructure/cache"
	"teamskills/internal/pkg/jwt"
	"teamskills/internal/repository"
	"teamskills/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, cacheStore *cache.Redis) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	teamSkillRepo := repository.NewPostgresTeamSkillRepository(db)

	permSource := usecase.NewCachedPermissionSource(userRepo, cacheStore, cache.DefaultTTLFromEnv())

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := usecase.NewUserUsecase(userRepo, permSource, permSource)
	teamUC := usecase.NewTeamUsecase(teamRepo, userRepo, permSource)
	skillUC := usecase.NewSkillUsecase(skillRepo, permSource)
	teamSkillUC := usecase.NewTeamSkillUsecase(teamSkillRepo, teamRepo, skillRepo, permSource)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	teamHandler := handler.NewTeamHandler(teamUC)
	skillHandler := handler.NewSkillHandler(skillUC)
	teamSkillHandler := handler.NewTeamSkillHandler(teamSkillUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	public := r
	protected := r.Group("", authMw.Middleware())

	skillHandler.RegisterRoutes(public, protected)
	teamHandler.RegisterRoutes(public, protected)
	teamSkillHandler.RegisterRoutes(public, protected)
	userHandler.RegisterRoutes(protected)
}
