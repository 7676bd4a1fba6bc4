package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/pramuka-adm-api/api/swagger"
	"github.com/noah-isme/pramuka-adm-api/internal/handler"
	"github.com/noah-isme/pramuka-adm-api/internal/middleware"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	"github.com/noah-isme/pramuka-adm-api/internal/repository"
	"github.com/noah-isme/pramuka-adm-api/internal/service"
	"github.com/noah-isme/pramuka-adm-api/pkg/cache"
	"github.com/noah-isme/pramuka-adm-api/pkg/config"
	"github.com/noah-isme/pramuka-adm-api/pkg/database"
	"github.com/noah-isme/pramuka-adm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pramuka-adm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pramuka-adm-api/pkg/middleware/requestid"
)

// @title Pramuka ADM API
// @version 0.1.0
// @description Membership administration for scouting units
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()

	memberRepo := repository.NewMemberRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	badgeTypeRepo := repository.NewBadgeTypeRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)
	garudaRepo := repository.NewGarudaRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	docIssuer := service.NewDocNumberIssuer(counterRepo, metrics, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Summary.CacheTTL, logr, cfg.Summary.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, auditRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, institutionRepo, auditRepo, nil, logr)
	memberSvc := service.NewMemberService(memberRepo, institutionRepo, auditRepo, nil, logr)
	institutionSvc := service.NewInstitutionService(institutionRepo, auditRepo, nil, logr)
	badgeTypeSvc := service.NewBadgeTypeService(badgeTypeRepo, auditRepo, nil, logr)
	progressionSvc := service.NewProgressionService(progressionRepo, memberRepo, institutionRepo, docIssuer, auditRepo, nil, logr)
	badgeSvc := service.NewBadgeService(badgeRepo, badgeTypeRepo, memberRepo, institutionRepo, progressionRepo, docIssuer, auditRepo, nil, logr)
	garudaSvc := service.NewGarudaService(garudaRepo, memberRepo, progressionRepo, badgeRepo, auditRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(memberRepo, institutionRepo, badgeRepo, progressionRepo, garudaRepo, auditRepo, cacheSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	memberHandler := handler.NewMemberHandler(memberSvc)
	institutionHandler := handler.NewInstitutionHandler(institutionSvc)
	badgeTypeHandler := handler.NewBadgeTypeHandler(badgeTypeSvc)
	badgeHandler := handler.NewBadgeHandler(badgeSvc)
	progressionHandler := handler.NewProgressionHandler(progressionSvc)
	garudaHandler := handler.NewGarudaHandler(garudaSvc)
	userHandler := handler.NewUserHandler(userSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/members", memberHandler.List)
		authed.GET("/members/:id", memberHandler.Get)
		authed.POST("/members", memberHandler.Create)
		authed.PUT("/members/:id", memberHandler.Update)
		authed.DELETE("/members/:id", memberHandler.Delete)

		authed.GET("/institutions", institutionHandler.List)
		authed.GET("/institutions/:id", institutionHandler.Get)

		authed.GET("/badge-types", badgeTypeHandler.List)
		authed.GET("/badge-types/:id", badgeTypeHandler.Get)

		authed.GET("/progressions", progressionHandler.List)
		authed.GET("/progressions/summary", progressionHandler.Summary)
		authed.GET("/progressions/member/:memberId", progressionHandler.GetByMember)
		authed.POST("/progressions/mula", progressionHandler.IssueMula)
		authed.POST("/progressions/bantu", progressionHandler.IssueBantu)
		authed.POST("/progressions/tata", progressionHandler.IssueTata)
		authed.POST("/progressions/revert", progressionHandler.Revert)

		authed.GET("/badges", badgeHandler.List)
		authed.POST("/badges", badgeHandler.Award)
		authed.DELETE("/badges/:id", badgeHandler.Revoke)

		authed.GET("/garuda", garudaHandler.List)
		authed.GET("/garuda/summary", garudaHandler.Summary)
		authed.POST("/garuda", garudaHandler.Request)
		authed.POST("/garuda/:id/approve", garudaHandler.Approve)
		authed.DELETE("/garuda/:id", garudaHandler.Delete)

		authed.GET("/dashboard", dashboardHandler.Overview)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.POST("/institutions", institutionHandler.Create)
		admin.PUT("/institutions/:id", institutionHandler.Update)
		admin.DELETE("/institutions/:id", institutionHandler.Delete)

		admin.POST("/badge-types", badgeTypeHandler.Create)
		admin.PUT("/badge-types/:id", badgeTypeHandler.Update)
		admin.DELETE("/badge-types/:id", badgeTypeHandler.Delete)

		admin.GET("/users", userHandler.List)
		admin.PATCH("/users/:id/status", userHandler.ToggleStatus)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
