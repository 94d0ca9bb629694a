package server

import (
	"strings"
	"time"

	"anoa.com/campuseventhub/internal/access"
	"anoa.com/campuseventhub/internal/auth"
	"anoa.com/campuseventhub/internal/config"
	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/internal/middleware"
	"anoa.com/campuseventhub/pkg/storage"

	adminHttp "anoa.com/campuseventhub/internal/modules/admin/delivery/http"
	adminService "anoa.com/campuseventhub/internal/modules/admin/service"

	eventHttp "anoa.com/campuseventhub/internal/modules/event/delivery/http"
	eventRepo "anoa.com/campuseventhub/internal/modules/event/repository"
	eventService "anoa.com/campuseventhub/internal/modules/event/service"

	notifHttp "anoa.com/campuseventhub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/campuseventhub/internal/modules/notification/repository"
	notifService "anoa.com/campuseventhub/internal/modules/notification/service"

	regHttp "anoa.com/campuseventhub/internal/modules/registration/delivery/http"
	regRepo "anoa.com/campuseventhub/internal/modules/registration/repository"
	regService "anoa.com/campuseventhub/internal/modules/registration/service"

	searchService "anoa.com/campuseventhub/internal/modules/search/service"

	userHttp "anoa.com/campuseventhub/internal/modules/user/delivery/http"
	userRepo "anoa.com/campuseventhub/internal/modules/user/repository"
	userService "anoa.com/campuseventhub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	profiles := userRepo.NewProfileRepository(db)
	events := eventRepo.NewEventRepository(db)
	registrations := regRepo.NewRegistrationRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		return nil, err
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := searchService.NewEventSearchService(meiliClient, logger)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	revoker := auth.NewRedisRevoker(redisClient)
	evaluator := access.NewEvaluator(profiles, revoker, logger)
	authMw := middleware.NewAuthMiddleware(tokens, revoker, evaluator, cfg.AdminBypassToken)

	authSvc := userService.NewAuthService(profiles, tokens, revoker, redisClient, cfg.RateLimitLogin, logger)
	authHandler := userHttp.NewAuthHandler(authSvc)

	notificationSvc := notifService.NewNotificationService(notifications, redisClient, logger)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient, logger)

	eventSvc := eventService.NewEventService(events, registrations, searchSvc, imageStorage, logger)
	eventHandler := eventHttp.NewEventHandler(eventSvc)

	registrationSvc := regService.NewRegistrationService(registrations, events, logger)
	registrationHandler := regHttp.NewRegistrationHandler(registrationSvc)

	adminSvc := adminService.NewAdminService(profiles, events, notificationSvc, searchSvc, logger)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	setupCORS(router, cfg.AllowedOrigins)

	api := router.Group("/api")

	// Public routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authMw.RequireAuth(), authHandler.Logout)
	}

	api.GET("/events", eventHandler.ListApproved)
	api.GET("/events/:id", eventHandler.Get)
	api.GET("/societies", authHandler.Societies)
	api.GET("/societies/:id", authHandler.Society)

	// Authenticated routes
	api.GET("/profile/me", authMw.RequireAuth(), authHandler.Me)
	api.GET("/events/search", authMw.RequireAuth(), eventHandler.Search)

	notifGroup := api.Group("/notifications", authMw.RequireAuth())
	{
		notifGroup.GET("", notificationHandler.GetNotifications)
		notifGroup.GET("/unread-count", notificationHandler.UnreadCount)
		notifGroup.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifGroup.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifGroup.GET("/ws", notificationHandler.HandleWebSocket)
	}

	// Society routes
	societyOnly := authMw.RequireRole(entity.RoleSociety)
	api.POST("/events", societyOnly, eventHandler.Propose)
	api.GET("/events/mine", societyOnly, eventHandler.ListMine)
	api.PUT("/events/:id", societyOnly, eventHandler.Update)
	api.DELETE("/events/:id", societyOnly, eventHandler.Delete)
	api.GET("/events/:id/registrations", societyOnly, registrationHandler.Attendees)

	// Student routes
	studentOnly := authMw.RequireRole(entity.RoleStudent)
	api.POST("/events/:id/register", studentOnly, registrationHandler.Register)
	api.DELETE("/events/:id/register", studentOnly, registrationHandler.Cancel)
	api.GET("/registrations/me", studentOnly, registrationHandler.MyRegistrations)

	// Admin routes
	adminGroup := api.Group("/admin", authMw.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/societies/pending", adminHandler.PendingSocieties)
		adminGroup.PUT("/societies/:id/approve", adminHandler.ApproveSociety)
		adminGroup.DELETE("/societies/:id", adminHandler.RejectSociety)
		adminGroup.GET("/events/pending", adminHandler.PendingEvents)
		adminGroup.PUT("/events/:id/approve", adminHandler.ApproveEvent)
		adminGroup.PUT("/events/:id/reject", adminHandler.RejectEvent)
		adminGroup.GET("/events/:id/registrations", registrationHandler.Attendees)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Admin-Bypass"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
