package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/apiserver/handlers"
	"github.com/motordesk/motordesk/pkg/apiserver/middleware"
	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/config"
	"github.com/motordesk/motordesk/pkg/service"
	"github.com/motordesk/motordesk/pkg/store/postgres"
	redisclient "github.com/motordesk/motordesk/pkg/store/redis"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	redis  *redisclient.Client
	cfg    *config.Config
	logger *zap.Logger
	tokens *auth.TokenManager
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		cfg:    cfg,
		logger: logger,
		tokens: auth.NewTokenManager(
			[]byte(cfg.Auth.JWTSecret),
			cfg.Auth.AccessTokenTTL,
			cfg.Auth.RefreshTokenTTL,
		),
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var sessions *redisclient.SessionStore
	if s.redis != nil {
		sessions = redisclient.NewSessionStore(s.redis, s.cfg.Auth.RefreshTokenTTL)
	}

	authHandler := handlers.NewAuthHandler(s.db, s.tokens, sessions, s.logger)
	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/refresh", authHandler.Refresh)
	r.POST("/auth/logout", authHandler.Logout)

	contractService := service.NewContractService(s.db, s.logger)
	dashboardService := service.NewDashboardService(s.db, s.logger)
	uploadService := service.NewUploadService(s.db, s.cfg.Import.CarBatchSize, s.logger)

	api := r.Group("/api/v1")
	{
		api.Use(middleware.Auth(s.tokens))

		companyHandler := handlers.NewCompanyHandler(s.db, s.logger)
		api.GET("/company", companyHandler.Get)
		api.PUT("/company", middleware.AdminOnly(), companyHandler.Update)

		userHandler := handlers.NewUserHandler(s.db, s.logger)
		users := api.Group("/users", middleware.AdminOnly())
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)

		customerHandler := handlers.NewCustomerHandler(s.db, s.logger)
		api.POST("/customers", customerHandler.Create)
		api.GET("/customers", customerHandler.List)
		api.GET("/customers/:id", customerHandler.Get)
		api.PUT("/customers/:id", customerHandler.Update)
		api.DELETE("/customers/:id", customerHandler.Delete)

		carHandler := handlers.NewCarHandler(s.db, s.logger)
		api.POST("/cars", carHandler.Create)
		api.GET("/cars", carHandler.List)
		api.GET("/cars/:id", carHandler.Get)
		api.PUT("/cars/:id", carHandler.Update)
		api.DELETE("/cars/:id", carHandler.Delete)

		contractHandler := handlers.NewContractHandler(contractService, s.logger)
		api.POST("/contracts", contractHandler.Create)
		api.GET("/contracts", contractHandler.List)
		api.GET("/contracts/:id", contractHandler.Get)
		api.PUT("/contracts/:id", contractHandler.Update)
		api.DELETE("/contracts/:id", contractHandler.Delete)

		documentHandler := handlers.NewDocumentHandler(s.db, s.logger)
		api.POST("/documents", documentHandler.Create)
		api.GET("/documents/:id", documentHandler.Get)
		api.PUT("/documents/:id", documentHandler.Rename)
		api.DELETE("/documents/:id", documentHandler.Delete)
		api.GET("/contracts/:id/documents", documentHandler.ListByContract)

		uploadHandler := handlers.NewUploadHandler(uploadService, s.cfg.Import.MaxUploadBytes, s.logger)
		api.POST("/uploads/cars", uploadHandler.ImportCars)
		api.POST("/uploads/customers", uploadHandler.ImportCustomers)
		api.GET("/uploads", uploadHandler.List)

		dashboardHandler := handlers.NewDashboardHandler(dashboardService, s.logger)
		api.GET("/dashboard", dashboardHandler.Overview)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
