// Package main runs the podcast advertising platform HTTP server with
// WebSocket delivery metrics and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/podcastflow/backend/config"
	"github.com/podcastflow/backend/internal/auth"
	"github.com/podcastflow/backend/internal/billing"
	"github.com/podcastflow/backend/internal/campaigns"
	"github.com/podcastflow/backend/internal/integrations/megaphone"
	"github.com/podcastflow/backend/internal/integrations/youtube"
	"github.com/podcastflow/backend/internal/master"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/organizations"
	"github.com/podcastflow/backend/internal/ratecards"
	"github.com/podcastflow/backend/internal/rbac"
	"github.com/podcastflow/backend/internal/realtime"
	"github.com/podcastflow/backend/internal/reports"
	"github.com/podcastflow/backend/internal/schedules"
	"github.com/podcastflow/backend/internal/shows"
	"github.com/podcastflow/backend/internal/tenant"
	"github.com/podcastflow/backend/internal/users"
	"github.com/podcastflow/backend/pkg/database"
	"github.com/podcastflow/backend/pkg/queue"
	"github.com/podcastflow/backend/pkg/redis"
	"github.com/podcastflow/backend/pkg/response"
	"github.com/podcastflow/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ReportsBucket:        cfg.AWS.ReportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	executor := tenant.NewExecutor(pool, logger)
	provisioner := tenant.NewProvisioner(pool, logger)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	permissions := rbac.New()

	// Auth + organizations
	orgRepo := organizations.NewRepository(pool)
	authRepo := auth.NewRepository(executor)
	cookies := auth.CookieSettings{
		Domain: cfg.Server.CookieDomain,
		Secure: cfg.Server.CookieSecure,
		MaxAge: cfg.JWT.ExpireHours * 3600,
	}
	authHandler := auth.NewHandler(authRepo, orgRepo, jwtService, cookies, logger)
	orgHandler := organizations.NewHandler(orgRepo, authRepo, provisioner, logger)
	userHandler := users.NewHandler(authRepo, logger)

	// Settings (also the exclusivity checker for campaign activation)
	masterRepo := master.NewRepository(executor)
	masterHandler := master.NewHandler(masterRepo, logger)

	// Campaigns
	campaignRepo := campaigns.NewRepository(executor)
	campaignHandler := campaigns.NewHandler(campaignRepo, masterRepo, logger)

	// Shows, episodes, rate cards, schedules
	showRepo := shows.NewRepository(executor)
	showHandler := shows.NewHandler(showRepo, logger)
	rateRepo := ratecards.NewRepository(executor)
	rateHandler := ratecards.NewHandler(rateRepo, logger)
	scheduleRepo := schedules.NewRepository(executor)
	scheduleHandler := schedules.NewHandler(scheduleRepo, campaignRepo, showRepo, rateRepo, logger)

	// Billing
	billingRepo := billing.NewRepository(executor)
	billingHandler := billing.NewHandler(billingRepo, campaignRepo, logger)

	// Reports
	jobQueue := queue.NewQueue(rdb.Client, logger)
	reportRepo := reports.NewRepository(executor)
	reportHandler := reports.NewHandler(reportRepo, jobQueue, s3Client, logger)

	// Integrations
	quota := youtube.NewQuotaTracker(rdb.Client, int64(cfg.YouTube.DailyQuota), cfg.YouTube.EnforceQuota)
	youtubeHandler := youtube.NewHandler(youtube.NewClient(cfg.YouTube.APIKey, quota), quota, logger)
	megaphoneClient := megaphone.NewClient(cfg.Megaphone.APIKey, cfg.Megaphone.APISecret, cfg.Megaphone.BaseURL)
	megaphoneHandler := megaphone.NewHandler(megaphoneClient, showRepo, logger)

	// Realtime delivery metrics
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	metricsBroadcaster := realtime.NewMetricsBroadcaster(hub, executor,
		time.Duration(cfg.Metrics.TickSeconds)*time.Second, logger)

	validate := authHandler.ValidateToken()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	router.POST("/api/auth/signup", orgHandler.Signup)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)
	router.GET("/api/plans", orgHandler.ListPlans)

	// Protected API: JWT, then tenant resolution
	api := router.Group("/api")
	api.Use(middleware.JWT(validate))
	api.Use(middleware.ResolveTenant(orgRepo, rdb.Client, logger))
	{
		api.GET("/auth/me", authHandler.Me)
		api.GET("/organization", orgHandler.Get)

		// Users
		api.GET("/users", userHandler.List)
		api.POST("/users", middleware.RequireCapability(permissions, rbac.CapUserManage), userHandler.Create)
		api.PUT("/users/:id/role", middleware.RequireCapability(permissions, rbac.CapUserManage), userHandler.UpdateRole)
		api.DELETE("/users/:id", middleware.RequireCapability(permissions, rbac.CapUserManage), userHandler.Delete)

		// Campaigns
		api.GET("/campaigns", campaignHandler.List)
		api.GET("/campaigns/:id", campaignHandler.Get)
		api.POST("/campaigns", middleware.RequireCapability(permissions, rbac.CapCampaignWrite), campaignHandler.Create)
		api.PUT("/campaigns/:id", middleware.RequireCapability(permissions, rbac.CapCampaignWrite), campaignHandler.Update)
		api.PUT("/campaigns/:id/status", middleware.RequireCapability(permissions, rbac.CapCampaignWrite), campaignHandler.UpdateStatus)
		api.GET("/campaigns/:id/schedule", scheduleHandler.ListByCampaign)

		// Shows and episodes
		api.GET("/shows", showHandler.List)
		api.GET("/shows/:id", showHandler.Get)
		api.POST("/shows", middleware.RequireCapability(permissions, rbac.CapCampaignWrite), showHandler.Create)
		api.PUT("/shows/:id", middleware.RequireCapability(permissions, rbac.CapCampaignWrite), showHandler.Update)
		api.GET("/shows/:id/episodes", showHandler.ListEpisodes)
		api.POST("/shows/:id/episodes", middleware.RequireCapability(permissions, rbac.CapScheduleWrite), showHandler.CreateEpisode)
		api.GET("/shows/:id/schedule", scheduleHandler.ListByShow)

		// Rate cards
		api.GET("/shows/:id/rates", rateHandler.List)
		api.POST("/shows/:id/rates", middleware.RequireCapability(permissions, rbac.CapRateCardWrite), rateHandler.Create)
		api.DELETE("/shows/:id/rates/:rateID", middleware.RequireCapability(permissions, rbac.CapRateCardWrite), rateHandler.Delete)

		// Schedules
		api.POST("/schedules", middleware.RequireCapability(permissions, rbac.CapScheduleWrite), scheduleHandler.Create)
		api.PUT("/schedules/:id/negotiated", middleware.RequireCapability(permissions, rbac.CapScheduleWrite), scheduleHandler.UpdateNegotiated)
		api.DELETE("/schedules/:id", middleware.RequireCapability(permissions, rbac.CapScheduleWrite), scheduleHandler.Delete)

		// Orders and invoices
		api.GET("/orders", billingHandler.ListOrders)
		api.POST("/orders", middleware.RequireCapability(permissions, rbac.CapBillingWrite), billingHandler.CreateOrder)
		api.PUT("/orders/:id/status", middleware.RequireCapability(permissions, rbac.CapBillingWrite), billingHandler.UpdateOrderStatus)
		api.GET("/invoices", billingHandler.ListInvoices)
		api.GET("/invoices/:id", billingHandler.GetInvoice)
		api.POST("/invoices", middleware.RequireCapability(permissions, rbac.CapBillingWrite), billingHandler.CreateInvoice)
		api.PUT("/invoices/:id/status", middleware.RequireCapability(permissions, rbac.CapBillingWrite), billingHandler.UpdateInvoiceStatus)

		// Master settings: any authenticated role may view, writes need master:manage
		api.GET("/master/settings", masterHandler.ListSettings)
		api.PUT("/master/settings/:key", middleware.RequireCapability(permissions, rbac.CapMasterManage), masterHandler.PutSetting)
		api.GET("/master/exclusivity", masterHandler.ListExclusivity)
		api.PUT("/master/exclusivity", middleware.RequireCapability(permissions, rbac.CapMasterManage), masterHandler.SetExclusivity)

		// Reports
		api.GET("/reports", reportHandler.List)
		api.GET("/reports/:id", reportHandler.Get)
		api.POST("/reports", middleware.RequireCapability(permissions, rbac.CapReportRun), reportHandler.Create)
		api.GET("/reports/:id/download-url", reportHandler.DownloadURL)

		// Integrations
		api.GET("/youtube/channels/:id", youtubeHandler.GetChannel)
		api.GET("/youtube/videos/:id", youtubeHandler.GetVideo)
		api.GET("/youtube/quota", youtubeHandler.QuotaStatus)
		api.GET("/megaphone/podcasts/:id", megaphoneHandler.GetPodcast)
		api.POST("/megaphone/import", middleware.RequireCapability(permissions, rbac.CapScheduleWrite), megaphoneHandler.Import)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, validate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())
	defer metricsCancel()
	go metricsBroadcaster.Run(metricsCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	metricsCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
