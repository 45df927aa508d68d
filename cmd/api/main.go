package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "blinds-backend/api/swagger" // swagger docs
	"blinds-backend/internal/config"
	"blinds-backend/internal/database"
	"blinds-backend/internal/document"
	"blinds-backend/internal/events"
	"blinds-backend/internal/handler"
	"blinds-backend/internal/logger"
	"blinds-backend/internal/render"
	"blinds-backend/internal/repository"
	"blinds-backend/internal/service"
	"blinds-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title           Blinds Jobs API
// @version         1.0
// @description     Jobs, costing and documents for a blinds installation business.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		// no logger yet
		panic(err)
	}

	log, err := logger.New(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}

	companyDefaults, err := config.LoadCompanyProfile(cfg.CompanyProfileFile)
	if err != nil {
		log.Fatal("Failed to load company profile", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(cfg.CORSOrigins, log)
	go wsHub.Run(ctx)

	publishers := events.Multi{wsHub}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("Kafka unavailable, job events stay local", zap.Error(err))
		} else {
			defer producer.Close()
			publishers = append(publishers, producer)
		}
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	jobRepo := repository.NewJobRepository(db)
	itemRepo := repository.NewLineItemRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	reportRepo := repository.NewReportRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	profileService := service.NewProfileService(profileRepo, companyDefaults)
	if err := profileService.Seed(ctx); err != nil {
		log.Fatal("Failed to seed company profile", zap.Error(err))
	}
	jobService := service.NewJobService(jobRepo, activityRepo, txManager, publishers, cfg.JobIDPrefix)
	lineItemService := service.NewLineItemService(jobRepo, itemRepo, activityRepo, txManager, publishers)
	costService := service.NewCostService(jobRepo, activityRepo, txManager, publishers)
	documentService := service.NewDocumentService(jobRepo, activityRepo, profileService,
		document.NewComposer(), render.NewPDF(log), log)
	reportService := service.NewReportService(jobRepo, reportRepo)
	activityService := service.NewActivityService(jobRepo, activityRepo)
	quoteService := service.NewQuoteService(quoteRepo, jobRepo, activityRepo, txManager)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.GinMiddleware(log), logger.Recovery(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", wsHub.ServeWs)

	api := router.Group("")
	handler.NewJobHandler(jobService, activityService).RegisterRoutes(api)
	handler.NewLineItemHandler(lineItemService).RegisterRoutes(api)
	handler.NewCostHandler(costService).RegisterRoutes(api)
	handler.NewDocumentHandler(documentService).RegisterRoutes(api)
	handler.NewSettingsHandler(profileService).RegisterRoutes(api)
	handler.NewReportHandler(reportService).RegisterRoutes(api)
	handler.NewQuoteHandler(quoteService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
