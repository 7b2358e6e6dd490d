package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/danidan902/tullu-dimtu-school-backend/api/swagger"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/handler"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/middleware"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/realtime"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/repository"
	"github.com/danidan902/tullu-dimtu-school-backend/internal/service"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/cache"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/config"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/database"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/jobs"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/logger"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/mailer"
	corsmiddleware "github.com/danidan902/tullu-dimtu-school-backend/pkg/middleware/cors"
	reqidmiddleware "github.com/danidan902/tullu-dimtu-school-backend/pkg/middleware/requestid"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/storage"
)

// @title Tullu Dimtu School API
// @version 1.0.0
// @description School administration backend with a realtime announcement channel
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()

	// Realtime announcement board. All state is in-memory and resets with the
	// process.
	hub := realtime.NewHub(logr)
	announcementStore := repository.NewAnnouncementStore(cfg.Announcements.CountdownWindow)
	readRegistry := repository.NewReadRegistry()
	announcementSvc := service.NewAnnouncementService(announcementStore, readRegistry, hub, validate, logr)

	// Persistent resources.
	teacherRepo := repository.NewTeacherRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	concernRepo := repository.NewConcernRepository(db)
	postCache := repository.NewCacheRepository(redisClient, "posts")

	var sender mailer.Sender = mailer.Noop{}
	if cfg.Mailer.Enabled {
		sender = mailer.NewSendGrid(cfg.Mailer.APIKey, cfg.Mailer.FromName, cfg.Mailer.FromEmail)
	}
	notifySvc := service.NewNotifyService(sender, jobs.QueueConfig{
		Workers:    cfg.Mailer.Workers,
		MaxRetries: cfg.Mailer.MaxRetries,
	}, logr)
	notifySvc.Start(ctx)
	defer notifySvc.Stop()

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	// Export files are one-shot downloads. Sweep them once their signed links
	// have expired.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := exportStore.CleanupOlderThan(cfg.Exports.SignedURLTTL)
				if err != nil {
					logr.Sugar().Warnw("export cleanup failed", "error", err)
				} else if len(removed) > 0 {
					logr.Sugar().Infow("expired exports removed", "count", len(removed))
				}
			}
		}
	}()

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	uploadSigner := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshExpiration, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	admissionSvc := service.NewAdmissionService(admissionRepo, notifySvc, validate, logr)
	visitSvc := service.NewVisitService(visitRepo, notifySvc, validate, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, notifySvc, validate, logr)
	postSvc := service.NewPostService(postRepo, postCache, cfg.Posts.CacheTTL, validate, logr)
	exportSvc := service.NewExportService(admissionRepo, visitRepo, registrationRepo, teacherRepo, exportStore, exportSigner, logr)
	uploadSvc := service.NewUploadService(uploadRepo, uploadStore, uploadSigner, cfg.Uploads.MaxFileSizeBytes, logr)
	materialSvc := service.NewMaterialService(materialRepo, uploadRepo, uploadSigner, validate, logr)
	concernSvc := service.NewConcernService(concernRepo, validate, logr)

	if err := authSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
		logr.Sugar().Fatalw("failed to seed admin account", "error", err)
	}

	metrics := middleware.NewMetrics()
	metrics.RegisterGauge("ws_connected_clients", "Currently connected realtime clients.", func() float64 {
		return float64(announcementSvc.ConnectedClients())
	})
	metrics.RegisterGauge("announcements_live", "Announcements currently on the board.", func() float64 {
		return float64(announcementSvc.AnnouncementCount())
	})
	metrics.RegisterGauge("notify_pending_jobs", "Queued but unsent notification emails.", func() float64 {
		return float64(notifySvc.Pending())
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Handlers{
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Live:          handler.NewLiveHandler(announcementSvc, cfg.CORS.AllowedOrigins, cfg.Announcements.SendBufferSize, logr),
		Health:        handler.NewHealthHandler(announcementSvc),
		Auth:          handler.NewAuthHandler(authSvc),
		Teachers:      handler.NewTeacherHandler(teacherSvc),
		Admissions:    handler.NewAdmissionHandler(admissionSvc),
		Visits:        handler.NewVisitHandler(visitSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		Posts:         handler.NewPostHandler(postSvc),
		Materials:     handler.NewMaterialHandler(materialSvc),
		Concerns:      handler.NewConcernHandler(concernSvc),
		Exports:       handler.NewExportHandler(exportSvc, logr),
		Uploads:       handler.NewUploadHandler(uploadSvc, logr),
		Verifier:      authSvc,
	}.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("forced shutdown", "error", err)
	}
}
