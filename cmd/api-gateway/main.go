package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/handler"
	"github.com/noah-isme/resource-planner-api/internal/repository"
	"github.com/noah-isme/resource-planner-api/internal/service"
	"github.com/noah-isme/resource-planner-api/pkg/cache"
	"github.com/noah-isme/resource-planner-api/pkg/config"
	"github.com/noah-isme/resource-planner-api/pkg/database"
	"github.com/noah-isme/resource-planner-api/pkg/logger"
	"github.com/noah-isme/resource-planner-api/pkg/mailer"
	"github.com/noah-isme/resource-planner-api/pkg/storage"
)

// @title Resource Planner API
// @version 1.0.0
// @description Resource planning and HR administration backend.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var rdb *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, running without cache and notifications", zap.Error(err))
	} else {
		rdb = client
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	// repositories
	users := repository.NewUserRepository(db)
	people := repository.NewPersonRepository(db)
	projects := repository.NewProjectRepository(db)
	budgets := repository.NewBudgetRepository(db)
	roles := repository.NewRoleRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	assignmentRequests := repository.NewAssignmentRequestRepository(db)
	weeks := repository.NewControlWeekRepository(db)
	earlyCloses := repository.NewEarlyCloseRepository(db)
	reviews := repository.NewReviewRepository(db)
	documents := repository.NewDocumentRepository(db)
	tables := repository.NewTableRepository(db, metrics)
	notifier := repository.NewRedisNotifier(rdb)

	var cacheRepo service.CacheRepository
	if rdb != nil {
		cacheRepo = repository.NewCacheRepository(rdb, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Planning.CacheTTL, logr, cfg.Planning.CacheEnabled)

	files, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		logr.Fatal("failed to prepare document storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	notifications := service.NewNotificationService(mailer.New(cfg.Mail, logr), cfg.Mail.Reviewers, cfg.Notifications, metrics, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	// services
	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	reviewSvc := service.NewReviewService(reviews, people, notifications, notifier, metrics, validate, logr)
	hrSvc := service.NewHRService(service.HRStores{
		Identifications:    repository.NewIdentificationRepository(db),
		Residences:         repository.NewResidenceRepository(db),
		Certifications:     repository.NewCertificationRepository(db),
		LaboralExperiences: repository.NewLaboralExperienceRepository(db),
		ProjectExperiences: repository.NewProjectExperienceRepository(db),
	}, people, reviewSvc, validate, logr)
	documentSvc := service.NewDocumentService(documents, files, signer, people, reviewSvc, service.DocumentConfig{
		APIPrefix:    cfg.APIPrefix,
		MaxSizeBytes: cfg.Storage.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Storage.AllowedMIMEs,
	}, validate, logr)
	reviewSvc.Register(hrSvc.ReviewCategories()...)
	reviewSvc.Register(documentSvc.ReviewCategory())

	h := handlers{
		auth:          handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.JWT.SecureOnly}),
		user:          handler.NewUserHandler(service.NewUserService(users, people, validate, logr)),
		person:        handler.NewPersonHandler(service.NewPersonService(people, validate, logr)),
		project:       handler.NewProjectHandler(service.NewProjectService(projects, budgets, roles, validate, logr)),
		hr:            handler.NewHRHandler(hrSvc),
		review:        handler.NewReviewHandler(reviewSvc),
		assignment:    handler.NewAssignmentHandler(service.NewAssignmentService(assignments, assignmentRequests, weeks, cacheSvc, validate, logr)),
		controlWeek:   handler.NewControlWeekHandler(service.NewControlWeekService(weeks, people, cacheSvc, validate, logr)),
		earlyClose:    handler.NewEarlyCloseHandler(service.NewEarlyCloseService(earlyCloses, weeks, people, notifications, cacheSvc, notifier, metrics, validate, logr)),
		planning:      handler.NewPlanningHandler(service.NewPlanningService(repository.NewPlanningRepository(db), cacheSvc, service.PlanningConfig{CacheTTL: cfg.Planning.CacheTTL, MaxWeeks: cfg.Planning.MaxWeeks}, validate, logr)),
		document:      handler.NewDocumentHandler(documentSvc),
		table:         handler.NewTableHandler(service.NewTableService(tables, repository.TableDefinitions(), logr)),
		notification:  handler.NewNotificationHandler(notifier),
		metrics:       handler.NewMetricsHandler(metrics, readinessChecks(db.PingContext, rdb)),
		tokens:        authSvc,
		audit:         users,
		observer:      metrics,
		tableNames:    repository.TableDefinitions(),
		cookieName:    cfg.JWT.CookieName,
		apiPrefix:     cfg.APIPrefix,
		swaggerPublic: cfg.Env != config.EnvProduction,
		logger:        logr,
	}
	router := newRouter(cfg, logr, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func readinessChecks(pingDB func(context.Context) error, rdb *redis.Client) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{"database": pingDB}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
