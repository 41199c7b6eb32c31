package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"unihub/internal/auth"
	"unihub/internal/cache"
	"unihub/internal/config"
	"unihub/internal/content"
	"unihub/internal/database"
	"unihub/internal/database/migration"
	handlers "unihub/internal/http/handler"
	"unihub/internal/http/middleware"
	"unihub/internal/logger"
	"unihub/internal/otel"
	"unihub/internal/repository/mongo"
	"unihub/internal/repository/postgres"
	"unihub/internal/search"
	"unihub/internal/service"
	"unihub/internal/storage"
)

const (
	bodyLimit       = 50 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
)

// @title UniHub API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Users live in PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Documents and engagement live in MongoDB
	mongoClient, mongoDB, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		log.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer func() { _ = database.DisconnectMongo(mongoClient) }()

	if err := mongo.EnsureIndexes(ctx, mongoDB, cfg.Mongo.DocumentsCollection); err != nil {
		log.Fatal("failed to create mongo indexes", zap.Error(err))
	}

	objStore, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}
	avatars, err := storage.NewLocal(cfg.Static.AvatarDir)
	if err != nil {
		log.Fatal("failed to initialize avatar storage", zap.Error(err))
	}

	var contentCache cache.ContentCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedis(cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			log.Warn("content cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			contentCache = rc
		}
	}

	userRepo := postgres.NewUserPostgres(db)
	docRepo := mongo.NewDocumentMongo(mongoDB, cfg.Mongo.DocumentsCollection)
	engagementRepo := mongo.NewEngagementMongo(mongoDB, cfg.Mongo.DocumentsCollection)

	// A nil engine makes search go straight to the document store.
	var engine search.Engine
	if cfg.Search.MeiliURL != "" {
		meili := search.NewMeili(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, log)
		defer meili.Close()
		engine = meili
	}
	searchSvc := search.NewService(engine, docRepo, log)

	tokens, err := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("failed to configure tokens", zap.Error(err))
	}

	authSvc := service.NewAuthService(userRepo, tokens, avatars)
	docSvc := service.NewDocumentService(objStore, docRepo, engagementRepo, searchSvc, log)
	engagementSvc := service.NewEngagementService(docRepo, engagementRepo)
	contentSvc := service.NewContentService(docRepo, objStore,
		content.NewProcessor(cfg.Content.KeywordCount, 0), contentCache, cfg.Content, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    bodyLimit,
	})

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	// Register global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Auth:       authSvc,
		Documents:  docSvc,
		Engagement: engagementSvc,
		Content:    contentSvc,
		Checks: []handlers.HealthCheck{
			{Name: "sql", Ping: db.PingContext},
			{Name: "mongo", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
		},
		Log: log,
	})

	// Frontend last so API routes win.
	app.Static("/", cfg.Static.PublicDir)

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("server_shutting_down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}

	tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		log.Warn("tracing shutdown failed", zap.Error(err))
	}
}
