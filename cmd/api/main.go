package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"wp-dispatch/cmd/api/auth"
	"wp-dispatch/cmd/api/router"
	"wp-dispatch/cmd/api/services"
	"wp-dispatch/config"
	"wp-dispatch/db"
	"wp-dispatch/eventbus"
	"wp-dispatch/favicon"
	"wp-dispatch/logger"
	"wp-dispatch/repositories"
	"wp-dispatch/wordpress"
)

// @title           wp-dispatch API
// @version         1.0
// @description     Register WordPress blogs and publish posts to them
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Errorf("storage init failed: %v", err)
		os.Exit(1)
	}

	bus, topics := openEventBus(cfg.Events)
	defer bus.Close()

	wpClient := wordpress.NewClient(nil, wordpress.Options{
		Production:      cfg.IsProduction(),
		RequestTimeout:  cfg.WordPress.RequestTimeout,
		ProbeRouteLimit: cfg.WordPress.ProbeRouteLimit,
		UserAgent:       cfg.WordPress.UserAgent,
	})
	icons := favicon.NewResolver(nil, favicon.Config{
		Timeout:     cfg.Favicon.Timeout,
		FallbackURL: cfg.Favicon.FallbackURL,
		UserAgent:   cfg.WordPress.UserAgent,
	})

	deps := router.Deps{
		Blogs:          services.NewBlogService(store.Blogs, store.Users, icons, bus, topics),
		Users:          services.NewUserService(store.Users, bus, topics),
		Publish:        services.NewPublishService(store.Blogs, wpClient, cfg.Environment, bus, topics),
		Favicon:        icons,
		Ping:           store.Ping,
		WebhookSecret:  cfg.Auth.WebhookSecret,
		MaxUploadBytes: cfg.WordPress.MaxUploadBytes,
	}
	if cfg.Auth.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.Auth)
		if err != nil {
			logger.Log.Errorf("jwt init failed: %v", err)
			os.Exit(1)
		}
		deps.Session = jwtManager
	} else {
		logger.Log.Warn("auth.jwt_secret is not set; /api/v1 is served without session auth")
	}

	engine := router.New(deps)
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}).Handler(engine)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{
			"addr":        cfg.Server.Addr,
			"environment": cfg.Environment,
			"storage":     cfg.Storage.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server error: %v", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown 설정
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("api server shutdown error: %v", err)
	}
	if store.Close != nil {
		if err := store.Close(shutdownCtx); err != nil {
			logger.Log.Errorf("storage close error: %v", err)
		}
	}
	logger.Log.Info("api server stopped")
}

func openStore(ctx context.Context, cfg config.StorageConfig) (*repositories.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return repositories.NewMemoryStore(), nil
	case "mongo":
		database, err := db.InitMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewMongoStore(database), nil
	case "postgres":
		conn, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return repositories.NewSQLStore(conn, repositories.DialectPostgres), nil
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repositories.NewSQLStore(conn, repositories.DialectSQLite), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// openEventBus 는 브로커가 설정되어 있으면 Kafka 로, 아니면 로그로만 이벤트를 내보낸다.
func openEventBus(cfg config.EventsConfig) (eventbus.EventBus, eventbus.Topics) {
	topics := eventbus.NewTopics(cfg.TopicPrefix)
	if cfg.KafkaBrokers == "" {
		return eventbus.NewLogBus(0), topics
	}
	if err := eventbus.EnsureTopics(cfg.KafkaBrokers, topics.All(), 3); err != nil {
		logger.Log.Warnf("kafka topic setup failed, falling back to log bus: %v", err)
		return eventbus.NewLogBus(0), topics
	}
	bus, err := eventbus.NewKafkaEventBus(cfg.KafkaBrokers)
	if err != nil {
		logger.Log.Warnf("kafka producer init failed, falling back to log bus: %v", err)
		return eventbus.NewLogBus(0), topics
	}
	return bus, topics
}
