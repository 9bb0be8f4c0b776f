package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nostalgic/widgets/internal/client"
	"github.com/nostalgic/widgets/internal/config"
	"github.com/nostalgic/widgets/internal/handler"
	"github.com/nostalgic/widgets/internal/middleware"
	"github.com/nostalgic/widgets/internal/routes"
	"github.com/nostalgic/widgets/internal/session"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/cache"
	"github.com/nostalgic/widgets/pkg/i18n"
	pkglogger "github.com/nostalgic/widgets/pkg/logger"
	pkgredis "github.com/nostalgic/widgets/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", os.Getenv("WIDGETS_CONFIG"), "path to the YAML config file")
	envDir := flag.String("env-dir", ".", "directory holding .env files")
	flag.Parse()

	dotenvFiles, dotenvErr := config.LoadDotEnv(*envDir)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglogger.InitStructured(cfg.Server.Env, cfg.Logging.Level)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v, config: %q", cfg.Server.Env, dotenvFiles, *configPath)
	if dotenvErr != nil {
		pkglogger.Warn("Some env files were skipped: %v", dotenvErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis 연결 (optional)
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
			defer redisClient.Close()
		}
	}
	store := cache.NewService(redisClient)

	bundle := i18n.Default()
	if dir := cfg.Widgets.LocalesDir; dir != "" {
		if err := bundle.LoadDir(dir); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}

	newClient := func(base string) *client.Client {
		return client.New(base, client.WithTimeout(cfg.API.Timeout), client.WithUserAgent(cfg.API.UserAgent))
	}
	api := newClient(cfg.API.BaseURL)
	ambient := i18n.AmbientLocale("")

	registry := session.New(func() *widget.Controller {
		return widget.NewController(api, widget.Options{
			Bundle:           bundle,
			AmbientLocale:    ambient,
			ToastDuration:    cfg.Widgets.ToastDuration,
			AcceptStaleLoads: cfg.Widgets.AcceptStaleLoads,
		})
	}, store, cfg.Widgets.InstanceTTL, cfg.Widgets.MaxInstances)
	defer registry.Close()

	widgetHandler := handler.NewWidgetHandler(cfg, registry, bundle, func(base string) *widget.Siblings {
		return widget.NewSiblings(newClient(base), bundle, ambient)
	})
	healthHandler := handler.NewHealthHandler(store, registry)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 || (len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.I18n())
	router.Use(middleware.EmbedHeaders(cfg.CORS.AllowOrigins))
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
		router.Use(middleware.Metrics(metricsPath))
	}
	router.Use(middleware.RequestLogger())

	var actionLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled && redisClient != nil {
		actionLimit = middleware.RateLimit(redisClient, middleware.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
			Bundle:   bundle,
		})
	}

	var pageCache gin.HandlerFunc
	if redisClient != nil && cfg.Widgets.ResponseCacheTTL > 0 {
		pageCache = middleware.Cache(redisClient, middleware.CacheConfig{TTL: cfg.Widgets.ResponseCacheTTL})
	}

	routes.Setup(router, widgetHandler, healthHandler, actionLimit, pageCache, metricsPath)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		pkglogger.Info("Starting widget server on %s (api: %s)", cfg.Server.Addr, cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down widget server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Warn("graceful shutdown failed: %v", err)
	}
}
