package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/nidhogg/crossgate/internal/bus"
	"github.com/nidhogg/crossgate/internal/config"
	"github.com/nidhogg/crossgate/internal/gateway"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/registry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/crossgate.json"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	logger.Info("Starting crossgate...", zap.String("config", cfgPath))

	store, closeStore, err := newStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("id store init failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeStore()

	ids := ident.NewResolver(store, logger)
	dispatch := bus.New(logger)
	reg := registry.Default()
	gw := gateway.NewGateway(reg, ids, dispatch, logger)

	ctx := context.Background()
	for _, ac := range cfg.Accounts {
		switch ac.Platform {
		case "demo":
			self, rerr := ids.Resolve(ctx, ac.Platform, ac.SelfID)
			if rerr != nil {
				logger.Fatal("resolve demo identity failed", zap.Error(rerr))
			}
			if _, rerr = gw.Register(ctx, ac, gateway.NewDemo(self)); rerr != nil {
				logger.Fatal("register account failed",
					zap.String("platform", ac.Platform), zap.Error(rerr))
			}
		default:
			logger.Warn("no adapter for platform, skipping account",
				zap.String("platform", ac.Platform), zap.String("account", ac.SelfID))
		}
	}

	if err := gw.StartAll(ctx); err != nil {
		logger.Fatal("gateway start failed", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	r.Mount("/", gw.Routes())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("crossgate listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down crossgate...")
	srv.Shutdown(context.Background())
	gw.Close()
	dispatch.Close()
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

// newStore picks the identifier-table backend. Postgres runs its
// migration before first use.
func newStore(dc config.DatabaseConfig, logger *zap.Logger) (ident.Store, func(), error) {
	switch dc.Driver {
	case "", "memory":
		return ident.NewMemoryStore(), func() {}, nil
	case "postgres":
		pg, err := ident.NewPostgresStore(dc.Postgres.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(context.Background()); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case "redis":
		rd, err := ident.NewRedisStore(dc.Redis.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		return rd, func() { rd.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver: %s", dc.Driver)
	}
}
