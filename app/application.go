package app

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eyepatch-3097/ds-chatbot/config"
	"github.com/eyepatch-3097/ds-chatbot/controller"
	"github.com/eyepatch-3097/ds-chatbot/middleware"
	"github.com/eyepatch-3097/ds-chatbot/migrations"
	"github.com/eyepatch-3097/ds-chatbot/platform/db"
	applog "github.com/eyepatch-3097/ds-chatbot/platform/logger"
	"github.com/eyepatch-3097/ds-chatbot/platform/rediscache"
	"github.com/eyepatch-3097/ds-chatbot/store"
)

type App struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	ctrl   *controller.Controller
}

func New(cfg config.Config) (*App, error) {
	logger := applog.New(applog.Config{
		Service:     cfg.ServiceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		AddSource:   cfg.LogAddSource,
		Color:       cfg.LogColor,
	})
	database, err := db.Open(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	cache, err := rediscache.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	st := store.New(database, cache)
	app := &App{cfg: cfg, logger: logger, store: st}
	app.ctrl = controller.New(cfg, logger, st.DB, st.Redis)
	if cfg.EnableAutoMigration {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := migrations.Run(ctx, st.DB, filepath.Join("migrations", "sql")); err != nil {
			app.Close()
			return nil, err
		}
	}
	return app, nil
}

func (a *App) Close() {
	a.store.Close()
}

func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogger(a.logger))
	r.Use(middleware.WithRecovery(a.logger))
	a.registerRoutes(r)
	return middleware.WithCommonHeaders(r, a.cfg.CORSAllowedOrigins)
}

func Run() error {
	cfg := config.Load()
	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.logger.Info("chatbot API listening", "port", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, app.Handler())
}
