package controller

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/eyepatch-3097/ds-chatbot/config"
)

// Controller holds all dependencies for request handlers. Outbound clients
// are constructed once here instead of living in package-level globals.
type Controller struct {
	cfg    config.Config
	db     *sql.DB
	redis  *redis.Client
	logger *slog.Logger
	llm    *llmClient
	geo    *geoClient
	mail   *mailer
}

func New(cfg config.Config, logger *slog.Logger, db *sql.DB, redisClient *redis.Client) *Controller {
	return &Controller{
		cfg:    cfg,
		db:     db,
		redis:  redisClient,
		logger: logger,
		llm:    newLLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel),
		geo:    newGeoClient(cfg.GeoAPIBaseURL),
		mail: &mailer{
			host:     cfg.EmailHost,
			port:     cfg.EmailPort,
			user:     cfg.EmailUser,
			password: cfg.EmailPassword,
			from:     cfg.EmailFrom,
		},
	}
}
