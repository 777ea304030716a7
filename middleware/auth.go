package middleware

import (
	"log/slog"
	"net/http"

	"github.com/eyepatch-3097/ds-chatbot/utils"
)

// WithDashboard guards the internal dashboard views with a token check.
// The validate callback owns token parsing so the middleware stays free of
// JWT details.
func WithDashboard(
	validate func(*http.Request) error,
	onError func(http.ResponseWriter, *http.Request),
	next http.HandlerFunc,
	logger *slog.Logger,
) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	authLogger := logger.With("component", "auth")
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validate(r); err != nil {
			authLogger.Warn("dashboard request validation failed",
				"request_id", utils.RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			onError(w, r)
			return
		}
		next(w, r)
	}
}
