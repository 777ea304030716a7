package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/eyepatch-3097/ds-chatbot/middleware"
)

func (a *App) registerRoutes(r chi.Router) {
	// Health / readiness
	r.Get("/health", a.ctrl.Health)
	r.Get("/health/detailed", a.ctrl.HealthDetailed)
	r.Get("/ready", a.ctrl.Ready)
	r.Get("/live", a.ctrl.Live)

	// Public widget endpoints, rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(a.cfg.PublicRatePerMinute, time.Minute))
		r.Post("/api/chat/message", a.ctrl.ChatMessage)
		r.Post("/api/leads", a.ctrl.SubmitLead)
		r.Get("/api/chat/stats", a.ctrl.Stats)
	})

	r.Post("/api/dashboard/login", a.ctrl.DashboardLogin)

	r.Get("/dashboard", a.dashboard(a.ctrl.Dashboard))
	r.Get("/dashboard/leads", a.dashboard(a.ctrl.DashboardLeads))
}

func (a *App) dashboard(next http.HandlerFunc) http.HandlerFunc {
	return middleware.WithDashboard(a.ctrl.ValidateDashboardRequest, a.ctrl.RedirectToLogin, next, a.logger)
}
