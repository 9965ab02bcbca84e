package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	casesvc "github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/handlers"
)

type Dependencies struct {
	CaseService *casesvc.Service
	Logger      *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	reportHandler := handlers.NewReportHandler(deps.CaseService)
	actionHandler := handlers.NewActionHandler(deps.CaseService)
	metricsHandler := handlers.NewMetricsHandler(deps.CaseService)

	r.Get("/healthz", handlers.Health)

	r.Route("/api/v1/moderation", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", reportHandler.Create)
			r.Get("/", reportHandler.List)
			r.Post("/bulk", reportHandler.BulkUpdate)
			r.Route("/{reportID}", func(r chi.Router) {
				r.Get("/", reportHandler.Get)
				r.Patch("/status", reportHandler.UpdateStatus)
				r.Post("/assign", reportHandler.Assign)
				r.Post("/escalate", reportHandler.Escalate)
				r.Post("/resolve", reportHandler.Resolve)
				r.Post("/dismiss", reportHandler.Dismiss)
				r.Post("/actions", reportHandler.TakeAction)
			})
		})

		r.Route("/actions", func(r chi.Router) {
			r.Post("/", actionHandler.Create)
			r.Get("/", actionHandler.List)
			r.Post("/expire", actionHandler.Expire)
			r.Route("/{actionID}", func(r chi.Router) {
				r.Get("/", actionHandler.Get)
				r.Post("/reverse", actionHandler.Reverse)
			})
		})

		r.Get("/users/{userID}/actions/active", actionHandler.ListActiveForUser)
		r.Get("/metrics", metricsHandler.Get)
	})
}
