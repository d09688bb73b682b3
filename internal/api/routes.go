package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/debtflyhq/debtfly/internal/types"
)

// NewRouter creates a new router with all routes configured. The public
// intake flow needs no authentication; the portal plan flow sits behind the
// session token minted at magic-link verification.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health", h.Health)
		r.Get("/creditors", h.Creditors)
		r.Get("/addresses", h.Addresses)

		r.Post("/auth/magic-link", h.SendMagicLink)
		r.Post("/auth/verify", h.VerifyMagicLink)

		r.Route("/flows/public", func(r chi.Router) {
			r.Use(FlowMiddleware(types.FlowPublic))
			mountFlowRoutes(r, h)
		})

		// Portal routes (session required)
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(h.sessions.Parse))

			r.Route("/flows/plan", func(r chi.Router) {
				r.Use(FlowMiddleware(types.FlowPlan))
				mountFlowRoutes(r, h)
			})

			r.Get("/plan/quote", h.Quote)
			r.Post("/plan/pathway", h.ClassifyPathway)
			r.Post("/plan/affordability-check", h.AffordabilityCheck)
		})
	})

	return r
}

// mountFlowRoutes wires the per-flow ledger and gate surface. The flow name
// comes from the enclosing route, so both flows share one handler set.
func mountFlowRoutes(r chi.Router, h *Handler) {
	r.Get("/steps", h.ListSteps)
	r.Get("/steps/{step}", h.GetStep)
	r.Post("/steps/{step}", h.SaveStep)
	r.Get("/access/{step}", h.CheckAccess)
	r.Post("/reset", h.ResetFlow)
	r.Post("/complete", h.CompleteFlow)
	r.Get("/summary", h.Summary)
}
