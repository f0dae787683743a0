// internal/app/features/roles/routes.go
package roles

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the role provisioning endpoint under /roles, admin only.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Route("/roles", func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Use(sm.RequireRole(authz.RoleAdmin))

		r.Post("/check-email", h.HandleCheckEmail)
	})
}
