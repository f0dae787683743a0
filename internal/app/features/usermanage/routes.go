// internal/app/features/usermanage/routes.go
package usermanage

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account console under /user-manage, admin only.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Route("/user-manage", func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Use(sm.RequireRole(authz.RoleAdmin))

		r.Get("/list", h.HandleList)
		r.Patch("/ban/{userID}", h.HandleSetBanned(true))
		r.Patch("/unban/{userID}", h.HandleSetBanned(false))
		r.Delete("/delete/{userID}", h.HandleDelete)
	})
}
