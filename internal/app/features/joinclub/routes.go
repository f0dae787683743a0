// internal/app/features/joinclub/routes.go
package joinclub

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the join-request endpoints under /join-club. All of them
// require a signed-in session; the review endpoints additionally check
// the club-management policy inside the handlers.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Route("/join-club", func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Get("/clubs", h.HandleBrowseClubs)
		r.Post("/{clubID}/join", h.HandleJoin)
		r.Get("/{clubID}/requests", h.HandlePending)
		r.Post("/requests/{requestID}", h.HandleReview)
	})
}
