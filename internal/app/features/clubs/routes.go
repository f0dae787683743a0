// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the club management endpoints. Everything requires a
// signed-in session; creation and moderation of whole clubs is admin only,
// while member-level moderation is policy-checked inside the handlers.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Route("/clubs", func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Get("/", h.HandleList)
		r.Get("/user-clubs", h.HandleUserClubs)
		r.Post("/get-club-names", h.HandleClubNames)
		r.Get("/{clubID}/members", h.HandleListMembers)
		r.Post("/leave-club", h.HandleLeaveClub)

		r.Post("/add-member", h.HandleAddMember)
		r.Patch("/{clubID}/ban-member/{memberID}", h.HandleSetMemberBanned(true))
		r.Patch("/{clubID}/unban-member/{memberID}", h.HandleSetMemberBanned(false))
		r.Delete("/{clubID}/delete-member/{memberID}", h.HandleDeleteMember)

		r.Group(func(r chi.Router) {
			r.Use(sm.RequireRole(authz.RoleAdmin))
			r.Post("/create-club", h.HandleCreateClub)
			r.Get("/check-user", h.HandleCheckUser)
			r.Put("/{action:ban|unban}/{clubID}", h.HandleSetBanned)
			r.Delete("/delete/{clubID}", h.HandleDelete)
		})
	})
}
