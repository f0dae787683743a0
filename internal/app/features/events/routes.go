// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the event endpoints under /events. Creation and edits are
// policy-checked inside the handlers (admins site-wide, clubadmins and
// moderators for their clubs).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Route("/events", func(r chi.Router) {
		r.Use(sm.RequireSignedIn)

		r.Get("/", h.HandleList)
		r.Get("/my-events", h.HandleMyEvents)
		r.Get("/joined-events", h.HandleJoinedEvents)
		r.Post("/joined-events", h.HandleJoinedEvents)
		r.Get("/{eventID}", h.HandleGet)

		r.Post("/upload", h.HandleUpload)
		r.Post("/create", h.HandleCreate)
		r.Put("/update/{eventID}", h.HandleUpdate)
		r.Delete("/delete/{eventID}", h.HandleDelete)

		r.Post("/join/{eventID}", h.HandleJoin)
		r.Post("/leave/{eventID}", h.HandleLeave)
	})
}
