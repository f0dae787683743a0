// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleList handles GET /api/events/ with every event, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := eventstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("list events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	httpjson.OK(w, map[string]any{"events": events})
}

// HandleMyEvents handles GET /api/events/my-events, the events the
// signed-in user created.
func (h *Handler) HandleMyEvents(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := eventstore.New(h.DB).ListByCreator(ctx, userID)
	if err != nil {
		h.Log.Error("list my events failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	httpjson.OK(w, map[string]any{"events": events})
}

// HandleJoinedEvents handles GET /api/events/joined-events, the events
// where the signed-in user appears on the volunteer list.
func (h *Handler) HandleJoinedEvents(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := eventstore.New(h.DB).ListJoined(ctx, userID)
	if err != nil {
		h.Log.Error("list joined events failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	httpjson.OK(w, map[string]any{"events": events})
}

// HandleGet handles GET /api/events/{eventID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := eventstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("load event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	httpjson.OK(w, map[string]any{"event": e})
}
