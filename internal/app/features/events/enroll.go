// internal/app/features/events/enroll.go
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

// HandleJoin handles POST /api/events/join/{eventID}. The store checks,
// in order: event exists, club restriction, capacity, duplicate entry.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := eventstore.New(h.DB).Join(ctx, eventID, userID); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, eventstore.ErrNoClubForEvent):
			httpjson.Error(w, http.StatusBadRequest, "Event is restricted to club members, but no club is associated with this event")
		case errors.Is(err, eventstore.ErrClubNotFound):
			httpjson.Error(w, http.StatusNotFound, "Club not found")
		case errors.Is(err, eventstore.ErrNotClubMember):
			httpjson.Error(w, http.StatusForbidden, "You must be a member of the club to join this event")
		case errors.Is(err, eventstore.ErrBannedFromClub):
			httpjson.Error(w, http.StatusForbidden, "You are banned from this club and cannot join its events")
		case errors.Is(err, eventstore.ErrVolunteerLimitReached):
			httpjson.Error(w, http.StatusBadRequest, "Volunteer limit reached")
		case errors.Is(err, eventstore.ErrAlreadyJoined):
			httpjson.Error(w, http.StatusBadRequest, "You have already joined this event")
		default:
			h.Log.Error("join event failed",
				zap.String("event_id", eventID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to join event")
		}
		return
	}
	httpjson.Message(w, http.StatusOK, "Successfully joined the event")
}

// HandleLeave handles POST /api/events/leave/{eventID}.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := eventstore.New(h.DB).LeaveEvent(ctx, eventID, userID); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, eventstore.ErrNotVolunteer):
			httpjson.Error(w, http.StatusBadRequest, "You are not a volunteer for this event")
		default:
			h.Log.Error("leave event failed",
				zap.String("event_id", eventID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to leave event")
		}
		return
	}
	httpjson.Message(w, http.StatusOK, "Successfully left the event")
}
