// internal/app/features/events/manage.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateEventRequest struct {
	EventID        string                 `json:"eventId"`
	EventName      string                 `json:"eventName"`
	Picture        string                 `json:"picture"`
	Details        string                 `json:"details"`
	OpenTo         string                 `json:"openTo"`
	VolunteerLimit *models.VolunteerLimit `json:"volunteerLimit"`
	CreatedByClub  string                 `json:"createdByClubId"`
}

// canEditEvent allows the creator or a site admin.
func canEditEvent(r *http.Request, e models.Event) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == authz.RoleAdmin || e.CreatedBy == uid
}

// HandleUpdate handles PUT /api/events/update/{eventID}. Replacing the
// picture removes the previously stored file.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var req updateEventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EventID == "" || req.EventName == "" {
		httpjson.Error(w, http.StatusBadRequest, "Event ID and event name are required")
		return
	}
	if req.OpenTo != models.OpenToAll && req.OpenTo != models.OpenToClubMembers {
		httpjson.Error(w, http.StatusBadRequest, "openTo must be all or clubMembersOnly")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := eventstore.New(h.DB)
	current, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("load event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	if !canEditEvent(r, current) {
		httpjson.Error(w, http.StatusForbidden, "You do not have permission to edit this event")
		return
	}

	limit := current.VolunteerLimit
	if req.VolunteerLimit != nil {
		limit = *req.VolunteerLimit
	}
	upd := eventstore.Update{
		EventID:        req.EventID,
		EventName:      sanitize.Text(req.EventName),
		Details:        sanitize.Text(req.Details),
		OpenTo:         req.OpenTo,
		VolunteerLimit: limit,
		Picture:        req.Picture,
	}
	if req.CreatedByClub != "" {
		clubID, err := primitive.ObjectIDFromHex(req.CreatedByClub)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
			return
		}
		upd.CreatedByClub = &clubID
	}

	updated, err := store.ApplyUpdate(ctx, id, upd)
	if err != nil {
		if errors.Is(err, eventstore.ErrDuplicateEventID) {
			httpjson.Error(w, http.StatusBadRequest, "Event ID already exists")
			return
		}
		h.Log.Error("update event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	// The old picture is orphaned once a new one is in place.
	if req.Picture != "" && current.Picture != "" && current.Picture != req.Picture {
		if err := h.Uploads.Remove(current.Picture); err != nil {
			h.Log.Warn("remove old picture failed", zap.String("url", current.Picture), zap.Error(err))
		}
	}

	httpjson.OK(w, map[string]any{
		"message": "Event updated successfully",
		"event":   updated,
	})
}

// HandleDelete handles DELETE /api/events/delete/{eventID}, removing the
// stored picture along with the document.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := eventstore.New(h.DB)
	current, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("load event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	if !canEditEvent(r, current) {
		httpjson.Error(w, http.StatusForbidden, "You do not have permission to delete this event")
		return
	}

	deleted, err := store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("delete event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	if deleted.Picture != "" {
		if err := h.Uploads.Remove(deleted.Picture); err != nil {
			h.Log.Warn("remove picture failed", zap.String("url", deleted.Picture), zap.Error(err))
		}
	}
	httpjson.Message(w, http.StatusOK, "Event deleted successfully")
}
