// internal/app/features/events/create.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createEventRequest struct {
	EventID        string                 `json:"eventId"`
	EventName      string                 `json:"eventName"`
	Picture        string                 `json:"picture"`
	Details        string                 `json:"details"`
	OpenTo         string                 `json:"openTo"`
	VolunteerLimit *models.VolunteerLimit `json:"volunteerLimit"`
	CreatedByType  string                 `json:"createdByType"`
	CreatedByClub  string                 `json:"createdByClubId"`
}

func validCreatorType(t string) bool {
	return t == authz.RoleAdmin || t == authz.ClubRoleClubAdmin || t == authz.ClubRoleModerator
}

// HandleCreate handles POST /api/events/create. Admins may create
// site-wide events; clubadmins and moderators create events on behalf of
// a club, which also enables the clubMembersOnly restriction.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	var req createEventRequest
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
	if !validCreatorType(req.CreatedByType) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid creator type")
		return
	}

	var clubID *primitive.ObjectID
	if req.CreatedByClub != "" {
		id, err := primitive.ObjectIDFromHex(req.CreatedByClub)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
			return
		}
		clubID = &id
	}
	if req.OpenTo == models.OpenToClubMembers && clubID == nil {
		httpjson.Error(w, http.StatusBadRequest, "A club is required for clubMembersOnly events")
		return
	}

	limit := models.UnlimitedVolunteers()
	if req.VolunteerLimit != nil {
		limit = *req.VolunteerLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := clubpolicy.CanCreateEvents(ctx, h.DB, r)
	if err != nil {
		h.Log.Error("event policy check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to verify permissions")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "You do not have permission to create events")
		return
	}

	e := models.Event{
		EventID:        req.EventID,
		EventName:      sanitize.Text(req.EventName),
		Picture:        req.Picture,
		Details:        sanitize.Text(req.Details),
		OpenTo:         req.OpenTo,
		VolunteerLimit: limit,
		CreatedBy:      userID,
		CreatedByType:  req.CreatedByType,
		CreatedByClub:  clubID,
	}
	created, err := eventstore.New(h.DB).Create(ctx, e)
	if err != nil {
		if errors.Is(err, eventstore.ErrDuplicateEventID) {
			httpjson.Error(w, http.StatusBadRequest, "Event ID already exists")
			return
		}
		h.Log.Error("create event failed", zap.String("event_id", req.EventID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	httpjson.Created(w, map[string]any{
		"message": "Event created successfully",
		"event":   created,
	})
}
