// internal/app/features/joinclub/request.go
package joinclub

import (
	"context"
	"errors"
	"net/http"

	requeststore "github.com/dalemusser/clubhub/internal/app/store/joinrequests"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type joinRequestBody struct {
	Message string `json:"message"`
}

// HandleJoin handles POST /api/join-club/{clubID}/join. A user can have
// at most one pending request per club.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	var body joinRequestBody
	if err := httpjson.Decode(r, &body); err != nil && !errors.Is(err, httpjson.ErrEmptyBody) {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := requeststore.New(h.DB).Create(ctx, clubID, userID, sanitize.Text(body.Message))
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "Club not found")
		case errors.Is(err, requeststore.ErrPendingExists):
			httpjson.Error(w, http.StatusBadRequest, "You already have a pending request for this club")
		default:
			h.Log.Error("create join request failed",
				zap.String("club_id", clubID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to submit join request")
		}
		return
	}

	httpjson.Created(w, map[string]any{
		"message": "Join request submitted successfully",
		"request": req,
	})
}

// HandlePending handles GET /api/join-club/{clubID}/requests for club
// managers reviewing the queue.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireClubManager(ctx, w, r, clubID) {
		return
	}

	pending, err := requeststore.New(h.DB).ListPending(ctx, clubID)
	if err != nil {
		h.Log.Error("list pending requests failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch join requests")
		return
	}
	httpjson.OK(w, map[string]any{"requests": pending})
}

type reviewBody struct {
	Action string `json:"action"`
	ClubID string `json:"clubId"`
}

// HandleReview handles POST /api/join-club/requests/{requestID} with an
// action of "accept" or "deny". Accepting mirrors the membership onto
// the user and club documents.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	_, _, reviewerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var body reviewBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	clubID, err := primitive.ObjectIDFromHex(body.ClubID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if !h.requireClubManager(ctx, w, r, clubID) {
		return
	}

	if err := requeststore.New(h.DB).Review(ctx, requestID, body.Action, reviewerID); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "Request not found")
		case errors.Is(err, requeststore.ErrInvalidAction):
			httpjson.Error(w, http.StatusBadRequest, `Action must be "accept" or "deny"`)
		default:
			h.Log.Error("review join request failed",
				zap.String("request_id", requestID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to review join request")
		}
		return
	}

	if body.Action == "accept" {
		httpjson.Message(w, http.StatusOK, "Request accepted successfully")
	} else {
		httpjson.Message(w, http.StatusOK, "Request denied successfully")
	}
}
