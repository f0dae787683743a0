// internal/app/features/clubs/members.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	clubpolicy "github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type addMemberRequest struct {
	Email    string `json:"email"`
	ClubID   string `json:"clubId"`
	ClubRole string `json:"clubRole"`
}

// HandleAddMember handles POST /api/clubs/add-member: the administrative
// add path, which recomputes the club's member count from the roster.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.ClubID == "" || req.ClubRole == "" {
		httpjson.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !authz.ValidClubRole(req.ClubRole) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club role")
		return
	}
	clubID, err := primitive.ObjectIDFromHex(req.ClubID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if !h.requireClubManager(ctx, w, r, clubID) {
		return
	}

	if _, err := membershipstore.New(h.DB).DirectAdd(ctx, req.Email, clubID, req.ClubRole); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "User or club not found")
		case errors.Is(err, membershipstore.ErrAlreadyMember):
			httpjson.Error(w, http.StatusBadRequest, "User is already in the club")
		default:
			h.Log.Error("add member failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to add member")
		}
		return
	}
	httpjson.Message(w, http.StatusOK, "Member added successfully")
}

type leaveClubRequest struct {
	ClubID string `json:"clubId"`
}

// HandleLeaveClub handles POST /api/clubs/leave-club for the signed-in
// user: removes both membership mirrors and cascades out of the club's
// events.
func (h *Handler) HandleLeaveClub(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	var req leaveClubRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	clubID, err := primitive.ObjectIDFromHex(req.ClubID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := membershipstore.New(h.DB).Leave(ctx, clubID, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Club not found")
			return
		}
		h.Log.Error("leave club failed",
			zap.String("club_id", clubID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to leave the club")
		return
	}
	httpjson.Message(w, http.StatusOK, "Successfully left the club and removed from related events")
}

// requireClubManager enforces the club-management policy, writing the
// error response itself. Returns true when the caller may proceed.
func (h *Handler) requireClubManager(ctx context.Context, w http.ResponseWriter, r *http.Request, clubID primitive.ObjectID) bool {
	allowed, err := clubpolicy.CanManageClub(ctx, h.DB, r, clubID)
	if err != nil {
		h.Log.Error("club policy check failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to verify permissions")
		return false
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "You do not have permission to manage this club")
		return false
	}
	return true
}
