// internal/app/features/clubs/moderate.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleSetBanned handles PUT /api/clubs/{action:ban|unban}/{clubID}.
// Admin only; routes.go enforces the role gate.
func (h *Handler) HandleSetBanned(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := clubstore.New(h.DB).SetBanned(ctx, clubID, action == "ban"); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Club not found")
			return
		}
		h.Log.Error("set club banned failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to update club")
		return
	}

	if action == "ban" {
		httpjson.Message(w, http.StatusOK, "Club banned successfully")
	} else {
		httpjson.Message(w, http.StatusOK, "Club unbanned successfully")
	}
}

// HandleDelete handles DELETE /api/clubs/delete/{clubID}. Admin only.
// Removes the club and the mirrored membership entries; events created
// under the club are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := membershipstore.New(h.DB).DeleteClub(ctx, clubID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Club not found")
			return
		}
		h.Log.Error("delete club failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to delete club")
		return
	}
	httpjson.Message(w, http.StatusOK, "Club deleted successfully")
}

func memberParams(r *http.Request) (clubID, userID primitive.ObjectID, err error) {
	clubID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		return
	}
	userID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	return
}

// HandleSetMemberBanned handles PATCH /api/clubs/{clubID}/ban-member/{memberID}
// and the unban counterpart. The caller must manage the club.
func (h *Handler) HandleSetMemberBanned(banned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID, userID, err := memberParams(r)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid club or member ID")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		if !h.requireClubManager(ctx, w, r, clubID) {
			return
		}

		if err := membershipstore.New(h.DB).SetMemberBanned(ctx, clubID, userID, banned); err != nil {
			if errors.Is(err, membershipstore.ErrMemberNotFound) {
				httpjson.Error(w, http.StatusNotFound, "Member not found in this club")
				return
			}
			h.Log.Error("set member banned failed",
				zap.String("club_id", clubID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to update member")
			return
		}

		if banned {
			httpjson.Message(w, http.StatusOK, "Member banned successfully")
		} else {
			httpjson.Message(w, http.StatusOK, "Member unbanned successfully")
		}
	}
}

// HandleDeleteMember handles DELETE /api/clubs/{clubID}/delete-member/{memberID}.
// The caller must manage the club. The club's member total is recomputed
// from the remaining roster.
func (h *Handler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	clubID, userID, err := memberParams(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club or member ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireClubManager(ctx, w, r, clubID) {
		return
	}

	if err := membershipstore.New(h.DB).DeleteMember(ctx, clubID, userID); err != nil {
		switch {
		case errors.Is(err, membershipstore.ErrMemberNotFound):
			httpjson.Error(w, http.StatusNotFound, "Member not found in this club")
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.Error(w, http.StatusNotFound, "Club not found")
		default:
			h.Log.Error("delete member failed",
				zap.String("club_id", clubID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to remove member")
		}
		return
	}
	httpjson.Message(w, http.StatusOK, "Member removed successfully")
}
