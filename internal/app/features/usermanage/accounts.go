// internal/app/features/usermanage/accounts.go
package usermanage

import (
	"context"
	"errors"
	"net/http"

	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleList handles GET /api/user-manage/list, every account minus the
// password hash.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := userstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	httpjson.OK(w, map[string]any{"users": users})
}

// HandleSetBanned handles PATCH /api/user-manage/ban/{userID} and its
// unban counterpart. Banning an account also flips the banned flag on
// every Club.members entry for that user.
func (h *Handler) HandleSetBanned(banned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
		defer cancel()

		u, err := membershipstore.New(h.DB).SetAccountBanned(ctx, userID, banned)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, http.StatusNotFound, "User not found")
				return
			}
			h.Log.Error("set account banned failed", zap.String("user_id", userID.Hex()), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to update user")
			return
		}

		msg := "User unbanned successfully"
		if banned {
			msg = "User banned successfully"
		}
		httpjson.OK(w, map[string]any{"message": msg, "user": u})
	}
}

// HandleDelete handles DELETE /api/user-manage/delete/{userID}, removing
// the account and pulling it from every club roster.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := membershipstore.New(h.DB).DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("delete user failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	httpjson.Message(w, http.StatusOK, "User deleted successfully")
}
