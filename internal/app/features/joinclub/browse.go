// internal/app/features/joinclub/browse.go
package joinclub

import (
	"context"
	"errors"
	"net/http"

	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleBrowseClubs handles GET /api/join-club/clubs, listing the clubs
// the signed-in user has not already joined.
func (h *Handler) HandleBrowseClubs(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var exclude []primitive.ObjectID
	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	switch {
	case err == nil:
		for _, m := range u.Clubs {
			exclude = append(exclude, m.ClubID)
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		// A stale session still gets the full list.
	default:
		h.Log.Error("load user failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}

	clubs, err := clubstore.New(h.DB).ListExcluding(ctx, exclude)
	if err != nil {
		h.Log.Error("list clubs failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}
	httpjson.OK(w, map[string]any{"clubs": clubs})
}
