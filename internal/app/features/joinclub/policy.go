// internal/app/features/joinclub/policy.go
package joinclub

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

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
