// internal/app/features/clubs/list.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleList handles GET /api/clubs/ for the admin dashboard.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubs, err := clubstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("list clubs failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}
	httpjson.OK(w, map[string]any{"clubs": clubs})
}

// HandleListMembers handles GET /api/clubs/{clubID}/members, joining each
// roster entry with the member's name and email.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := clubstore.New(h.DB).GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Club not found")
			return
		}
		h.Log.Error("load club failed", zap.String("club_id", clubID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch members")
		return
	}

	users := userstore.New(h.DB)
	type memberRow struct {
		UserID   primitive.ObjectID `json:"userId"`
		Name     string             `json:"name"`
		Email    string             `json:"email"`
		ClubRole string             `json:"clubRole"`
		JoinedAt any                `json:"joinedAt"`
		Banned   bool               `json:"banned"`
	}
	rows := make([]memberRow, 0, len(club.Members))
	for _, m := range club.Members {
		row := memberRow{
			UserID:   m.UserID,
			ClubRole: m.ClubRole,
			JoinedAt: m.JoinedAt,
			Banned:   m.Banned,
		}
		if u, err := users.GetByID(ctx, m.UserID); err == nil {
			row.Name = u.Name
			row.Email = u.Email
		}
		rows = append(rows, row)
	}
	httpjson.OK(w, map[string]any{"members": rows})
}

// HandleUserClubs handles GET /api/clubs/user-clubs for the signed-in user.
func (h *Handler) HandleUserClubs(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("load user failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(u.Clubs))
	for _, m := range u.Clubs {
		ids = append(ids, m.ClubID)
	}
	names, err := clubstore.New(h.DB).Names(ctx, ids)
	if err != nil {
		h.Log.Error("club names lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}

	type userClub struct {
		ClubID   primitive.ObjectID `json:"clubId"`
		ClubName string             `json:"clubName"`
		ClubRole string             `json:"clubRole"`
	}
	out := make([]userClub, 0, len(u.Clubs))
	for _, m := range u.Clubs {
		out = append(out, userClub{
			ClubID:   m.ClubID,
			ClubName: names[m.ClubID.Hex()],
			ClubRole: m.ClubRole,
		})
	}
	httpjson.OK(w, map[string]any{"success": true, "clubs": out})
}

type clubNamesRequest struct {
	ClubIDs []string `json:"clubIds"`
}

// HandleClubNames handles POST /api/clubs/get-club-names, mapping IDs to
// display names for clients that only hold references.
func (h *Handler) HandleClubNames(w http.ResponseWriter, r *http.Request) {
	var req clubNamesRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.ClubIDs))
	for _, raw := range req.ClubIDs {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	names, err := clubstore.New(h.DB).Names(ctx, ids)
	if err != nil {
		h.Log.Error("club names lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to fetch club names")
		return
	}
	httpjson.OK(w, names)
}
