// internal/app/features/clubs/create.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type createClubRequest struct {
	ClubName        string `json:"clubName"`
	Description     string `json:"description"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ClubRole        string `json:"clubRole"`
}

// HandleCreateClub handles POST /api/clubs/create-club: creates the club
// and seats its first administrator, either an existing account or a brand
// new one created from the supplied credentials.
func (h *Handler) HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	var req createClubRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ClubName = sanitize.Text(req.ClubName)
	req.Description = sanitize.RichText(req.Description)
	if req.ClubName == "" || !validate.SimpleEmailValid(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "Club name and a valid email are required")
		return
	}
	if req.ClubRole == "" {
		req.ClubRole = authz.ClubRoleClubAdmin
	}
	if !authz.ValidClubRole(req.ClubRole) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid club role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	clubs := clubstore.New(h.DB)
	users := userstore.New(h.DB)
	memberships := membershipstore.New(h.DB)

	club, err := clubs.Create(ctx, models.Club{
		ClubName:    req.ClubName,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateClubName) {
			httpjson.Error(w, http.StatusBadRequest, "Club name already exists")
			return
		}
		h.Log.Error("create club failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
		return
	}

	existing, err := users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		// Seat the existing account as the club's first admin.
		if _, err := memberships.DirectAdd(ctx, normalize.Email(req.Email), club.ID, req.ClubRole); err != nil {
			if errors.Is(err, membershipstore.ErrAlreadyMember) {
				httpjson.Error(w, http.StatusBadRequest, "User is already a member of this club")
				return
			}
			h.Log.Error("seat club admin failed", zap.String("club_id", club.ID.Hex()), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
			return
		}
		httpjson.OK(w, map[string]any{
			"message": "Club created and user added successfully",
			"club":    club,
			"user":    existing,
		})
	case errors.Is(err, mongo.ErrNoDocuments):
		if req.Password == "" || req.Password != req.ConfirmPassword {
			httpjson.Error(w, http.StatusBadRequest, "Passwords do not match or are missing")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			h.Log.Error("password hash failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
			return
		}
		newUser, err := users.Create(ctx, models.User{
			Email:      req.Email,
			Password:   string(hash),
			Name:       sanitize.Text(req.Username),
			Role:       authz.RoleClubAdmin,
			IsVerified: true,
		})
		if err != nil {
			h.Log.Error("create club admin account failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
			return
		}
		if _, err := memberships.DirectAdd(ctx, newUser.Email, club.ID, req.ClubRole); err != nil {
			h.Log.Error("seat new club admin failed", zap.String("club_id", club.ID.Hex()), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
			return
		}
		httpjson.Created(w, map[string]any{
			"message": "Club created and new user added successfully",
			"club":    club,
			"user":    newUser,
		})
	default:
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create club")
	}
}

const bcryptCost = 10

// HandleCheckUser handles GET /api/clubs/check-user?email=...
func (h *Handler) HandleCheckUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	exists, err := userstore.New(h.DB).ExistsByEmail(ctx, email)
	if err != nil {
		h.Log.Error("check user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to check user existence")
		return
	}
	httpjson.OK(w, map[string]bool{"exists": exists})
}
