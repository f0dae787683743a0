// internal/app/features/roles/handler.go

// Package roles lets admins provision accounts with a specific role:
// check-email reports whether an account exists and creates one when the
// caller supplies credentials for a new user.
package roles

import (
	"context"
	"errors"
	"net/http"

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

const bcryptCost = 10

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}

type checkEmailRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleCheckEmail handles POST /api/roles/check-email. When the email
// is unknown and the request carries a name and password, the account is
// created with the supplied role.
func (h *Handler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = normalize.Email(req.Email)
	if !validate.SimpleEmailValid(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	existing, err := users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		httpjson.OK(w, map[string]any{
			"exists": true,
			"userId": existing.ID,
			"role":   existing.Role,
		})
		return
	case !errors.Is(err, mongo.ErrNoDocuments):
		h.Log.Error("email lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to check email")
		return
	}

	if req.Name == "" || req.Password == "" {
		httpjson.OK(w, map[string]any{"exists": false})
		return
	}
	if req.Role != "" && !authz.ValidRole(req.Role) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	created, err := users.Create(ctx, models.User{
		Email:    req.Email,
		Password: string(hash),
		Name:     sanitize.Text(req.Name),
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusBadRequest, "A user with this email already exists")
			return
		}
		h.Log.Error("create user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	httpjson.Created(w, map[string]any{
		"exists": false,
		"userId": created.ID,
		"role":   created.Role,
	})
}
