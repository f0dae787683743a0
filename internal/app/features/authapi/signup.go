// internal/app/features/authapi/signup.go
package authapi

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup handles POST /api/auth/signup. New accounts get the "user" role;
// privileged roles are assigned through the roles and clubs features.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = sanitize.Text(req.Name)
	if req.Name == "" || req.Password == "" || !validate.SimpleEmailValid(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.Create(ctx, models.User{
		Email:      req.Email,
		Password:   string(hash),
		Name:       req.Name,
		Role:       authz.RoleUser,
		IsVerified: true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("signup insert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.issueSession(w, r, &u)
}

// issueSession signs the user in (cookie) and returns a bearer token for
// API clients alongside the public user fields.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, u *models.User) {
	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	token, err := h.SessionMgr.IssueToken(su)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	httpjson.Created(w, map[string]any{
		"message": "Account created successfully",
		"token":   token,
		"user": map[string]any{
			"id":    su.ID,
			"name":  su.Name,
			"email": su.Email,
			"role":  su.Role,
		},
	})
}
