// internal/app/features/authapi/login.go
package authapi

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The response carries a bearer token
// in addition to the session cookie so SPA and API clients can use either.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if u.BannedAccount {
		httpjson.Error(w, http.StatusForbidden, "Your account has been banned")
		return
	}

	if err := users.TouchLastLogin(ctx, u.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		h.Log.Warn("lastLogin update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

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

	httpjson.OK(w, map[string]any{
		"message": "Logged in successfully",
		"token":   token,
		"user": map[string]any{
			"id":    su.ID,
			"name":  su.Name,
			"email": su.Email,
			"role":  su.Role,
		},
	})
}
