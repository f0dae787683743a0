// internal/app/features/authapi/handler.go
package authapi

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves account signup, login, and session introspection.
type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

// NewHandler constructs the auth API handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SessionMgr: sm, Log: logger}
}

// CheckAuth handles GET /api/auth/check-auth.
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
		return
	}
	httpjson.OK(w, map[string]any{
		"user": map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.SessionMgr.SignOut(w, r)
	httpjson.Message(w, http.StatusOK, "Logged out successfully")
}
