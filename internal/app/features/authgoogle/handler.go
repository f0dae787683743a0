// internal/app/features/authgoogle/handler.go

// Package authgoogle implements the Google OAuth login flow: a redirect
// to Google's consent screen with a one-time CSRF state, and a callback
// that exchanges the code, fetches the Google profile, and signs the
// matching account in. Unknown emails get an account created on the fly,
// marked verified since Google vouches for the address.
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateTTL bounds how long a consent screen round trip may take.
const stateTTL = 10 * time.Minute

type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://clubhub.example.com/auth/google/callback"
	FrontendURL  string // where the browser lands after the handshake
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, states *oauthstate.Store,
	clientID, clientSecret, baseURL, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		SessionMgr:   sm,
		StateStore:   states,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		FrontendURL:  frontendURL,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured reports whether Google login is enabled.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google, redirecting to Google's consent
// screen with a stored one-time state.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		h.redirectToFrontend(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate OAuth state failed", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	returnURL := r.URL.Query().Get("return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.StateStore.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("save OAuth state failed", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: validates the state,
// exchanges the code, resolves the account, and signs the browser in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth denied",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToFrontend(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.redirectToFrontend(w, r, "invalid_state")
		return
	}

	shortCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(shortCtx, state)
	if err != nil {
		h.Log.Error("validate OAuth state failed", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		h.redirectToFrontend(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToFrontend(w, r, "invalid_code")
		return
	}
	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("OAuth code exchange failed", zap.Error(err))
		h.redirectToFrontend(w, r, "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("fetch Google user info failed", zap.Error(err))
		h.redirectToFrontend(w, r, "user_info")
		return
	}

	u, err := h.findOrCreateUser(ctx, googleUser)
	if err != nil {
		if errors.Is(err, errAccountBanned) {
			h.redirectToFrontend(w, r, "account_banned")
			return
		}
		h.Log.Error("resolve Google user failed", zap.String("email", googleUser.Email), zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	if err := userstore.New(h.DB).TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("update last login failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	dest := h.FrontendURL
	if returnURL != "" {
		dest = h.FrontendURL + returnURL
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

var errAccountBanned = errors.New("account banned")

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// findOrCreateUser resolves the Google profile to a local account by
// email, creating a verified account with no password when none exists.
func (h *Handler) findOrCreateUser(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	users := userstore.New(h.DB)
	email := normalize.Email(gu.Email)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.BannedAccount {
			return nil, errAccountBanned
		}
		if !u.IsVerified && gu.EmailVerified {
			_, updErr := h.DB.Collection("users").UpdateByID(ctx, u.ID,
				bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now().UTC()}})
			if updErr != nil {
				h.Log.Warn("mark verified failed", zap.String("user_id", u.ID.Hex()), zap.Error(updErr))
			}
		}
		return u, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, models.User{
			Email:      email,
			Name:       gu.Name,
			IsVerified: gu.EmailVerified,
		})
		if err != nil {
			return nil, err
		}
		return &created, nil
	default:
		return nil, err
	}
}

func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.FrontendURL+"/login?error="+errorCode, http.StatusSeeOther)
}

// generateState returns a URL-safe random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
