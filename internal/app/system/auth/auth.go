// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// SessionUser is the authenticated principal injected into r.Context().
// Fields are refreshed from the users collection on every request so role
// changes and account bans take effect immediately.
type SessionUser struct {
	ID            string
	Name          string
	Email         string
	Role          string
	BannedAccount bool
}

// UserFetcher loads fresh user data for a session's user ID.
// Implemented by userstore.Fetcher.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

// SessionManager owns cookie sessions and bearer tokens. Browser clients
// get a signed session cookie; API clients may instead present the JWT
// returned at login as "Authorization: Bearer <token>".
type SessionManager struct {
	store     *sessions.CookieStore
	name      string
	jwtSecret []byte
	tokenTTL  time.Duration
	fetcher   UserFetcher
	log       *zap.Logger
}

// NewSessionManager builds a SessionManager. sessionKey signs cookies,
// jwtSecret signs bearer tokens; both must be non-empty.
func NewSessionManager(sessionKey, name, domain string, secure bool, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, errors.New("auth: session key must not be empty")
	}
	if jwtSecret == "" {
		return nil, errors.New("auth: jwt secret must not be empty")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is shorter than 32 bytes; use a stronger key in production")
	}

	store := sessions.NewCookieStore([]byte(sessionKey), securecookie.GenerateRandomKey(32))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionManager{
		store:     store,
		name:      name,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       logger,
	}, nil
}

// SetUserFetcher wires the store used to refresh session users per request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user from context, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns a request whose context carries u. Exported for handler
// tests; production code relies on LoadSessionUser.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// SignIn records the user ID in the cookie session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	return sess.Save(r, w)
}

// SignOut clears the cookie session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	_ = sess.Save(r, w)
}

// IssueToken mints a bearer JWT for API clients.
func (sm *SessionManager) IssueToken(u *SessionUser) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": u.ID,
		"iat": now.Unix(),
		"exp": now.Add(sm.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.jwtSecret)
}

// userIDFromBearer validates an Authorization: Bearer token and extracts
// the subject. Empty string when no valid token is present.
func (sm *SessionManager) userIDFromBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return sm.jwtSecret, nil
	})
	if err != nil || !tok.Valid {
		return ""
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// userIDFromCookie extracts the user ID from the session cookie.
func (sm *SessionManager) userIDFromCookie(r *http.Request) string {
	sess, _ := sm.store.Get(r, sm.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return ""
	}
	id, _ := sess.Values[userIDKey].(string)
	return id
}

// LoadSessionUser injects the current user into context when a valid
// bearer token or session cookie is present. With a fetcher configured the
// user record is reloaded so bans and role changes apply immediately.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sm.userIDFromBearer(r)
		if id == "" {
			id = sm.userIDFromCookie(r)
		}
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			next.ServeHTTP(w, sm.withUser(r, &SessionUser{ID: id}))
			return
		}

		u, err := sm.fetcher.FetchSessionUser(r.Context(), id)
		if err != nil {
			// Stale session for a deleted user: continue anonymous.
			sm.log.Debug("session user fetch failed", zap.String("user_id", id), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, sm.withUser(r, u))
	})
}

func (sm *SessionManager) withUser(r *http.Request, u *SessionUser) *http.Request {
	return WithUser(r, u)
}

// RequireSignedIn rejects anonymous requests with a 401 JSON body and
// banned accounts with 403.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
			return
		}
		if u.BannedAccount {
			httpjson.Error(w, http.StatusForbidden, "Your account has been banned")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only users whose global role is in the allow-list.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "Unauthorized - please log in")
				return
			}
			if _, allowed := set[strings.ToLower(u.Role)]; !allowed {
				httpjson.Error(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
