// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authapifeature "github.com/dalemusser/clubhub/internal/app/features/authapi"
	authgooglefeature "github.com/dalemusser/clubhub/internal/app/features/authgoogle"
	clubsfeature "github.com/dalemusser/clubhub/internal/app/features/clubs"
	eventsfeature "github.com/dalemusser/clubhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	joinclubfeature "github.com/dalemusser/clubhub/internal/app/features/joinclub"
	rolesfeature "github.com/dalemusser/clubhub/internal/app/features/roles"
	usermanagefeature "github.com/dalemusser/clubhub/internal/app/features/usermanage"
	"github.com/dalemusser/clubhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The JSON API lives under /api;
// the Google OAuth handshake, health check, metrics, and the uploaded
// pictures are served alongside it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure,
		appCfg.JWTSecret, appCfg.TokenTTL, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so role changes and account bans
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	uploadStore, err := uploads.New(appCfg.UploadDir, appCfg.UploadURL, appCfg.BaseURL)
	if err != nil {
		logger.Error("upload store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	// Uploaded event pictures, with pre-compressed file support.
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadDir))

	// Google OAuth handshake (public).
	googleHandler := authgooglefeature.NewHandler(
		deps.MongoDatabase, sessionMgr, oauthstate.New(deps.MongoDatabase),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.FrontendURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	r.Route("/api", func(r chi.Router) {
		authHandler := authapifeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
		r.Mount("/auth", authapifeature.Routes(authHandler))

		clubsfeature.Routes(r, clubsfeature.NewHandler(deps.MongoDatabase, logger), sessionMgr)
		joinclubfeature.Routes(r, joinclubfeature.NewHandler(deps.MongoDatabase, logger), sessionMgr)
		eventsfeature.Routes(r, eventsfeature.NewHandler(deps.MongoDatabase, uploadStore, logger), sessionMgr)
		usermanagefeature.Routes(r, usermanagefeature.NewHandler(deps.MongoDatabase, logger), sessionMgr)
		rolesfeature.Routes(r, rolesfeature.NewHandler(deps.MongoDatabase, logger), sessionMgr)
	})

	return r, nil
}
