// internal/app/features/joinclub/handler.go

// Package joinclub implements the request/approval flow for joining a
// club: browsing clubs the user has not joined, submitting a join
// request, and letting club managers review pending requests.
package joinclub

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}
