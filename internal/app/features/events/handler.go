// internal/app/features/events/handler.go

// Package events implements the event lifecycle: picture upload,
// creation, listing, edits, deletion, and the volunteer join/leave flow
// with its capacity and club-restriction checks.
package events

import (
	"github.com/dalemusser/clubhub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Uploads *uploads.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, up *uploads.Store, log *zap.Logger) *Handler {
	return &Handler{DB: db, Uploads: up, Log: log}
}
