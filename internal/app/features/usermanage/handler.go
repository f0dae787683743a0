// internal/app/features/usermanage/handler.go

// Package usermanage implements the admin account console: listing
// users, banning and unbanning accounts, and deleting accounts with the
// cascade into club rosters.
package usermanage

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
