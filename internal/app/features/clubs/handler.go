// internal/app/features/clubs/handler.go
package clubs

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the /api/clubs surface: club creation, roster
// administration, and the member-facing leave flow.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs the clubs Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
