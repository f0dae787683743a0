// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRequest lifecycle: created pending by a user, reviewed once to
// approved or rejected, immutable thereafter. Only a *pending* request
// blocks a user from re-applying to the same club.
type JoinRequest struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID  primitive.ObjectID `bson:"clubId" json:"clubId"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Message string             `bson:"message" json:"message"`

	Status     string              `bson:"status" json:"status"` // pending | approved | rejected
	ReviewedBy *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time          `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// JoinRequest status values.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)
