// internal/app/store/joinrequests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c           *mongo.Collection
	clubs       *mongo.Collection
	users       *mongo.Collection
	memberships *membershipstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("join_requests"),
		clubs:       db.Collection("clubs"),
		users:       db.Collection("users"),
		memberships: membershipstore.New(db),
	}
}

var (
	// ErrPendingExists blocks a second request while one is pending for
	// the same (user, club) pair. Approved or rejected history does not
	// block a new request.
	ErrPendingExists = errors.New("you already have a pending request for this club")
	// ErrInvalidAction is returned for review actions other than accept or deny.
	ErrInvalidAction = errors.New(`action must be "accept" or "deny"`)
)

// Create files a pending join request. The club must exist; an existing
// membership is deliberately not checked, matching the request-join
// behavior this store reproduces.
func (s *Store) Create(ctx context.Context, clubID, userID primitive.ObjectID, message string) (models.JoinRequest, error) {
	n, err := s.clubs.CountDocuments(ctx, bson.M{"_id": clubID})
	if err != nil {
		return models.JoinRequest{}, err
	}
	if n == 0 {
		return models.JoinRequest{}, mongo.ErrNoDocuments
	}

	pending, err := s.c.CountDocuments(ctx, bson.M{
		"clubId": clubID,
		"userId": userID,
		"status": models.RequestPending,
	})
	if err != nil {
		return models.JoinRequest{}, err
	}
	if pending > 0 {
		return models.JoinRequest{}, ErrPendingExists
	}

	now := time.Now().UTC()
	req := models.JoinRequest{
		ID:        primitive.NewObjectID(),
		ClubID:    clubID,
		UserID:    userID,
		Message:   message,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

// PendingRequest is one row of a club's review queue, joined with the
// requesting user's identity.
type PendingRequest struct {
	ID        primitive.ObjectID `json:"id"`
	UserID    primitive.ObjectID `json:"userId"`
	UserName  string             `json:"userName"`
	UserEmail string             `json:"userEmail"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ListPending returns the club's pending requests with requester details.
func (s *Store) ListPending(ctx context.Context, clubID primitive.ObjectID) ([]PendingRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"clubId": clubID, "status": models.RequestPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.JoinRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}

	out := make([]PendingRequest, 0, len(reqs))
	for _, req := range reqs {
		row := PendingRequest{
			ID:        req.ID,
			UserID:    req.UserID,
			Message:   req.Message,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		}
		var u struct {
			Name  string `bson:"name"`
			Email string `bson:"email"`
		}
		if err := s.users.FindOne(ctx, bson.M{"_id": req.UserID},
			options.FindOne().SetProjection(bson.M{"name": 1, "email": 1})).Decode(&u); err == nil {
			row.UserName = u.Name
			row.UserEmail = u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

// Review resolves a pending request. Accept mirrors the membership onto
// both documents (three sequential writes, no rollback on partial
// failure); deny only marks the request. Either way the request records
// who reviewed it and when.
func (s *Store) Review(ctx context.Context, requestID primitive.ObjectID, action string, reviewerID primitive.ObjectID) error {
	var req models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": requestID}).Decode(&req); err != nil {
		return err
	}

	var status string
	switch action {
	case "accept":
		// Both documents must exist before any write.
		if n, err := s.clubs.CountDocuments(ctx, bson.M{"_id": req.ClubID}); err != nil {
			return err
		} else if n == 0 {
			return mongo.ErrNoDocuments
		}
		if n, err := s.users.CountDocuments(ctx, bson.M{"_id": req.UserID}); err != nil {
			return err
		} else if n == 0 {
			return mongo.ErrNoDocuments
		}
		if err := s.memberships.AppendBoth(ctx, req.ClubID, req.UserID, authz.ClubRoleMember); err != nil {
			return err
		}
		status = models.RequestApproved
	case "deny":
		status = models.RequestRejected
	default:
		return ErrInvalidAction
	}

	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, requestID, bson.M{"$set": bson.M{
		"status":     status,
		"reviewedBy": reviewerID,
		"reviewedAt": now,
		"updatedAt":  now,
	}})
	return err
}
