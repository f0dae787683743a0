// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. CreateMany is idempotent for matching
// definitions, so re-running on every boot is safe. Errors are aggregated
// so startup can fail fast with everything that is wrong.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "join_requests: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clubs.clubId", Value: 1}},
			Options: options.Index().SetName("by_club"),
		},
	})
	return err
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("clubs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clubName", Value: 1}},
			Options: options.Index().SetName("uniq_club_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "members.userId", Value: 1}},
			Options: options.Index().SetName("by_member"),
		},
	})
	return err
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetName("uniq_event_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}},
			Options: options.Index().SetName("by_creator"),
		},
		{
			Keys:    bson.D{{Key: "createdByClubId", Value: 1}},
			Options: options.Index().SetName("by_club"),
		},
		{
			Keys:    bson.D{{Key: "eventVolunteerList.userId", Value: 1}},
			Options: options.Index().SetName("by_volunteer"),
		},
	})
	return err
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("oauth_states").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetName("uniq_state").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("ttl_expires").SetExpireAfterSeconds(0),
		},
	})
	return err
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	// Pending-request uniqueness is enforced by the request path, not the
	// index: approved and rejected history for the same pair must coexist.
	_, err := db.Collection("join_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "clubId", Value: 1},
				{Key: "userId", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("by_pair_status"),
		},
	})
	return err
}
