// internal/app/store/memberships/membershipstore.go

// Package membershipstore keeps the mirrored membership state consistent:
// every membership lives both in User.clubs and in Club.members, and
// Club.totalMembers mirrors the roster length. The writes are sequential
// and best-effort (no multi-document transaction), so a failure partway
// through can leave the two sides out of step; callers log and surface the
// error but there is no rollback. Count maintenance matches the operation:
// the administrative add and delete paths recompute totalMembers from the
// roster, the join-accept and leave paths increment/decrement it.
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	users  *mongo.Collection
	clubs  *mongo.Collection
	events *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:  db.Collection("users"),
		clubs:  db.Collection("clubs"),
		events: db.Collection("events"),
	}
}

var (
	// ErrAlreadyMember is returned when adding a user who already has a
	// membership entry for the club.
	ErrAlreadyMember = errors.New("user is already a member of this club")
	// ErrMemberNotFound is returned when the target user has no roster
	// entry in the club.
	ErrMemberNotFound = errors.New("member not found in this club")
)

// DirectAdd is the administrative add-member path: it looks the user up by
// email, mirrors the membership onto both documents, and recomputes
// totalMembers from the roster length (this path self-heals count drift).
func (s *Store) DirectAdd(ctx context.Context, email string, clubID primitive.ObjectID, clubRole string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, err
	}
	var c models.Club
	if err := s.clubs.FindOne(ctx, bson.M{"_id": clubID}).Decode(&c); err != nil {
		return nil, err
	}
	if _, already := u.MembershipFor(clubID); already {
		return nil, ErrAlreadyMember
	}

	now := time.Now().UTC()
	if _, err := s.users.UpdateByID(ctx, u.ID, bson.M{
		"$push": bson.M{"clubs": models.ClubMembership{
			ClubID:   clubID,
			ClubRole: clubRole,
			JoinedAt: now,
		}},
		"$set": bson.M{"updatedAt": now},
	}); err != nil {
		return nil, err
	}

	if _, err := s.clubs.UpdateByID(ctx, clubID, bson.M{
		"$push": bson.M{"members": models.Member{
			UserID:   u.ID,
			ClubRole: clubRole,
			JoinedAt: now,
		}},
		"$set": bson.M{
			"totalMembers": len(c.Members) + 1,
			"updatedAt":    now,
		},
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

// AppendBoth mirrors a membership onto both documents and increments
// totalMembers by one. This is the join-request accept path; unlike
// DirectAdd it does not recompute the count from the roster.
func (s *Store) AppendBoth(ctx context.Context, clubID, userID primitive.ObjectID, clubRole string) error {
	now := time.Now().UTC()
	if _, err := s.clubs.UpdateByID(ctx, clubID, bson.M{
		"$push": bson.M{"members": models.Member{
			UserID:   userID,
			ClubRole: clubRole,
			JoinedAt: now,
		}},
		"$inc": bson.M{"totalMembers": 1},
		"$set": bson.M{"updatedAt": now},
	}); err != nil {
		return err
	}
	_, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"clubs": models.ClubMembership{
			ClubID:   clubID,
			ClubRole: clubRole,
			JoinedAt: now,
		}},
		"$set": bson.M{"updatedAt": now},
	})
	return err
}

// Leave removes the membership from both sides, decrements totalMembers,
// and cascades into every event created by the club: the user's volunteer
// entry is pulled and volunteersJoined drops by one per event, clamped at
// zero so a repeated leave cannot drive the counter negative.
func (s *Store) Leave(ctx context.Context, clubID, userID primitive.ObjectID) error {
	now := time.Now().UTC()

	res, err := s.clubs.UpdateByID(ctx, clubID, bson.M{
		"$pull": bson.M{"members": bson.M{"userId": userID}},
		"$inc":  bson.M{"totalMembers": -1},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	ures, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"clubs": bson.M{"clubId": clubID}},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return err
	}
	if ures.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	// Event cascade. A pipeline update filters the volunteer out and
	// recomputes the counter in one atomic step per event document.
	filter := bson.M{
		"createdByClubId":           clubID,
		"eventVolunteerList.userId": userID,
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"eventVolunteerList": bson.M{"$filter": bson.M{
				"input": "$eventVolunteerList",
				"as":    "v",
				"cond":  bson.M{"$ne": bson.A{"$$v.userId", userID}},
			}},
			"volunteersJoined": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$volunteersJoined", 1}}}},
			"updatedAt":        now,
		}}},
	}
	_, err = s.events.UpdateMany(ctx, filter, update)
	return err
}

// SetMemberBanned bans or unbans a member inside one club. The flag is set
// on both mirrored entries; the membership itself is retained.
func (s *Store) SetMemberBanned(ctx context.Context, clubID, userID primitive.ObjectID, banned bool) error {
	var c models.Club
	if err := s.clubs.FindOne(ctx, bson.M{"_id": clubID}).Decode(&c); err != nil {
		return err
	}
	if _, ok := c.MemberFor(userID); !ok {
		return ErrMemberNotFound
	}

	now := time.Now().UTC()
	var bannedAt any
	if banned {
		bannedAt = now
	} else {
		bannedAt = nil
	}

	elem := options.ArrayFilters{Filters: bson.A{bson.M{"elem.userId": userID}}}
	if _, err := s.clubs.UpdateByID(ctx, clubID, bson.M{
		"$set": bson.M{
			"members.$[elem].banned":   banned,
			"members.$[elem].bannedAt": bannedAt,
			"updatedAt":                now,
		},
	}, options.Update().SetArrayFilters(elem)); err != nil {
		return err
	}

	// User side mirrors the flag; a missing user document is tolerated the
	// same way the club-side write already succeeded.
	userElem := options.ArrayFilters{Filters: bson.A{bson.M{"elem.clubId": clubID}}}
	_, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"clubs.$[elem].banned":   banned,
			"clubs.$[elem].bannedAt": bannedAt,
			"updatedAt":              now,
		},
	}, options.Update().SetArrayFilters(userElem))
	return err
}

// DeleteMember removes a user from a club's roster, recomputing
// totalMembers from the filtered roster, and pulls the mirrored entry from
// the user document. Unlike Leave there is no event cascade.
func (s *Store) DeleteMember(ctx context.Context, clubID, userID primitive.ObjectID) error {
	var c models.Club
	if err := s.clubs.FindOne(ctx, bson.M{"_id": clubID}).Decode(&c); err != nil {
		return err
	}

	kept := make([]models.Member, 0, len(c.Members))
	for _, m := range c.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}

	now := time.Now().UTC()
	if _, err := s.clubs.UpdateByID(ctx, clubID, bson.M{
		"$set": bson.M{
			"members":      kept,
			"totalMembers": len(kept),
			"updatedAt":    now,
		},
	}); err != nil {
		return err
	}

	_, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"clubs": bson.M{"clubId": clubID}},
		"$set":  bson.M{"updatedAt": now},
	})
	return err
}

// DeleteClub pulls the club from every user's membership list and deletes
// the club document. Events created by the club are left with a dangling
// createdByClubId reference.
func (s *Store) DeleteClub(ctx context.Context, clubID primitive.ObjectID) error {
	n, err := s.clubs.CountDocuments(ctx, bson.M{"_id": clubID})
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}

	if _, err := s.users.UpdateMany(ctx,
		bson.M{"clubs.clubId": clubID},
		bson.M{"$pull": bson.M{"clubs": bson.M{"clubId": clubID}}},
	); err != nil {
		return err
	}

	_, err = s.clubs.DeleteOne(ctx, bson.M{"_id": clubID})
	return err
}

// SetAccountBanned flips the account-level ban and mirrors the flag onto
// the user's entry in every club roster. Event volunteer entries are not
// touched.
func (s *Store) SetAccountBanned(ctx context.Context, userID primitive.ObjectID, banned bool) (*models.User, error) {
	now := time.Now().UTC()
	var bannedAt any
	if banned {
		bannedAt = now
	} else {
		bannedAt = nil
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"bannedAccount": banned, "updatedAt": now}},
		after,
	).Decode(&u); err != nil {
		return nil, err
	}

	elem := options.ArrayFilters{Filters: bson.A{bson.M{"elem.userId": userID}}}
	if _, err := s.clubs.UpdateMany(ctx,
		bson.M{"members.userId": userID},
		bson.M{"$set": bson.M{
			"members.$[elem].banned":   banned,
			"members.$[elem].bannedAt": bannedAt,
		}},
		options.Update().SetArrayFilters(elem),
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes the account and pulls the user from every club
// roster, decrementing each club's totalMembers by one.
func (s *Store) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	var u models.User
	if err := s.users.FindOneAndDelete(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		return err
	}

	_, err := s.clubs.UpdateMany(ctx,
		bson.M{"members.userId": userID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"userId": userID}},
			"$inc":  bson.M{"totalMembers": -1},
		},
	)
	return err
}
