// internal/app/policy/clubpolicy/clubpolicy.go
package clubpolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClubRole returns the user's club-scoped role from the authoritative
// users collection, or "" if the user has no membership in the club.
func ClubRole(ctx context.Context, db *mongo.Database, clubID, userID primitive.ObjectID) (string, error) {
	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}
	m, ok := u.MembershipFor(clubID)
	if !ok || m.Banned {
		return "", nil
	}
	return m.ClubRole, nil
}

// CanManageClub reports whether the current request user may manage the
// club's roster, join requests, and events:
//   - site admins always can
//   - club-scoped clubadmins and moderators can, for their own club,
//     unless their membership is banned
//
// A database failure is returned as an error so callers can distinguish
// "not authorized" (false, nil) from "could not decide" (false, err).
func CanManageClub(ctx context.Context, db *mongo.Database, r *http.Request, clubID primitive.ObjectID) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == authz.RoleAdmin {
		return true, nil
	}
	clubRole, err := ClubRole(ctx, db, clubID, uid)
	if err != nil {
		return false, err
	}
	return clubRole == authz.ClubRoleClubAdmin || clubRole == authz.ClubRoleModerator, nil
}

// CanCreateEvents reports whether the user may create events at all:
// site admins, or holders of a clubadmin/moderator role in any club.
func CanCreateEvents(ctx context.Context, db *mongo.Database, r *http.Request) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == authz.RoleAdmin {
		return true, nil
	}
	n, err := db.Collection("users").CountDocuments(ctx, bson.M{
		"_id": uid,
		"clubs": bson.M{"$elemMatch": bson.M{
			"clubRole": bson.M{"$in": bson.A{authz.ClubRoleClubAdmin, authz.ClubRoleModerator}},
			"banned":   false,
		}},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
