// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account: a regular user, a site admin, or a club admin.
//
// NOTE:
//   - Club membership is mirrored: each membership appears both here in
//     Clubs and in the owning Club's Members array. The two sides are kept
//     in sync by membershipstore, not by the database.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Name     string             `bson:"name" json:"name"`
	Role     string             `bson:"role" json:"role"` // user | admin | clubadmin

	LastLogin     time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	IsVerified    bool      `bson:"isVerified" json:"isVerified"`
	BannedAccount bool      `bson:"bannedAccount" json:"bannedAccount"`

	Clubs []ClubMembership `bson:"clubs" json:"clubs"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClubMembership is the user-side half of a club membership.
// At most one entry per ClubID.
type ClubMembership struct {
	ClubID   primitive.ObjectID `bson:"clubId" json:"clubId"`
	ClubRole string             `bson:"clubRole" json:"clubRole"` // member | clubadmin | moderator
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
	Banned   bool               `bson:"banned" json:"banned"`
	BannedAt *time.Time         `bson:"bannedAt,omitempty" json:"bannedAt,omitempty"`
}

// MembershipFor returns the membership entry for the given club, if any.
func (u *User) MembershipFor(clubID primitive.ObjectID) (ClubMembership, bool) {
	for _, m := range u.Clubs {
		if m.ClubID == clubID {
			return m, true
		}
	}
	return ClubMembership{}, false
}
