// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club is an organizational entity with a roster of members.
//
// TotalMembers is a denormalized count of the Members array. Most write
// paths recompute it from len(Members); the join-request accept path and
// leave-club increment/decrement it instead, matching the documented
// behavior of those operations.
type Club struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubName    string             `bson:"clubName" json:"clubName"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Banner      string             `bson:"banner,omitempty" json:"banner,omitempty"`

	TotalDepartments int          `bson:"totalDepartments" json:"totalDepartments"`
	Departments      []Department `bson:"departments" json:"departments"`
	PanelMembers     []PanelSeat  `bson:"panelMembers" json:"panelMembers"`

	Banned       bool     `bson:"banned" json:"banned"`
	TotalMembers int      `bson:"totalMembers" json:"totalMembers"`
	Members      []Member `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Department is a named subdivision of a club.
type Department struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// PanelSeat is an officer position on the club's panel.
type PanelSeat struct {
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Role    string             `bson:"role" json:"role"` // President | Vice President | Secretary | Treasurer
	Picture string             `bson:"picture,omitempty" json:"picture,omitempty"`
}

// Member is the club-side half of a club membership.
type Member struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	ClubRole string             `bson:"clubRole" json:"clubRole"` // member | clubadmin | moderator
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
	Banned   bool               `bson:"banned" json:"banned"`
	BannedAt *time.Time         `bson:"bannedAt,omitempty" json:"bannedAt,omitempty"`
}

// MemberFor returns the roster entry for the given user, if any.
func (c *Club) MemberFor(userID primitive.ObjectID) (Member, bool) {
	for _, m := range c.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}
