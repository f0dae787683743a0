// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is an activity users can volunteer for, optionally capacity-limited
// and optionally restricted to members of the club that created it.
//
// VolunteersJoined mirrors len(Volunteers); the join/leave paths maintain it
// with $inc, so it can drift under interleaved requests (there is no
// multi-document transaction anywhere in this app).
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"eventId" json:"eventId"`
	EventName string             `bson:"eventName" json:"eventName"`
	Picture   string             `bson:"picture,omitempty" json:"picture,omitempty"`
	Details   string             `bson:"details" json:"details"`

	OpenTo           string         `bson:"openTo" json:"openTo"` // all | clubMembersOnly
	VolunteerLimit   VolunteerLimit `bson:"volunteerLimit" json:"volunteerLimit"`
	VolunteersJoined int            `bson:"volunteersJoined" json:"volunteersJoined"`
	Volunteers       []Volunteer    `bson:"eventVolunteerList" json:"eventVolunteerList"`

	CreatedBy     primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedByType string              `bson:"createdByType" json:"createdByType"` // admin | clubadmin | moderator
	CreatedByClub *primitive.ObjectID `bson:"createdByClubId,omitempty" json:"createdByClubId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Visibility values for Event.OpenTo.
const (
	OpenToAll         = "all"
	OpenToClubMembers = "clubMembersOnly"
)

// Volunteer is one entry in an event's volunteer list.
type Volunteer struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
	Banned   bool               `bson:"banned" json:"banned"`
	BannedAt *time.Time         `bson:"bannedAt,omitempty" json:"bannedAt,omitempty"`
}

// HasVolunteer reports whether the user is on the volunteer list.
func (e *Event) HasVolunteer(userID primitive.ObjectID) bool {
	for _, v := range e.Volunteers {
		if v.UserID == userID {
			return true
		}
	}
	return false
}
