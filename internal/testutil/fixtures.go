// internal/testutil/fixtures.go
package testutil

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing the stores, so
// store and handler tests can arrange exactly the state they need.
type Fixtures struct {
	t  *testing.T
	DB *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, DB: db}
}

func (f *Fixtures) insert(coll string, doc any) {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()
	if _, err := f.DB.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert %s fixture: %v", coll, err)
	}
}

// CreateUser inserts a user with the given role and no memberships.
func (f *Fixtures) CreateUser(role string) models.User {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     gofakeit.Email(),
		Password:  "$2a$10$fixturehashfixturehashfixturehashfixturehashfixtur",
		Name:      gofakeit.Name(),
		Role:      role,
		Clubs:     []models.ClubMembership{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert("users", u)
	return u
}

// CreateAdmin inserts a site admin.
func (f *Fixtures) CreateAdmin() models.User {
	return f.CreateUser(authz.RoleAdmin)
}

// CreateClub inserts a club with an empty roster.
func (f *Fixtures) CreateClub() models.Club {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := models.Club{
		ID:           primitive.NewObjectID(),
		ClubName:     gofakeit.Company() + " " + gofakeit.UUID()[:8],
		Description:  gofakeit.Sentence(8),
		Departments:  []models.Department{},
		PanelMembers: []models.PanelSeat{},
		Members:      []models.Member{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert("clubs", c)
	return c
}

// CreateMembership mirrors a membership onto both documents the way the
// production write paths do, keeping totalMembers in step.
func (f *Fixtures) CreateMembership(clubID, userID primitive.ObjectID, clubRole string) {
	f.t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	member := models.Member{UserID: userID, ClubRole: clubRole, JoinedAt: now}
	if _, err := f.DB.Collection("clubs").UpdateByID(ctx, clubID, bson.M{
		"$push": bson.M{"members": member},
		"$inc":  bson.M{"totalMembers": 1},
	}); err != nil {
		f.t.Fatalf("add club-side membership: %v", err)
	}

	entry := models.ClubMembership{ClubID: clubID, ClubRole: clubRole, JoinedAt: now}
	if _, err := f.DB.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"clubs": entry},
	}); err != nil {
		f.t.Fatalf("add user-side membership: %v", err)
	}
}

// CreateEvent inserts an event created by the given user.
func (f *Fixtures) CreateEvent(createdBy primitive.ObjectID, limit models.VolunteerLimit, clubID *primitive.ObjectID) models.Event {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	openTo := models.OpenToAll
	if clubID != nil {
		openTo = models.OpenToClubMembers
	}
	e := models.Event{
		ID:             primitive.NewObjectID(),
		EventID:        gofakeit.UUID(),
		EventName:      gofakeit.HackerPhrase(),
		Details:        gofakeit.Sentence(10),
		OpenTo:         openTo,
		VolunteerLimit: limit,
		Volunteers:     []models.Volunteer{},
		CreatedBy:      createdBy,
		CreatedByType:  authz.RoleAdmin,
		CreatedByClub:  clubID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert("events", e)
	return e
}
