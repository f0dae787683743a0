package membershipstore_test

import (
	"testing"

	membershipstore "github.com/dalemusser/clubhub/internal/app/store/memberships"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func loadUser(t *testing.T, db *mongo.Database, id primitive.ObjectID) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u
}

func loadClub(t *testing.T, db *mongo.Database, id primitive.ObjectID) models.Club {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var c models.Club
	if err := db.Collection("clubs").FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		t.Fatalf("load club: %v", err)
	}
	return c
}

func loadEvent(t *testing.T, db *mongo.Database, id primitive.ObjectID) models.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var e models.Event
	if err := db.Collection("events").FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		t.Fatalf("load event: %v", err)
	}
	return e
}

func TestDirectAdd_MirrorsBothSides(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()

	added, err := store.DirectAdd(ctx, user.Email, club.ID, authz.ClubRoleMember)
	if err != nil {
		t.Fatalf("DirectAdd failed: %v", err)
	}
	if added.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID.Hex(), added.ID.Hex())
	}

	gotClub := loadClub(t, db, club.ID)
	if gotClub.TotalMembers != 1 {
		t.Errorf("totalMembers = %d, want 1", gotClub.TotalMembers)
	}
	m, ok := gotClub.MemberFor(user.ID)
	if !ok {
		t.Fatal("user missing from club roster")
	}
	if m.ClubRole != authz.ClubRoleMember {
		t.Errorf("clubRole = %q, want %q", m.ClubRole, authz.ClubRoleMember)
	}

	gotUser := loadUser(t, db, user.ID)
	entry, ok := gotUser.MembershipFor(club.ID)
	if !ok {
		t.Fatal("club missing from user memberships")
	}
	if entry.ClubRole != authz.ClubRoleMember {
		t.Errorf("user-side clubRole = %q, want %q", entry.ClubRole, authz.ClubRoleMember)
	}
}

func TestDirectAdd_AlreadyMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	_, err := store.DirectAdd(ctx, user.Email, club.ID, authz.ClubRoleMember)
	if err != membershipstore.ErrAlreadyMember {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestDirectAdd_RecomputesDriftedCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()

	// Force the counter out of step with the (empty) roster.
	if _, err := db.Collection("clubs").UpdateByID(ctx, club.ID,
		bson.M{"$set": bson.M{"totalMembers": 7}}); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	if _, err := store.DirectAdd(ctx, user.Email, club.ID, authz.ClubRoleMember); err != nil {
		t.Fatalf("DirectAdd failed: %v", err)
	}

	gotClub := loadClub(t, db, club.ID)
	if gotClub.TotalMembers != 1 {
		t.Errorf("totalMembers = %d, want 1 (recomputed from roster)", gotClub.TotalMembers)
	}
}

func TestAppendBoth_IncrementsCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()

	// Seed drift: AppendBoth increments blindly rather than recomputing.
	if _, err := db.Collection("clubs").UpdateByID(ctx, club.ID,
		bson.M{"$set": bson.M{"totalMembers": 3}}); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	if err := store.AppendBoth(ctx, club.ID, user.ID, authz.ClubRoleMember); err != nil {
		t.Fatalf("AppendBoth failed: %v", err)
	}

	gotClub := loadClub(t, db, club.ID)
	if gotClub.TotalMembers != 4 {
		t.Errorf("totalMembers = %d, want 4 (incremented, not recomputed)", gotClub.TotalMembers)
	}
	if len(gotClub.Members) != 1 {
		t.Errorf("roster length = %d, want 1", len(gotClub.Members))
	}

	gotUser := loadUser(t, db, user.ID)
	if _, ok := gotUser.MembershipFor(club.ID); !ok {
		t.Error("club missing from user memberships")
	}
}

func TestLeave_RemovesBothSidesAndCascadesEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	event := fixtures.CreateEvent(user.ID, models.UnlimitedVolunteers(), &club.ID)
	if _, err := db.Collection("events").UpdateByID(ctx, event.ID, bson.M{
		"$push": bson.M{"eventVolunteerList": models.Volunteer{UserID: user.ID}},
		"$inc":  bson.M{"volunteersJoined": 1},
	}); err != nil {
		t.Fatalf("seed volunteer: %v", err)
	}

	if err := store.Leave(ctx, club.ID, user.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	gotClub := loadClub(t, db, club.ID)
	if _, ok := gotClub.MemberFor(user.ID); ok {
		t.Error("user still on club roster")
	}
	if gotClub.TotalMembers != 0 {
		t.Errorf("totalMembers = %d, want 0", gotClub.TotalMembers)
	}

	gotUser := loadUser(t, db, user.ID)
	if _, ok := gotUser.MembershipFor(club.ID); ok {
		t.Error("club still in user memberships")
	}

	gotEvent := loadEvent(t, db, event.ID)
	if gotEvent.HasVolunteer(user.ID) {
		t.Error("user still on event volunteer list")
	}
	if gotEvent.VolunteersJoined != 0 {
		t.Errorf("volunteersJoined = %d, want 0", gotEvent.VolunteersJoined)
	}
}

func TestLeave_CascadeClampsCounterAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	// Volunteer entry present but the counter already reads zero.
	event := fixtures.CreateEvent(user.ID, models.UnlimitedVolunteers(), &club.ID)
	if _, err := db.Collection("events").UpdateByID(ctx, event.ID, bson.M{
		"$push": bson.M{"eventVolunteerList": models.Volunteer{UserID: user.ID}},
	}); err != nil {
		t.Fatalf("seed volunteer: %v", err)
	}

	if err := store.Leave(ctx, club.ID, user.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	gotEvent := loadEvent(t, db, event.ID)
	if gotEvent.VolunteersJoined != 0 {
		t.Errorf("volunteersJoined = %d, want 0 (clamped)", gotEvent.VolunteersJoined)
	}
}

func TestLeave_ClubNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)

	err := store.Leave(ctx, primitive.NewObjectID(), user.ID)
	if err != mongo.ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestSetMemberBanned_FlagsBothSides(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	if err := store.SetMemberBanned(ctx, club.ID, user.ID, true); err != nil {
		t.Fatalf("SetMemberBanned failed: %v", err)
	}

	gotClub := loadClub(t, db, club.ID)
	m, ok := gotClub.MemberFor(user.ID)
	if !ok {
		t.Fatal("membership removed; ban should retain it")
	}
	if !m.Banned || m.BannedAt == nil {
		t.Errorf("club-side banned = %v, bannedAt = %v", m.Banned, m.BannedAt)
	}

	gotUser := loadUser(t, db, user.ID)
	entry, _ := gotUser.MembershipFor(club.ID)
	if !entry.Banned {
		t.Error("user-side entry not banned")
	}

	// Unban clears both flags.
	if err := store.SetMemberBanned(ctx, club.ID, user.ID, false); err != nil {
		t.Fatalf("unban failed: %v", err)
	}
	gotClub = loadClub(t, db, club.ID)
	m, _ = gotClub.MemberFor(user.ID)
	if m.Banned || m.BannedAt != nil {
		t.Errorf("after unban: banned = %v, bannedAt = %v", m.Banned, m.BannedAt)
	}
}

func TestSetMemberBanned_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()

	err := store.SetMemberBanned(ctx, club.ID, user.ID, true)
	if err != membershipstore.ErrMemberNotFound {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeleteMember_RecomputesCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub()
	u1 := fixtures.CreateUser(authz.RoleUser)
	u2 := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, u1.ID, authz.ClubRoleMember)
	fixtures.CreateMembership(club.ID, u2.ID, authz.ClubRoleMember)

	// Drifted counter self-heals on this path.
	if _, err := db.Collection("clubs").UpdateByID(ctx, club.ID,
		bson.M{"$set": bson.M{"totalMembers": 9}}); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	if err := store.DeleteMember(ctx, club.ID, u1.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	gotClub := loadClub(t, db, club.ID)
	if gotClub.TotalMembers != 1 {
		t.Errorf("totalMembers = %d, want 1", gotClub.TotalMembers)
	}
	if _, ok := gotClub.MemberFor(u1.ID); ok {
		t.Error("deleted member still on roster")
	}
	if _, ok := gotClub.MemberFor(u2.ID); !ok {
		t.Error("remaining member lost")
	}

	gotUser := loadUser(t, db, u1.ID)
	if _, ok := gotUser.MembershipFor(club.ID); ok {
		t.Error("club still in deleted member's list")
	}
}

func TestDeleteClub_PullsUserReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub()
	user := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	if err := store.DeleteClub(ctx, club.ID); err != nil {
		t.Fatalf("DeleteClub failed: %v", err)
	}

	n, err := db.Collection("clubs").CountDocuments(ctx, bson.M{"_id": club.ID})
	if err != nil {
		t.Fatalf("count clubs: %v", err)
	}
	if n != 0 {
		t.Error("club document still present")
	}

	gotUser := loadUser(t, db, user.ID)
	if _, ok := gotUser.MembershipFor(club.ID); ok {
		t.Error("deleted club still in user memberships")
	}

	if err := store.DeleteClub(ctx, club.ID); err != mongo.ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments on second delete, got %v", err)
	}
}

func TestSetAccountBanned_FlagsEveryRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	c1 := fixtures.CreateClub()
	c2 := fixtures.CreateClub()
	fixtures.CreateMembership(c1.ID, user.ID, authz.ClubRoleMember)
	fixtures.CreateMembership(c2.ID, user.ID, authz.ClubRoleModerator)

	banned, err := store.SetAccountBanned(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("SetAccountBanned failed: %v", err)
	}
	if !banned.BannedAccount {
		t.Error("returned user not flagged")
	}

	for _, clubID := range []primitive.ObjectID{c1.ID, c2.ID} {
		c := loadClub(t, db, clubID)
		m, ok := c.MemberFor(user.ID)
		if !ok {
			t.Fatalf("membership lost in club %s", clubID.Hex())
		}
		if !m.Banned {
			t.Errorf("club %s roster entry not banned", clubID.Hex())
		}
	}
}

func TestDeleteUser_PullsFromRosters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(authz.RoleUser)
	club := fixtures.CreateClub()
	fixtures.CreateMembership(club.ID, user.ID, authz.ClubRoleMember)

	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"_id": user.ID})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Error("user document still present")
	}

	gotClub := loadClub(t, db, club.ID)
	if _, ok := gotClub.MemberFor(user.ID); ok {
		t.Error("deleted user still on roster")
	}
	if gotClub.TotalMembers != 0 {
		t.Errorf("totalMembers = %d, want 0", gotClub.TotalMembers)
	}

	if err := store.DeleteUser(ctx, user.ID); err != mongo.ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments on second delete, got %v", err)
	}
}
