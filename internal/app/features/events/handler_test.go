package events_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/features/events"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestHandleJoin_OpenEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()
	event := fixtures.CreateEvent(admin.ID, models.UnlimitedVolunteers(), nil)
	user := fixtures.CreateUser(authz.RoleUser)

	req := httptest.NewRequest("POST", "/api/events/join/"+event.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "eventID", event.ID.Hex())
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var e models.Event
	if err := db.Collection("events").FindOne(ctx, bson.M{"_id": event.ID}).Decode(&e); err != nil {
		t.Fatalf("load event: %v", err)
	}
	if !e.HasVolunteer(user.ID) {
		t.Error("user not recorded as volunteer")
	}
	if e.VolunteersJoined != 1 {
		t.Errorf("volunteersJoined = %d, want 1", e.VolunteersJoined)
	}
}

func TestHandleJoin_LimitReached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()
	event := fixtures.CreateEvent(admin.ID, models.BoundedVolunteers(1), nil)
	first := fixtures.CreateUser(authz.RoleUser)
	second := fixtures.CreateUser(authz.RoleUser)

	join := func(u models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/events/join/"+event.ID.Hex(), nil)
		req = testutil.WithChiURLParam(req, "eventID", event.ID.Hex())
		req = testutil.SignedIn(req, u)
		rec := httptest.NewRecorder()
		h.HandleJoin(rec, req)
		return rec
	}

	if rec := join(first); rec.Code != http.StatusOK {
		t.Fatalf("first join status = %d; body: %s", rec.Code, rec.Body.String())
	}
	rec := join(second)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second join status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Volunteer limit reached") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleJoin_ClubRestricted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()
	club := fixtures.CreateClub()
	event := fixtures.CreateEvent(admin.ID, models.UnlimitedVolunteers(), &club.ID)

	outsider := fixtures.CreateUser(authz.RoleUser)
	member := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, member.ID, authz.ClubRoleMember)

	req := httptest.NewRequest("POST", "/api/events/join/"+event.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "eventID", event.ID.Hex())
	req = testutil.SignedIn(req, outsider)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("outsider status = %d, want 403; body: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("POST", "/api/events/join/"+event.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "eventID", event.ID.Hex())
	req = testutil.SignedIn(req, member)
	rec = httptest.NewRecorder()
	h.HandleJoin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("member status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleJoin_EventNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	user := fixtures.CreateUser(authz.RoleUser)
	missing := "66aabbccddeeff0011223344"

	req := httptest.NewRequest("POST", "/api/events/join/"+missing, nil)
	req = testutil.WithChiURLParam(req, "eventID", missing)
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()
	event := fixtures.CreateEvent(admin.ID, models.UnlimitedVolunteers(), nil)
	user := fixtures.CreateUser(authz.RoleUser)

	leaveReq := httptest.NewRequest("POST", "/api/events/leave/"+event.ID.Hex(), nil)
	leaveReq = testutil.WithChiURLParam(leaveReq, "eventID", event.ID.Hex())
	leaveReq = testutil.SignedIn(leaveReq, user)
	rec := httptest.NewRecorder()
	h.HandleLeave(rec, leaveReq)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("leave before join status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}

	joinReq := httptest.NewRequest("POST", "/api/events/join/"+event.ID.Hex(), nil)
	joinReq = testutil.WithChiURLParam(joinReq, "eventID", event.ID.Hex())
	joinReq = testutil.SignedIn(joinReq, user)
	rec = httptest.NewRecorder()
	h.HandleJoin(rec, joinReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("join status = %d; body: %s", rec.Code, rec.Body.String())
	}

	leaveReq = httptest.NewRequest("POST", "/api/events/leave/"+event.ID.Hex(), nil)
	leaveReq = testutil.WithChiURLParam(leaveReq, "eventID", event.ID.Hex())
	leaveReq = testutil.SignedIn(leaveReq, user)
	rec = httptest.NewRecorder()
	h.HandleLeave(rec, leaveReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave status = %d; body: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var e models.Event
	if err := db.Collection("events").FindOne(ctx, bson.M{"_id": event.ID}).Decode(&e); err != nil {
		t.Fatalf("load event: %v", err)
	}
	if e.HasVolunteer(user.ID) {
		t.Error("user still recorded as volunteer")
	}
	if e.VolunteersJoined != 0 {
		t.Errorf("volunteersJoined = %d, want 0", e.VolunteersJoined)
	}
}

func TestHandleCreate_AsAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()

	body := `{
		"eventId": "beach-cleanup-2026",
		"eventName": "Beach Cleanup",
		"details": "Bring gloves",
		"openTo": "all",
		"volunteerLimit": 25,
		"createdByType": "admin"
	}`
	req := httptest.NewRequest("POST", "/api/events/create", strings.NewReader(body))
	req = testutil.SignedIn(req, admin)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var e models.Event
	if err := db.Collection("events").FindOne(ctx, bson.M{"eventId": "beach-cleanup-2026"}).Decode(&e); err != nil {
		t.Fatalf("event not persisted: %v", err)
	}
	if e.VolunteerLimit.Unlimited || e.VolunteerLimit.N != 25 {
		t.Errorf("volunteerLimit = %+v, want bounded 25", e.VolunteerLimit)
	}
}

func TestHandleCreate_RestrictedNeedsClub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	admin := fixtures.CreateAdmin()

	body := `{"eventId": "x", "eventName": "X", "openTo": "clubMembersOnly", "createdByType": "admin"}`
	req := httptest.NewRequest("POST", "/api/events/create", strings.NewReader(body))
	req = testutil.SignedIn(req, admin)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCreate_PlainUserForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := events.NewHandler(db, nil, zap.NewNop())

	user := fixtures.CreateUser(authz.RoleUser)

	body := `{"eventId": "y", "eventName": "Y", "openTo": "all", "createdByType": "admin"}`
	req := httptest.NewRequest("POST", "/api/events/create", strings.NewReader(body))
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body: %s", rec.Code, rec.Body.String())
	}
}
