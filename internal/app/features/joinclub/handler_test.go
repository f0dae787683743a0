package joinclub_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/features/joinclub"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHandleJoin_NoBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	club := fixtures.CreateClub()
	user := fixtures.CreateUser(authz.RoleUser)

	req := httptest.NewRequest("POST", "/api/join-club/"+club.ID.Hex()+"/join", nil)
	req = testutil.WithChiURLParam(req, "clubID", club.ID.Hex())
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleJoin_PendingDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	club := fixtures.CreateClub()
	user := fixtures.CreateUser(authz.RoleUser)

	join := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/join-club/"+club.ID.Hex()+"/join",
			strings.NewReader(`{"message": "let me in"}`))
		req = testutil.WithChiURLParam(req, "clubID", club.ID.Hex())
		req = testutil.SignedIn(req, user)
		rec := httptest.NewRecorder()
		h.HandleJoin(rec, req)
		return rec
	}

	if rec := join(); rec.Code != http.StatusCreated {
		t.Fatalf("first request status = %d; body: %s", rec.Code, rec.Body.String())
	}
	rec := join()
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second request status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "pending request") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleJoin_ClubNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	user := fixtures.CreateUser(authz.RoleUser)
	missing := "66aabbccddeeff0011223344"

	req := httptest.NewRequest("POST", "/api/join-club/"+missing+"/join", nil)
	req = testutil.WithChiURLParam(req, "clubID", missing)
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleReview_AcceptAddsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	club := fixtures.CreateClub()
	requester := fixtures.CreateUser(authz.RoleUser)
	admin := fixtures.CreateAdmin()

	joinReq := httptest.NewRequest("POST", "/api/join-club/"+club.ID.Hex()+"/join", nil)
	joinReq = testutil.WithChiURLParam(joinReq, "clubID", club.ID.Hex())
	joinReq = testutil.SignedIn(joinReq, requester)
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, joinReq)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join status = %d; body: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var stored struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := db.Collection("join_requests").FindOne(ctx, bson.M{"userId": requester.ID}).Decode(&stored); err != nil {
		t.Fatalf("load request: %v", err)
	}
	requestID := stored.ID.Hex()

	reviewReq := httptest.NewRequest("POST", "/api/join-club/requests/"+requestID,
		strings.NewReader(`{"action": "accept", "clubId": "`+club.ID.Hex()+`"}`))
	reviewReq = testutil.WithChiURLParam(reviewReq, "requestID", requestID)
	reviewReq = testutil.SignedIn(reviewReq, admin)
	rec = httptest.NewRecorder()
	h.HandleReview(rec, reviewReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("review status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var c models.Club
	if err := db.Collection("clubs").FindOne(ctx, bson.M{"_id": club.ID}).Decode(&c); err != nil {
		t.Fatalf("load club: %v", err)
	}
	if _, ok := c.MemberFor(requester.ID); !ok {
		t.Error("requester not on roster after accept")
	}
	if c.TotalMembers != 1 {
		t.Errorf("totalMembers = %d, want 1", c.TotalMembers)
	}
}

func TestHandleReview_RequiresManager(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	club := fixtures.CreateClub()
	outsider := fixtures.CreateUser(authz.RoleUser)
	requestID := "66aabbccddeeff0011223344"

	req := httptest.NewRequest("POST", "/api/join-club/requests/"+requestID,
		strings.NewReader(`{"action": "accept", "clubId": "`+club.ID.Hex()+`"}`))
	req = testutil.WithChiURLParam(req, "requestID", requestID)
	req = testutil.SignedIn(req, outsider)
	rec := httptest.NewRecorder()
	h.HandleReview(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleBrowse_ExcludesOwnClubs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := joinclub.NewHandler(db, zap.NewNop())

	mine := fixtures.CreateClub()
	other := fixtures.CreateClub()
	user := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(mine.ID, user.ID, authz.ClubRoleMember)

	req := httptest.NewRequest("GET", "/api/join-club/clubs", nil)
	req = testutil.SignedIn(req, user)
	rec := httptest.NewRecorder()
	h.HandleBrowseClubs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, mine.ClubName) {
		t.Error("response includes a club the user already belongs to")
	}
	if !strings.Contains(body, other.ClubName) {
		t.Error("response missing a joinable club")
	}
}
