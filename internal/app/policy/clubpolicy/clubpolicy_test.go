package clubpolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestCanManageClub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub()
	admin := fixtures.CreateAdmin()
	moderator := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, moderator.ID, authz.ClubRoleModerator)
	member := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, member.ID, authz.ClubRoleMember)
	outsider := fixtures.CreateUser(authz.RoleUser)

	adminReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), admin)
	if ok, err := clubpolicy.CanManageClub(ctx, db, adminReq, club.ID); err != nil || !ok {
		t.Errorf("admin: ok=%v err=%v, want allowed", ok, err)
	}

	modReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), moderator)
	if ok, err := clubpolicy.CanManageClub(ctx, db, modReq, club.ID); err != nil || !ok {
		t.Errorf("moderator: ok=%v err=%v, want allowed", ok, err)
	}

	memberReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), member)
	if ok, err := clubpolicy.CanManageClub(ctx, db, memberReq, club.ID); err != nil || ok {
		t.Errorf("plain member: ok=%v err=%v, want denied", ok, err)
	}

	outsiderReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), outsider)
	if ok, err := clubpolicy.CanManageClub(ctx, db, outsiderReq, club.ID); err != nil || ok {
		t.Errorf("outsider: ok=%v err=%v, want denied", ok, err)
	}

	anonReq := httptest.NewRequest("GET", "/", nil)
	if ok, err := clubpolicy.CanManageClub(ctx, db, anonReq, club.ID); err != nil || ok {
		t.Errorf("anonymous: ok=%v err=%v, want denied", ok, err)
	}
}

func TestCanCreateEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub()
	admin := fixtures.CreateAdmin()
	clubadmin := fixtures.CreateUser(authz.RoleUser)
	fixtures.CreateMembership(club.ID, clubadmin.ID, authz.ClubRoleClubAdmin)
	plain := fixtures.CreateUser(authz.RoleUser)

	adminReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), admin)
	if ok, err := clubpolicy.CanCreateEvents(ctx, db, adminReq); err != nil || !ok {
		t.Errorf("admin: ok=%v err=%v, want allowed", ok, err)
	}

	caReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), clubadmin)
	if ok, err := clubpolicy.CanCreateEvents(ctx, db, caReq); err != nil || !ok {
		t.Errorf("clubadmin: ok=%v err=%v, want allowed", ok, err)
	}

	plainReq := testutil.SignedIn(httptest.NewRequest("GET", "/", nil), plain)
	if ok, err := clubpolicy.CanCreateEvents(ctx, db, plainReq); err != nil || ok {
		t.Errorf("plain user: ok=%v err=%v, want denied", ok, err)
	}
}
