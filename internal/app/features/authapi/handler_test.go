package authapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/authapi"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T, db *mongo.Database) *authapi.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key", "test-session", "", false,
		"test-jwt-secret", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return authapi.NewHandler(db, sm, zap.NewNop())
}

func TestSignup_CreatesAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	body := `{"email": "new@example.com", "password": "secret12", "name": "New User"}`
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a bearer token")
	}
	if resp.User.Role != authz.RoleUser {
		t.Errorf("role = %q, want %q", resp.User.Role, authz.RoleUser)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "new@example.com"}).Decode(&u); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if u.Password == "secret12" {
		t.Error("password stored in plaintext")
	}
}

func TestSignup_MissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	body := `{"email": "new@example.com", "password": "secret12"}`
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	existing := fixtures.CreateUser(authz.RoleUser)

	body := `{"email": "` + existing.Email + `", "password": "secret12", "name": "Dup"}`
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func seedLoginUser(t *testing.T, db *mongo.Database, email, password string, banned bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"email":         email,
		"password":      string(hash),
		"name":          "Login User",
		"role":          authz.RoleUser,
		"isVerified":    true,
		"bannedAccount": banned,
		"clubs":         bson.A{},
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	seedLoginUser(t, db, "login@example.com", "correct-horse", false)

	body := `{"email": "login@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Error("expected a bearer token in the response")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	seedLoginUser(t, db, "login@example.com", "correct-horse", false)

	body := `{"email": "login@example.com", "password": "battery-staple"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	body := `{"email": "nobody@example.com", "password": "whatever"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogin_BannedAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	seedLoginUser(t, db, "banned@example.com", "correct-horse", true)

	body := `{"email": "banned@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Your account has been banned") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
