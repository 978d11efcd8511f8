// internal/app/features/login/handler_test.go
package login

import (
	"net/http"
	"testing"

	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/status"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/fcyap/IS212-G3T5-sub004/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newLoginHandler(t *testing.T, users *userstore.Store) *Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "taskhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return NewHandler(users, sm, zap.NewNop())
}

func createPasswordUser(t *testing.T, users *userstore.Store, email, password string) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := users.Create(ctx, models.User{
		FullName:       "Login User",
		Email:          email,
		HashedPassword: string(hash),
		AuthMethod:     "password",
		Role:           models.RoleStaff,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestHandleLogin_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	h := newLoginHandler(t, users)
	createPasswordUser(t, users, "ada@test.com", "correct horse")

	req := testutil.NewJSONRequest(http.MethodPost, "/login", `{"email":"Ada@Test.com","password":"correct horse"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertJSON(t)
	rec.AssertContains(t, "ada@test.com")
	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("no session cookie set on successful login")
	}
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	h := newLoginHandler(t, users)
	createPasswordUser(t, users, "ada@test.com", "correct horse")

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"ada@test.com","password":"wrong"}`},
		{"unknown email", `{"email":"nobody@test.com","password":"correct horse"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(http.MethodPost, "/login", tc.body)
			rec := testutil.NewRecorder()
			h.HandleLogin(rec.ResponseRecorder, req)

			rec.AssertStatus(t, http.StatusUnauthorized)
			// Same body either way.
			rec.AssertContains(t, "invalid email or password")
		})
	}
}

func TestHandleLogin_DisabledAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	h := newLoginHandler(t, users)
	u := createPasswordUser(t, users, "ada@test.com", "correct horse")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := users.SetStatus(ctx, u.ID, status.Disabled); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	req := testutil.NewJSONRequest(http.MethodPost, "/login", `{"email":"ada@test.com","password":"correct horse"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleLogin_MissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newLoginHandler(t, userstore.New(db))

	req := testutil.NewJSONRequest(http.MethodPost, "/login", `{"email":"","password":""}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}
