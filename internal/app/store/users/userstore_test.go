package userstore_test

import (
	"testing"

	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/status"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/fcyap/IS212-G3T5-sub004/internal/testutil"
)

func TestCreateAndGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:   "  Ada Lovelace ",
		Email:      "Ada@Example.COM",
		Role:       models.RoleHR,
		Department: "Engineering.Backend",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.Status != status.Active {
		t.Errorf("default status = %q", created.Status)
	}

	got, err := store.GetByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("lookup returned %v, want %v", got.ID, created.ID)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "x@test.com", Role: "superuser"}); err == nil {
		t.Error("expected bad role to be rejected")
	}
	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "x@test.com", Role: models.RoleStaff, Department: "A..B"}); err == nil {
		t.Error("expected malformed department to be rejected")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	u := models.User{FullName: "One", Email: "dup@test.com", Role: models.RoleStaff}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	u.FullName = "Two"
	if _, err := store.Create(ctx, u); err != userstore.ErrDuplicateEmail {
		t.Errorf("second Create err = %v, want ErrDuplicateEmail", err)
	}
}

func TestDivisionRanks_ExcludesDisabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fx.CreateRankedUser(ctx, "Active One", models.RoleStaff, "Engineering", 2)
	disabled := fx.CreateRankedUser(ctx, "Disabled One", models.RoleStaff, "Engineering", 3)
	fx.CreateRankedUser(ctx, "Other Division", models.RoleStaff, "Sales", 2)

	if err := store.SetStatus(ctx, disabled.ID, status.Disabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	ranks, err := store.DivisionRanks(ctx, "Engineering")
	if err != nil {
		t.Fatalf("DivisionRanks: %v", err)
	}
	if len(ranks) != 1 {
		t.Fatalf("ranks = %v, want only the active Engineering user", ranks)
	}
	if ranks[active.ID] != 2 {
		t.Errorf("rank = %d, want 2", ranks[active.ID])
	}
}

func TestListByDepartmentSubtree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Root", models.RoleStaff, "Engineering")
	fx.CreateUser(ctx, "Child", models.RoleStaff, "Engineering.Backend")
	fx.CreateUser(ctx, "Lookalike", models.RoleStaff, "EngineeringTeam")

	got, err := store.ListByDepartmentSubtree(ctx, orgpath.MustParse("Engineering"))
	if err != nil {
		t.Fatalf("ListByDepartmentSubtree: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d users, want 2", len(got))
	}
	for _, u := range got {
		if u.Department == "EngineeringTeam" {
			t.Errorf("prefix lookalike leaked into subtree: %+v", u)
		}
	}
}

func TestFetcher_DisabledUserDropsSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Session User", models.RoleManager, "Engineering")

	su := fetcher.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser returned nil for an active user")
	}
	if su.Role != "manager" || su.Department != "Engineering" {
		t.Errorf("session user = %+v", su)
	}

	if err := store.SetStatus(ctx, u.ID, status.Disabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if su := fetcher.FetchUser(ctx, u.ID.Hex()); su != nil {
		t.Errorf("FetchUser returned %+v for a disabled user, want nil", su)
	}

	if su := fetcher.FetchUser(ctx, "not-an-id"); su != nil {
		t.Errorf("FetchUser returned %+v for a malformed id, want nil", su)
	}
}
