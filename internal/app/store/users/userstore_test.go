package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/indexes"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/donorhub/internal/testutil"
)

func TestCreate_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{
		FullName: "  Rahim   Uddin  ",
		Email:    "Rahim@Example.COM",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != "donor" || u.Status != "active" {
		t.Errorf("defaults: role=%q status=%q", u.Role, u.Status)
	}
	if u.Email != "rahim@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.FullName != "Rahim Uddin" {
		t.Errorf("name not normalized: %q", u.FullName)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "dup@test.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := store.Create(ctx, models.User{FullName: "B", Email: "dup@test.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestSetRoleAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)
	fix := testutil.NewFixtures(t, db)

	u := fix.CreateUser(ctx, "Vol Candidate", "vol@test.com", "donor")

	if err := store.SetRole(ctx, u.ID, "volunteer"); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if err := store.SetStatus(ctx, u.ID, "blocked"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != "volunteer" || got.Status != "blocked" {
		t.Errorf("role=%q status=%q", got.Role, got.Status)
	}
}

func TestSetRole_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	if err := store.SetRole(ctx, primitive.NewObjectID(), "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), "paused"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSetRole_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	err := store.SetRole(ctx, primitive.NewObjectID(), "admin")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)
	fix := testutil.NewFixtures(t, db)

	fix.CreateUser(ctx, "Rahim Uddin", "rahim@test.com", "donor")
	fix.CreateUser(ctx, "Karim Mia", "karim@test.com", "donor")

	got, err := store.List(ctx, "rahim", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Email != "rahim@test.com" {
		t.Errorf("search result: %+v", got)
	}
}

func TestPromoteAdminByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)
	fix := testutil.NewFixtures(t, db)

	u := fix.CreateUser(ctx, "Operator", "ops@test.com", "donor")

	if err := store.PromoteAdminByEmail(ctx, "OPS@test.com"); err != nil {
		t.Fatalf("PromoteAdminByEmail: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != "admin" {
		t.Errorf("role = %q, want admin", got.Role)
	}

	err = store.PromoteAdminByEmail(ctx, "nobody@test.com")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing account: err = %v, want ErrNotFound", err)
	}
}
