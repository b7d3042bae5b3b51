package seed_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/johnwards/filldb/internal/domain"
	"github.com/johnwards/filldb/internal/seed"
	"github.com/johnwards/filldb/internal/store"
	"github.com/johnwards/filldb/internal/testhelpers"
)

func newSeeder(t *testing.T, db *sql.DB, opts seed.Options) (*seed.Seeder, *bytes.Buffer) {
	t.Helper()

	rng, err := seed.NewRand(true, 0)
	if err != nil {
		t.Fatalf("new rand: %v", err)
	}

	var logs bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return seed.New(db, rng, opts), &logs
}

func TestFillAPIClients(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	ctx := context.Background()
	s, _ := newSeeder(t, db, seed.Options{NumAPIClients: 3})

	keys, err := s.FillAPIClients(ctx)
	if err != nil {
		t.Fatalf("fill api clients: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3", len(keys))
	}

	seen := map[string]bool{}
	for _, k := range keys {
		if len(k) != 512 {
			t.Errorf("key length = %d, want 512", len(k))
		}
		if seen[k] {
			t.Errorf("duplicate key %q", k[:16])
		}
		seen[k] = true
	}

	st := store.New(db)
	n, err := st.APIClients.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("stored %d api clients, want 3", n)
	}

	c, err := st.APIClients.Authenticate(ctx, keys[0])
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !strings.HasSuffix(c.AdminEmail, "@example.com") {
		t.Errorf("AdminEmail = %q, want @example.com suffix", c.AdminEmail)
	}
	if len(c.Description) != 256 {
		t.Errorf("description length = %d, want 256", len(c.Description))
	}
}

func TestFillAPIClientsZero(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	ctx := context.Background()
	s, _ := newSeeder(t, db, seed.Options{})

	keys, err := s.FillAPIClients(ctx)
	if err != nil {
		t.Fatalf("fill api clients: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("got %d keys, want 0", len(keys))
	}

	n, err := store.New(db).APIClients.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("stored %d api clients, want 0", n)
	}
}

func TestFillUsersRequiresAPIKeys(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	s, _ := newSeeder(t, db, seed.Options{NumUsers: 1})

	_, err := s.FillUsers(context.Background())
	if !errors.Is(err, seed.ErrNoAPIKeys) {
		t.Fatalf("err = %v, want ErrNoAPIKeys", err)
	}
}

func TestFillUsers(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	ctx := context.Background()
	s, _ := newSeeder(t, db, seed.Options{NumAPIClients: 2, NumUsers: 4})

	if _, err := s.FillAPIClients(ctx); err != nil {
		t.Fatalf("fill api clients: %v", err)
	}
	users, err := s.FillUsers(ctx)
	if err != nil {
		t.Fatalf("fill users: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("got %d users, want 4", len(users))
	}

	for _, u := range users {
		if len(u.ID) != 56 {
			t.Errorf("user id length = %d, want 56", len(u.ID))
		}
		if len(u.DisplayName) != 128 {
			t.Errorf("display name length = %d, want 128", len(u.DisplayName))
		}
		if u.AuthMethod != domain.AuthMethodDiscord && u.AuthMethod != domain.AuthMethodLocal {
			t.Errorf("AuthMethod = %q, want discord or local", u.AuthMethod)
		}
	}

	n, err := store.New(db).Users.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("stored %d users, want 4", n)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	ctx := context.Background()

	run := func(seedValue int64) ([]string, []domain.User) {
		t.Helper()
		rng, err := seed.NewRand(true, seedValue)
		if err != nil {
			t.Fatalf("new rand: %v", err)
		}
		s := seed.New(testhelpers.NewMigratedDB(t), rng, seed.Options{
			NumAPIClients: 3,
			NumUsers:      3,
			Logger:        slog.New(slog.DiscardHandler),
		})
		keys, err := s.FillAPIClients(ctx)
		if err != nil {
			t.Fatalf("fill api clients: %v", err)
		}
		users, err := s.FillUsers(ctx)
		if err != nil {
			t.Fatalf("fill users: %v", err)
		}
		return keys, users
	}

	keysA, usersA := run(7)
	keysB, usersB := run(7)
	for i := range keysA {
		if keysA[i] != keysB[i] {
			t.Errorf("key %d differs between seeded runs", i)
		}
	}
	for i := range usersA {
		if usersA[i] != usersB[i] {
			t.Errorf("user %d = %+v, want %+v", i, usersB[i], usersA[i])
		}
	}

	keysC, _ := run(8)
	if keysA[0] == keysC[0] {
		t.Error("different seeds produced the same first key")
	}
}

func TestSeededAPIClientIDsAreReproducible(t *testing.T) {
	gen := func() *domain.APIClient {
		t.Helper()
		rng, err := seed.NewRand(true, 42)
		if err != nil {
			t.Fatalf("new rand: %v", err)
		}
		c, err := rng.APIClient()
		if err != nil {
			t.Fatalf("api client: %v", err)
		}
		return c
	}

	a, b := gen(), gen()
	if a.ID != b.ID {
		t.Errorf("ID = %s, want %s", b.ID, a.ID)
	}
	if a.Enabled != b.Enabled || a.Trusted != b.Trusted {
		t.Error("flags differ between seeded runs")
	}
}

func TestUnseededRand(t *testing.T) {
	a, err := seed.NewRand(false, 0)
	if err != nil {
		t.Fatalf("new rand: %v", err)
	}
	b, err := seed.NewRand(false, 0)
	if err != nil {
		t.Fatalf("new rand: %v", err)
	}
	if a.String(64) == b.String(64) {
		t.Error("unseeded generators produced identical output")
	}
}
