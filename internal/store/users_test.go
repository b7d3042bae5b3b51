package store_test

import (
	"context"
	"testing"

	"github.com/johnwards/filldb/internal/domain"
	"github.com/johnwards/filldb/internal/store"
	"github.com/johnwards/filldb/internal/testhelpers"
)

var _ store.UserStore = (*store.SQLiteUserStore)(nil)

func setupUserStore(t *testing.T) (*store.Store, *domain.APIClient) {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))

	client := &domain.APIClient{APIKey: "user-test", Description: "users", Enabled: true}
	if err := s.APIClients.Create(context.Background(), client); err != nil {
		t.Fatalf("create api client: %v", err)
	}
	return s, client
}

func TestLookupClientUserCreates(t *testing.T) {
	s, client := setupUserStore(t)
	ctx := context.Background()

	u, err := s.Users.LookupClientUser(ctx, client, domain.User{ID: "alice", DisplayName: "Alice", AuthMethod: domain.AuthMethodLocal})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want %q", u.Username, "alice")
	}
	if u.APIClientID != client.ID {
		t.Errorf("APIClientID = %s, want %s", u.APIClientID, client.ID)
	}
}

func TestLookupClientUserIdempotent(t *testing.T) {
	s, client := setupUserStore(t)
	ctx := context.Background()

	in := domain.User{ID: "bob", DisplayName: "Bob", AuthMethod: domain.AuthMethodDiscord}
	first, err := s.Users.LookupClientUser(ctx, client, in)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := s.Users.LookupClientUser(ctx, client, in)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second ID = %s, want %s", second.ID, first.ID)
	}

	n, err := s.Users.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestLookupClientUserDistinguishesAuthMethod(t *testing.T) {
	s, client := setupUserStore(t)
	ctx := context.Background()

	for _, method := range domain.AuthMethods {
		if _, err := s.Users.LookupClientUser(ctx, client, domain.User{ID: "carol", DisplayName: "Carol", AuthMethod: method}); err != nil {
			t.Fatalf("lookup %s: %v", method, err)
		}
	}

	n, err := s.Users.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(domain.AuthMethods) {
		t.Errorf("count = %d, want %d", n, len(domain.AuthMethods))
	}
}

func TestLookupClientUserUpdatesDisplayName(t *testing.T) {
	s, client := setupUserStore(t)
	ctx := context.Background()

	if _, err := s.Users.LookupClientUser(ctx, client, domain.User{ID: "dave", DisplayName: "Dave", AuthMethod: domain.AuthMethodLocal}); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := s.Users.LookupClientUser(ctx, client, domain.User{ID: "dave", DisplayName: "David", AuthMethod: domain.AuthMethodLocal})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.DisplayName != "David" {
		t.Errorf("DisplayName = %q, want %q", u.DisplayName, "David")
	}
}
