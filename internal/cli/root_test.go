package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/johnwards/filldb/internal/cli"
	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/seed"
	"github.com/johnwards/filldb/internal/store"
	"github.com/johnwards/filldb/internal/testhelpers"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "filldb.db")
	fixture := testhelpers.WriteJSON(t, "seed.json", []seed.MockMessage{
		{TaskMessageID: "t-1", UserMessageID: "u-1", Text: "root", Role: "prompter"},
		{TaskMessageID: "t-2", UserMessageID: "u-2", ParentMessageID: "u-1", Text: "reply", Role: "assistant"},
	})

	t.Setenv("FILLDB_DB", dbPath)
	t.Setenv("DEBUG_USE_SEED_DATA_PATH", fixture)
	t.Setenv("FILLDB_LOG_FILE", "")
	t.Setenv("FILLDB_LOG_LEVEL", "ERROR")
	t.Setenv("FILLDB_REPLAY_ERRORS", "fail")
	return dbPath
}

func TestRootCommandFillsDatabase(t *testing.T) {
	dbPath := setupEnv(t)
	ctx := context.Background()

	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--api_client", "2", "--users", "3", "--seed", "11"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("execute: %v", err)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db)
	clients, err := st.APIClients.Count(ctx)
	if err != nil {
		t.Fatalf("count clients: %v", err)
	}
	if clients != 3 {
		t.Errorf("api clients = %d, want 3", clients)
	}
	users, err := st.Users.Count(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 4 {
		t.Errorf("users = %d, want 4", users)
	}

	client, err := st.APIClients.Dummy(ctx, "1234")
	if err != nil {
		t.Fatalf("dummy client: %v", err)
	}
	n, err := st.Messages(client, nil).Count(ctx)
	if err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}
}

func TestRootCommandDefaults(t *testing.T) {
	cmd := cli.NewRootCmd()

	for name, want := range map[string]string{
		"api_client": "1",
		"users":      "1",
		"seed":       "0",
		"use_seed":   "true",
	} {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Errorf("flag --%s not defined", name)
			continue
		}
		if f.DefValue != want {
			t.Errorf("--%s default = %q, want %q", name, f.DefValue, want)
		}
	}
}

func TestRootCommandRejectsNegativeCounts(t *testing.T) {
	setupEnv(t)

	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--users", "-1"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for negative user count")
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	setupEnv(t)

	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"extra"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for positional argument")
	}
}
