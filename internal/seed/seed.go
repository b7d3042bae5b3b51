// Package seed fills a database with synthetic API clients, users and a
// conversation tree replayed from a JSON fixture.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/domain"
	"github.com/johnwards/filldb/internal/store"
)

// ErrNoAPIKeys is returned when users are requested before any API client
// has been created.
var ErrNoAPIKeys = errors.New("no api keys generated; create api clients first")

// Options configures a Seeder.
type Options struct {
	NumAPIClients int
	NumUsers      int
	SeedDataPath  string
	DummyAPIKey   string
	ReplayErrors  ReplayErrorPolicy
	Logger        *slog.Logger
}

// Seeder runs the seeding phases against one database. It is not safe for
// concurrent use.
type Seeder struct {
	db   *sql.DB
	rng  *Rand
	opts Options
	log  *slog.Logger

	apiKeys []string
	users   []domain.User
}

// New creates a Seeder drawing all random values from rng.
func New(db *sql.DB, rng *Rand, opts Options) *Seeder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DummyAPIKey == "" {
		opts.DummyAPIKey = "1234"
	}
	return &Seeder{db: db, rng: rng, opts: opts, log: logger}
}

// Run executes the three phases in order: API clients, users, messages.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.FillAPIClients(ctx); err != nil {
		return fmt.Errorf("fill api clients: %w", err)
	}
	if _, err := s.FillUsers(ctx); err != nil {
		return fmt.Errorf("fill users: %w", err)
	}
	if _, err := s.FillMessages(ctx); err != nil {
		return fmt.Errorf("fill messages: %w", err)
	}
	return nil
}

// FillAPIClients creates NumAPIClients random API clients and returns the
// keys generated so far, in creation order.
func (s *Seeder) FillAPIClients(ctx context.Context) ([]string, error) {
	err := database.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		clients := store.NewSQLiteAPIClientStore(conn)
		for range s.opts.NumAPIClients {
			c, err := s.rng.APIClient()
			if err != nil {
				return err
			}
			if err := clients.Create(ctx, c); err != nil {
				return err
			}
			s.apiKeys = append(s.apiKeys, c.APIKey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("api clients created", "count", s.opts.NumAPIClients)
	return slices.Clone(s.apiKeys), nil
}

// FillUsers creates NumUsers random users, each under an API client picked
// at random from the keys created by FillAPIClients.
func (s *Seeder) FillUsers(ctx context.Context) ([]domain.User, error) {
	if s.opts.NumUsers > 0 && len(s.apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	err := database.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		st := store.New(conn)
		for range s.opts.NumUsers {
			key := Choice(s.rng, s.apiKeys)
			client, err := st.APIClients.Authenticate(ctx, key)
			if err != nil {
				return err
			}

			u := s.rng.User()
			s.users = append(s.users, u)

			if _, err := st.Users.LookupClientUser(ctx, client, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("users created", "count", s.opts.NumUsers)
	return slices.Clone(s.users), nil
}
