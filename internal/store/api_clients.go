package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/domain"
)

// APIClientStore defines the interface for API client persistence.
type APIClientStore interface {
	Create(ctx context.Context, c *domain.APIClient) error
	Authenticate(ctx context.Context, apiKey string) (*domain.APIClient, error)
	Dummy(ctx context.Context, apiKey string) (*domain.APIClient, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteAPIClientStore implements APIClientStore backed by SQLite.
type SQLiteAPIClientStore struct {
	db database.DBTX
}

// NewSQLiteAPIClientStore creates a new SQLiteAPIClientStore.
func NewSQLiteAPIClientStore(db database.DBTX) *SQLiteAPIClientStore {
	return &SQLiteAPIClientStore{db: db}
}

// Create inserts c. A zero ID is replaced by a fresh UUID and CreatedAt is
// set when empty.
func (s *SQLiteAPIClientStore) Create(ctx context.Context, c *domain.APIClient) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt == "" {
		c.CreatedAt = now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_client (id, api_key, description, admin_email, enabled, trusted, frontend_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.APIKey, c.Description, c.AdminEmail, c.Enabled, c.Trusted, nullString(c.FrontendType), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("api client %s: %w", c.ID, ErrConflict)
		}
		return fmt.Errorf("insert api client: %w", err)
	}
	return nil
}

// Authenticate resolves an API key to its client. The enabled flag is
// returned as stored; callers decide whether a disabled client may act.
func (s *SQLiteAPIClientStore) Authenticate(ctx context.Context, apiKey string) (*domain.APIClient, error) {
	var c domain.APIClient
	var adminEmail, frontendType sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, api_key, description, admin_email, enabled, trusted, frontend_type, created_at
		 FROM api_client WHERE api_key = ?`,
		apiKey,
	).Scan(&c.ID, &c.APIKey, &c.Description, &adminEmail, &c.Enabled, &c.Trusted, &frontendType, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAPIClientNotFound
		}
		return nil, fmt.Errorf("authenticate api client: %w", err)
	}
	c.AdminEmail = adminEmail.String
	c.FrontendType = frontendType.String
	return &c, nil
}

// Dummy returns the client registered under apiKey, creating an enabled and
// trusted placeholder client when none exists.
func (s *SQLiteAPIClientStore) Dummy(ctx context.Context, apiKey string) (*domain.APIClient, error) {
	c, err := s.Authenticate(ctx, apiKey)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrAPIClientNotFound) {
		return nil, err
	}

	c = &domain.APIClient{
		APIKey:       apiKey,
		Description:  "Dummy api client",
		AdminEmail:   "dummy@example.com",
		Enabled:      true,
		Trusted:      true,
		FrontendType: "dummy",
	}
	if err := s.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create dummy api client: %w", err)
	}
	return c, nil
}

// Count returns the number of stored API clients.
func (s *SQLiteAPIClientStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_client`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count api clients: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
