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

// UserStore defines the interface for user persistence.
type UserStore interface {
	LookupClientUser(ctx context.Context, client *domain.APIClient, u domain.User) (*domain.StoredUser, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteUserStore implements UserStore backed by SQLite.
type SQLiteUserStore struct {
	db database.DBTX
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(db database.DBTX) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

// LookupClientUser returns the user identified by (client, u.ID, u.AuthMethod),
// creating it on first use. A changed display name is written back.
func (s *SQLiteUserStore) LookupClientUser(ctx context.Context, client *domain.APIClient, u domain.User) (*domain.StoredUser, error) {
	existing, err := s.get(ctx, client.ID, u.ID, u.AuthMethod)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if u.DisplayName != "" && existing.DisplayName != u.DisplayName {
			if _, err := s.db.ExecContext(ctx,
				`UPDATE "user" SET display_name = ? WHERE id = ?`,
				u.DisplayName, existing.ID,
			); err != nil {
				return nil, fmt.Errorf("update user display name: %w", err)
			}
			existing.DisplayName = u.DisplayName
		}
		return existing, nil
	}

	stored := &domain.StoredUser{
		ID:          uuid.New(),
		Username:    u.ID,
		AuthMethod:  u.AuthMethod,
		DisplayName: u.DisplayName,
		APIClientID: client.ID,
		Enabled:     true,
		CreatedAt:   now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO "user" (id, username, auth_method, display_name, api_client_id, enabled, deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, TRUE, FALSE, ?)`,
		stored.ID, stored.Username, stored.AuthMethod, stored.DisplayName, stored.APIClientID, stored.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s/%s: %w", u.AuthMethod, u.ID, ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return stored, nil
}

func (s *SQLiteUserStore) get(ctx context.Context, clientID uuid.UUID, username, authMethod string) (*domain.StoredUser, error) {
	var u domain.StoredUser
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, auth_method, display_name, api_client_id, enabled, created_at
		 FROM "user" WHERE api_client_id = ? AND username = ? AND auth_method = ?`,
		clientID, username, authMethod,
	).Scan(&u.ID, &u.Username, &u.AuthMethod, &u.DisplayName, &u.APIClientID, &u.Enabled, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Count returns the number of stored users.
func (s *SQLiteUserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
