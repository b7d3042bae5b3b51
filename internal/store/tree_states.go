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

// ErrTreeStateNotFound is returned when a tree has no state row.
var ErrTreeStateNotFound = fmt.Errorf("message tree state not found")

// TreeStateStore defines the interface for message tree state persistence.
type TreeStateStore interface {
	InsertDefaultState(ctx context.Context, rootID uuid.UUID, state domain.TreeState) (*domain.MessageTreeState, error)
	Get(ctx context.Context, treeID uuid.UUID) (*domain.MessageTreeState, error)
}

// SQLiteTreeStateStore implements TreeStateStore backed by SQLite.
type SQLiteTreeStateStore struct {
	db  database.DBTX
	cfg domain.TreeConfig
}

// NewSQLiteTreeStateStore creates a new SQLiteTreeStateStore that writes the
// limits in cfg into every new tree state.
func NewSQLiteTreeStateStore(db database.DBTX, cfg domain.TreeConfig) *SQLiteTreeStateStore {
	return &SQLiteTreeStateStore{db: db, cfg: cfg}
}

// InsertDefaultState creates the active state row for the tree rooted at rootID.
func (s *SQLiteTreeStateStore) InsertDefaultState(ctx context.Context, rootID uuid.UUID, state domain.TreeState) (*domain.MessageTreeState, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("invalid tree state %q", state)
	}

	ts := &domain.MessageTreeState{
		MessageTreeID:    rootID,
		GoalTreeSize:     s.cfg.GoalTreeSize,
		MaxDepth:         s.cfg.MaxDepth,
		MaxChildrenCount: s.cfg.MaxChildrenCount,
		State:            state,
		Active:           true,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message_tree_state (message_tree_id, goal_tree_size, max_depth, max_children_count, state, active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts.MessageTreeID, ts.GoalTreeSize, ts.MaxDepth, ts.MaxChildrenCount, string(ts.State), ts.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("tree %s: %w", rootID, ErrConflict)
		}
		return nil, fmt.Errorf("insert tree state: %w", err)
	}
	return ts, nil
}

// Get returns the state of the tree with the given root id.
func (s *SQLiteTreeStateStore) Get(ctx context.Context, treeID uuid.UUID) (*domain.MessageTreeState, error) {
	var ts domain.MessageTreeState
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT message_tree_id, goal_tree_size, max_depth, max_children_count, state, active
		 FROM message_tree_state WHERE message_tree_id = ?`,
		treeID,
	).Scan(&ts.MessageTreeID, &ts.GoalTreeSize, &ts.MaxDepth, &ts.MaxChildrenCount, &state, &ts.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tree %s: %w", treeID, ErrTreeStateNotFound)
		}
		return nil, fmt.Errorf("get tree state: %w", err)
	}
	ts.State = domain.TreeState(state)
	return &ts, nil
}
