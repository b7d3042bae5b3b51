package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	Store(ctx context.Context, payload domain.TaskPayload, treeID, parentID uuid.NullUUID) (*domain.Task, error)
	FetchByFrontendMessageID(ctx context.Context, frontendID string) (*domain.Task, error)
	BindFrontendMessageID(ctx context.Context, taskID uuid.UUID, frontendID string) error
	Delete(ctx context.Context, taskID uuid.UUID) error
}

// SQLiteTaskStore implements TaskStore backed by SQLite. Tasks are created
// for, and looked up within, a single API client.
type SQLiteTaskStore struct {
	db     database.DBTX
	client *domain.APIClient
	user   *domain.StoredUser
}

// NewSQLiteTaskStore creates a new SQLiteTaskStore acting for client and user.
// user may be nil for tasks that are not handed to a specific user.
func NewSQLiteTaskStore(db database.DBTX, client *domain.APIClient, user *domain.StoredUser) *SQLiteTaskStore {
	return &SQLiteTaskStore{db: db, client: client, user: user}
}

const taskColumns = `id, payload_type, payload, api_client_id, user_id, frontend_message_id, ack, done, message_tree_id, parent_message_id, created_at`

// Store persists a new, unacknowledged task.
func (s *SQLiteTaskStore) Store(ctx context.Context, payload domain.TaskPayload, treeID, parentID uuid.NullUUID) (*domain.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal task payload: %w", err)
	}

	t := &domain.Task{
		ID:              uuid.New(),
		PayloadType:     payload.TaskType(),
		Payload:         string(body),
		APIClientID:     s.client.ID,
		MessageTreeID:   treeID,
		ParentMessageID: parentID,
		CreatedAt:       now(),
	}
	if s.user != nil {
		t.UserID = uuid.NullUUID{UUID: s.user.ID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO task (id, payload_type, payload, api_client_id, user_id, ack, done, message_tree_id, parent_message_id, created_at)
		 VALUES (?, ?, ?, ?, ?, NULL, FALSE, ?, ?, ?)`,
		t.ID, t.PayloadType, t.Payload, t.APIClientID, t.UserID, t.MessageTreeID, t.ParentMessageID, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// FetchByFrontendMessageID returns the task bound to frontendID, or nil when
// no task is bound to it.
func (s *SQLiteTaskStore) FetchByFrontendMessageID(ctx context.Context, frontendID string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM task WHERE api_client_id = ? AND frontend_message_id = ?`,
		s.client.ID, frontendID,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch task by frontend message id %q: %w", frontendID, err)
	}
	return t, nil
}

// BindFrontendMessageID binds frontendID to the task and marks it acknowledged.
func (s *SQLiteTaskStore) BindFrontendMessageID(ctx context.Context, taskID uuid.UUID, frontendID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE task SET frontend_message_id = ?, ack = TRUE WHERE id = ? AND api_client_id = ?`,
		frontendID, taskID, s.client.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("frontend message id %q: %w", frontendID, ErrConflict)
		}
		return fmt.Errorf("bind frontend message id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
	}
	return nil
}

// Delete removes a task of the store's API client.
func (s *SQLiteTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task WHERE id = ? AND api_client_id = ?`, taskID, s.client.ID)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
	}
	return nil
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var frontendID sql.NullString
	var ack sql.NullBool
	if err := row.Scan(&t.ID, &t.PayloadType, &t.Payload, &t.APIClientID, &t.UserID,
		&frontendID, &ack, &t.Done, &t.MessageTreeID, &t.ParentMessageID, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.FrontendMessageID = frontendID.String
	t.Ack = ack.Valid && ack.Bool
	return &t, nil
}
