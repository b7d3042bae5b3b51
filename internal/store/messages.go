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

// MessageStore defines the interface for message persistence.
type MessageStore interface {
	FetchByFrontendMessageID(ctx context.Context, frontendID string, failIfMissing bool) (*domain.Message, error)
	FetchConversation(ctx context.Context, m *domain.Message) ([]*domain.Message, error)
	StoreTextReply(ctx context.Context, text, taskFrontendID, userFrontendID string, reviewCount int, reviewResult bool) (*domain.Message, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteMessageStore implements MessageStore backed by SQLite. Frontend
// message ids are resolved within a single API client.
type SQLiteMessageStore struct {
	db     database.DBTX
	client *domain.APIClient
	user   *domain.StoredUser
	tasks  *SQLiteTaskStore
}

// NewSQLiteMessageStore creates a new SQLiteMessageStore acting for client and user.
func NewSQLiteMessageStore(db database.DBTX, client *domain.APIClient, user *domain.StoredUser) *SQLiteMessageStore {
	return &SQLiteMessageStore{
		db:     db,
		client: client,
		user:   user,
		tasks:  NewSQLiteTaskStore(db, client, user),
	}
}

const messageColumns = `id, parent_id, message_tree_id, task_id, user_id, api_client_id, frontend_message_id,
	role, payload, lang, depth, children_count, review_count, review_result, created_at`

// FetchByFrontendMessageID returns the message with the given frontend id.
// When nothing matches it returns ErrMessageNotFound if failIfMissing is set,
// and nil otherwise.
func (s *SQLiteMessageStore) FetchByFrontendMessageID(ctx context.Context, frontendID string, failIfMissing bool) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM message WHERE api_client_id = ? AND frontend_message_id = ? AND deleted = FALSE`,
		s.client.ID, frontendID,
	)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if failIfMissing {
				return nil, fmt.Errorf("frontend message id %q: %w", frontendID, ErrMessageNotFound)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("fetch message by frontend message id %q: %w", frontendID, err)
	}
	return m, nil
}

// FetchConversation returns the chain of messages from the tree root down to
// and including m.
func (s *SQLiteMessageStore) FetchConversation(ctx context.Context, m *domain.Message) ([]*domain.Message, error) {
	chain := []*domain.Message{m}
	cur := m
	for cur.ParentID.Valid {
		parent, err := s.get(ctx, cur.ParentID.UUID)
		if err != nil {
			return nil, fmt.Errorf("fetch conversation of %s: %w", m.ID, err)
		}
		chain = append(chain, parent)
		cur = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// StoreTextReply stores text as the reply to the task bound to taskFrontendID
// and marks that task done. The message is attached below the task's parent,
// or starts a new tree when the task has none.
func (s *SQLiteMessageStore) StoreTextReply(ctx context.Context, text, taskFrontendID, userFrontendID string, reviewCount int, reviewResult bool) (*domain.Message, error) {
	task, err := s.tasks.FetchByFrontendMessageID(ctx, taskFrontendID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("frontend message id %q: %w", taskFrontendID, ErrTaskNotFound)
	}
	if !task.Ack {
		return nil, fmt.Errorf("task %s: %w", task.ID, ErrTaskNotAcknowledged)
	}
	if task.Done {
		return nil, fmt.Errorf("task %s: %w", task.ID, ErrTaskAlreadyDone)
	}

	role, err := roleForTask(task.PayloadType)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(domain.MessagePayload{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal message payload: %w", err)
	}

	m := &domain.Message{
		ID:                uuid.New(),
		ParentID:          task.ParentMessageID,
		TaskID:            uuid.NullUUID{UUID: task.ID, Valid: true},
		APIClientID:       s.client.ID,
		FrontendMessageID: userFrontendID,
		Role:              role,
		Payload:           domain.MessagePayload{Text: text},
		Lang:              "en",
		ReviewCount:       reviewCount,
		ReviewResult:      reviewResult,
		CreatedAt:         now(),
	}
	if s.user != nil {
		m.UserID = uuid.NullUUID{UUID: s.user.ID, Valid: true}
	}

	if m.ParentID.Valid {
		parent, err := s.get(ctx, m.ParentID.UUID)
		if err != nil {
			return nil, fmt.Errorf("parent of task %s: %w", task.ID, err)
		}
		m.MessageTreeID = parent.MessageTreeID
		m.Depth = parent.Depth + 1
	} else {
		m.MessageTreeID = m.ID
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO message (id, parent_id, message_tree_id, task_id, user_id, api_client_id, frontend_message_id,
			role, payload_type, payload, lang, depth, children_count, review_count, review_result, deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'text', ?, ?, ?, 0, ?, ?, FALSE, ?)`,
		m.ID, m.ParentID, m.MessageTreeID, m.TaskID, m.UserID, m.APIClientID, m.FrontendMessageID,
		m.Role, string(payload), m.Lang, m.Depth, m.ReviewCount, m.ReviewResult, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("frontend message id %q: %w", userFrontendID, ErrConflict)
		}
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if m.ParentID.Valid {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE message SET children_count = children_count + 1 WHERE id = ?`, m.ParentID.UUID,
		); err != nil {
			return nil, fmt.Errorf("update children count: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE task SET done = TRUE WHERE id = ?`, task.ID); err != nil {
		return nil, fmt.Errorf("mark task done: %w", err)
	}

	return m, nil
}

// Count returns the number of stored messages.
func (s *SQLiteMessageStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM message WHERE deleted = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (s *SQLiteMessageStore) get(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM message WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, ErrMessageNotFound)
		}
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return m, nil
}

func roleForTask(payloadType string) (string, error) {
	switch payloadType {
	case domain.TaskTypeInitialPrompt, domain.TaskTypePrompterReply:
		return domain.RolePrompter, nil
	case domain.TaskTypeAssistantReply:
		return domain.RoleAssistant, nil
	default:
		return "", fmt.Errorf("task type %q does not accept a text reply", payloadType)
	}
}

func scanMessage(row *sql.Row) (*domain.Message, error) {
	var m domain.Message
	var payload string
	if err := row.Scan(&m.ID, &m.ParentID, &m.MessageTreeID, &m.TaskID, &m.UserID, &m.APIClientID,
		&m.FrontendMessageID, &m.Role, &payload, &m.Lang, &m.Depth, &m.ChildrenCount,
		&m.ReviewCount, &m.ReviewResult, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &m.Payload); err != nil {
		return nil, fmt.Errorf("decode payload of message %s: %w", m.ID, err)
	}
	return &m, nil
}
