package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/domain"
	"github.com/johnwards/filldb/internal/store"
)

// Seeded messages are stored as already reviewed and accepted.
const (
	seedReviewCount  = 5
	seedReviewResult = true
)

// DummyUser is the user every fixture message is stored for.
var DummyUser = domain.User{ID: "__dummy_user__", DisplayName: "Dummy User", AuthMethod: domain.AuthMethodLocal}

// ReplayResult counts what happened to the fixture records during a replay.
type ReplayResult struct {
	Inserted int // records stored as new messages
	Skipped  int // records whose task was already acknowledged
	Replaced int // unacknowledged tasks deleted before re-inserting
}

// FillMessages loads the fixture at SeedDataPath and replays it. A fixture
// that cannot be read or decoded is always returned as an error; invalid
// records and failures during the replay go through the configured
// ReplayErrorPolicy.
func (s *Seeder) FillMessages(ctx context.Context) (ReplayResult, error) {
	msgs, size, err := LoadFixture(s.opts.SeedDataPath)
	if err != nil {
		return ReplayResult{}, err
	}

	s.log.Info("seed data check began",
		"path", s.opts.SeedDataPath,
		"size", humanize.Bytes(uint64(size)),
		"records", len(msgs),
	)

	res, err := s.ReplayMessages(ctx, msgs)
	if err != nil {
		return res, s.opts.ReplayErrors.handle(s.log, err)
	}

	s.log.Info("seed data check completed", "inserted", res.Inserted, "skipped", res.Skipped, "replaced", res.Replaced)
	return res, nil
}

// ReplayMessages stores msgs as tasks and messages of the dummy API client,
// roots first. Each record is committed on its own; the first failing record
// stops the replay and is returned, leaving earlier records in place. A
// record missing a required field fails the replay before anything is stored.
func (s *Seeder) ReplayMessages(ctx context.Context, msgs []MockMessage) (ReplayResult, error) {
	var res ReplayResult
	if err := ValidateFixture(msgs); err != nil {
		return res, err
	}

	err := database.WithConn(ctx, s.db, func(conn *sql.Conn) error {
		base := store.New(conn)
		client, err := base.APIClients.Dummy(ctx, s.opts.DummyAPIKey)
		if err != nil {
			return err
		}
		user, err := base.Users.LookupClientUser(ctx, client, DummyUser)
		if err != nil {
			return err
		}

		for _, msg := range PartitionRoots(msgs) {
			var out replayOutcome
			err := database.WithTx(ctx, conn, func(tx *sql.Tx) error {
				var err error
				out, err = s.replayOne(ctx, store.New(tx), client, user, msg)
				return err
			})
			if err != nil {
				return fmt.Errorf("record %s: %w", msg.TaskMessageID, err)
			}
			res.add(out)
		}
		return nil
	})
	return res, err
}

type replayOutcome struct {
	inserted bool
	replaced bool
}

func (r *ReplayResult) add(out replayOutcome) {
	if out.replaced {
		r.Replaced++
	}
	if out.inserted {
		r.Inserted++
	} else {
		r.Skipped++
	}
}

func (s *Seeder) replayOne(ctx context.Context, st *store.Store, client *domain.APIClient, user *domain.StoredUser, msg MockMessage) (replayOutcome, error) {
	var out replayOutcome
	tasks := st.Tasks(client, user)
	messages := st.Messages(client, user)

	task, err := tasks.FetchByFrontendMessageID(ctx, msg.TaskMessageID)
	if err != nil {
		return out, err
	}
	if task != nil && !task.Ack {
		s.log.Warn("deleting unacknowledged seed data task", "task_id", task.ID)
		if err := tasks.Delete(ctx, task.ID); err != nil {
			return out, err
		}
		task = nil
		out.replaced = true
	}
	if task != nil {
		s.log.Debug("seed data task found", "task_id", task.ID)
		return out, nil
	}

	var payload domain.TaskPayload
	var treeID, parentID uuid.NullUUID
	if msg.IsRoot() {
		payload = domain.NewInitialPromptTask("")
	} else {
		parent, err := messages.FetchByFrontendMessageID(ctx, msg.ParentMessageID, true)
		if err != nil {
			return out, err
		}
		chain, err := messages.FetchConversation(ctx, parent)
		if err != nil {
			return out, err
		}
		conv := domain.PrepareConversation(chain)
		if msg.Role == domain.RoleAssistant {
			payload = domain.NewAssistantReplyTask(conv)
		} else {
			payload = domain.NewPrompterReplyTask(conv)
		}
		treeID = uuid.NullUUID{UUID: parent.MessageTreeID, Valid: true}
		parentID = uuid.NullUUID{UUID: parent.ID, Valid: true}
	}

	task, err = tasks.Store(ctx, payload, treeID, parentID)
	if err != nil {
		return out, err
	}
	if err := tasks.BindFrontendMessageID(ctx, task.ID, msg.TaskMessageID); err != nil {
		return out, err
	}

	m, err := messages.StoreTextReply(ctx, msg.Text, msg.TaskMessageID, msg.UserMessageID, seedReviewCount, seedReviewResult)
	if err != nil {
		return out, err
	}
	if m.IsRoot() {
		if _, err := st.TreeStates.InsertDefaultState(ctx, m.ID, domain.TreeStateGrowing); err != nil {
			return out, err
		}
	}

	s.log.Info("inserted",
		"message_id", m.ID,
		"payload", m.Payload.Text,
		"parent_message_id", parentString(m.ParentID),
	)
	out.inserted = true
	return out, nil
}

func parentString(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}
