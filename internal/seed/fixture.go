package seed

import (
	"encoding/json"
	"fmt"
	"os"
)

// MockMessage is one record of the seed data fixture. ParentMessageID refers
// to the parent record's UserMessageID; it is empty for tree roots.
type MockMessage struct {
	TaskMessageID   string `json:"task_message_id"`
	UserMessageID   string `json:"user_message_id"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
	Text            string `json:"text"`
	Role            string `json:"role"`
}

// IsRoot reports whether m starts a new tree.
func (m MockMessage) IsRoot() bool {
	return m.ParentMessageID == ""
}

func (m MockMessage) validate() error {
	switch {
	case m.TaskMessageID == "":
		return fmt.Errorf("missing task_message_id")
	case m.UserMessageID == "":
		return fmt.Errorf("missing user_message_id")
	case m.Role == "":
		return fmt.Errorf("missing role")
	}
	return nil
}

// ParseFixture decodes a JSON array of MockMessage records. Records are not
// checked for required fields; see ValidateFixture.
func ParseFixture(data []byte) ([]MockMessage, error) {
	var msgs []MockMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return msgs, nil
}

// ValidateFixture reports the first record missing a required field.
func ValidateFixture(msgs []MockMessage) error {
	for i, m := range msgs {
		if err := m.validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// LoadFixture reads and decodes the fixture at path. It also returns the
// file size in bytes.
func LoadFixture(path string) ([]MockMessage, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read seed data: %w", err)
	}
	msgs, err := ParseFixture(data)
	if err != nil {
		return nil, 0, err
	}
	return msgs, len(data), nil
}

// PartitionRoots returns msgs with all roots first, keeping the relative
// order inside each group. Only direct children of roots are guaranteed to
// follow their parent; deeper records must already appear after their parent.
func PartitionRoots(msgs []MockMessage) []MockMessage {
	out := make([]MockMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.IsRoot() {
			out = append(out, m)
		}
	}
	for _, m := range msgs {
		if !m.IsRoot() {
			out = append(out, m)
		}
	}
	return out
}
