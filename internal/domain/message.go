package domain

import "github.com/google/uuid"

// Message roles.
const (
	RolePrompter  = "prompter"
	RoleAssistant = "assistant"
)

// MessagePayload is the stored body of a text message.
type MessagePayload struct {
	Text string `json:"text"`
}

// Message is a node in a message tree. Roots have no parent and use their own
// id as the tree id.
type Message struct {
	ID                uuid.UUID      `json:"id"`
	ParentID          uuid.NullUUID  `json:"parent_id"`
	MessageTreeID     uuid.UUID      `json:"message_tree_id"`
	TaskID            uuid.NullUUID  `json:"task_id"`
	UserID            uuid.NullUUID  `json:"user_id"`
	APIClientID       uuid.UUID      `json:"api_client_id"`
	FrontendMessageID string         `json:"frontend_message_id"`
	Role              string         `json:"role"`
	Payload           MessagePayload `json:"payload"`
	Lang              string         `json:"lang"`
	Depth             int            `json:"depth"`
	ChildrenCount     int            `json:"children_count"`
	ReviewCount       int            `json:"review_count"`
	ReviewResult      bool           `json:"review_result"`
	CreatedAt         string         `json:"created_at"`
}

// IsRoot reports whether m starts a tree.
func (m *Message) IsRoot() bool {
	return !m.ParentID.Valid
}

// IsAssistant reports whether m was written in the assistant role.
func (m *Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// PrepareConversation turns a root-to-leaf chain of messages into the
// conversation context carried by reply tasks.
func PrepareConversation(chain []*Message) Conversation {
	conv := Conversation{Messages: make([]ConversationMessage, 0, len(chain))}
	for _, m := range chain {
		conv.Messages = append(conv.Messages, ConversationMessage{
			Text:        m.Payload.Text,
			IsAssistant: m.IsAssistant(),
		})
	}
	return conv
}
