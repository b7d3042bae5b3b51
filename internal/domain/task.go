package domain

import "github.com/google/uuid"

// Task payload types.
const (
	TaskTypeInitialPrompt  = "initial_prompt"
	TaskTypeAssistantReply = "assistant_reply"
	TaskTypePrompterReply  = "prompter_reply"
)

// TaskPayload is the body of a task handed to a frontend.
type TaskPayload interface {
	TaskType() string
}

// ConversationMessage is a single turn shown to the user as task context.
type ConversationMessage struct {
	Text        string `json:"text"`
	IsAssistant bool   `json:"is_assistant"`
}

// Conversation is the chain of messages from a tree root to the message a
// reply task is attached to.
type Conversation struct {
	Messages []ConversationMessage `json:"messages"`
}

// InitialPromptTask asks the user to write the first prompt of a new tree.
type InitialPromptTask struct {
	Type string `json:"type"`
	Hint string `json:"hint"`
}

// NewInitialPromptTask returns an initial prompt task with the given hint.
func NewInitialPromptTask(hint string) *InitialPromptTask {
	return &InitialPromptTask{Type: TaskTypeInitialPrompt, Hint: hint}
}

func (t *InitialPromptTask) TaskType() string { return TaskTypeInitialPrompt }

// AssistantReplyTask asks the user to play the assistant.
type AssistantReplyTask struct {
	Type         string       `json:"type"`
	Conversation Conversation `json:"conversation"`
}

// NewAssistantReplyTask returns an assistant reply task for conv.
func NewAssistantReplyTask(conv Conversation) *AssistantReplyTask {
	return &AssistantReplyTask{Type: TaskTypeAssistantReply, Conversation: conv}
}

func (t *AssistantReplyTask) TaskType() string { return TaskTypeAssistantReply }

// PrompterReplyTask asks the user to answer as the prompter.
type PrompterReplyTask struct {
	Type         string       `json:"type"`
	Conversation Conversation `json:"conversation"`
	Hint         string       `json:"hint,omitempty"`
}

// NewPrompterReplyTask returns a prompter reply task for conv.
func NewPrompterReplyTask(conv Conversation) *PrompterReplyTask {
	return &PrompterReplyTask{Type: TaskTypePrompterReply, Conversation: conv}
}

func (t *PrompterReplyTask) TaskType() string { return TaskTypePrompterReply }

// Task is a persisted unit of work bound to a point in a message tree. A task
// is acknowledged once a frontend message id has been bound to it and done
// once the reply has been stored.
type Task struct {
	ID                uuid.UUID     `json:"id"`
	PayloadType       string        `json:"payload_type"`
	Payload           string        `json:"payload"`
	APIClientID       uuid.UUID     `json:"api_client_id"`
	UserID            uuid.NullUUID `json:"user_id"`
	FrontendMessageID string        `json:"frontend_message_id,omitempty"`
	Ack               bool          `json:"ack"`
	Done              bool          `json:"done"`
	MessageTreeID     uuid.NullUUID `json:"message_tree_id"`
	ParentMessageID   uuid.NullUUID `json:"parent_message_id"`
	CreatedAt         string        `json:"created_at"`
}
