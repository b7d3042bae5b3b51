package domain

import "github.com/google/uuid"

// TreeState is the lifecycle state of a message tree.
type TreeState string

// Known tree states. Only the seeder's initial state is written here; the
// other transitions belong to the tree manager.
const (
	TreeStateInitialPromptReview TreeState = "initial_prompt_review"
	TreeStateGrowing             TreeState = "growing"
	TreeStateRanking             TreeState = "ranking"
	TreeStateReadyForScoring     TreeState = "ready_for_scoring"
	TreeStateReadyForExport      TreeState = "ready_for_export"
	TreeStateAbortedLowGrade     TreeState = "aborted_low_grade"
	TreeStateHaltedByModerator   TreeState = "halted_by_moderator"
)

// Valid reports whether s is one of the known tree states.
func (s TreeState) Valid() bool {
	switch s {
	case TreeStateInitialPromptReview, TreeStateGrowing, TreeStateRanking,
		TreeStateReadyForScoring, TreeStateReadyForExport,
		TreeStateAbortedLowGrade, TreeStateHaltedByModerator:
		return true
	}
	return false
}

// MessageTreeState tracks the state of one tree, keyed by its root message.
type MessageTreeState struct {
	MessageTreeID    uuid.UUID `json:"message_tree_id"`
	GoalTreeSize     int       `json:"goal_tree_size"`
	MaxDepth         int       `json:"max_depth"`
	MaxChildrenCount int       `json:"max_children_count"`
	State            TreeState `json:"state"`
	Active           bool      `json:"active"`
}

// TreeConfig holds the limits written into a new tree state.
type TreeConfig struct {
	GoalTreeSize     int
	MaxDepth         int
	MaxChildrenCount int
}

// DefaultTreeConfig returns the limits used for new trees.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{GoalTreeSize: 12, MaxDepth: 3, MaxChildrenCount: 3}
}
