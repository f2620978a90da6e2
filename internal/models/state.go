// Package models defines conversation state structures for CraveBreaker.
package models

import "time"

// StateType tags the per-user conversation state. The root menu is
// represented by the absence of a state row, not by a distinct tag.
type StateType string

const (
	// StateCategorySelected means the user picked an impulse category and is
	// viewing its technique list. Data carries the category.
	StateCategorySelected StateType = "CATEGORY_SELECTED"
	// StateTechniqueShown means a specific technique was shown and a pending
	// outcome row exists. Data carries the category.
	StateTechniqueShown StateType = "TECHNIQUE_SHOWN"
)

// ConversationState is the ephemeral server-held state that makes a sequence
// of stateless button taps behave like a dialogue. One row per user,
// overwritten on every transition and deleted when the conversation returns
// to the root menu. Keyed by user id, so it survives transport reconnects.
type ConversationState struct {
	UserID    int64     `json:"user_id"`
	State     StateType `json:"state"`
	Data      string    `json:"data,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
