// Package models defines the core data structures for CraveBreaker.
//
// It includes types for users, urge events, intervention outcomes, and the
// per-user progress record, which are shared across modules.
package models

import (
	"errors"
	"time"
)

// Category identifies the kind of impulse a user reported.
type Category string

const (
	CategorySweets    Category = "sweets"
	CategoryAlcohol   Category = "alcohol"
	CategorySmoking   Category = "smoking"
	CategoryScrolling Category = "scrolling"
	CategoryAnger     Category = "anger"
	CategoryJunkFood  Category = "junkfood"
	CategoryShopping  Category = "shopping"
)

// Categories lists all supported impulse categories in menu order.
var Categories = []Category{
	CategorySweets,
	CategoryAlcohol,
	CategorySmoking,
	CategoryScrolling,
	CategoryAnger,
	CategoryJunkFood,
	CategoryShopping,
}

// IsValidCategory checks if the given category is supported.
func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OutcomeStatus records how an intervention attempt ended.
type OutcomeStatus string

const (
	// OutcomePending marks an attempt whose result is not yet known.
	OutcomePending OutcomeStatus = "pending"
	// OutcomeSuccess marks an attempt the user confirmed as helpful.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFailure marks an attempt the user reported as unhelpful.
	OutcomeFailure OutcomeStatus = "failure"
)

// Error variables for better error handling and testability
var (
	ErrUnknownCategory = errors.New("unknown impulse category")
	ErrEmptyToken      = errors.New("callback token cannot be empty")
)

// User represents a Telegram user known to the bot. Created on first contact.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// UrgeTrigger is a named impulse category a user has reported, deduplicated
// per user. Append-only.
type UrgeTrigger struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// HelpRequest marks one "user asked for support" event. Append-only log.
type HelpRequest struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// InterventionOutcome records one attempted coping action. Rows are appended
// as pending when a technique is shown; only the latest pending row per user
// may later be amended to success or failure.
type InterventionOutcome struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Technique string        `json:"technique,omitempty"`
	Status    OutcomeStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Progress is the single mutable aggregate record per user.
//
// Invariant: CurrentStreak <= LongestStreak.
type Progress struct {
	UserID             int64 `json:"user_id"`
	TotalInterventions int   `json:"total_interventions"`
	CurrentStreak      int   `json:"current_streak"`
	LongestStreak      int   `json:"longest_streak"`
	// LastInterventionDate is a calendar date in ISO form (2006-01-02).
	// Empty means no successful intervention has been recorded yet.
	LastInterventionDate      string         `json:"last_intervention_date,omitempty"`
	TechniqueCounts           map[string]int `json:"technique_counts,omitempty"`
	WeekendInterventions      int            `json:"weekend_interventions"`
	LateNightInterventions    int            `json:"late_night_interventions"`
	EarlyMorningInterventions int            `json:"early_morning_interventions"`
	CoachingUsed              bool           `json:"coaching_used"`
	// UsedCoachingQuestions holds indices of coaching questions already shown
	// to this user in the current rotation cycle.
	UsedCoachingQuestions []int     `json:"used_coaching_questions,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewProgress returns a zero-valued progress record for a user.
func NewProgress(userID int64) Progress {
	now := time.Now()
	return Progress{
		UserID:          userID,
		TechniqueCounts: make(map[string]int),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// APIStatus enumerates the status field of API responses.
type APIStatus string

const (
	APIStatusOK    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// APIResponse is the envelope for every JSON response of the health API.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
