// Package store provides storage backends for CraveBreaker.
//
// It includes SQLite and PostgreSQL stores behind a common interface, plus an
// in-memory store used in tests. The router is the sole writer; every method
// is a short self-contained operation, no transaction spans a user think-time.
package store

import (
	"strings"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// Store defines the persistence operations used by the router and the
// retention cleanup job.
type Store interface {
	// EnsureUser creates the user row on first contact and is a no-op after.
	EnsureUser(userID int64, username string) error
	// TouchUserActivity updates the user's last-activity timestamp.
	TouchUserActivity(userID int64) error
	// CountUsers returns the number of distinct users ever seen.
	CountUsers() (int, error)

	// AddUserTrigger records a named impulse category for a user,
	// deduplicated per user. Returns true if a new row was inserted.
	AddUserTrigger(userID int64, name string) (bool, error)
	GetUserTriggers(userID int64) ([]string, error)

	AddHelpRequest(userID int64) error
	AddInterventionOutcome(userID int64, technique string, status models.OutcomeStatus) error
	// ResolveLatestIntervention amends the user's most recent pending outcome
	// row to the given status. Returns false without error when no pending
	// row exists; resolved rows are never amended again.
	ResolveLatestIntervention(userID int64, status models.OutcomeStatus) (bool, error)
	CountHelpRequests(userID int64) (int, error)
	CountInterventions(userID int64) (int, error)
	CountSuccessfulInterventions(userID int64) (int, error)

	// GetProgress returns the user's progress record, initializing a fresh
	// one if none exists yet.
	GetProgress(userID int64) (models.Progress, error)
	SaveProgress(p models.Progress) error

	SaveConversationState(state models.ConversationState) error
	// GetConversationState returns nil when the user is at the root menu.
	GetConversationState(userID int64) (*models.ConversationState, error)
	DeleteConversationState(userID int64) error

	// CleanupOldData removes help-request and intervention log rows older
	// than the given age. Users and progress records are kept.
	CleanupOldData(olderThan time.Duration) error

	Close() error
}

// Opts holds configuration for store construction.
type Opts struct {
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path as the store DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string as the store DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL connection strings and
// "sqlite" for anything else (assumed to be a file path).
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
