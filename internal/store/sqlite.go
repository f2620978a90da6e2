// Package store provides storage backends for CraveBreaker.
//
// This file implements the SQLite-backed store, the default for single-node
// deployments.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/spotcoach/cravebreaker/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureUser(userID int64, username string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO users (user_id, username) VALUES (?, ?)`, userID, nilIfEmpty(username))
	if err != nil {
		slog.Error("SQLiteStore EnsureUser failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to ensure user %d: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) TouchUserActivity(userID int64) error {
	_, err := s.db.Exec(`UPDATE users SET last_activity = CURRENT_TIMESTAMP WHERE user_id = ?`, userID)
	if err != nil {
		slog.Error("SQLiteStore TouchUserActivity failed", "error", err, "userID", userID)
		return err
	}
	return nil
}

func (s *SQLiteStore) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		slog.Error("SQLiteStore CountUsers failed", "error", err)
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) AddUserTrigger(userID int64, name string) (bool, error) {
	res, err := s.db.Exec(`INSERT OR IGNORE INTO user_triggers (user_id, trigger_name) VALUES (?, ?)`, userID, name)
	if err != nil {
		slog.Error("SQLiteStore AddUserTrigger failed", "error", err, "userID", userID, "trigger", name)
		return false, fmt.Errorf("failed to insert trigger %q for user %d: %w", name, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQLiteStore) GetUserTriggers(userID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT trigger_name FROM user_triggers WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		slog.Error("SQLiteStore GetUserTriggers query failed", "error", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	var triggers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan trigger row: %w", err)
		}
		triggers = append(triggers, name)
	}
	return triggers, rows.Err()
}

func (s *SQLiteStore) AddHelpRequest(userID int64) error {
	_, err := s.db.Exec(`INSERT INTO help_requests (user_id) VALUES (?)`, userID)
	if err != nil {
		slog.Error("SQLiteStore AddHelpRequest failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to insert help request for user %d: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) AddInterventionOutcome(userID int64, technique string, status models.OutcomeStatus) error {
	_, err := s.db.Exec(`INSERT INTO intervention_outcomes (user_id, technique, status) VALUES (?, ?, ?)`,
		userID, nilIfEmpty(technique), string(status))
	if err != nil {
		slog.Error("SQLiteStore AddInterventionOutcome failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to insert intervention outcome for user %d: %w", userID, err)
	}
	return nil
}

// ResolveLatestIntervention amends the most recent pending outcome row.
// Already-resolved rows are never touched, so replaying a success token is a
// no-op here.
func (s *SQLiteStore) ResolveLatestIntervention(userID int64, status models.OutcomeStatus) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE intervention_outcomes SET status = ?
		WHERE user_id = ? AND status = 'pending' AND id = (
			SELECT MAX(id) FROM intervention_outcomes WHERE user_id = ? AND status = 'pending'
		)`, string(status), userID, userID)
	if err != nil {
		slog.Error("SQLiteStore ResolveLatestIntervention failed", "error", err, "userID", userID, "status", status)
		return false, fmt.Errorf("failed to resolve intervention for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	slog.Debug("SQLiteStore ResolveLatestIntervention", "userID", userID, "status", status, "amended", affected > 0)
	return affected > 0, nil
}

func (s *SQLiteStore) CountHelpRequests(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM help_requests WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CountInterventions(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM intervention_outcomes WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CountSuccessfulInterventions(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM intervention_outcomes WHERE user_id = ? AND status = 'success'`, userID).Scan(&n)
	return n, err
}

// GetProgress retrieves the user's progress record, creating a fresh row when
// none exists.
func (s *SQLiteStore) GetProgress(userID int64) (models.Progress, error) {
	row := s.db.QueryRow(`
		SELECT total_interventions, current_streak, longest_streak,
		       COALESCE(last_intervention_date, ''), technique_counts,
		       weekend_interventions, late_night_interventions,
		       early_morning_interventions, coaching_used, used_coaching_questions,
		       created_at, updated_at
		FROM user_progress WHERE user_id = ?`, userID)

	p := models.Progress{UserID: userID}
	var countsJSON, usedJSON string
	err := row.Scan(&p.TotalInterventions, &p.CurrentStreak, &p.LongestStreak,
		&p.LastInterventionDate, &countsJSON,
		&p.WeekendInterventions, &p.LateNightInterventions,
		&p.EarlyMorningInterventions, &p.CoachingUsed, &usedJSON,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO user_progress (user_id) VALUES (?)`, userID); err != nil {
			slog.Error("SQLiteStore GetProgress init failed", "error", err, "userID", userID)
			return models.NewProgress(userID), err
		}
		slog.Debug("SQLiteStore GetProgress initialized new record", "userID", userID)
		return models.NewProgress(userID), nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetProgress failed", "error", err, "userID", userID)
		return models.NewProgress(userID), err
	}

	p.TechniqueCounts = decodeTechniqueCounts(countsJSON)
	p.UsedCoachingQuestions = decodeUsedQuestions(usedJSON)
	return p, nil
}

func (s *SQLiteStore) SaveProgress(p models.Progress) error {
	countsJSON, usedJSON, err := encodeProgressJSON(p)
	if err != nil {
		slog.Error("SQLiteStore SaveProgress encode failed", "error", err, "userID", p.UserID)
		return err
	}
	_, err = s.db.Exec(`
		UPDATE user_progress SET
			total_interventions = ?, current_streak = ?, longest_streak = ?,
			last_intervention_date = ?, technique_counts = ?,
			weekend_interventions = ?, late_night_interventions = ?,
			early_morning_interventions = ?, coaching_used = ?,
			used_coaching_questions = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`,
		p.TotalInterventions, p.CurrentStreak, p.LongestStreak,
		nilIfEmpty(p.LastInterventionDate), countsJSON,
		p.WeekendInterventions, p.LateNightInterventions,
		p.EarlyMorningInterventions, p.CoachingUsed, usedJSON, p.UserID)
	if err != nil {
		slog.Error("SQLiteStore SaveProgress failed", "error", err, "userID", p.UserID)
		return fmt.Errorf("failed to save progress for user %d: %w", p.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) SaveConversationState(state models.ConversationState) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO conversation_states (user_id, state, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`, state.UserID, string(state.State), state.Data)
	if err != nil {
		slog.Error("SQLiteStore SaveConversationState failed", "error", err, "userID", state.UserID, "state", state.State)
		return err
	}
	slog.Debug("SQLiteStore SaveConversationState succeeded", "userID", state.UserID, "state", state.State)
	return nil
}

func (s *SQLiteStore) GetConversationState(userID int64) (*models.ConversationState, error) {
	var state models.ConversationState
	var tag string
	var data sql.NullString
	err := s.db.QueryRow(`SELECT user_id, state, data, updated_at FROM conversation_states WHERE user_id = ?`, userID).
		Scan(&state.UserID, &tag, &data, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetConversationState failed", "error", err, "userID", userID)
		return nil, err
	}
	state.State = models.StateType(tag)
	state.Data = data.String
	return &state, nil
}

func (s *SQLiteStore) DeleteConversationState(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM conversation_states WHERE user_id = ?`, userID)
	if err != nil {
		slog.Error("SQLiteStore DeleteConversationState failed", "error", err, "userID", userID)
		return err
	}
	return nil
}

// CleanupOldData purges aged log rows per the retention policy.
func (s *SQLiteStore) CleanupOldData(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if _, err := s.db.Exec(`DELETE FROM help_requests WHERE created_at < ?`, cutoff); err != nil {
		slog.Error("SQLiteStore CleanupOldData help_requests failed", "error", err)
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM intervention_outcomes WHERE created_at < ?`, cutoff); err != nil {
		slog.Error("SQLiteStore CleanupOldData intervention_outcomes failed", "error", err)
		return err
	}
	slog.Info("SQLiteStore CleanupOldData completed", "cutoff", cutoff)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
