// Package store provides storage backends for CraveBreaker.
//
// This file implements the PostgreSQL-backed store for hosted deployments.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/spotcoach/cravebreaker/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) EnsureUser(userID int64, username string) error {
	_, err := s.db.Exec(`INSERT INTO users (user_id, username) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, nilIfEmpty(username))
	if err != nil {
		slog.Error("PostgresStore EnsureUser failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to ensure user %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) TouchUserActivity(userID int64) error {
	_, err := s.db.Exec(`UPDATE users SET last_activity = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		slog.Error("PostgresStore TouchUserActivity failed", "error", err, "userID", userID)
		return err
	}
	return nil
}

func (s *PostgresStore) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		slog.Error("PostgresStore CountUsers failed", "error", err)
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) AddUserTrigger(userID int64, name string) (bool, error) {
	res, err := s.db.Exec(`INSERT INTO user_triggers (user_id, trigger_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, name)
	if err != nil {
		slog.Error("PostgresStore AddUserTrigger failed", "error", err, "userID", userID, "trigger", name)
		return false, fmt.Errorf("failed to insert trigger %q for user %d: %w", name, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PostgresStore) GetUserTriggers(userID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT trigger_name FROM user_triggers WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		slog.Error("PostgresStore GetUserTriggers query failed", "error", err, "userID", userID)
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

func (s *PostgresStore) AddHelpRequest(userID int64) error {
	_, err := s.db.Exec(`INSERT INTO help_requests (user_id) VALUES ($1)`, userID)
	if err != nil {
		slog.Error("PostgresStore AddHelpRequest failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to insert help request for user %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) AddInterventionOutcome(userID int64, technique string, status models.OutcomeStatus) error {
	_, err := s.db.Exec(`INSERT INTO intervention_outcomes (user_id, technique, status) VALUES ($1, $2, $3)`,
		userID, nilIfEmpty(technique), string(status))
	if err != nil {
		slog.Error("PostgresStore AddInterventionOutcome failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to insert intervention outcome for user %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) ResolveLatestIntervention(userID int64, status models.OutcomeStatus) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE intervention_outcomes SET status = $1
		WHERE user_id = $2 AND status = 'pending' AND id = (
			SELECT MAX(id) FROM intervention_outcomes WHERE user_id = $2 AND status = 'pending'
		)`, string(status), userID)
	if err != nil {
		slog.Error("PostgresStore ResolveLatestIntervention failed", "error", err, "userID", userID, "status", status)
		return false, fmt.Errorf("failed to resolve intervention for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PostgresStore) CountHelpRequests(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM help_requests WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (s *PostgresStore) CountInterventions(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM intervention_outcomes WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (s *PostgresStore) CountSuccessfulInterventions(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM intervention_outcomes WHERE user_id = $1 AND status = 'success'`, userID).Scan(&n)
	return n, err
}

func (s *PostgresStore) GetProgress(userID int64) (models.Progress, error) {
	row := s.db.QueryRow(`
		SELECT total_interventions, current_streak, longest_streak,
		       COALESCE(last_intervention_date, ''), technique_counts,
		       weekend_interventions, late_night_interventions,
		       early_morning_interventions, coaching_used, used_coaching_questions,
		       created_at, updated_at
		FROM user_progress WHERE user_id = $1`, userID)

	p := models.Progress{UserID: userID}
	var countsJSON, usedJSON string
	err := row.Scan(&p.TotalInterventions, &p.CurrentStreak, &p.LongestStreak,
		&p.LastInterventionDate, &countsJSON,
		&p.WeekendInterventions, &p.LateNightInterventions,
		&p.EarlyMorningInterventions, &p.CoachingUsed, &usedJSON,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO user_progress (user_id) VALUES ($1)`, userID); err != nil {
			slog.Error("PostgresStore GetProgress init failed", "error", err, "userID", userID)
			return models.NewProgress(userID), err
		}
		return models.NewProgress(userID), nil
	}
	if err != nil {
		slog.Error("PostgresStore GetProgress failed", "error", err, "userID", userID)
		return models.NewProgress(userID), err
	}

	p.TechniqueCounts = decodeTechniqueCounts(countsJSON)
	p.UsedCoachingQuestions = decodeUsedQuestions(usedJSON)
	return p, nil
}

func (s *PostgresStore) SaveProgress(p models.Progress) error {
	countsJSON, usedJSON, err := encodeProgressJSON(p)
	if err != nil {
		slog.Error("PostgresStore SaveProgress encode failed", "error", err, "userID", p.UserID)
		return err
	}
	_, err = s.db.Exec(`
		UPDATE user_progress SET
			total_interventions = $1, current_streak = $2, longest_streak = $3,
			last_intervention_date = $4, technique_counts = $5,
			weekend_interventions = $6, late_night_interventions = $7,
			early_morning_interventions = $8, coaching_used = $9,
			used_coaching_questions = $10, updated_at = NOW()
		WHERE user_id = $11`,
		p.TotalInterventions, p.CurrentStreak, p.LongestStreak,
		nilIfEmpty(p.LastInterventionDate), countsJSON,
		p.WeekendInterventions, p.LateNightInterventions,
		p.EarlyMorningInterventions, p.CoachingUsed, usedJSON, p.UserID)
	if err != nil {
		slog.Error("PostgresStore SaveProgress failed", "error", err, "userID", p.UserID)
		return fmt.Errorf("failed to save progress for user %d: %w", p.UserID, err)
	}
	return nil
}

func (s *PostgresStore) SaveConversationState(state models.ConversationState) error {
	_, err := s.db.Exec(`
		INSERT INTO conversation_states (user_id, state, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET state = $2, data = $3, updated_at = NOW()`,
		state.UserID, string(state.State), state.Data)
	if err != nil {
		slog.Error("PostgresStore SaveConversationState failed", "error", err, "userID", state.UserID, "state", state.State)
		return err
	}
	return nil
}

func (s *PostgresStore) GetConversationState(userID int64) (*models.ConversationState, error) {
	var state models.ConversationState
	var tag string
	var data sql.NullString
	err := s.db.QueryRow(`SELECT user_id, state, data, updated_at FROM conversation_states WHERE user_id = $1`, userID).
		Scan(&state.UserID, &tag, &data, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetConversationState failed", "error", err, "userID", userID)
		return nil, err
	}
	state.State = models.StateType(tag)
	state.Data = data.String
	return &state, nil
}

func (s *PostgresStore) DeleteConversationState(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM conversation_states WHERE user_id = $1`, userID)
	if err != nil {
		slog.Error("PostgresStore DeleteConversationState failed", "error", err, "userID", userID)
		return err
	}
	return nil
}

func (s *PostgresStore) CleanupOldData(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if _, err := s.db.Exec(`DELETE FROM help_requests WHERE created_at < $1`, cutoff); err != nil {
		slog.Error("PostgresStore CleanupOldData help_requests failed", "error", err)
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM intervention_outcomes WHERE created_at < $1`, cutoff); err != nil {
		slog.Error("PostgresStore CleanupOldData intervention_outcomes failed", "error", err)
		return err
	}
	slog.Info("PostgresStore CleanupOldData completed", "cutoff", cutoff)
	return nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
