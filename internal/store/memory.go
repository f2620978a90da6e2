// Package store provides storage backends for CraveBreaker.
//
// This file implements an in-memory store, primarily used in tests.
package store

import (
	"sync"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// InMemoryStore keeps all data in process memory. It implements the full
// Store interface and is safe for concurrent use.
type InMemoryStore struct {
	mu       sync.Mutex
	users    map[int64]models.User
	triggers map[int64][]string
	help     []models.HelpRequest
	outcomes []models.InterventionOutcome
	progress map[int64]models.Progress
	states   map[int64]models.ConversationState
	nextID   int64
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[int64]models.User),
		triggers: make(map[int64][]string),
		progress: make(map[int64]models.Progress),
		states:   make(map[int64]models.ConversationState),
		nextID:   1,
	}
}

func (s *InMemoryStore) EnsureUser(userID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		now := time.Now()
		s.users[userID] = models.User{ID: userID, Username: username, CreatedAt: now, LastActivity: now}
	}
	return nil
}

func (s *InMemoryStore) TouchUserActivity(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LastActivity = time.Now()
		s.users[userID] = u
	}
	return nil
}

func (s *InMemoryStore) CountUsers() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *InMemoryStore) AddUserTrigger(userID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.triggers[userID] {
		if existing == name {
			return false, nil
		}
	}
	s.triggers[userID] = append(s.triggers[userID], name)
	return true, nil
}

func (s *InMemoryStore) GetUserTriggers(userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.triggers[userID]))
	copy(out, s.triggers[userID])
	return out, nil
}

func (s *InMemoryStore) AddHelpRequest(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.help = append(s.help, models.HelpRequest{ID: s.nextID, UserID: userID, CreatedAt: time.Now()})
	s.nextID++
	return nil
}

func (s *InMemoryStore) AddInterventionOutcome(userID int64, technique string, status models.OutcomeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, models.InterventionOutcome{
		ID: s.nextID, UserID: userID, Technique: technique, Status: status, CreatedAt: time.Now(),
	})
	s.nextID++
	return nil
}

func (s *InMemoryStore) ResolveLatestIntervention(userID int64, status models.OutcomeStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.outcomes) - 1; i >= 0; i-- {
		if s.outcomes[i].UserID != userID {
			continue
		}
		if s.outcomes[i].Status != models.OutcomePending {
			continue
		}
		s.outcomes[i].Status = status
		return true, nil
	}
	return false, nil
}

func (s *InMemoryStore) CountHelpRequests(userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.help {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountInterventions(userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.outcomes {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountSuccessfulInterventions(userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.outcomes {
		if o.UserID == userID && o.Status == models.OutcomeSuccess {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) GetProgress(userID int64) (models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[userID]; ok {
		return copyProgress(p), nil
	}
	p := models.NewProgress(userID)
	s.progress[userID] = copyProgress(p)
	return p, nil
}

func (s *InMemoryStore) SaveProgress(p models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now()
	s.progress[p.UserID] = copyProgress(p)
	return nil
}

// copyProgress detaches the map and slice backing so stored records never
// alias a caller's copy.
func copyProgress(p models.Progress) models.Progress {
	if p.TechniqueCounts != nil {
		counts := make(map[string]int, len(p.TechniqueCounts))
		for k, v := range p.TechniqueCounts {
			counts[k] = v
		}
		p.TechniqueCounts = counts
	}
	if p.UsedCoachingQuestions != nil {
		used := make([]int, len(p.UsedCoachingQuestions))
		copy(used, p.UsedCoachingQuestions)
		p.UsedCoachingQuestions = used
	}
	return p
}

func (s *InMemoryStore) SaveConversationState(state models.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.UpdatedAt = time.Now()
	s.states[state.UserID] = state
	return nil
}

func (s *InMemoryStore) GetConversationState(userID int64) (*models.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[userID]; ok {
		copied := state
		return &copied, nil
	}
	return nil, nil
}

func (s *InMemoryStore) DeleteConversationState(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

func (s *InMemoryStore) CleanupOldData(olderThan time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var help []models.HelpRequest
	for _, h := range s.help {
		if h.CreatedAt.After(cutoff) {
			help = append(help, h)
		}
	}
	s.help = help
	var outcomes []models.InterventionOutcome
	for _, o := range s.outcomes {
		if o.CreatedAt.After(cutoff) {
			outcomes = append(outcomes, o)
		}
	}
	s.outcomes = outcomes
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// Outcomes returns a snapshot of the intervention log (for tests).
func (s *InMemoryStore) Outcomes() []models.InterventionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InterventionOutcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}
