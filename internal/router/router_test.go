package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
	"github.com/spotcoach/cravebreaker/internal/store"
)

func newTestRouter(t *testing.T) (*Router, *store.InMemoryStore) {
	t.Helper()
	st := store.NewInMemoryStore()
	r, err := NewRouter(st, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r, st
}

func hasToken(s Screen, token string) bool {
	for _, row := range s.Keyboard {
		for _, b := range row {
			if b.Token == token {
				return true
			}
		}
	}
	return false
}

func hasTokenPrefix(s Screen, prefix string) bool {
	for _, row := range s.Keyboard {
		for _, b := range row {
			if strings.HasPrefix(b.Token, prefix) {
				return true
			}
		}
	}
	return false
}

func TestHandleCallback_SuccessPathEndToEnd(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 42

	// MENU -> CATEGORY_SELECTED
	s := r.HandleCallback(ctx, userID, ImpulseToken(models.CategorySmoking))
	if !hasTokenPrefix(s, PrefixTechnique) {
		t.Fatal("category screen should offer technique buttons")
	}
	cs, _ := st.GetConversationState(userID)
	if cs == nil || cs.State != models.StateCategorySelected || cs.Data != "smoking" {
		t.Fatalf("expected CATEGORY_SELECTED/smoking, got %+v", cs)
	}

	// CATEGORY_SELECTED -> TECHNIQUE_SHOWN, pending row appended
	s = r.HandleCallback(ctx, userID, TechniqueToken(1, models.CategorySmoking))
	if !hasToken(s, TokenOutcomeSuccess) || !hasToken(s, TokenOutcomeFailed) {
		t.Fatal("technique screen should offer both outcome buttons")
	}
	outcomes := st.Outcomes()
	if len(outcomes) != 1 || outcomes[0].Status != models.OutcomePending || outcomes[0].Technique != "smoking" {
		t.Fatalf("expected one pending smoking outcome, got %+v", outcomes)
	}

	// TECHNIQUE_SHOWN -> resolved success -> MENU
	s = r.HandleCallback(ctx, userID, TokenOutcomeSuccess)
	if !hasToken(s, TokenMainMenu) {
		t.Fatal("celebration screen must keep a path to the menu")
	}

	p, err := st.GetProgress(userID)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalInterventions != 1 || p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Fatalf("progress counters wrong: %+v", p)
	}
	if p.TechniqueCounts["smoking"] != 1 {
		t.Fatalf("technique tally wrong: %+v", p.TechniqueCounts)
	}
	if cs, _ := st.GetConversationState(userID); cs != nil {
		t.Fatalf("conversation state must be cleared, got %+v", cs)
	}
	if got := st.Outcomes()[0].Status; got != models.OutcomeSuccess {
		t.Fatalf("outcome row not amended: %v", got)
	}
}

// Re-delivered success tokens must not inflate counters. After a success the
// state row is gone, so a straight replay lands on the menu; even with the
// state row restored the resolved outcome row rejects a second amendment.
func TestHandleCallback_DuplicateSuccessIsRejected(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 7

	r.HandleCallback(ctx, userID, ImpulseToken(models.CategorySweets))
	r.HandleCallback(ctx, userID, TechniqueToken(0, models.CategorySweets))
	r.HandleCallback(ctx, userID, TokenOutcomeSuccess)

	// Straight replay: no conversation state left, menu fallback.
	s := r.HandleCallback(ctx, userID, TokenOutcomeSuccess)
	if !hasToken(s, TokenEmergencyHelp) {
		t.Fatal("replay should fall back to the main menu")
	}

	// Replay with the state row restored: the resolved row must reject.
	st.SaveConversationState(models.ConversationState{
		UserID: userID, State: models.StateTechniqueShown, Data: "sweets", UpdatedAt: time.Now(),
	})
	r.HandleCallback(ctx, userID, TokenOutcomeSuccess)

	p, _ := st.GetProgress(userID)
	if p.TotalInterventions != 1 {
		t.Fatalf("duplicate success double-counted: total = %d", p.TotalInterventions)
	}
}

// On failure the re-offered category must come from the stored state, never
// from a default.
func TestHandleCallback_FailureKeepsStoredCategory(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 9

	r.HandleCallback(ctx, userID, ImpulseToken(models.CategoryShopping))
	r.HandleCallback(ctx, userID, TechniqueToken(0, models.CategoryShopping))
	s := r.HandleCallback(ctx, userID, TokenOutcomeFailed)

	if !hasToken(s, TechniqueToken(0, models.CategoryShopping)) {
		t.Fatal("failure screen must re-offer shopping techniques")
	}
	for _, c := range models.Categories {
		if c == models.CategoryShopping {
			continue
		}
		if hasTokenPrefix(s, PrefixTechnique+"0_"+string(c)) {
			t.Fatalf("failure screen offered wrong category %q", c)
		}
	}

	cs, _ := st.GetConversationState(userID)
	if cs == nil || cs.State != models.StateCategorySelected || cs.Data != "shopping" {
		t.Fatalf("expected CATEGORY_SELECTED/shopping after failure, got %+v", cs)
	}
	if got := st.Outcomes()[0].Status; got != models.OutcomeFailure {
		t.Fatalf("outcome row should be failure, got %v", got)
	}
	p, _ := st.GetProgress(userID)
	if p.TotalInterventions != 0 {
		t.Fatalf("failure must not count as intervention: %+v", p)
	}
}

func TestHandleCallback_UnknownTokenFallsBackToMenu(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 11

	r.HandleCallback(ctx, userID, ImpulseToken(models.CategoryAnger))
	s := r.HandleCallback(ctx, userID, "impulse_gambling")
	if !hasToken(s, TokenEmergencyHelp) {
		t.Fatal("unknown token should render the main menu")
	}
	if cs, _ := st.GetConversationState(userID); cs != nil {
		t.Fatalf("fallback must clear state, got %+v", cs)
	}
}

func TestHandleCallback_OutOfStateTokensFallBack(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 13

	// Technique token with no category selected.
	s := r.HandleCallback(ctx, userID, TechniqueToken(0, models.CategorySmoking))
	if !hasToken(s, TokenEmergencyHelp) {
		t.Fatal("technique token without state should fall back to menu")
	}
	if len(st.Outcomes()) != 0 {
		t.Fatal("no pending row may be appended out of state")
	}

	// Outcome token with no technique shown.
	s = r.HandleCallback(ctx, userID, TokenOutcomeFailed)
	if !hasToken(s, TokenEmergencyHelp) {
		t.Fatal("outcome token without state should fall back to menu")
	}
}

func TestHandleCallback_EmergencyFlow(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 17

	s := r.HandleCallback(ctx, userID, TokenEmergencyHelp)
	if !hasToken(s, TokenBreathing) || !hasToken(s, TokenMiniGame) {
		t.Fatal("emergency screen should offer interventions")
	}
	if n, _ := st.CountHelpRequests(userID); n != 1 {
		t.Fatalf("help request not logged: %d", n)
	}

	s = r.HandleCallback(ctx, userID, TokenBreathing)
	if !hasToken(s, TokenOutcomeSuccess) {
		t.Fatal("breathing screen should offer outcome buttons")
	}
	cs, _ := st.GetConversationState(userID)
	if cs == nil || cs.State != models.StateTechniqueShown || cs.Data != "breathing" {
		t.Fatalf("expected TECHNIQUE_SHOWN/breathing, got %+v", cs)
	}

	// Failure on an emergency technique re-offers the emergency screen, not a
	// category list.
	s = r.HandleCallback(ctx, userID, TokenOutcomeFailed)
	if !hasToken(s, TokenMeditation) {
		t.Fatal("emergency failure should re-offer interventions")
	}
	if hasTokenPrefix(s, PrefixTechnique) {
		t.Fatal("emergency failure must not offer category techniques")
	}

	// Success on an emergency technique tallies under its technique key.
	r.HandleCallback(ctx, userID, TokenMiniGame)
	r.HandleCallback(ctx, userID, TokenOutcomeSuccess)
	p, _ := st.GetProgress(userID)
	if p.TechniqueCounts["game"] != 1 {
		t.Fatalf("expected game tally, got %+v", p.TechniqueCounts)
	}
}

func TestHandleCallback_CoachingRotationPersists(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 19

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		s := r.HandleCallback(ctx, userID, TokenCoaching)
		if s.Text == "" {
			t.Fatal("empty coaching screen")
		}
		p, _ := st.GetProgress(userID)
		if len(p.UsedCoachingQuestions) != i+1 {
			t.Fatalf("rotation history not persisted: %v", p.UsedCoachingQuestions)
		}
		last := p.UsedCoachingQuestions[i]
		if seen[last] {
			t.Fatalf("question %d repeated within rotation", last)
		}
		seen[last] = true
	}
	p, _ := st.GetProgress(userID)
	if !p.CoachingUsed {
		t.Fatal("CoachingUsed flag not set")
	}
}

func TestHandleCommand(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 23

	s := r.HandleCommand(ctx, userID, "alice", "/start")
	if !hasToken(s, TokenEmergencyHelp) {
		t.Fatal("/start should render the main menu")
	}
	if n, _ := st.CountUsers(); n != 1 {
		t.Fatalf("user not registered on /start: %d", n)
	}

	s = r.HandleCommand(ctx, userID, "alice", "/stats")
	if !strings.Contains(s.Text, "stats") && !strings.Contains(s.Text, "Wins") {
		t.Fatalf("unexpected /stats screen: %q", s.Text)
	}

	// Free text nudges back to the buttons, never errors.
	s = r.HandleCommand(ctx, userID, "alice", "hello there")
	if !hasToken(s, TokenMainMenu) {
		t.Fatal("free text should keep a path to the menu")
	}

	// /menu clears any in-flight state.
	r.HandleCallback(ctx, userID, ImpulseToken(models.CategoryAnger))
	r.HandleCommand(ctx, userID, "alice", "/menu")
	if cs, _ := st.GetConversationState(userID); cs != nil {
		t.Fatalf("/menu must clear state, got %+v", cs)
	}
}

func TestEveryScreenHasMenuPath(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()
	const userID int64 = 29

	tokens := []string{
		TokenEmergencyHelp, TokenMyImpulses, TokenShowStats,
		TokenDailyMotivation, TokenEveningReflection, TokenCoaching,
		TokenContactCoach, TokenJustTalk, TokenFAQ, TokenAbout,
		ImpulseToken(models.CategorySweets),
	}
	for _, token := range tokens {
		s := r.HandleCallback(ctx, userID, token)
		if !hasToken(s, TokenMainMenu) {
			t.Errorf("screen for %q has no path back to the menu", token)
		}
	}
}
