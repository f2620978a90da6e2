package motivation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func contains(pool []string, s string) bool {
	for _, q := range pool {
		if q == s {
			return true
		}
	}
	return false
}

// stripSuffix removes the stats line so pool membership can be checked.
func stripSuffix(s string) string {
	if i := strings.Index(s, "\n\n📊"); i >= 0 {
		return s[:i]
	}
	return s
}

func TestQuote_MilestoneBeatsStreak(t *testing.T) {
	sel := NewSelector(WithClock(fixedClock(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))))
	p := models.Progress{UserID: 1, TotalInterventions: 10, CurrentStreak: 10, LongestStreak: 10, LastInterventionDate: "2025-03-10"}
	q := stripSuffix(sel.Quote(context.Background(), p, MomentAuto))
	if !contains(milestoneQuotes, q) {
		t.Errorf("expected milestone quote, got %q", q)
	}
}

func TestQuote_ComebackAfterGap(t *testing.T) {
	sel := NewSelector(WithClock(fixedClock(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))))
	p := models.Progress{UserID: 1, TotalInterventions: 5, CurrentStreak: 3, LongestStreak: 3, LastInterventionDate: "2025-03-05"}
	q := stripSuffix(sel.Quote(context.Background(), p, MomentAuto))
	if !contains(comebackQuotes, q) {
		t.Errorf("expected comeback quote after 5-day gap, got %q", q)
	}
}

func TestQuote_StreakTiers(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		streak int
		pool   []string
	}{
		{"building", 3, buildingQuotes},
		{"strong", 7, strongQuotes},
		{"master", 21, masterQuotes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(WithClock(fixedClock(now)))
			p := models.Progress{UserID: 1, TotalInterventions: 30, CurrentStreak: tt.streak, LongestStreak: tt.streak, LastInterventionDate: "2025-03-10"}
			q := stripSuffix(sel.Quote(context.Background(), p, MomentAuto))
			if !contains(tt.pool, q) {
				t.Errorf("streak %d: got %q from wrong pool", tt.streak, q)
			}
		})
	}
}

func TestQuote_TimeOfDayForNewUser(t *testing.T) {
	tests := []struct {
		hour int
		pool []string
	}{
		{8, morningQuotes},
		{14, afternoonQuotes},
		{19, eveningQuotes},
		{23, nightQuotes},
		{3, nightQuotes},
	}
	for _, tt := range tests {
		sel := NewSelector(WithClock(fixedClock(time.Date(2025, 3, 10, tt.hour, 0, 0, 0, time.UTC))))
		q := stripSuffix(sel.Quote(context.Background(), models.NewProgress(1), MomentAuto))
		if !contains(tt.pool, q) {
			t.Errorf("hour %d: got %q from wrong pool", tt.hour, q)
		}
	}
}

func TestQuote_StatsSuffix(t *testing.T) {
	sel := NewSelector()
	p := models.Progress{UserID: 1, TotalInterventions: 4, CurrentStreak: 2, LongestStreak: 3, LastInterventionDate: "2025-03-10"}
	q := sel.Quote(context.Background(), p, MomentSuccess)
	if !strings.Contains(q, "Wins: 4") || !strings.Contains(q, "Streak: 2 days") || !strings.Contains(q, "Best: 3 days") {
		t.Errorf("stats suffix missing or wrong: %q", q)
	}

	// A brand-new user gets no suffix.
	fresh := sel.Quote(context.Background(), models.NewProgress(2), MomentMorning)
	if strings.Contains(fresh, "📊") {
		t.Errorf("unexpected stats suffix for new user: %q", fresh)
	}
}

type mockEnricher struct {
	out string
	err error
}

func (m *mockEnricher) GeneratePrompt(ctx context.Context, system, user string) (string, error) {
	return m.out, m.err
}

func TestQuote_EnrichmentApplied(t *testing.T) {
	sel := NewSelector(WithEnricher(&mockEnricher{out: "✨ Rewritten!"}))
	p := models.Progress{UserID: 1, TotalInterventions: 2, CurrentStreak: 2, LongestStreak: 2, LastInterventionDate: "2025-03-10"}
	q := sel.Quote(context.Background(), p, MomentSuccess)
	if !strings.HasPrefix(q, "✨ Rewritten!") {
		t.Errorf("expected enriched quote, got %q", q)
	}
	if !strings.Contains(q, "📊") {
		t.Errorf("stats suffix must survive enrichment: %q", q)
	}
}

func TestQuote_EnrichmentFailureFallsBack(t *testing.T) {
	sel := NewSelector(WithEnricher(&mockEnricher{err: errors.New("quota exceeded")}))
	p := models.Progress{UserID: 1, TotalInterventions: 2, CurrentStreak: 2, LongestStreak: 2, LastInterventionDate: "2025-03-10"}
	q := stripSuffix(sel.Quote(context.Background(), p, MomentSuccess))
	if !contains(successQuotes, q) {
		t.Errorf("expected deterministic fallback quote, got %q", q)
	}
}

func TestQuote_EmptyEnrichmentFallsBack(t *testing.T) {
	sel := NewSelector(WithEnricher(&mockEnricher{out: "   "}))
	p := models.Progress{UserID: 1, TotalInterventions: 2, CurrentStreak: 2, LongestStreak: 2, LastInterventionDate: "2025-03-10"}
	q := stripSuffix(sel.Quote(context.Background(), p, MomentSuccess))
	if !contains(successQuotes, q) {
		t.Errorf("expected deterministic fallback on blank enrichment, got %q", q)
	}
}

func TestIsMilestone(t *testing.T) {
	for _, m := range []int{1, 10, 50, 100} {
		if !IsMilestone(m) {
			t.Errorf("IsMilestone(%d) = false, want true", m)
		}
	}
	for _, n := range []int{0, 2, 11, 99, 101} {
		if IsMilestone(n) {
			t.Errorf("IsMilestone(%d) = true, want false", n)
		}
	}
}

func TestDailyChallenge_NonEmpty(t *testing.T) {
	sel := NewSelector()
	for i := 0; i < 20; i++ {
		if sel.DailyChallenge() == "" {
			t.Fatal("empty daily challenge")
		}
	}
}
