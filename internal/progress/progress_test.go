package progress

import (
	"testing"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

func at(day string, hour int) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func TestApply_FirstEvent(t *testing.T) {
	p := models.NewProgress(1)
	out := Apply(p, SuccessEvent{Technique: "smoking", At: at("2025-03-10", 12)})

	if out.TotalInterventions != 1 {
		t.Errorf("expected 1 total intervention, got %d", out.TotalInterventions)
	}
	if out.CurrentStreak != 1 || out.LongestStreak != 1 {
		t.Errorf("expected streaks 1/1, got %d/%d", out.CurrentStreak, out.LongestStreak)
	}
	if out.LastInterventionDate != "2025-03-10" {
		t.Errorf("expected date 2025-03-10, got %q", out.LastInterventionDate)
	}
	if out.TechniqueCounts["smoking"] != 1 {
		t.Errorf("expected smoking tally 1, got %d", out.TechniqueCounts["smoking"])
	}
}

func TestApply_StreakRules(t *testing.T) {
	tests := []struct {
		name          string
		lastDate      string
		current       int
		longest       int
		eventDay      string
		wantCurrent   int
		wantLongest   int
	}{
		{"consecutive day extends", "2025-03-10", 3, 5, "2025-03-11", 4, 5},
		{"same day unchanged", "2025-03-10", 3, 5, "2025-03-10", 3, 5},
		{"gap resets to one", "2025-03-10", 3, 5, "2025-03-13", 1, 5},
		{"extension can set new longest", "2025-03-10", 5, 5, "2025-03-11", 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewProgress(1)
			p.LastInterventionDate = tt.lastDate
			p.CurrentStreak = tt.current
			p.LongestStreak = tt.longest
			out := Apply(p, SuccessEvent{Technique: "x", At: at(tt.eventDay, 12)})
			if out.CurrentStreak != tt.wantCurrent {
				t.Errorf("current streak: expected %d, got %d", tt.wantCurrent, out.CurrentStreak)
			}
			if out.LongestStreak != tt.wantLongest {
				t.Errorf("longest streak: expected %d, got %d", tt.wantLongest, out.LongestStreak)
			}
			if out.CurrentStreak > out.LongestStreak {
				t.Errorf("invariant violated: current %d > longest %d", out.CurrentStreak, out.LongestStreak)
			}
		})
	}
}

func TestApply_TrailingRunEqualsStreak(t *testing.T) {
	// current_streak must equal the length of the trailing run of consecutive
	// calendar days, and longest_streak must be monotonically non-decreasing.
	days := []string{
		"2025-01-01", "2025-01-02", "2025-01-03", // run of 3
		"2025-01-07", "2025-01-08", // run of 2 after a gap
	}
	p := models.NewProgress(1)
	prevLongest := 0
	for _, d := range days {
		p = Apply(p, SuccessEvent{Technique: "x", At: at(d, 12)})
		if p.LongestStreak < prevLongest {
			t.Fatalf("longest streak decreased: %d -> %d", prevLongest, p.LongestStreak)
		}
		prevLongest = p.LongestStreak
	}
	if p.CurrentStreak != 2 {
		t.Errorf("expected trailing run of 2, got %d", p.CurrentStreak)
	}
	if p.LongestStreak != 3 {
		t.Errorf("expected longest streak 3, got %d", p.LongestStreak)
	}
}

func TestApply_TimeOfDayCounters(t *testing.T) {
	p := models.NewProgress(1)

	// 2025-03-08 is a Saturday.
	p = Apply(p, SuccessEvent{Technique: "x", At: at("2025-03-08", 12)})
	if p.WeekendInterventions != 1 {
		t.Errorf("expected 1 weekend intervention, got %d", p.WeekendInterventions)
	}

	p = Apply(p, SuccessEvent{Technique: "x", At: at("2025-03-10", 23)})
	if p.LateNightInterventions != 1 {
		t.Errorf("expected 1 late-night intervention, got %d", p.LateNightInterventions)
	}

	p = Apply(p, SuccessEvent{Technique: "x", At: at("2025-03-11", 6)})
	if p.EarlyMorningInterventions != 1 {
		t.Errorf("expected 1 early-morning intervention, got %d", p.EarlyMorningInterventions)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	p := models.NewProgress(1)
	p.TechniqueCounts["smoking"] = 2
	_ = Apply(p, SuccessEvent{Technique: "smoking", At: at("2025-03-10", 12)})
	if p.TechniqueCounts["smoking"] != 2 {
		t.Errorf("input record mutated: tally is %d", p.TechniqueCounts["smoking"])
	}
	if p.TotalInterventions != 0 {
		t.Errorf("input record mutated: total is %d", p.TotalInterventions)
	}
}
