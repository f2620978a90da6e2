package content

import (
	"testing"

	"github.com/spotcoach/cravebreaker/internal/models"
)

func TestGuideFor_AllCategories(t *testing.T) {
	for _, c := range models.Categories {
		g, ok := GuideFor(c)
		if !ok {
			t.Errorf("GuideFor(%q) missing", c)
			continue
		}
		if g.Title == "" {
			t.Errorf("GuideFor(%q) has empty title", c)
		}
		if len(g.Techniques) != 3 {
			t.Errorf("GuideFor(%q) has %d techniques, want 3", c, len(g.Techniques))
		}
		for i, tech := range g.Techniques {
			if tech.Name == "" || tech.Instruction == "" {
				t.Errorf("GuideFor(%q) technique %d incomplete", c, i)
			}
		}
	}
}

func TestGuideFor_UnknownCategory(t *testing.T) {
	if _, ok := GuideFor(models.Category("gambling")); ok {
		t.Error("expected no guide for unknown category")
	}
}

func TestPickers_NonEmpty(t *testing.T) {
	for i := 0; i < 50; i++ {
		for _, e := range []Exercise{PickBreathing(), PickMeditation(), PickMiniGame()} {
			if e.Name == "" || e.Instruction == "" {
				t.Fatalf("picker returned incomplete exercise: %+v", e)
			}
		}
	}
}

func TestDrawCoachingQuestion_NoRepeatUntilExhaustion(t *testing.T) {
	var used []int
	drawn := make(map[int]bool)
	for i := 0; i < len(CoachingQuestions); i++ {
		q, idx, reset := DrawCoachingQuestion(used)
		if reset {
			t.Fatalf("unexpected reset at draw %d", i)
		}
		if drawn[idx] {
			t.Fatalf("question %d repeated before exhaustion", idx)
		}
		if q != CoachingQuestions[idx] {
			t.Fatalf("question text does not match index %d", idx)
		}
		drawn[idx] = true
		used = append(used, idx)
	}
	if len(drawn) != len(CoachingQuestions) {
		t.Fatalf("covered %d questions, want %d", len(drawn), len(CoachingQuestions))
	}

	// The pool is exhausted now, so the next draw must reset.
	_, idx, reset := DrawCoachingQuestion(used)
	if !reset {
		t.Error("expected reset after exhaustion")
	}
	if idx < 0 || idx >= len(CoachingQuestions) {
		t.Errorf("reset draw returned out-of-range index %d", idx)
	}
}

func TestDrawCoachingQuestion_EmptyUsed(t *testing.T) {
	q, idx, reset := DrawCoachingQuestion(nil)
	if reset {
		t.Error("unexpected reset with empty used list")
	}
	if q == "" || idx < 0 || idx >= len(CoachingQuestions) {
		t.Errorf("bad draw: q=%q idx=%d", q, idx)
	}
}
