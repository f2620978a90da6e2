package models

import "testing"

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []Category{"", "gambling", "Sweets", "junk_food"} {
		if IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = true, want false", c)
		}
	}
}

func TestNewProgress(t *testing.T) {
	p := NewProgress(42)
	if p.UserID != 42 {
		t.Errorf("UserID = %d, want 42", p.UserID)
	}
	if p.TechniqueCounts == nil {
		t.Error("TechniqueCounts must be initialized")
	}
	if p.TotalInterventions != 0 || p.CurrentStreak != 0 || p.LongestStreak != 0 {
		t.Errorf("counters must start at zero: %+v", p)
	}
	if p.LastInterventionDate != "" {
		t.Errorf("LastInterventionDate must start empty, got %q", p.LastInterventionDate)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestAPIResponseHelpers(t *testing.T) {
	if r := Success(map[string]int{"n": 1}); r.Status != string(APIStatusOK) || r.Result == nil {
		t.Errorf("Success() = %+v", r)
	}
	if r := SuccessWithMessage("done", nil); r.Status != string(APIStatusOK) || r.Message != "done" {
		t.Errorf("SuccessWithMessage() = %+v", r)
	}
	if r := Error("boom"); r.Status != string(APIStatusError) || r.Message != "boom" {
		t.Errorf("Error() = %+v", r)
	}
}
