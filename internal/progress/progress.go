// Package progress implements the pure aggregation rules for a user's
// progress record: intervention counters, day streaks, technique tallies, and
// time-of-day counters.
//
// The aggregator is a pure function of (current record, event) so it can be
// unit-tested in isolation from storage.
package progress

import (
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// DateLayout is the calendar-date form used for LastInterventionDate.
const DateLayout = "2006-01-02"

// Time-of-day boundaries for the auxiliary counters.
const (
	lateNightStartHour   = 23
	lateNightEndHour     = 5
	earlyMorningEndHour  = 8
	earlyMorningFromHour = 5
)

// SuccessEvent describes one confirmed successful intervention.
type SuccessEvent struct {
	// Technique labels the coping action, used for the per-technique tally.
	Technique string
	// At is the wall-clock moment the success was confirmed.
	At time.Time
}

// Apply folds a success event into a progress record and returns the updated
// record. The input is not mutated.
//
// Streak rules: a gap of exactly one calendar day extends the streak, a
// larger gap resets it to 1, and a same-day event leaves it unchanged. The
// first event ever starts a streak of 1. LongestStreak never decreases, so
// CurrentStreak <= LongestStreak holds on every output.
func Apply(p models.Progress, e SuccessEvent) models.Progress {
	out := p
	out.TechniqueCounts = make(map[string]int, len(p.TechniqueCounts)+1)
	for k, v := range p.TechniqueCounts {
		out.TechniqueCounts[k] = v
	}
	out.UsedCoachingQuestions = append([]int(nil), p.UsedCoachingQuestions...)

	out.TotalInterventions++

	today := e.At.Format(DateLayout)
	switch gap := daysBetween(p.LastInterventionDate, today); {
	case p.LastInterventionDate == "":
		out.CurrentStreak = 1
	case gap == 1:
		out.CurrentStreak++
	case gap > 1:
		out.CurrentStreak = 1
	}
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	out.LastInterventionDate = today

	if e.Technique != "" {
		out.TechniqueCounts[e.Technique]++
	}

	switch wd := e.At.Weekday(); wd {
	case time.Saturday, time.Sunday:
		out.WeekendInterventions++
	}
	switch hour := e.At.Hour(); {
	case hour >= lateNightStartHour || hour < lateNightEndHour:
		out.LateNightInterventions++
	case hour >= earlyMorningFromHour && hour < earlyMorningEndHour:
		out.EarlyMorningInterventions++
	}

	out.UpdatedAt = e.At
	return out
}

// daysBetween returns the calendar-day distance from a stored date to today.
// A missing or unparseable stored date yields 0, which callers treat as the
// first-ever event via the empty-string case.
func daysBetween(last, today string) int {
	if last == "" {
		return 0
	}
	from, err := time.Parse(DateLayout, last)
	if err != nil {
		return 0
	}
	to, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
