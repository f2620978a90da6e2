// Package motivation selects motivational copy for celebration, daily, and
// reflection screens. Pool choice is deterministic from the user's progress
// and the wall clock; the pick inside a pool is uniform random. An optional
// GenAI enricher may rewrite the chosen quote; any enrichment failure falls
// back silently to the deterministic text.
package motivation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
	"github.com/spotcoach/cravebreaker/internal/progress"
)

// Moment names the situation a quote is requested for.
type Moment string

const (
	// MomentAuto derives the pool from progress and time of day.
	MomentAuto Moment = "auto"
	// MomentSuccess celebrates a just-confirmed intervention.
	MomentSuccess Moment = "success"
	// MomentMilestone marks a round total-interventions count.
	MomentMilestone Moment = "milestone"
	// MomentMorning forces the morning pool (daily motivation screen).
	MomentMorning Moment = "morning"
	// MomentEvening picks a reflection prompt.
	MomentEvening Moment = "evening"
)

// Milestones are the total-interventions counts worth celebrating.
var Milestones = []int{1, 10, 50, 100}

// enricher is the minimal GenAI surface the selector needs.
type enricher interface {
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const enrichSystemPrompt = "You are a warm, concise habit coach. Rewrite the " +
	"given motivational message in at most two sentences, keeping its emoji " +
	"and its meaning. Reply with the rewritten message only."

// Opts holds selector configuration.
type Opts struct {
	Enricher enricher
	Now      func() time.Time
}

// Option configures selector construction.
type Option func(*Opts)

// WithEnricher attaches an optional GenAI client. A nil enricher keeps the
// deterministic path.
func WithEnricher(e enricher) Option {
	return func(o *Opts) { o.Enricher = e }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Opts) { o.Now = now }
}

// Selector produces motivational quotes with a deterministic stats suffix.
type Selector struct {
	enrich enricher
	now    func() time.Time
}

// NewSelector builds a Selector.
func NewSelector(opts ...Option) *Selector {
	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Selector{enrich: o.Enricher, now: o.Now}
}

// Quote returns a motivational message for the given moment, with the user's
// stats appended as a deterministic suffix line.
func (s *Selector) Quote(ctx context.Context, p models.Progress, m Moment) string {
	base := pick(s.pool(p, m))
	if s.enrich != nil {
		enriched, err := s.enrich.GeneratePrompt(ctx, enrichSystemPrompt, base)
		if err != nil || strings.TrimSpace(enriched) == "" {
			slog.Debug("motivation.Quote enrichment fell back", "error", err)
		} else {
			base = strings.TrimSpace(enriched)
		}
	}
	return base + statsSuffix(p)
}

// DailyChallenge returns a random daily challenge line, no suffix.
func (s *Selector) DailyChallenge() string {
	return pick(dailyChallenges)
}

// pool resolves the quote pool for a moment. For MomentAuto the priority is
// milestone, then comeback, then the streak tier, then time of day.
func (s *Selector) pool(p models.Progress, m Moment) []string {
	switch m {
	case MomentSuccess:
		if IsMilestone(p.TotalInterventions) {
			return milestoneQuotes
		}
		return successQuotes
	case MomentMilestone:
		return milestoneQuotes
	case MomentMorning:
		return morningQuotes
	case MomentEvening:
		return eveningReflections
	}

	if IsMilestone(p.TotalInterventions) {
		return milestoneQuotes
	}
	if s.isComeback(p) {
		return comebackQuotes
	}
	switch {
	case p.CurrentStreak >= 21:
		return masterQuotes
	case p.CurrentStreak >= 7:
		return strongQuotes
	case p.CurrentStreak >= 1:
		return buildingQuotes
	}
	return s.timeOfDayPool()
}

// isComeback reports whether the last recorded success is more than two days
// old. A user with no history is a starter, not a comeback.
func (s *Selector) isComeback(p models.Progress) bool {
	if p.LastInterventionDate == "" {
		return false
	}
	last, err := time.Parse(progress.DateLayout, p.LastInterventionDate)
	if err != nil {
		return false
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(today.Sub(last).Hours()/24) > 2
}

func (s *Selector) timeOfDayPool() []string {
	switch h := s.now().Hour(); {
	case h >= 5 && h < 12:
		return morningQuotes
	case h >= 12 && h < 17:
		return afternoonQuotes
	case h >= 17 && h < 22:
		return eveningQuotes
	default:
		return nightQuotes
	}
}

// IsMilestone reports whether a total-interventions count is a celebrated
// milestone.
func IsMilestone(total int) bool {
	for _, m := range Milestones {
		if total == m {
			return true
		}
	}
	return false
}

// statsSuffix renders the deterministic progress line appended to every
// quote. It never goes through enrichment.
func statsSuffix(p models.Progress) string {
	if p.TotalInterventions == 0 && p.CurrentStreak == 0 {
		return ""
	}
	return fmt.Sprintf("\n\n📊 Wins: %d | Streak: %d days | Best: %d days",
		p.TotalInterventions, p.CurrentStreak, p.LongestStreak)
}

func pick(pool []string) string {
	return pool[rand.IntN(len(pool))]
}
