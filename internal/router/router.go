package router

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spotcoach/cravebreaker/internal/content"
	"github.com/spotcoach/cravebreaker/internal/models"
	"github.com/spotcoach/cravebreaker/internal/motivation"
	"github.com/spotcoach/cravebreaker/internal/progress"
	"github.com/spotcoach/cravebreaker/internal/store"
)

// Technique keys for the category-less emergency interventions. Recorded in
// outcome rows, progress tallies, and conversation-state data.
const (
	techniqueBreathing  = "breathing"
	techniqueMeditation = "meditation"
	techniqueCoaching   = "coaching"
	techniqueMiniGame   = "game"
)

// Button is one rendered keyboard button. Exactly one of Token or URL is set.
type Button struct {
	Label string
	Token string
	URL   string
}

// Screen is the single render result of handling one interaction: the next
// message text plus its button layout. Every screen keeps a path back to the
// main menu.
type Screen struct {
	Text     string
	Keyboard [][]Button
}

// Quotes is the motivational-copy surface the router needs.
type Quotes interface {
	Quote(ctx context.Context, p models.Progress, m motivation.Moment) string
	DailyChallenge() string
}

// Opts holds router configuration.
type Opts struct {
	Quotes   Quotes
	CoachURL string
	Now      func() time.Time
}

// Option configures router construction.
type Option func(*Opts)

// WithQuotes sets the quote source. Defaults to a plain deterministic
// selector.
func WithQuotes(q Quotes) Option {
	return func(o *Opts) { o.Quotes = q }
}

// WithCoachURL sets the coach contact link shown on the contact screen.
func WithCoachURL(url string) Option {
	return func(o *Opts) { o.CoachURL = url }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Opts) { o.Now = now }
}

// Router maps incoming tokens and commands to store mutations and the next
// screen. It is the sole writer of conversation state and progress.
type Router struct {
	store    store.Store
	registry *Registry
	quotes   Quotes
	coachURL string
	now      func() time.Time
}

// NewRouter builds a router over the given store. It fails when the token
// registry is ambiguous, which is a configuration error, not a runtime one.
func NewRouter(st store.Store, opts ...Option) (*Router, error) {
	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.Quotes == nil {
		o.Quotes = motivation.NewSelector()
	}
	if o.CoachURL == "" {
		o.CoachURL = defaultCoachURL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	return &Router{store: st, registry: reg, quotes: o.Quotes, coachURL: o.CoachURL, now: o.Now}, nil
}

// HandleCommand processes a slash command or free text and returns the next
// screen. Unknown text never errors; it nudges the user back to the menu.
func (r *Router) HandleCommand(ctx context.Context, userID int64, username, text string) Screen {
	if err := r.store.EnsureUser(userID, username); err != nil {
		slog.Error("router.HandleCommand failed to ensure user", "userID", userID, "error", err)
	}
	if err := r.store.TouchUserActivity(userID); err != nil {
		slog.Debug("router.HandleCommand failed to touch activity", "userID", userID, "error", err)
	}

	cmd := strings.TrimSpace(text)
	if i := strings.IndexByte(cmd, ' '); i > 0 {
		cmd = cmd[:i]
	}
	slog.Debug("router.HandleCommand", "userID", userID, "command", cmd)
	switch cmd {
	case "/start":
		r.clearState(userID)
		return welcomeScreen()
	case "/menu":
		r.clearState(userID)
		return mainMenuScreen()
	case "/help":
		return helpScreen()
	case "/stats":
		return r.statsScreen(userID)
	default:
		return freeTextScreen()
	}
}

// HandleCallback processes one button tap: parse the token, apply the state
// machine, and render the next screen. Malformed or out-of-state tokens fall
// back to the main menu, never to an error shown to the user.
func (r *Router) HandleCallback(ctx context.Context, userID int64, token string) Screen {
	if err := r.store.TouchUserActivity(userID); err != nil {
		slog.Debug("router.HandleCallback failed to touch activity", "userID", userID, "error", err)
	}

	act, err := r.registry.ParseToken(token)
	if err != nil {
		slog.Debug("router.HandleCallback unparseable token", "userID", userID, "token", token, "error", err)
		return r.fallbackToMenu(userID)
	}
	slog.Debug("router.HandleCallback", "userID", userID, "action", act.Type)

	switch act.Type {
	case ActionMainMenu:
		return r.fallbackToMenu(userID)
	case ActionEmergencyHelp:
		return r.handleEmergencyHelp(userID)
	case ActionMyImpulses:
		return r.handleMyImpulses(userID)
	case ActionSelectImpulse:
		return r.handleSelectImpulse(userID, act.Category)
	case ActionShowTechnique:
		return r.handleShowTechnique(userID, act.TechniqueIndex)
	case ActionOutcomeSuccess:
		return r.handleOutcomeSuccess(ctx, userID)
	case ActionOutcomeFailed:
		return r.handleOutcomeFailed(userID)
	case ActionBreathing:
		e := content.PickBreathing()
		return r.handleEmergencyTechnique(userID, techniqueBreathing, TokenBreathing, e)
	case ActionMeditation:
		e := content.PickMeditation()
		return r.handleEmergencyTechnique(userID, techniqueMeditation, TokenMeditation, e)
	case ActionMiniGame:
		e := content.PickMiniGame()
		return r.handleEmergencyTechnique(userID, techniqueMiniGame, TokenMiniGame, e)
	case ActionCoaching:
		return r.handleCoaching(userID)
	case ActionDailyMotivation:
		p := r.progressOrDefault(userID)
		return dailyMotivationScreen(r.quotes.Quote(ctx, p, motivation.MomentMorning), r.quotes.DailyChallenge())
	case ActionEveningReflection:
		p := r.progressOrDefault(userID)
		return eveningReflectionScreen(r.quotes.Quote(ctx, p, motivation.MomentEvening))
	case ActionShowStats:
		return r.statsScreen(userID)
	case ActionContactCoach:
		return contactCoachScreen(r.coachURL)
	case ActionJustTalk:
		return justTalkScreen()
	case ActionFAQ:
		return faqScreen()
	case ActionAbout:
		return r.aboutScreen()
	}
	return r.fallbackToMenu(userID)
}

// fallbackToMenu clears any conversation state and renders the root menu.
func (r *Router) fallbackToMenu(userID int64) Screen {
	r.clearState(userID)
	return mainMenuScreen()
}

func (r *Router) clearState(userID int64) {
	if err := r.store.DeleteConversationState(userID); err != nil {
		slog.Error("router failed to clear conversation state", "userID", userID, "error", err)
	}
}

func (r *Router) setState(userID int64, state models.StateType, data string) {
	cs := models.ConversationState{UserID: userID, State: state, Data: data, UpdatedAt: r.now()}
	if err := r.store.SaveConversationState(cs); err != nil {
		slog.Error("router failed to save conversation state", "userID", userID, "state", state, "error", err)
	}
}

// stateOrNil reads the conversation state; a read failure is logged and
// treated as being at the root menu.
func (r *Router) stateOrNil(userID int64) *models.ConversationState {
	cs, err := r.store.GetConversationState(userID)
	if err != nil {
		slog.Error("router failed to read conversation state", "userID", userID, "error", err)
		return nil
	}
	return cs
}

// progressOrDefault reads the progress record; a read failure is logged and a
// fresh record is used so the user still gets a response.
func (r *Router) progressOrDefault(userID int64) models.Progress {
	p, err := r.store.GetProgress(userID)
	if err != nil {
		slog.Error("router failed to read progress", "userID", userID, "error", err)
		return models.NewProgress(userID)
	}
	return p
}

func (r *Router) handleEmergencyHelp(userID int64) Screen {
	if err := r.store.AddHelpRequest(userID); err != nil {
		slog.Error("router failed to log help request", "userID", userID, "error", err)
	}
	return emergencyScreen()
}

func (r *Router) handleMyImpulses(userID int64) Screen {
	r.clearState(userID)
	triggers, err := r.store.GetUserTriggers(userID)
	if err != nil {
		slog.Error("router failed to read user triggers", "userID", userID, "error", err)
		triggers = nil
	}
	return impulseListScreen(triggers)
}

func (r *Router) handleSelectImpulse(userID int64, cat models.Category) Screen {
	guide, ok := content.GuideFor(cat)
	if !ok {
		return r.fallbackToMenu(userID)
	}
	if _, err := r.store.AddUserTrigger(userID, string(cat)); err != nil {
		slog.Error("router failed to record trigger", "userID", userID, "category", cat, "error", err)
	}
	r.setState(userID, models.StateCategorySelected, string(cat))
	return techniqueListScreen(cat, guide, "")
}

// handleShowTechnique serves a technique of the category stored in the
// conversation state. The category embedded in the token is informational;
// the stored state is the authority.
func (r *Router) handleShowTechnique(userID int64, index int) Screen {
	cs := r.stateOrNil(userID)
	if cs == nil || cs.State != models.StateCategorySelected {
		return r.fallbackToMenu(userID)
	}
	cat := models.Category(cs.Data)
	guide, ok := content.GuideFor(cat)
	if !ok || index < 0 || index >= len(guide.Techniques) {
		return r.fallbackToMenu(userID)
	}
	if err := r.store.AddInterventionOutcome(userID, string(cat), models.OutcomePending); err != nil {
		slog.Error("router failed to append pending outcome", "userID", userID, "error", err)
	}
	r.setState(userID, models.StateTechniqueShown, string(cat))
	return techniqueScreen(guide.Title, guide.Techniques[index])
}

// handleEmergencyTechnique shows a category-less intervention (breathing,
// meditation, mini-game) and opens a pending outcome for it.
func (r *Router) handleEmergencyTechnique(userID int64, technique, repeatToken string, e content.Exercise) Screen {
	if err := r.store.AddInterventionOutcome(userID, technique, models.OutcomePending); err != nil {
		slog.Error("router failed to append pending outcome", "userID", userID, "technique", technique, "error", err)
	}
	r.setState(userID, models.StateTechniqueShown, technique)
	return exerciseScreen(e, repeatToken)
}

func (r *Router) handleCoaching(userID int64) Screen {
	p := r.progressOrDefault(userID)
	question, idx, reset := content.DrawCoachingQuestion(p.UsedCoachingQuestions)
	if reset {
		p.UsedCoachingQuestions = p.UsedCoachingQuestions[:0]
	}
	p.UsedCoachingQuestions = append(p.UsedCoachingQuestions, idx)
	p.CoachingUsed = true
	p.UpdatedAt = r.now()
	if err := r.store.SaveProgress(p); err != nil {
		slog.Error("router failed to save coaching rotation", "userID", userID, "error", err)
	}
	if err := r.store.AddInterventionOutcome(userID, techniqueCoaching, models.OutcomePending); err != nil {
		slog.Error("router failed to append pending outcome", "userID", userID, "error", err)
	}
	r.setState(userID, models.StateTechniqueShown, techniqueCoaching)
	return coachingScreen(question)
}

// handleOutcomeSuccess resolves the pending outcome, updates progress, and
// returns the conversation to the root menu. A success token arriving with no
// pending row (a replay, or storage failure) celebrates without counting.
func (r *Router) handleOutcomeSuccess(ctx context.Context, userID int64) Screen {
	cs := r.stateOrNil(userID)
	if cs == nil || cs.State != models.StateTechniqueShown {
		return r.fallbackToMenu(userID)
	}
	technique := cs.Data

	amended, err := r.store.ResolveLatestIntervention(userID, models.OutcomeSuccess)
	if err != nil {
		slog.Error("router failed to resolve outcome", "userID", userID, "error", err)
	}

	p := r.progressOrDefault(userID)
	if amended {
		p = progress.Apply(p, progress.SuccessEvent{Technique: technique, At: r.now()})
		if err := r.store.SaveProgress(p); err != nil {
			slog.Error("router failed to save progress", "userID", userID, "error", err)
		}
	} else {
		slog.Debug("router skipped progress update, no pending outcome", "userID", userID)
	}

	r.clearState(userID)
	return successScreen(r.quotes.Quote(ctx, p, motivation.MomentSuccess))
}

// handleOutcomeFailed marks the pending outcome failed and re-offers the
// category stored in the conversation state. The category is never defaulted:
// when the stored data is not a category (an emergency technique), the
// emergency screen is re-offered instead.
func (r *Router) handleOutcomeFailed(userID int64) Screen {
	cs := r.stateOrNil(userID)
	if cs == nil || cs.State != models.StateTechniqueShown {
		return r.fallbackToMenu(userID)
	}
	if _, err := r.store.ResolveLatestIntervention(userID, models.OutcomeFailure); err != nil {
		slog.Error("router failed to resolve outcome", "userID", userID, "error", err)
	}

	cat := models.Category(cs.Data)
	if guide, ok := content.GuideFor(cat); ok {
		r.setState(userID, models.StateCategorySelected, string(cat))
		return techniqueListScreen(cat, guide, failurePreface)
	}
	r.clearState(userID)
	return emergencyRetryScreen()
}

func (r *Router) statsScreen(userID int64) Screen {
	p := r.progressOrDefault(userID)
	helps, err := r.store.CountHelpRequests(userID)
	if err != nil {
		slog.Error("router failed to count help requests", "userID", userID, "error", err)
	}
	total, err := r.store.CountInterventions(userID)
	if err != nil {
		slog.Error("router failed to count interventions", "userID", userID, "error", err)
	}
	wins, err := r.store.CountSuccessfulInterventions(userID)
	if err != nil {
		slog.Error("router failed to count successes", "userID", userID, "error", err)
	}
	return renderStatsScreen(p, helps, total, wins)
}

func (r *Router) aboutScreen() Screen {
	users, err := r.store.CountUsers()
	if err != nil {
		slog.Error("router failed to count users", "error", err)
	}
	return renderAboutScreen(users)
}
