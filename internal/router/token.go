// Package router implements the callback-token protocol and the per-user
// conversation state machine. It is the sole writer of conversation state and
// progress records; the transport only carries tokens in and screens out.
package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// Wire tokens embedded in rendered buttons. Exact tokens are matched before
// prefixed ones, and the prefix set must stay pairwise prefix-free.
const (
	TokenMainMenu          = "back_to_menu"
	TokenEmergencyHelp     = "emergency_help"
	TokenMyImpulses        = "my_impulses"
	TokenOutcomeSuccess    = "outcome_success"
	TokenOutcomeFailed     = "outcome_failed"
	TokenBreathing         = "intervention_breathing"
	TokenMeditation        = "intervention_meditation"
	TokenCoaching          = "intervention_coaching"
	TokenMiniGame          = "intervention_game"
	TokenCoachingSession   = "coaching_session"
	TokenDailyMotivation   = "daily_motivation"
	TokenEveningReflection = "evening_reflection"
	TokenShowStats         = "show_stats"
	TokenContactCoach      = "contact_coach"
	TokenJustTalk          = "just_talk"
	TokenFAQ               = "faq"
	TokenAbout             = "about"

	// PrefixImpulse tokens carry an impulse category as the argument.
	PrefixImpulse = "impulse_"
	// PrefixTechnique tokens carry "<index>_<category>". The index comes
	// first so the single numeric field sits at a fixed position and the
	// category tail may contain underscores.
	PrefixTechnique = "technique_"
)

// ErrUnknownToken is returned by ParseToken for tokens that match no
// registered verb or prefix. Callers fall back to the main menu.
var ErrUnknownToken = errors.New("unknown callback token")

// ErrAmbiguousPrefix is returned by NewRegistry when the registered token set
// contains a prefix relationship that would make parsing ambiguous.
var ErrAmbiguousPrefix = errors.New("ambiguous token prefix registration")

// ActionType enumerates every routable action.
type ActionType string

const (
	ActionMainMenu          ActionType = "main_menu"
	ActionEmergencyHelp     ActionType = "emergency_help"
	ActionMyImpulses        ActionType = "my_impulses"
	ActionSelectImpulse     ActionType = "select_impulse"
	ActionShowTechnique     ActionType = "show_technique"
	ActionOutcomeSuccess    ActionType = "outcome_success"
	ActionOutcomeFailed     ActionType = "outcome_failed"
	ActionBreathing         ActionType = "breathing"
	ActionMeditation        ActionType = "meditation"
	ActionCoaching          ActionType = "coaching"
	ActionMiniGame          ActionType = "mini_game"
	ActionDailyMotivation   ActionType = "daily_motivation"
	ActionEveningReflection ActionType = "evening_reflection"
	ActionShowStats         ActionType = "show_stats"
	ActionContactCoach      ActionType = "contact_coach"
	ActionJustTalk          ActionType = "just_talk"
	ActionFAQ               ActionType = "faq"
	ActionAbout             ActionType = "about"
)

// Action is the typed form of a wire token: the tag plus any arguments that
// were serialized into the token string.
type Action struct {
	Type           ActionType
	Category       models.Category
	TechniqueIndex int
}

type prefixRule struct {
	prefix string
	parse  func(arg string) (Action, error)
}

// Registry maps wire tokens to typed actions. Exact verbs are resolved first;
// the remainder after a registered prefix is treated as one opaque argument,
// never split positionally.
type Registry struct {
	exact    map[string]ActionType
	prefixes []prefixRule
}

// NewRegistry builds the default token registry. It fails when any two
// registered prefixes are in a prefix relationship, or when an exact verb
// starts with a registered prefix; both would make token parsing ambiguous,
// and are configuration errors caught at startup.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		exact: map[string]ActionType{
			TokenMainMenu:          ActionMainMenu,
			TokenEmergencyHelp:     ActionEmergencyHelp,
			TokenMyImpulses:        ActionMyImpulses,
			TokenOutcomeSuccess:    ActionOutcomeSuccess,
			TokenOutcomeFailed:     ActionOutcomeFailed,
			TokenBreathing:         ActionBreathing,
			TokenMeditation:        ActionMeditation,
			TokenCoaching:          ActionCoaching,
			TokenMiniGame:          ActionMiniGame,
			TokenCoachingSession:   ActionCoaching,
			TokenDailyMotivation:   ActionDailyMotivation,
			TokenEveningReflection: ActionEveningReflection,
			TokenShowStats:         ActionShowStats,
			TokenContactCoach:      ActionContactCoach,
			TokenJustTalk:          ActionJustTalk,
			TokenFAQ:               ActionFAQ,
			TokenAbout:             ActionAbout,
		},
		prefixes: []prefixRule{
			{prefix: PrefixTechnique, parse: parseTechniqueArg},
			{prefix: PrefixImpulse, parse: parseImpulseArg},
		},
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) validate() error {
	for i, a := range r.prefixes {
		for j, b := range r.prefixes {
			if i == j {
				continue
			}
			if strings.HasPrefix(a.prefix, b.prefix) {
				return fmt.Errorf("%w: %q and %q", ErrAmbiguousPrefix, a.prefix, b.prefix)
			}
		}
		for verb := range r.exact {
			if strings.HasPrefix(verb, a.prefix) {
				return fmt.Errorf("%w: exact token %q shadowed by prefix %q", ErrAmbiguousPrefix, verb, a.prefix)
			}
		}
	}
	return nil
}

// ParseToken resolves a wire token into a typed Action. Exact verbs win over
// prefixed forms. The argument after a prefix is the full remainder of the
// token, so category names containing the separator survive intact.
func (r *Registry) ParseToken(token string) (Action, error) {
	if token == "" {
		return Action{}, models.ErrEmptyToken
	}
	if t, ok := r.exact[token]; ok {
		return Action{Type: t}, nil
	}
	// Longest registered prefix wins.
	var best *prefixRule
	for i := range r.prefixes {
		p := &r.prefixes[i]
		if !strings.HasPrefix(token, p.prefix) {
			continue
		}
		if best == nil || len(p.prefix) > len(best.prefix) {
			best = p
		}
	}
	if best == nil {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	arg := token[len(best.prefix):]
	if arg == "" {
		return Action{}, fmt.Errorf("%w: %q has empty argument", ErrUnknownToken, token)
	}
	return best.parse(arg)
}

func parseImpulseArg(arg string) (Action, error) {
	c := models.Category(arg)
	if !models.IsValidCategory(c) {
		return Action{}, fmt.Errorf("%w: %q", models.ErrUnknownCategory, arg)
	}
	return Action{Type: ActionSelectImpulse, Category: c}, nil
}

func parseTechniqueArg(arg string) (Action, error) {
	idx, rest, ok := strings.Cut(arg, "_")
	if !ok {
		return Action{}, fmt.Errorf("%w: technique argument %q", ErrUnknownToken, arg)
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return Action{}, fmt.Errorf("%w: technique index %q", ErrUnknownToken, idx)
	}
	c := models.Category(rest)
	if !models.IsValidCategory(c) {
		return Action{}, fmt.Errorf("%w: %q", models.ErrUnknownCategory, rest)
	}
	return Action{Type: ActionShowTechnique, Category: c, TechniqueIndex: n}, nil
}

// ImpulseToken renders the wire token selecting an impulse category.
func ImpulseToken(c models.Category) string {
	return PrefixImpulse + string(c)
}

// TechniqueToken renders the wire token showing technique i of a category.
func TechniqueToken(i int, c models.Category) string {
	return PrefixTechnique + strconv.Itoa(i) + "_" + string(c)
}
