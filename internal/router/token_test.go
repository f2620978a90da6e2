package router

import (
	"errors"
	"strings"
	"testing"

	"github.com/spotcoach/cravebreaker/internal/models"
)

func TestNewRegistry_Valid(t *testing.T) {
	if _, err := NewRegistry(); err != nil {
		t.Fatalf("default registry must be unambiguous, got %v", err)
	}
}

func TestRegistry_PrefixAmbiguityFailsFast(t *testing.T) {
	r := &Registry{
		exact: map[string]ActionType{},
		prefixes: []prefixRule{
			{prefix: "impulse_", parse: parseImpulseArg},
			{prefix: "impulse_super_", parse: parseImpulseArg},
		},
	}
	if err := r.validate(); !errors.Is(err, ErrAmbiguousPrefix) {
		t.Fatalf("expected ErrAmbiguousPrefix for nested prefixes, got %v", err)
	}
}

func TestRegistry_ExactShadowedByPrefixFailsFast(t *testing.T) {
	r := &Registry{
		exact: map[string]ActionType{"impulse_reset": ActionMainMenu},
		prefixes: []prefixRule{
			{prefix: "impulse_", parse: parseImpulseArg},
		},
	}
	if err := r.validate(); !errors.Is(err, ErrAmbiguousPrefix) {
		t.Fatalf("expected ErrAmbiguousPrefix for shadowed exact token, got %v", err)
	}
}

func TestParseToken_ExactVerbs(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		token string
		want  ActionType
	}{
		{TokenMainMenu, ActionMainMenu},
		{TokenEmergencyHelp, ActionEmergencyHelp},
		{TokenOutcomeSuccess, ActionOutcomeSuccess},
		{TokenOutcomeFailed, ActionOutcomeFailed},
		{TokenCoaching, ActionCoaching},
		{TokenCoachingSession, ActionCoaching},
		{TokenShowStats, ActionShowStats},
		{TokenAbout, ActionAbout},
	}
	for _, tt := range tests {
		act, err := reg.ParseToken(tt.token)
		if err != nil {
			t.Errorf("ParseToken(%q) error: %v", tt.token, err)
			continue
		}
		if act.Type != tt.want {
			t.Errorf("ParseToken(%q) = %v, want %v", tt.token, act.Type, tt.want)
		}
	}
}

// The argument after a prefix is the full remainder, so a category whose name
// contains the separator must survive parsing intact.
func TestParseToken_CategoryWithSeparator(t *testing.T) {
	reg, _ := NewRegistry()

	act, err := reg.ParseToken(ImpulseToken(models.CategoryJunkFood))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if act.Type != ActionSelectImpulse || act.Category != models.CategoryJunkFood {
		t.Fatalf("got %+v, want select_impulse/junkfood", act)
	}

	act, err = reg.ParseToken(TechniqueToken(2, models.CategoryShopping))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if act.Type != ActionShowTechnique || act.TechniqueIndex != 2 || act.Category != models.CategoryShopping {
		t.Fatalf("got %+v, want show_technique/2/shopping", act)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	reg, _ := NewRegistry()
	bad := []string{
		"",
		"impulse_",
		"impulse_gambling",
		"technique_x_smoking",
		"technique_-1_smoking",
		"technique_2",
		"technique_2_gambling",
		"totally_unknown",
	}
	for _, token := range bad {
		if _, err := reg.ParseToken(token); err == nil {
			t.Errorf("ParseToken(%q) = nil error, want failure", token)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	reg, _ := NewRegistry()
	for _, c := range models.Categories {
		for i := 0; i < 3; i++ {
			token := TechniqueToken(i, c)
			if !strings.HasPrefix(token, PrefixTechnique) {
				t.Fatalf("bad technique token %q", token)
			}
			act, err := reg.ParseToken(token)
			if err != nil {
				t.Fatalf("ParseToken(%q): %v", token, err)
			}
			if act.Category != c || act.TechniqueIndex != i {
				t.Fatalf("round trip lost data: %q -> %+v", token, act)
			}
		}
	}
}
