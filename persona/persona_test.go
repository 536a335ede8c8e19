package persona

import (
	"strings"
	"testing"

	"github.com/AMCarbonaro/snapbot/types"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Archetypes {
		if seen[a.ID] {
			t.Errorf("duplicate archetype id %q", a.ID)
		}
		seen[a.ID] = true
	}
	seen = map[string]bool{}
	for _, a := range Aesthetics {
		if seen[a.ID] {
			t.Errorf("duplicate aesthetic id %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestFindArchetype(t *testing.T) {
	if a := FindArchetype("hot_tomboy"); a == nil || a.Name != "The Hot Tomboy" {
		t.Fatalf("unexpected lookup result: %+v", a)
	}
	if FindArchetype("does_not_exist") != nil {
		t.Fatal("unknown id must return nil")
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(types.PersonaConfig{ArchetypeID: "glam_queen", AestheticID: "vibrant_bold"})
	if !strings.HasPrefix(got, "You are Glam Queen, a glam queen with a Vibrant & Bold vibe.") {
		t.Fatalf("unexpected prompt opening: %q", got)
	}
	for _, want := range []string{"confident", "vibrant", "slay", "Output ONLY the exact message"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptPrefersPresetCharacter(t *testing.T) {
	// glam_queen + dark_luxurious is Sasha's combination
	got := BuildPrompt(types.PersonaConfig{ArchetypeID: "glam_queen", AestheticID: "dark_luxurious"})
	if !strings.HasPrefix(got, "You are Sasha") {
		t.Fatalf("expected the hand-tuned preset prompt, got %q", got)
	}
	if !strings.Contains(got, "Output ONLY the exact message") {
		t.Fatal("the output constraint applies to presets too")
	}
}

func TestFindCharacter(t *testing.T) {
	ch := FindCharacter("luna")
	if ch == nil || ch.Config.ArchetypeID != "mysterious_muse" || ch.Config.AestheticID != "dark_luxurious" {
		t.Fatalf("unexpected lookup result: %+v", ch)
	}
	if FindCharacter("nobody") != nil {
		t.Fatal("unknown character must return nil")
	}
}

func TestBuildPromptUnknownSelection(t *testing.T) {
	tests := []types.PersonaConfig{
		{},
		{ArchetypeID: "glam_queen"},
		{AestheticID: "warm_soft"},
		{ArchetypeID: "nope", AestheticID: "warm_soft"},
	}
	for _, cfg := range tests {
		if got := BuildPrompt(cfg); got != "" {
			t.Errorf("expected empty prompt for %+v, got %q", cfg, got)
		}
	}
}
