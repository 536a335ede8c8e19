package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AMCarbonaro/snapbot/types"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Agent.Enabled {
		t.Fatal("the agent must be disabled unless asked for")
	}
	if cfg.Agent.NewChatReply != "hey" {
		t.Fatalf("unexpected default greeting: %q", cfg.Agent.NewChatReply)
	}
	if cfg.Timing.TickInterval != 3*time.Second {
		t.Fatalf("unexpected default tick: %v", cfg.Timing.TickInterval)
	}
	if cfg.Timing.CooldownWindow != 5*time.Minute {
		t.Fatalf("unexpected default cooldown: %v", cfg.Timing.CooldownWindow)
	}
	if cfg.Timing.ReloadInterval != 90*time.Minute {
		t.Fatalf("unexpected default reload interval: %v", cfg.Timing.ReloadInterval)
	}
	if cfg.Generation.Model != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected default model: %q", cfg.Generation.Model)
	}
	if cfg.Scan.TargetCount != 100 {
		t.Fatalf("unexpected default scan target: %d", cfg.Scan.TargetCount)
	}
	if cfg.Scan.StepPauseMin != time.Second || cfg.Scan.StepPauseMax != 1800*time.Millisecond {
		t.Fatalf("unexpected default scan pacing: %v-%v", cfg.Scan.StepPauseMin, cfg.Scan.StepPauseMax)
	}
}

func TestNewConfigFromFile(t *testing.T) {
	yml := `
agent:
  enabled: true
  new_chat_reply: "yo"
  selected_chats:
    mode: range
    from: 1
    to: 20
  selectors:
    chatList: "div.custom-feed"
timing:
  tick_interval: 10s
`
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Agent.Enabled {
		t.Fatal("expected the agent enabled")
	}
	if cfg.Agent.NewChatReply != "yo" {
		t.Fatalf("unexpected greeting: %q", cfg.Agent.NewChatReply)
	}
	expected := types.SelectedChats{Mode: types.SelectionModeRange, From: 1, To: 20}
	if cfg.Agent.SelectedChats != expected {
		t.Fatalf("unexpected selection: %+v", cfg.Agent.SelectedChats)
	}
	if cfg.Agent.Selectors["chatList"] != "div.custom-feed" {
		t.Fatalf("unexpected selector overrides: %v", cfg.Agent.Selectors)
	}
	if cfg.Timing.TickInterval != 10*time.Second {
		t.Fatalf("unexpected tick: %v", cfg.Timing.TickInterval)
	}
	// untouched sections keep their defaults
	if cfg.Timing.SendRetries != 4 {
		t.Fatalf("unexpected send retries: %d", cfg.Timing.SendRetries)
	}
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("SNAPBOT_NEW_CHAT_REPLY", "sup")
	t.Setenv("SNAPBOT_ENABLED", "true")
	cfg, err := NewConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Agent.NewChatReply != "sup" || !cfg.Agent.Enabled {
		t.Fatalf("environment must win: %+v", cfg.Agent)
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	if _, err := NewConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
