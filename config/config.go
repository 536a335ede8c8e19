// Package config holds the runtime configuration of the agent. Values
// are taken from a config yml file or environment variables or both.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/AMCarbonaro/snapbot/types"
	"github.com/ilyakaznacheev/cleanenv"
)

// Debug enables verbose logging and page-snapshot dumps.
var Debug = false

// AgentConfig is the part of the configuration the cycle engine
// consumes every tick. The UI/config surface may overwrite any field at
// runtime through the shared state.
type AgentConfig struct {
	Enabled       bool                `yaml:"enabled" env:"SNAPBOT_ENABLED" env-default:"false"`
	SelectedChats types.SelectedChats `yaml:"selected_chats"`
	NewChatReply  string              `yaml:"new_chat_reply" env:"SNAPBOT_NEW_CHAT_REPLY" env-default:"hey"`
	NewSnapAction string              `yaml:"new_snap_action" env:"SNAPBOT_NEW_SNAP_ACTION" env-default:"view"`
	// Rows whose display name matches this pattern are never replied
	// to. The target page inserts an assistant row into the list.
	IgnorePattern  string              `yaml:"ignore_pattern" env:"SNAPBOT_IGNORE_PATTERN" env-default:"(?i)my\\s*ai"`
	PersonaEnabled bool                `yaml:"persona_enabled" env:"SNAPBOT_PERSONA_ENABLED"`
	Persona        types.PersonaConfig `yaml:"persona"`
	// Name of a preset character; shorthand for picking its archetype
	// and aesthetic.
	PersonaCharacter string            `yaml:"persona_character" env:"SNAPBOT_PERSONA_CHARACTER"`
	AccountID        string            `yaml:"account_id" env:"SNAPBOT_ACCOUNT_ID"`
	Selectors        map[string]string `yaml:"selectors"`
}

// BrowserConfig configures the hosted Chrome session.
type BrowserConfig struct {
	URL       string `yaml:"url" env:"SNAPBOT_URL" env-default:"https://www.snapchat.com"`
	UserAgent string `yaml:"user_agent" env:"SNAPBOT_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"`
	Headless  bool   `yaml:"headless" env:"SNAPBOT_HEADLESS"`
	// Session data dir so the login survives restarts.
	ProfileDir string `yaml:"profile_dir" env:"SNAPBOT_PROFILE_DIR"`
}

// GenerationConfig configures the hosted text-generation service.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key" env:"GROQ_API_KEY"`
	BaseURL     string  `yaml:"base_url" env:"SNAPBOT_LLM_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	Model       string  `yaml:"model" env:"SNAPBOT_LLM_MODEL" env-default:"llama-3.1-8b-instant"`
	MaxTokens   int     `yaml:"max_tokens" env:"SNAPBOT_LLM_MAX_TOKENS" env-default:"50"`
	Temperature float64 `yaml:"temperature" env:"SNAPBOT_LLM_TEMPERATURE" env-default:"0.4"`
}

// TimingConfig gathers the pacing constants of the cycle engine. They
// are configuration rather than magic numbers so tests can shrink them.
type TimingConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval" env:"SNAPBOT_TICK_INTERVAL" env-default:"3s"`
	InitialDelay    time.Duration `yaml:"initial_delay" env:"SNAPBOT_INITIAL_DELAY" env-default:"5s"`
	CooldownWindow  time.Duration `yaml:"cooldown_window" env:"SNAPBOT_COOLDOWN_WINDOW" env-default:"5m"`
	SendRetries     int           `yaml:"send_retries" env:"SNAPBOT_SEND_RETRIES" env-default:"4"`
	SendFirstDelay  time.Duration `yaml:"send_first_delay" env:"SNAPBOT_SEND_FIRST_DELAY" env-default:"1s"`
	SendRetryDelay  time.Duration `yaml:"send_retry_delay" env:"SNAPBOT_SEND_RETRY_DELAY" env-default:"400ms"`
	PauseMin        time.Duration `yaml:"pause_min" env:"SNAPBOT_PAUSE_MIN" env-default:"1s"`
	PauseMax        time.Duration `yaml:"pause_max" env:"SNAPBOT_PAUSE_MAX" env-default:"1800ms"`
	PageCallTimeout time.Duration `yaml:"page_call_timeout" env:"SNAPBOT_PAGE_CALL_TIMEOUT" env-default:"5s"`
	GenerateTimeout time.Duration `yaml:"generate_timeout" env:"SNAPBOT_GENERATE_TIMEOUT" env-default:"10s"`
	ReloadInterval  time.Duration `yaml:"reload_interval" env:"SNAPBOT_RELOAD_INTERVAL" env-default:"90m"`
}

// ScanConfig bounds the conversation list scan. Step pauses are drawn
// from [StepPauseMin, StepPauseMax] so scrolling is not obviously
// mechanical.
type ScanConfig struct {
	TargetCount    int           `yaml:"target_count" env:"SNAPBOT_SCAN_TARGET" env-default:"100"`
	ScrollStep     float64       `yaml:"scroll_step" env:"SNAPBOT_SCAN_STEP" env-default:"400"`
	StaleThreshold int           `yaml:"stale_threshold" env:"SNAPBOT_SCAN_STALE" env-default:"6"`
	StepPauseMin   time.Duration `yaml:"step_pause_min" env:"SNAPBOT_SCAN_PAUSE_MIN" env-default:"1s"`
	StepPauseMax   time.Duration `yaml:"step_pause_max" env:"SNAPBOT_SCAN_PAUSE_MAX" env-default:"1800ms"`
}

// Config defines the overall structure of the agent configuration.
type Config struct {
	Agent      AgentConfig      `yaml:"agent"`
	Browser    BrowserConfig    `yaml:"browser"`
	Generation GenerationConfig `yaml:"generation"`
	Timing     TimingConfig     `yaml:"timing"`
	Scan       ScanConfig       `yaml:"scan"`
}

// NewConfig reads the configuration from the given file, overlaying
// environment variables. An empty path reads from the environment only.
func NewConfig(configPath string) (*Config, error) {
	var config Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, err
		}
		return &config, nil
	}
	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GetLogLevel maps the debug flag onto a slog level.
func GetLogLevel() slog.Level {
	if Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// DefaultPersonaStorePath is where the per-account persona selection is
// persisted.
func DefaultPersonaStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return dir + "/snapbot/personas.json"
}
