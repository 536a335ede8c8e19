package agent

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AMCarbonaro/snapbot/config"
	"github.com/AMCarbonaro/snapbot/selectors"
	"github.com/AMCarbonaro/snapbot/types"
)

// State is the process-wide mutable record shared between the cycle
// engine and the configuration surface. Every read the engine performs
// is "latest value, may have changed since last tick"; the mutex only
// guards individual field access, there is no transactional consistency
// across reads and none is needed because only one cycle runs at a
// time.
type State struct {
	mu sync.Mutex

	enabled        bool
	selected       types.SelectedChats
	newChatReply   string
	newSnapAction  string
	ignoreRe       *regexp.Regexp
	personaEnabled bool
	persona        types.PersonaConfig
	sels           *selectors.Set

	status types.LastStatus

	// roster is append-only: names scroll out of view but are never
	// forgotten. Display names are the identity; duplicates collide,
	// a known limitation inherited from the target page.
	roster      []string
	rosterSeen  map[string]bool
	rosterValid bool

	cooldown map[string]time.Time
	stats    map[string]*types.CycleStats

	now func() time.Time
}

func NewState(cfg *config.AgentConfig) *State {
	s := &State{
		enabled:        cfg.Enabled,
		selected:       cfg.SelectedChats,
		newChatReply:   cfg.NewChatReply,
		newSnapAction:  cfg.NewSnapAction,
		personaEnabled: cfg.PersonaEnabled,
		persona:        cfg.Persona,
		sels:           selectors.NewSet(),
		rosterSeen:     map[string]bool{},
		cooldown:       map[string]time.Time{},
		stats:          map[string]*types.CycleStats{},
		now:            time.Now,
	}
	if s.selected.Mode == "" {
		s.selected = types.SelectedChats{Mode: types.SelectionModeRange, From: 1, To: 100}
	}
	if cfg.IgnorePattern != "" {
		// an invalid pattern disables the ignore filter rather than
		// failing startup
		s.ignoreRe, _ = regexp.Compile(cfg.IgnorePattern)
	}
	if len(cfg.Selectors) > 0 {
		s.sels.Merge(cfg.Selectors)
	}
	return s
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *State) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *State) SetEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = v
}

func (s *State) SelectedChats() types.SelectedChats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectedChats updates the selection policy. Changing the bounds
// invalidates the cached roster so the next cycle rescans.
func (s *State) SetSelectedChats(sel types.SelectedChats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel != s.selected {
		s.rosterValid = false
	}
	s.selected = sel
}

// NewChatReply returns the canned greeting, defaulting to "hey" when
// the configured value was cleared. The default lives here rather than
// in the setter so external writers may store any value, including "".
func (s *State) NewChatReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.newChatReply == "" {
		return "hey"
	}
	return s.newChatReply
}

func (s *State) SetNewChatReply(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newChatReply = v
}

func (s *State) NewSnapAction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSnapAction
}

func (s *State) Persona() (bool, types.PersonaConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personaEnabled, s.persona
}

func (s *State) SetPersona(enabled bool, cfg types.PersonaConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personaEnabled = enabled
	s.persona = cfg
}

// Ignored reports whether a roster name must never be replied to (the
// page's own assistant row).
func (s *State) Ignored(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ignoreRe != nil && s.ignoreRe.MatchString(name)
}

// Selectors returns a stable copy of the current selector set for one
// cycle's worth of script generation.
func (s *State) Selectors() *selectors.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sels.Clone()
}

// MergeSelectors overlays a partial selector update.
func (s *State) MergeSelectors(update map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sels.Merge(update)
}

func (s *State) SelectorsSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sels.Snapshot()
}

// MergeRoster appends never-seen names to the roster, preserving the
// existing order. Returns the number of new entries.
func (s *State) MergeRoster(names []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		k := key(n)
		if s.rosterSeen[k] {
			continue
		}
		s.rosterSeen[k] = true
		s.roster = append(s.roster, n)
		added++
	}
	return added
}

func (s *State) Roster() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.roster))
	copy(out, s.roster)
	return out
}

func (s *State) RosterLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roster)
}

func (s *State) RosterValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rosterValid
}

func (s *State) MarkRosterValid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosterValid = true
}

func (s *State) InvalidateRoster() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosterValid = false
}

// OnCooldown reports whether the conversation was replied to within the
// given window.
func (s *State) OnCooldown(name string, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp, ok := s.cooldown[key(name)]
	return ok && s.now().Sub(stamp) < window
}

func (s *State) StampCooldown(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldown[key(name)] = s.now()
}

// PruneCooldowns drops entries older than the window; without this the
// table grows for the process lifetime.
func (s *State) PruneCooldowns(window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-window)
	for k, stamp := range s.cooldown {
		if stamp.Before(cutoff) {
			delete(s.cooldown, k)
		}
	}
}

func (s *State) Status() types.LastStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *State) SetConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Connected = v
}

func (s *State) SetCycleText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastCycle = text
}

func (s *State) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Error = msg
}

func (s *State) statsFor(name string) *types.CycleStats {
	st, ok := s.stats[key(name)]
	if !ok {
		st = &types.CycleStats{Name: name}
		s.stats[key(name)] = st
	}
	return st
}

func (s *State) RecordReply(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statsFor(name)
	st.Replies++
	st.LastReply = s.now()
}

func (s *State) RecordSkip(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsFor(name).Skips++
}

func (s *State) RecordError(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsFor(name).Errors++
}

// Stats returns per-conversation outcome counts, sorted by name.
func (s *State) Stats() []types.CycleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.CycleStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
