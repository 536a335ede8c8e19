// Package types defines shared types used across the application.
package types

import "time"

const (
	SelectionModeAll   = "all"
	SelectionModeRange = "range"
)

// SelectedChats restricts which conversations of the scanned roster the
// agent replies to. Mode is either "all" or "range"; range bounds are
// 1-based and inclusive.
type SelectedChats struct {
	Mode string `yaml:"mode,omitempty" json:"mode"`
	From int    `yaml:"from,omitempty" json:"from,omitempty"`
	To   int    `yaml:"to,omitempty" json:"to,omitempty"`
}

// Slice returns the sub-slice of roster covered by the selection, in
// roster order. Out-of-range bounds yield an empty slice, not an error.
func (s SelectedChats) Slice(roster []string) []string {
	if s.Mode != SelectionModeRange {
		return roster
	}
	from, to := s.From, s.To
	if from < 1 {
		from = 1
	}
	if to > len(roster) {
		to = len(roster)
	}
	if from > to || from > len(roster) {
		return []string{}
	}
	return roster[from-1 : to]
}

// LastStatus is the snapshot the UI reads. Overwritten every cycle
// step, no history.
type LastStatus struct {
	Connected bool   `json:"connected"`
	LastCycle string `json:"lastCycle"`
	Error     string `json:"error"`
}

// PersonaConfig references one archetype and one aesthetic from the
// static catalogs.
type PersonaConfig struct {
	ArchetypeID string `yaml:"archetype" json:"archetypeId"`
	AestheticID string `yaml:"aesthetic" json:"aestheticId"`
}

// ChatRow is one visible entry of the virtualized conversation list.
type ChatRow struct {
	Name   string  `json:"name"`
	Top    float64 `json:"top"`
	Unread bool    `json:"unread"`
}

// ScrollMetrics describes the scroll state of the virtualized list.
type ScrollMetrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ChatMessage is one turn of a conversation, tagged with a best-effort
// sender attribution.
type ChatMessage struct {
	FromMe bool   `json:"fromMe"`
	Text   string `json:"text"`
}

// MessageSnapshot is what the last-message extractor returns for the
// currently open conversation.
type MessageSnapshot struct {
	LastText   string        `json:"lastText"`
	LastFromMe bool          `json:"lastFromMe"`
	IsNewChat  bool          `json:"isNewChat"`
	IsNewSnap  bool          `json:"isNewSnap"`
	Recent     []ChatMessage `json:"recentMessages"`
}

// CycleStats accumulates per-conversation outcomes for the end-of-run
// summary.
type CycleStats struct {
	Name      string
	Replies   int
	Skips     int
	Errors    int
	LastReply time.Time
}
