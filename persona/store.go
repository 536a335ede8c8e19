package persona

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/AMCarbonaro/snapbot/types"
)

// Stored is the persisted persona selection of one account.
type Stored struct {
	Config  *types.PersonaConfig `json:"config"`
	Enabled bool                 `json:"enabled"`
}

// Store persists per-account persona selections in a single flat json
// file.
type Store struct {
	path string

	mu    sync.Mutex
	cache map[string]json.RawMessage
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() map[string]json.RawMessage {
	if s.cache != nil {
		return s.cache
	}
	s.cache = map[string]json.RawMessage{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return s.cache
	}
	// a corrupt store is treated as empty
	_ = json.Unmarshal(raw, &s.cache)
	return s.cache
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// migrateEntry tolerates the legacy store shape where the entry was the
// bare persona config with no enabled flag.
func migrateEntry(raw json.RawMessage) Stored {
	var entry Stored
	if err := json.Unmarshal(raw, &entry); err == nil && (entry.Config != nil || entry.Enabled) {
		return entry
	}
	var legacy types.PersonaConfig
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.ArchetypeID != "" {
		return Stored{Config: &legacy, Enabled: true}
	}
	return Stored{}
}

// Get returns the stored selection for an account, or nil if none.
func (s *Store) Get(accountID string) *Stored {
	if accountID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.load()[accountID]
	if !ok {
		return nil
	}
	entry := migrateEntry(raw)
	return &entry
}

// Set overwrites the stored selection for an account and persists the
// store.
func (s *Store) Set(accountID string, entry Stored) error {
	if accountID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.load()
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data[accountID] = raw
	return s.save()
}
