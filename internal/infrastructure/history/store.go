package history

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Store is the bounded, deduplicated command history. Entries are kept in
// storage order; reads return copies sorted by recency.
type Store struct {
	persister ports.HistoryPersister
	maxItems  int
	logger    ports.Logger
	now       func() time.Time
	newID     func() string

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore loads the persisted history. A load failure is logged and leaves
// the store empty. A loaded history above maxItems is trimmed in memory and
// written back by the next mutation.
func NewStore(persister ports.HistoryPersister, maxItems int, logger ports.Logger, opts ...Option) *Store {
	if maxItems <= 0 {
		maxItems = domain.DefaultMaxHistory
	}
	s := &Store{
		persister: persister,
		maxItems:  maxItems,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	entries, err := persister.Load()
	if err != nil {
		s.warn("history load failed, starting empty", err)
		entries = nil
	}
	s.entries = evictToCapacity(entries, s.maxItems)
	return s
}

// Add records a command. An existing entry with the same command is reused:
// its use count grows and an alias is set only if it had none.
func (s *Store) Add(prompt, command, alias string) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := s.snapshot()

	if idx := indexByCommand(next, command); idx >= 0 {
		entry := &next[idx]
		entry.UseCount++
		entry.LastUsed = now
		if alias != "" && entry.Alias == "" {
			entry.Alias = alias
		}
		updated := *entry
		if err := s.commit(next); err != nil {
			return domain.HistoryEntry{}, err
		}
		return updated, nil
	}

	entry := domain.HistoryEntry{
		ID:        s.newID(),
		Prompt:    prompt,
		Command:   command,
		Alias:     alias,
		UseCount:  1,
		LastUsed:  now,
		CreatedAt: now,
	}
	next = evictToCapacity(append(next, entry), s.maxItems)
	if err := s.commit(next); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// All returns every entry, most recently used first.
func (s *Store) All() []domain.HistoryEntry {
	s.mu.Lock()
	out := s.snapshot()
	s.mu.Unlock()

	sortByRecency(out)
	return out
}

// Search matches query case-insensitively against prompt, command and alias.
func (s *Store) Search(query string) []domain.HistoryEntry {
	q := strings.ToLower(query)

	s.mu.Lock()
	var out []domain.HistoryEntry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Prompt), q) ||
			strings.Contains(strings.ToLower(e.Command), q) ||
			(e.HasAlias() && strings.Contains(strings.ToLower(e.Alias), q)) {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	sortByRecency(out)
	return out
}

// ByAlias returns the first entry in storage order carrying alias.
func (s *Store) ByAlias(alias string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.HasAlias() && e.Alias == alias {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

// ByID looks an entry up by identifier.
func (s *Store) ByID(id string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Delete removes the entry with id. A missing id is not an error.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		if err := s.commit(removeAt(s.snapshot(), i)); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit([]domain.HistoryEntry{})
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// commit persists next and only then makes it the live state.
func (s *Store) commit(next []domain.HistoryEntry) error {
	if err := s.persister.Save(next); err != nil {
		s.warn("history save failed", err)
		if domain.KindOf(err) != domain.KindPersistence {
			err = domain.NewPersistenceError("save history", "failed to save history", err)
		}
		return err
	}
	s.entries = next
	return nil
}

func (s *Store) snapshot() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}

func indexByCommand(entries []domain.HistoryEntry, command string) int {
	for i, e := range entries {
		if e.Command == command {
			return i
		}
	}
	return -1
}

// leastUsedIndex returns the entry with the smallest (UseCount, LastUsed).
// Ties resolve to the earliest position.
func leastUsedIndex(entries []domain.HistoryEntry) int {
	least := 0
	for i := 1; i < len(entries); i++ {
		a, b := entries[i], entries[least]
		if a.UseCount < b.UseCount || (a.UseCount == b.UseCount && a.LastUsed.Before(b.LastUsed)) {
			least = i
		}
	}
	return least
}

// evictToCapacity drops least-used entries until at most maxItems remain.
func evictToCapacity(entries []domain.HistoryEntry, maxItems int) []domain.HistoryEntry {
	for len(entries) > maxItems {
		entries = removeAt(entries, leastUsedIndex(entries))
	}
	return entries
}

func removeAt(entries []domain.HistoryEntry, i int) []domain.HistoryEntry {
	return append(entries[:i], entries[i+1:]...)
}

func sortByRecency(entries []domain.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastUsed.After(entries[j].LastUsed)
	})
}

var _ ports.HistoryRepository = (*Store)(nil)
