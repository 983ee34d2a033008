package ledger

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/crediax/crediax/internal/model"
)

// ErrNoLedger is returned when nothing has been imported yet.
var ErrNoLedger = errors.New("no ledger loaded")

// Store holds the current ledger. Readers never observe a partially built
// ledger; writers are serialized.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[model.Ledger]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the current ledger, or ErrNoLedger.
func (s *Store) Current() (*model.Ledger, error) {
	l := s.current.Load()
	if l == nil {
		return nil, ErrNoLedger
	}
	return l, nil
}

// Replace publishes l as the current ledger and returns the previous one.
func (s *Store) Replace(l *model.Ledger) *model.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Swap(l)
}
