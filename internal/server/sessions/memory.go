package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired entries are dropped lazily
// on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty store. now may be nil for time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), now: now}
}

func (s *MemoryStore) Create(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = memoryEntry{session: *sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := e.session
	return &cp, nil
}

func (s *MemoryStore) SetShift(ctx context.Context, id string, shift models.Shift) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	e.session.Shift = shift
	s.entries[id] = e
	cp := e.session
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// live must be called with mu held.
func (s *MemoryStore) live(id string) (memoryEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return e, true
}
