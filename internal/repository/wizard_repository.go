package repository

import (
	"context"
	"sync"
	"time"

	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
)

// WizardRepository stores one wizard state per survey session. Find returns
// util.ErrSessionNotFound for unknown or expired sessions.
type WizardRepository interface {
	Find(ctx context.Context, sessionID string) (wizard.State, error)
	Save(ctx context.Context, state wizard.State) error
}

type memoryEntry struct {
	state     wizard.State
	expiresAt time.Time
}

// MemoryWizardRepository keeps states in process. A zero TTL never expires.
type MemoryWizardRepository struct {
	TTL time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryWizardRepository(ttl time.Duration) *MemoryWizardRepository {
	return &MemoryWizardRepository{
		TTL:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (r *MemoryWizardRepository) Find(ctx context.Context, sessionID string) (wizard.State, error) {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()

	if !ok || r.expired(e) {
		return wizard.State{}, util.ErrSessionNotFound
	}
	return e.state, nil
}

func (r *MemoryWizardRepository) Save(ctx context.Context, state wizard.State) error {
	e := memoryEntry{state: state}
	if r.TTL > 0 {
		e.expiresAt = r.now().Add(r.TTL)
	}

	r.mu.Lock()
	r.entries[state.SessionID] = e
	r.mu.Unlock()
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (r *MemoryWizardRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Len counts stored entries, expired ones included until the next Sweep.
func (r *MemoryWizardRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *MemoryWizardRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && r.now().After(e.expiresAt)
}
