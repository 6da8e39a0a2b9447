package interview

import (
	"context"
	"sync"
)

// CandidateRegistry enforces one open session per candidate.
type CandidateRegistry interface {
	// Acquire claims the candidate for sessionID. If another session holds
	// the claim, it returns that session's ID and false. Re-acquiring with
	// the holder's own ID succeeds.
	Acquire(ctx context.Context, candidateID, sessionID string) (holder string, ok bool, err error)

	// Release drops the claim if sessionID still holds it.
	Release(ctx context.Context, candidateID, sessionID string) error
}

// MemoryRegistry is a process-local CandidateRegistry.
type MemoryRegistry struct {
	mu      sync.Mutex
	holders map[string]string
}

var _ CandidateRegistry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{holders: make(map[string]string)}
}

func (r *MemoryRegistry) Acquire(_ context.Context, candidateID, sessionID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.holders[candidateID]; ok && h != sessionID {
		return h, false, nil
	}
	r.holders[candidateID] = sessionID
	return sessionID, true, nil
}

func (r *MemoryRegistry) Release(_ context.Context, candidateID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.holders[candidateID] == sessionID {
		delete(r.holders, candidateID)
	}
	return nil
}
