package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FormTokenStore single-use tokens guarding the shift form against
// resubmission
type FormTokenStore interface {
	IssueFormToken(ctx context.Context, token string, ttl time.Duration) error
	// ConsumeFormToken marks token as used. found is false for tokens never
	// issued or expired; fresh is true only for the first caller.
	ConsumeFormToken(ctx context.Context, token string) (found, fresh bool, err error)
}

// FormGuard issues and consumes form tokens
type FormGuard struct {
	store FormTokenStore
	ttl   time.Duration
}

// NewFormGuard creates a FormGuard; a nil store keeps tokens in memory
func NewFormGuard(store FormTokenStore, ttl time.Duration) *FormGuard {
	if store == nil {
		store = NewMemoryFormTokenStore(time.Now)
	}
	return &FormGuard{store: store, ttl: ttl}
}

// Issue creates a fresh token
func (g *FormGuard) Issue(ctx context.Context) (string, error) {
	token := uuid.NewString()
	if err := g.store.IssueFormToken(ctx, token, g.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume marks token as used
func (g *FormGuard) Consume(ctx context.Context, token string) (found, fresh bool, err error) {
	return g.store.ConsumeFormToken(ctx, token)
}

// Restore makes token usable again after a failed submission
func (g *FormGuard) Restore(ctx context.Context, token string) error {
	return g.store.IssueFormToken(ctx, token, g.ttl)
}

// ── in-memory store ──

// MemoryFormTokenStore process-local FormTokenStore for single-replica
// deployments without Redis. Used tokens are kept until they expire.
type MemoryFormTokenStore struct {
	mu     sync.Mutex
	tokens map[string]formToken
	now    func() time.Time
}

type formToken struct {
	expires time.Time
	used    bool
}

// NewMemoryFormTokenStore creates an empty store
func NewMemoryFormTokenStore(now func() time.Time) *MemoryFormTokenStore {
	return &MemoryFormTokenStore{tokens: make(map[string]formToken), now: now}
}

func (m *MemoryFormTokenStore) IssueFormToken(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for t, ft := range m.tokens {
		if !ft.expires.After(now) {
			delete(m.tokens, t)
		}
	}
	m.tokens[token] = formToken{expires: now.Add(ttl)}
	return nil
}

func (m *MemoryFormTokenStore) ConsumeFormToken(_ context.Context, token string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ft, ok := m.tokens[token]
	if !ok || !ft.expires.After(m.now()) {
		delete(m.tokens, token)
		return false, false, nil
	}
	if ft.used {
		return true, false, nil
	}
	ft.used = true
	m.tokens[token] = ft
	return true, true, nil
}
