package lock

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	"github.com/SscSPs/school_fees_ledger/internal/platform/clock"
)

// LocalLocker is a process-wide Locker for single-replica deployments.
type LocalLocker struct {
	mu     sync.Mutex
	clock  clock.Clock
	held   map[string]time.Time // key -> expiry
	tokens map[string]uint64
	next   uint64
}

var _ gateways.Locker = (*LocalLocker)(nil)

func NewLocalLocker(c clock.Clock) *LocalLocker {
	if c == nil {
		c = clock.New()
	}
	return &LocalLocker{
		clock:  c,
		held:   make(map[string]time.Time),
		tokens: make(map[string]uint64),
	}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return nil, false, nil
	}
	l.next++
	token := l.next
	l.held[key] = now.Add(ttl)
	l.tokens[key] = token

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.tokens[key] == token {
			delete(l.held, key)
			delete(l.tokens, key)
		}
	}
	return release, true, nil
}
