package service

import (
	"sync"
	"time"
)

// cooldownGate enforces a minimum interval between purchase attempts per
// user. The check-and-update is one critical section, so concurrent attempts
// by the same user cannot both pass. The ledger is process-local; a restart
// resets all cooldowns, which is an accepted tradeoff.
type cooldownGate struct {
	mu       sync.Mutex
	last     map[int64]time.Time
	interval time.Duration
	now      func() time.Time
}

func newCooldownGate(interval time.Duration, now func() time.Time) *cooldownGate {
	if now == nil {
		now = time.Now
	}
	return &cooldownGate{
		last:     make(map[int64]time.Time),
		interval: interval,
		now:      now,
	}
}

// Allow reports whether the user may attempt a purchase now. A rejected
// attempt leaves the ledger untouched; an allowed attempt records its
// timestamp immediately, even if later purchase steps fail.
func (g *cooldownGate) Allow(userID int64) bool {
	if g.interval <= 0 {
		return true
	}
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	if last, ok := g.last[userID]; ok && now.Sub(last) < g.interval {
		return false
	}
	g.last[userID] = now
	return true
}
