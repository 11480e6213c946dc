package service

import (
	"sync"
	"time"
)

// pendingAttempt records an issued invoice awaiting confirmation.
type pendingAttempt struct {
	UserID   int64
	OfferID  string
	IssuedAt time.Time
}

// pendingBook holds in-flight purchase attempts keyed by idempotency
// payload, with a per-user index so a new attempt supersedes the previous
// one. Entries are process-local: an abandoned checkout simply ages out of
// relevance and leaves no persisted trace.
type pendingBook struct {
	mu        sync.Mutex
	byPayload map[string]pendingAttempt
	byUser    map[int64]string
}

func newPendingBook() *pendingBook {
	return &pendingBook{
		byPayload: make(map[string]pendingAttempt),
		byUser:    make(map[int64]string),
	}
}

// Put registers an attempt, discarding the user's previous pending attempt
// if one exists.
func (b *pendingBook) Put(payload string, att pendingAttempt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.byUser[att.UserID]; ok {
		delete(b.byPayload, prev)
	}
	b.byPayload[payload] = att
	b.byUser[att.UserID] = payload
}

// Peek returns the attempt for a payload without consuming it.
func (b *pendingBook) Peek(payload string) (pendingAttempt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	att, ok := b.byPayload[payload]
	return att, ok
}

// Take consumes and returns the attempt for a payload.
func (b *pendingBook) Take(payload string) (pendingAttempt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	att, ok := b.byPayload[payload]
	if !ok {
		return pendingAttempt{}, false
	}
	delete(b.byPayload, payload)
	if cur, exists := b.byUser[att.UserID]; exists && cur == payload {
		delete(b.byUser, att.UserID)
	}
	return att, true
}

// Len reports the number of in-flight attempts.
func (b *pendingBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byPayload)
}
