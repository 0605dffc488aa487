// Package pending tracks users who started verification and have not yet
// submitted a screenshot.
package pending

import (
	"sync"
	"time"
)

// Verification is an in-flight request awaiting a screenshot.
type Verification struct {
	UserID         string
	GuildID        string
	RoleID         string
	ExpectedMarker string
	StartedAt      time.Time
}

// Table maps a user ID to at most one pending verification.
// A zero TTL keeps entries until they are consumed.
type Table struct {
	mu      sync.Mutex
	entries map[string]Verification
	ttl     time.Duration
	now     func() time.Time
}

// New returns an empty table.
func New(ttl time.Duration) *Table {
	return &Table{
		entries: make(map[string]Verification),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Begin records the verification for userID, replacing any previous one.
func (t *Table) Begin(userID, guildID, roleID, marker string) Verification {
	v := Verification{
		UserID:         userID,
		GuildID:        guildID,
		RoleID:         roleID,
		ExpectedMarker: marker,
		StartedAt:      t.now(),
	}
	t.mu.Lock()
	t.entries[userID] = v
	t.mu.Unlock()
	return v
}

// Consume returns and removes the entry for userID.
func (t *Table) Consume(userID string) (Verification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[userID]
	if !ok {
		return Verification{}, false
	}
	delete(t.entries, userID)
	if t.expired(v) {
		return Verification{}, false
	}
	return v, true
}

// Peek returns the entry for userID without removing it.
func (t *Table) Peek(userID string) (Verification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[userID]
	if !ok || t.expired(v) {
		return Verification{}, false
	}
	return v, true
}

// Drop removes the entry for userID, if any.
func (t *Table) Drop(userID string) {
	t.mu.Lock()
	delete(t.entries, userID)
	t.mu.Unlock()
}

// Len counts live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, v := range t.entries {
		if !t.expired(v) {
			n++
		}
	}
	return n
}

// Sweep deletes expired entries and reports how many were removed.
func (t *Table) Sweep() int {
	if t.ttl <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, v := range t.entries {
		if t.expired(v) {
			delete(t.entries, id)
			n++
		}
	}
	return n
}

func (t *Table) expired(v Verification) bool {
	return t.ttl > 0 && t.now().Sub(v.StartedAt) > t.ttl
}
