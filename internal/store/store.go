// Package store holds the process-lifetime session cache: normalized agents,
// audits and coaching tips. The container itself is dumb; the exactly-once
// load and the coaching backfill are orchestrated by the service layer.
package store

import (
	"sync"

	"github.com/rapidoqa/coach-server/internal/domain"
)

// Store is the in-memory session cache. All getters return copies so callers
// can iterate freely while the load or submission paths mutate the cache.
type Store struct {
	mu     sync.RWMutex
	loaded bool
	agents []domain.Agent
	audits []domain.Audit
	tips   []domain.CoachingTip
}

func New() *Store {
	return &Store{}
}

// Loaded reports whether the one-time session load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Populate installs the loaded collections. Called exactly once per
// successful load. The cache stays unloaded until MarkLoaded, so the backfill
// pass can run against populated data while later callers still attach to the
// in-flight load instead of reading a half-finished session.
func (s *Store) Populate(agents []domain.Agent, audits []domain.Audit, tips []domain.CoachingTip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents = agents
	s.audits = audits
	s.tips = tips
}

// MarkLoaded records that the session load, backfill included, has completed.
func (s *Store) MarkLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
}

// Agents returns a copy of the agent collection.
func (s *Store) Agents() []domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Agent(nil), s.agents...)
}

// Audits returns a copy of the audit collection, submission order first.
func (s *Store) Audits() []domain.Audit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Audit(nil), s.audits...)
}

// CoachingTips returns a copy of the coaching-tip collection.
func (s *Store) CoachingTips() []domain.CoachingTip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CoachingTip(nil), s.tips...)
}

// PrependAudit records a newly submitted audit as the most recent entry.
func (s *Store) PrependAudit(a domain.Audit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append([]domain.Audit{a}, s.audits...)
}

// AppendTip records a tip produced by the backfill pass.
func (s *Store) AppendTip(t domain.CoachingTip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tips = append(s.tips, t)
}

// PrependTip records a tip produced at submission time.
func (s *Store) PrependTip(t domain.CoachingTip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tips = append([]domain.CoachingTip{t}, s.tips...)
}

// HasTipFor reports whether any tip references the given audit.
func (s *Store) HasTipFor(auditID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tips {
		if t.AuditID == auditID {
			return true
		}
	}
	return false
}
