package store

import (
	"testing"
	"time"

	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStoreLifecycle(t *testing.T) {
	s := New()

	t.Run("starts unloaded and empty", func(t *testing.T) {
		assert.False(t, s.Loaded())
		assert.Empty(t, s.Agents())
		assert.Empty(t, s.Audits())
		assert.Empty(t, s.CoachingTips())
	})

	t.Run("populate installs collections but does not mark loaded", func(t *testing.T) {
		s.Populate(
			[]domain.Agent{{AgentEmail: "a@r.com"}},
			[]domain.Audit{{AuditID: "aud_1"}},
			[]domain.CoachingTip{{CoachingID: "coach_1", AuditID: "aud_1"}},
		)
		assert.False(t, s.Loaded())
		assert.Len(t, s.Agents(), 1)
		assert.Len(t, s.Audits(), 1)
		assert.Len(t, s.CoachingTips(), 1)
	})

	t.Run("MarkLoaded completes the load", func(t *testing.T) {
		s.MarkLoaded()
		assert.True(t, s.Loaded())
	})

	t.Run("prepend puts the newest audit first", func(t *testing.T) {
		s.PrependAudit(domain.Audit{AuditID: "aud_2", Timestamp: time.Now()})
		audits := s.Audits()
		assert.Equal(t, "aud_2", audits[0].AuditID)
		assert.Equal(t, "aud_1", audits[1].AuditID)
	})

	t.Run("append and prepend tips", func(t *testing.T) {
		s.AppendTip(domain.CoachingTip{CoachingID: "coach_2", AuditID: "aud_2"})
		s.PrependTip(domain.CoachingTip{CoachingID: "coach_3", AuditID: "aud_3"})
		tips := s.CoachingTips()
		assert.Equal(t, "coach_3", tips[0].CoachingID)
		assert.Equal(t, "coach_2", tips[len(tips)-1].CoachingID)
	})

	t.Run("HasTipFor", func(t *testing.T) {
		assert.True(t, s.HasTipFor("aud_1"))
		assert.False(t, s.HasTipFor("aud_missing"))
	})

	t.Run("getters return copies", func(t *testing.T) {
		audits := s.Audits()
		audits[0].AuditID = "mutated"
		assert.NotEqual(t, "mutated", s.Audits()[0].AuditID)
	})
}
