package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/service/mocks"
	"github.com/rapidoqa/coach-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func submitService(gen *mocks.MockGenerator) *CoachService {
	st := store.New()
	st.Populate(
		[]domain.Agent{{AgentEmail: "jane@rapido.com", AgentName: "Jane Doe"}},
		nil, nil,
	)
	st.MarkLoaded()
	svc := NewCoachService(&mocks.MockTabularSource{}, gen, st, zap.NewNop(), Config{})
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSubmitNewAudit(t *testing.T) {
	input := NewAuditInput{
		AgentEmail:   " Jane@Rapido.COM ",
		AuditorEmail: "Auditor@Rapido.com",
		TicketID:     "T-99",
		OverallScore: 62,
		Feedback:     "Missed the verification step",
	}

	t.Run("qualifying score generates a tip before returning", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			CoachingTipsFunc: func(ctx context.Context, feedback string) (string, error) {
				assert.Equal(t, "Missed the verification step", feedback)
				return "* Verify before closing.", nil
			},
		}
		svc := submitService(gen)

		audit, err := svc.SubmitNewAudit(context.Background(), input)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(audit.AuditID, "aud_"))
		assert.Equal(t, "jane@rapido.com", audit.AgentEmail)
		assert.Equal(t, "auditor@rapido.com", audit.AuditorEmail)
		assert.Equal(t, svc.now(), audit.Timestamp)

		audits := svc.store.Audits()
		require.Len(t, audits, 1)
		assert.Equal(t, audit.AuditID, audits[0].AuditID)

		tips := svc.store.CoachingTips()
		require.Len(t, tips, 1)
		assert.Equal(t, audit.AuditID, tips[0].AuditID)
		assert.Equal(t, "* Verify before closing.", tips[0].Tips)
		assert.True(t, strings.HasPrefix(tips[0].CoachingID, "coach_"))
	})

	t.Run("score at the threshold does not qualify", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			CoachingTipsFunc: func(ctx context.Context, feedback string) (string, error) {
				t.Fatal("unexpected generation call")
				return "", nil
			},
		}
		svc := submitService(gen)

		at := input
		at.OverallScore = 80
		_, err := svc.SubmitNewAudit(context.Background(), at)
		require.NoError(t, err)
		assert.Empty(t, svc.store.CoachingTips())
	})

	t.Run("empty feedback does not qualify", func(t *testing.T) {
		svc := submitService(&mocks.MockGenerator{})

		nf := input
		nf.Feedback = ""
		_, err := svc.SubmitNewAudit(context.Background(), nf)
		require.NoError(t, err)
		assert.Empty(t, svc.store.CoachingTips())
	})

	t.Run("generation failure is recorded as an error-tip", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			CoachingTipsFunc: func(ctx context.Context, feedback string) (string, error) {
				return "", &coach.GenerationError{Op: "coaching tips", Message: "deadline exceeded"}
			},
		}
		svc := submitService(gen)

		audit, err := svc.SubmitNewAudit(context.Background(), input)
		require.NoError(t, err)

		tips := svc.store.CoachingTips()
		require.Len(t, tips, 1)
		assert.True(t, tips[0].IsError())
		assert.Equal(t, "deadline exceeded", tips[0].ErrorMessage)
		assert.True(t, strings.HasPrefix(tips[0].CoachingID, "err_"))
		assert.Equal(t, audit.AuditID, tips[0].AuditID)
	})

	t.Run("newest submission is first", func(t *testing.T) {
		svc := submitService(&mocks.MockGenerator{})

		nf := input
		nf.Feedback = ""
		first, err := svc.SubmitNewAudit(context.Background(), nf)
		require.NoError(t, err)
		second, err := svc.SubmitNewAudit(context.Background(), nf)
		require.NoError(t, err)

		audits := svc.store.Audits()
		require.Len(t, audits, 2)
		assert.Equal(t, second.AuditID, audits[0].AuditID)
		assert.Equal(t, first.AuditID, audits[1].AuditID)
	})
}

func TestGetDashboardDataSorting(t *testing.T) {
	ts := func(day int) time.Time {
		return time.Date(2025, time.March, day, 10, 0, 0, 0, time.UTC)
	}

	st := store.New()
	st.Populate(
		[]domain.Agent{{AgentEmail: "jane@rapido.com", AgentName: "Jane Doe"}},
		[]domain.Audit{
			{AuditID: "aud_mid", Timestamp: ts(10), AgentEmail: "jane@rapido.com", OverallScore: 70},
			{AuditID: "aud_new", Timestamp: ts(20), AgentEmail: "jane@rapido.com", OverallScore: 90},
			{AuditID: "aud_other", Timestamp: ts(25), AgentEmail: "omar@rapido.com", OverallScore: 50},
			{AuditID: "aud_old", Timestamp: ts(1), AgentEmail: "jane@rapido.com", OverallScore: 60},
		},
		[]domain.CoachingTip{
			{CoachingID: "coach_1", AuditID: "aud_old", Tips: "* Slow down.", Timestamp: ts(2)},
			{CoachingID: "coach_2", AuditID: "aud_mid", Tips: "* Confirm details.", Timestamp: ts(11)},
			{CoachingID: "coach_3", AuditID: "aud_other", Tips: "* Not hers.", Timestamp: ts(26)},
		},
	)
	st.MarkLoaded()
	svc := NewCoachService(&mocks.MockTabularSource{}, &mocks.MockGenerator{}, st, zap.NewNop(), Config{})

	data, err := svc.GetDashboardData(context.Background(), "jane@rapido.com")
	require.NoError(t, err)

	require.Len(t, data.Audits, 3)
	assert.Equal(t, "aud_new", data.Audits[0].AuditID)
	assert.Equal(t, "aud_mid", data.Audits[1].AuditID)
	assert.Equal(t, "aud_old", data.Audits[2].AuditID)

	// Tips for other agents' audits are filtered out; the rest are newest
	// first.
	require.Len(t, data.Coaching, 2)
	assert.Equal(t, "coach_2", data.Coaching[0].CoachingID)
	assert.Equal(t, "coach_1", data.Coaching[1].CoachingID)
}
