package mocks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
)

// ScriptedGenerator returns canned generation results and counts calls, so
// e2e tests can assert on backfill behavior without a live model.
type ScriptedGenerator struct {
	CoachingCalls atomic.Int64
}

func (g *ScriptedGenerator) CoachingTips(ctx context.Context, feedback string) (string, error) {
	g.CoachingCalls.Add(1)
	return fmt.Sprintf("* Work on this: %s", feedback), nil
}

func (g *ScriptedGenerator) DailyMission(ctx context.Context, audits []domain.Audit) (*coach.MissionResult, error) {
	if len(audits) == 0 {
		return nil, nil
	}
	return &coach.MissionResult{
		Mission: domain.DailyMission{
			Intro:        "Yesterday showed real progress.",
			MissionTitle: "Operation Clean Close",
			Challenges:   []string{"Confirm resolution before ending the chat"},
		},
		Skills: []domain.SkillArea{{Skill: "Process Adherence", Score: 72}},
	}, nil
}

func (g *ScriptedGenerator) ProTip(ctx context.Context, milestoneName string) (string, error) {
	return "Review one great call each morning.", nil
}
