package service

import (
	"context"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/source"
)

// TabularSource defines the raw-data operations the service needs from a
// tabular backend.
type TabularSource interface {
	Fetch(ctx context.Context, table string) (source.Grid, error)
}

// Generator defines the text-generation operations the service needs.
type Generator interface {
	CoachingTips(ctx context.Context, feedback string) (string, error)
	DailyMission(ctx context.Context, audits []domain.Audit) (*coach.MissionResult, error)
	ProTip(ctx context.Context, milestoneName string) (string, error)
}
