// Package coach wraps the external text-generation capability behind the
// three prompt shapes the service needs: remedial coaching tips, the
// structured daily mission, and the milestone pro-tip.
package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/rapidoqa/coach-server/internal/domain"
)

// ErrGeneration marks any text-generation failure. Callers branch with
// errors.Is; the concrete *GenerationError carries the upstream message for
// display in error-tips.
var ErrGeneration = errors.New("generation failure")

// GenerationError is a failed call to the generation capability.
type GenerationError struct {
	Op      string
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *GenerationError) Unwrap() error { return ErrGeneration }

// MessageOf extracts a human-readable message from a generation failure,
// suitable for embedding in an error-tip.
func MessageOf(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// MissionResult is the structured payload of the daily-mission call.
type MissionResult struct {
	Mission domain.DailyMission `json:"mission"`
	Skills  []domain.SkillArea  `json:"skills"`
}

// Generator is the text-generation capability seen by the service layer.
type Generator interface {
	// CoachingTips produces '*'-delimited coaching items for one low-scoring
	// interaction's feedback.
	CoachingTips(ctx context.Context, feedback string) (string, error)
	// DailyMission analyzes yesterday's audits into skill ratings and a
	// gamified mission. Returns (nil, nil) when no audits are supplied.
	DailyMission(ctx context.Context, audits []domain.Audit) (*MissionResult, error)
	// ProTip produces one advanced tip for a freshly unlocked milestone.
	ProTip(ctx context.Context, milestoneName string) (string, error)
}
