package service

import (
	"context"
	"math"
	"sort"

	"github.com/rapidoqa/coach-server/internal/domain"
)

// unknownAgentName labels audits whose agent is absent from the agent table.
// Such audits still count toward the leaderboard rather than being dropped.
const unknownAgentName = "Unknown Agent"

// GetLeaderboardData computes the leaderboard over the audits present in the
// cache at call time.
func (s *CoachService) GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return buildLeaderboard(s.store.Audits(), s.store.Agents()), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildLeaderboard produces one entry per distinct agent with at least one
// audit. Ordering is average score descending, ties broken by audit count
// descending; agents tied on both retain relative input order. Ranks are
// dense and 1-based.
func buildLeaderboard(audits []domain.Audit, agents []domain.Agent) []domain.LeaderboardEntry {
	names := make(map[string]string, len(agents))
	for _, a := range agents {
		names[a.AgentEmail] = a.AgentName
	}

	type tally struct {
		name  string
		total float64
		count int
	}
	order := make([]string, 0)
	tallies := make(map[string]*tally)

	for _, audit := range audits {
		t, ok := tallies[audit.AgentEmail]
		if !ok {
			name := names[audit.AgentEmail]
			if name == "" {
				name = unknownAgentName
			}
			t = &tally{name: name}
			tallies[audit.AgentEmail] = t
			order = append(order, audit.AgentEmail)
		}
		t.total += audit.OverallScore
		t.count++
	}

	entries := make([]domain.LeaderboardEntry, 0, len(order))
	for _, email := range order {
		t := tallies[email]
		entries = append(entries, domain.LeaderboardEntry{
			AgentName:       t.name,
			AverageScore:    round2(t.total / float64(t.count)),
			AuditsCompleted: t.count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		return entries[i].AuditsCompleted > entries[j].AuditsCompleted
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
