package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
	"go.uber.org/zap"
)

// journeyMilestones are the four fixed monthly milestones, in unlock order.
// Predicates are evaluated independently per call over the current month's
// audits; all of them reset at the month boundary.
var journeyMilestones = []domain.JourneyMilestone{
	{Name: "Quality Rookie", Description: "Completed your first 5 quality audits.", Quest: "Complete 5 audits", Icon: "🚀", UnlocksAt: 5},
	{Name: "Consistency Champion", Description: "Maintained an average score of 85%+ over 10 audits.", Quest: "Maintain 85%+ average", Icon: "🏆", UnlocksAt: 10},
	{Name: "Feedback Virtuoso", Description: "Received positive feedback on 15 audits.", Quest: "15 positive feedback audits", Icon: "✨", UnlocksAt: 15},
	{Name: "Elite Performer", Description: "Achieved a 95%+ score on 5 separate audits.", Quest: "5 audits with 95%+ score", Icon: "💎", UnlocksAt: 25},
}

// GetSkillUpData assembles the skill-up view: the generated daily mission
// from yesterday's audits, yesterday's average, the agent's rank and its
// neighbor, and the monthly journey milestones.
func (s *CoachService) GetSkillUpData(ctx context.Context, agentEmail string) (SkillUpData, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return SkillUpData{}, err
	}

	wanted := strings.ToLower(strings.TrimSpace(agentEmail))
	agentAudits := make([]domain.Audit, 0)
	for _, a := range s.store.Audits() {
		if a.AgentEmail == wanted {
			agentAudits = append(agentAudits, a)
		}
	}

	out := SkillUpData{}

	// Daily mission from yesterday's audits.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	yesterdayAudits := make([]domain.Audit, 0)
	var yesterdayTotal float64
	for _, a := range agentAudits {
		ts := a.Timestamp.In(now.Location())
		if !ts.Before(yesterday) && ts.Before(today) {
			yesterdayAudits = append(yesterdayAudits, a)
			yesterdayTotal += a.OverallScore
		}
	}
	out.HasAuditsFromYesterday = len(yesterdayAudits) > 0
	if out.HasAuditsFromYesterday {
		avg := round2(yesterdayTotal / float64(len(yesterdayAudits)))
		out.YesterdayScore = &avg
	}

	mission, err := s.gen.DailyMission(ctx, yesterdayAudits)
	if err != nil {
		s.logger.Warn("daily mission generation failed",
			zap.String("agent", wanted),
			zap.Error(err))
		out.MissionError = coach.MessageOf(err)
	} else {
		out.MissionData = mission
	}

	// Rank plus the entry directly above.
	leaderboard := buildLeaderboard(s.store.Audits(), s.store.Agents())
	var agentName string
	for _, a := range s.store.Agents() {
		if a.AgentEmail == wanted {
			agentName = a.AgentName
			break
		}
	}
	for _, entry := range leaderboard {
		if entry.AgentName == agentName && agentName != "" {
			out.RankData.CurrentRank = entry.Rank
			break
		}
	}
	if out.RankData.CurrentRank > 1 {
		for i := range leaderboard {
			if leaderboard[i].Rank == out.RankData.CurrentRank-1 {
				out.RankData.AgentAbove = &leaderboard[i]
				break
			}
		}
	}

	// Journey over the current calendar month.
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly := make([]domain.Audit, 0)
	for _, a := range agentAudits {
		if !a.Timestamp.In(now.Location()).Before(startOfMonth) {
			monthly = append(monthly, a)
		}
	}
	out.JourneyData = s.evaluateJourney(ctx, monthly)

	return out, nil
}

// evaluateJourney unlocks milestones from one agent's current-month audits
// and attaches the generated pro-tip reward to the most advanced unlocked
// milestone. A failed reward generation is captured as placeholder text, not
// an error.
func (s *CoachService) evaluateJourney(ctx context.Context, monthly []domain.Audit) []domain.JourneyMilestone {
	milestones := make([]domain.JourneyMilestone, len(journeyMilestones))
	copy(milestones, journeyMilestones)

	total := len(monthly)
	milestones[0].IsUnlocked = total >= 5

	if total >= 10 {
		recent := monthly[:10]
		var sum float64
		for _, a := range recent {
			sum += a.OverallScore
		}
		milestones[1].IsUnlocked = sum/float64(len(recent)) >= 85
	}

	var positive, elite int
	for _, a := range monthly {
		if a.OverallScore >= 80 {
			positive++
		}
		if a.OverallScore >= 95 {
			elite++
		}
	}
	milestones[2].IsUnlocked = positive >= 15
	milestones[3].IsUnlocked = elite >= 5

	for i := len(milestones) - 1; i >= 0; i-- {
		if !milestones[i].IsUnlocked {
			continue
		}
		reward := &domain.MilestoneReward{
			Title: fmt.Sprintf("Pro-Tip for a %s", milestones[i].Name),
		}
		proTip, err := s.gen.ProTip(ctx, milestones[i].Name)
		if err != nil {
			s.logger.Warn("pro-tip generation failed",
				zap.String("milestone", milestones[i].Name),
				zap.Error(err))
			reward.ProTip = fmt.Sprintf("Could not generate pro-tip. Details: %s", coach.MessageOf(err))
		} else {
			reward.ProTip = proTip
		}
		milestones[i].Reward = reward
		break
	}

	return milestones
}
