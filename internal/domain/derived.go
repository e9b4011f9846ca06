package domain

// Derived, per-request view types. None of these are persisted.

// LeaderboardEntry is one ranked row of the leaderboard. Rank is dense and
// 1-based.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	AgentName       string  `json:"agentName"`
	AverageScore    float64 `json:"averageScore"`
	AuditsCompleted int     `json:"auditsCompleted"`
}

// SkillArea is one generated skill rating, 0-100.
type SkillArea struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// DailyMission is the generated gamified improvement mission.
type DailyMission struct {
	Intro        string   `json:"intro"`
	MissionTitle string   `json:"missionTitle"`
	Challenges   []string `json:"challenges"`
}

// MilestoneReward is the pro-tip attached to the most advanced unlocked
// milestone of the current evaluation.
type MilestoneReward struct {
	Title  string `json:"title"`
	ProTip string `json:"proTip"`
}

// JourneyMilestone is one monthly progression marker, evaluated fresh on
// every request from the current month's audits.
type JourneyMilestone struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Quest       string           `json:"quest"`
	Icon        string           `json:"icon"`
	UnlocksAt   int              `json:"unlocksAt"`
	IsUnlocked  bool             `json:"isUnlocked"`
	Reward      *MilestoneReward `json:"reward,omitempty"`
}
