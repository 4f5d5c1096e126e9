package models

import "github.com/google/uuid"

// ChunkRecord aggregates a contiguous window of a run's games
type ChunkRecord struct {
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	GameCount    int `json:"game_count"`
}

// RunChunkStats holds the three fixed windows of a single run
type RunChunkStats struct {
	RunID     uuid.UUID   `json:"run_id"`
	Beginning ChunkRecord `json:"beginning"`
	Middle    ChunkRecord `json:"middle"`
	End       ChunkRecord `json:"end"`
}

// ChunkPick is a best or worst window together with the run it came from
type ChunkPick struct {
	RunID uuid.UUID   `json:"run_id"`
	Chunk ChunkRecord `json:"chunk"`
}

// ChunkExtremes is the cross-run best/worst scan result. A nil pick means
// no run had games in that window.
type ChunkExtremes struct {
	BestBeginning  *ChunkPick `json:"best_beginning"`
	WorstBeginning *ChunkPick `json:"worst_beginning"`
	BestMiddle     *ChunkPick `json:"best_middle"`
	WorstMiddle    *ChunkPick `json:"worst_middle"`
	BestEnd        *ChunkPick `json:"best_end"`
	WorstEnd       *ChunkPick `json:"worst_end"`
}

// ChunkAnalytics is the response body for the history-wide chunk view
type ChunkAnalytics struct {
	Runs     []RunChunkStats `json:"runs"`
	Extremes ChunkExtremes   `json:"extremes"`
}

// RunInsights are heuristic observations about one run
type RunInsights struct {
	RunID          uuid.UUID `json:"run_id"`
	WinRate        float64   `json:"win_rate"`
	GoalDifference int       `json:"goal_difference"`
	Insights       []string  `json:"insights"`
}

// Feedback is the text shown after a game is logged
type Feedback struct {
	Encouragement string   `json:"encouragement"`
	Analysis      string   `json:"analysis"`
	Milestones    []string `json:"milestones,omitempty"`
	Streak        string   `json:"streak,omitempty"`
}

// VersionStats are aggregates across all users for one game version
type VersionStats struct {
	GameVersion     string  `json:"game_version"`
	TotalGames      uint64  `json:"total_games"`
	TotalPlayers    uint64  `json:"total_players"`
	WinRate         float64 `json:"win_rate"`
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
}

// Dashboard bundles the summary a user sees on landing
type Dashboard struct {
	GameVersion  string            `json:"game_version"`
	Runs         []WeeklyRun       `json:"runs"`
	Chunks       ChunkAnalytics    `json:"chunks"`
	Achievements []UserAchievement `json:"achievements"`
	Version      *VersionStats     `json:"version_stats,omitempty"`
}
