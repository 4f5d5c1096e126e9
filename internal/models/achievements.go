package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric names an aggregate an achievement can target
type Metric string

const (
	MetricTotalGames       Metric = "total_games"
	MetricTotalWins        Metric = "total_wins"
	MetricTotalGoals       Metric = "total_goals"
	MetricCleanSheets      Metric = "clean_sheets"
	MetricCurrentWinStreak Metric = "current_win_streak"
	MetricLongestWinStreak Metric = "longest_win_streak"
)

// AchievementDefinition is a static rule independent of any user
type AchievementDefinition struct {
	ID          string `json:"id" koanf:"id"`
	Name        string `json:"name" koanf:"name"`
	Description string `json:"description" koanf:"description"`
	Category    string `json:"category" koanf:"category"`
	Metric      Metric `json:"metric" koanf:"metric"`
	Target      int    `json:"target" koanf:"target"`
	Tier        string `json:"tier" koanf:"tier"`
	Points      int    `json:"points" koanf:"points"`
}

// UserAchievement tracks one user's progress toward one definition
type UserAchievement struct {
	UserID        uuid.UUID  `json:"user_id"`
	AchievementID string     `json:"achievement_id"`
	GameVersion   string     `json:"game_version"`
	Progress      int        `json:"progress"`
	Target        int        `json:"target"`
	Unlocked      bool       `json:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AchievementMetrics is the cumulative fold over a user's games
type AchievementMetrics struct {
	TotalGames       int `json:"total_games"`
	TotalWins        int `json:"total_wins"`
	TotalGoals       int `json:"total_goals"`
	CleanSheets      int `json:"clean_sheets"`
	CurrentWinStreak int `json:"current_win_streak"`
	LongestWinStreak int `json:"longest_win_streak"`
}

// Value returns the named metric. Unknown names read as zero.
func (m AchievementMetrics) Value(name Metric) int {
	switch name {
	case MetricTotalGames:
		return m.TotalGames
	case MetricTotalWins:
		return m.TotalWins
	case MetricTotalGoals:
		return m.TotalGoals
	case MetricCleanSheets:
		return m.CleanSheets
	case MetricCurrentWinStreak:
		return m.CurrentWinStreak
	case MetricLongestWinStreak:
		return m.LongestWinStreak
	}
	return 0
}

// AchievementDelta is the set of writes produced by one evaluation
type AchievementDelta struct {
	Upserts []UserAchievement `json:"upserts"`
	Inserts []UserAchievement `json:"inserts"`
}

// NewlyUnlocked returns every record in the delta that flipped to unlocked
func (d AchievementDelta) NewlyUnlocked() []UserAchievement {
	var out []UserAchievement
	for _, ua := range d.Upserts {
		if ua.Unlocked {
			out = append(out, ua)
		}
	}
	for _, ua := range d.Inserts {
		if ua.Unlocked {
			out = append(out, ua)
		}
	}
	return out
}

// Empty reports whether there is nothing to persist
func (d AchievementDelta) Empty() bool {
	return len(d.Upserts) == 0 && len(d.Inserts) == 0
}
