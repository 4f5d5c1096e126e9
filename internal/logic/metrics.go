package logic

import (
	"sort"

	"github.com/futchampions/tracker-api/internal/models"
)

// CalculateMetrics folds a user's games into cumulative achievement counters.
// Input order does not matter; games are replayed oldest first.
func CalculateMetrics(games []models.Game) models.AchievementMetrics {
	sorted := append([]models.Game(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	var m models.AchievementMetrics
	for _, g := range sorted {
		m.TotalGames++
		m.TotalGoals += g.UserGoals
		if g.IsCleanSheet() {
			m.CleanSheets++
		}
		if g.Result.IsWin() {
			m.TotalWins++
			m.CurrentWinStreak++
			continue
		}
		if m.CurrentWinStreak > m.LongestWinStreak {
			m.LongestWinStreak = m.CurrentWinStreak
		}
		m.CurrentWinStreak = 0
	}
	if m.CurrentWinStreak > m.LongestWinStreak {
		m.LongestWinStreak = m.CurrentWinStreak
	}
	return m
}
