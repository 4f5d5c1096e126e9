package logic

import (
	"testing"
	"time"

	"github.com/futchampions/tracker-api/internal/models"
)

// sequence builds games one minute apart from a W/L pattern
func sequence(pattern string) []models.Game {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	games := make([]models.Game, 0, len(pattern))
	for i, c := range pattern {
		g := models.Game{GameNumber: i + 1, CreatedAt: base.Add(time.Duration(i) * time.Minute), UserGoals: 1}
		if c == 'W' {
			g.Result = models.ResultWin
		} else {
			g.Result = models.ResultLoss
			g.OpponentGoals = 2
		}
		games = append(games, g)
	}
	return games
}

func TestCalculateMetrics(t *testing.T) {
	tests := []struct {
		pattern string
		want    models.AchievementMetrics
	}{
		{"", models.AchievementMetrics{}},
		{"WWLWWW", models.AchievementMetrics{TotalGames: 6, TotalWins: 5, TotalGoals: 6, CleanSheets: 5, CurrentWinStreak: 3, LongestWinStreak: 3}},
		{"WWWWL", models.AchievementMetrics{TotalGames: 5, TotalWins: 4, TotalGoals: 5, CleanSheets: 4, CurrentWinStreak: 0, LongestWinStreak: 4}},
		{"LLL", models.AchievementMetrics{TotalGames: 3, TotalGoals: 3}},
		{"WLWWLW", models.AchievementMetrics{TotalGames: 6, TotalWins: 4, TotalGoals: 6, CleanSheets: 4, CurrentWinStreak: 1, LongestWinStreak: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := CalculateMetrics(sequence(tt.pattern)); got != tt.want {
				t.Errorf("CalculateMetrics(%q) = %+v, want %+v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestCalculateMetrics_ReplaysByCreationTime(t *testing.T) {
	games := sequence("WWLWWW")
	reversed := make([]models.Game, len(games))
	for i, g := range games {
		reversed[len(games)-1-i] = g
	}

	got := CalculateMetrics(reversed)
	if got.CurrentWinStreak != 3 || got.LongestWinStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", got.CurrentWinStreak, got.LongestWinStreak)
	}
	// Input must not be reordered in place
	if reversed[0].GameNumber != 6 {
		t.Errorf("input was mutated: first game number = %d", reversed[0].GameNumber)
	}
}

func TestCalculateMetrics_LongestNeverBelowCurrent(t *testing.T) {
	for _, p := range []string{"W", "LW", "WLWW", "WWWLWWWW", "LLLLWWWWWWW"} {
		m := CalculateMetrics(sequence(p))
		if m.LongestWinStreak < m.CurrentWinStreak {
			t.Errorf("%s: longest %d < current %d", p, m.LongestWinStreak, m.CurrentWinStreak)
		}
	}
}
