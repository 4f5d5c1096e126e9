package catalog

import "github.com/futchampions/tracker-api/internal/models"

// Default returns the built-in catalog
func Default() *Catalog {
	return &Catalog{
		Achievements: defaultAchievements(),
		Feedback: Feedback{
			EncouragementWin: []string{
				"Great win! Keep that momentum going.",
				"Another one in the bag. Stay locked in.",
				"Clinical. That's how you close out a game.",
				"Win secured. Rewards are getting closer.",
				"Nice work. Reset and go again.",
			},
			EncouragementLoss: []string{
				"Tough one. Shake it off and reset.",
				"Losses happen to everyone. Next game is a fresh start.",
				"Take a breather before queueing again.",
				"Stay calm. One game doesn't define the run.",
				"Learn from it and bounce back.",
			},
			AnalysisWin: []string{
				"Keep doing what worked: same formation, same tempo.",
				"Watch your stamina bar before late subs.",
				"Protect the lead by holding possession in midfield.",
				"Your finishing was sharp. Trust your shot selection.",
			},
			AnalysisLoss: []string{
				"Check whether you were conceding on the counter.",
				"Try slowing the build-up and recycling possession.",
				"Consider a more defensive custom tactic for the next few games.",
				"Look at your shots on target ratio. Work the ball into better positions.",
				"Tilt is real. A short break can reset decision making.",
			},
			Milestones: Milestones{FirstGame: 1, Games: 50, Goals: 100},
			Streak:     Streak{Window: 5, MinWins: 3},
		},
	}
}

func defaultAchievements() []models.AchievementDefinition {
	return []models.AchievementDefinition{
		{ID: "first_game", Name: "Kick Off", Description: "Log your first game", Category: "games", Metric: models.MetricTotalGames, Target: 1, Tier: "bronze", Points: 10},
		{ID: "games_50", Name: "Regular", Description: "Log 50 games", Category: "games", Metric: models.MetricTotalGames, Target: 50, Tier: "silver", Points: 25},
		{ID: "games_150", Name: "Veteran", Description: "Log 150 games", Category: "games", Metric: models.MetricTotalGames, Target: 150, Tier: "gold", Points: 50},
		{ID: "first_win", Name: "On the Board", Description: "Win your first game", Category: "wins", Metric: models.MetricTotalWins, Target: 1, Tier: "bronze", Points: 10},
		{ID: "wins_25", Name: "Contender", Description: "Win 25 games", Category: "wins", Metric: models.MetricTotalWins, Target: 25, Tier: "silver", Points: 25},
		{ID: "wins_100", Name: "Elite", Description: "Win 100 games", Category: "wins", Metric: models.MetricTotalWins, Target: 100, Tier: "gold", Points: 50},
		{ID: "goals_50", Name: "Sharpshooter", Description: "Score 50 goals", Category: "goals", Metric: models.MetricTotalGoals, Target: 50, Tier: "bronze", Points: 10},
		{ID: "goals_250", Name: "Goal Machine", Description: "Score 250 goals", Category: "goals", Metric: models.MetricTotalGoals, Target: 250, Tier: "gold", Points: 50},
		{ID: "clean_sheets_10", Name: "Brick Wall", Description: "Keep 10 clean sheets", Category: "defense", Metric: models.MetricCleanSheets, Target: 10, Tier: "silver", Points: 25},
		{ID: "streak_5", Name: "Hot Streak", Description: "Win 5 games in a row", Category: "streaks", Metric: models.MetricLongestWinStreak, Target: 5, Tier: "silver", Points: 25},
		{ID: "streak_10", Name: "Unstoppable", Description: "Win 10 games in a row", Category: "streaks", Metric: models.MetricLongestWinStreak, Target: 10, Tier: "platinum", Points: 100},
	}
}
