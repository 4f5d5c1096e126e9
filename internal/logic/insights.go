package logic

import (
	"fmt"

	"github.com/futchampions/tracker-api/internal/models"
)

// BuildRunInsights derives threshold-based observations for one run
func BuildRunInsights(run *models.WeeklyRun) models.RunInsights {
	if run == nil {
		return models.RunInsights{Insights: []string{}}
	}

	out := models.RunInsights{RunID: run.ID, Insights: []string{}}
	played, wins := 0, 0
	goalsFor, goalsAgainst, cleanSheets := 0, 0, 0
	shootouts, shootoutWins := 0, 0

	for _, g := range run.Games {
		played++
		if g.Result.IsWin() {
			wins++
		}
		goalsFor += g.UserGoals
		goalsAgainst += g.OpponentGoals
		if g.IsCleanSheet() {
			cleanSheets++
		}
		if g.Penalties != nil {
			shootouts++
			if g.Result.IsWin() {
				shootoutWins++
			}
		}
	}
	if played == 0 {
		out.Insights = append(out.Insights, "No games logged yet. Your first result will unlock insights.")
		return out
	}

	out.WinRate = float64(wins) / float64(played)
	out.GoalDifference = goalsFor - goalsAgainst

	switch {
	case out.WinRate >= 0.7:
		out.Insights = append(out.Insights, fmt.Sprintf("Winning %.0f%% of games. You're on track for a top rank.", out.WinRate*100))
	case out.WinRate < 0.4:
		out.Insights = append(out.Insights, fmt.Sprintf("Win rate is %.0f%%. Consider adjusting your tactics.", out.WinRate*100))
	}

	if avg := float64(goalsAgainst) / float64(played); avg >= 2.5 {
		out.Insights = append(out.Insights, fmt.Sprintf("Conceding %.1f goals per game. Tighten up at the back.", avg))
	}
	if avg := float64(goalsFor) / float64(played); avg >= 3 {
		out.Insights = append(out.Insights, fmt.Sprintf("Averaging %.1f goals per game. Your attack is firing.", avg))
	}
	if cleanSheets >= 3 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d clean sheets this run.", cleanSheets))
	}
	if shootouts > 0 {
		out.Insights = append(out.Insights, fmt.Sprintf("Won %d of %d penalty shootouts.", shootoutWins, shootouts))
	}

	chunks := CalculateRunChunks(run)
	if chunks.Beginning.GameCount == 5 && chunks.Middle.GameCount == 5 {
		switch {
		case chunks.Beginning.Wins-chunks.Middle.Wins >= 2:
			out.Insights = append(out.Insights, "Strong start but form dropped mid-run. Take breaks between sessions.")
		case chunks.Middle.Wins-chunks.Beginning.Wins >= 2:
			out.Insights = append(out.Insights, "Slow start, but you found your rhythm. Warm up before the first games.")
		}
	}
	if chunks.End.GameCount > 0 && chunks.End.Wins > chunks.End.Losses && chunks.Beginning.Wins < chunks.Beginning.Losses {
		out.Insights = append(out.Insights, "Great comeback in the final games.")
	}

	if run.TargetWins > 0 {
		remaining := models.MaxGamesPerRun - played
		needed := run.TargetWins - wins
		switch {
		case needed <= 0:
			out.Insights = append(out.Insights, "Target wins reached!")
		case needed > remaining:
			out.Insights = append(out.Insights, "Target wins are out of reach for this run.")
		default:
			out.Insights = append(out.Insights, fmt.Sprintf("%d more wins needed from %d games.", needed, remaining))
		}
	}

	return out
}
