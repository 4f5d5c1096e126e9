package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxGamesPerRun caps a weekly run.
const MaxGamesPerRun = 15

// Result is the outcome of a single game
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
)

// IsWin reports whether the result counts as a win
func (r Result) IsWin() bool { return r == ResultWin }

// IsLoss reports whether the result counts as a loss
func (r Result) IsLoss() bool { return r == ResultLoss }

// PlayerPerformance is an optional per-player line on a logged game
type PlayerPerformance struct {
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	Rating        float64 `json:"rating"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	MinutesPlayed int     `json:"minutes_played"`
}

// TeamStats holds optional match statistics
type TeamStats struct {
	Possession         int `json:"possession"`
	Shots              int `json:"shots"`
	ShotsOnTarget      int `json:"shots_on_target"`
	DribblesAttempted  int `json:"dribbles_attempted"`
	DribblesSuccessful int `json:"dribbles_successful"`
}

// PenaltyShootout is recorded when a game went to penalties
type PenaltyShootout struct {
	UserScore     int `json:"user_score"`
	OpponentScore int `json:"opponent_score"`
}

// Game is a single logged match
type Game struct {
	ID            uuid.UUID           `json:"id"`
	RunID         uuid.UUID           `json:"run_id"`
	UserID        uuid.UUID           `json:"user_id"`
	GameNumber    int                 `json:"game_number"`
	Result        Result              `json:"result"`
	UserGoals     int                 `json:"user_goals"`
	OpponentGoals int                 `json:"opponent_goals"`
	OpponentSkill int                 `json:"opponent_skill"`
	Players       []PlayerPerformance `json:"players,omitempty"`
	TeamStats     *TeamStats          `json:"team_stats,omitempty"`
	Penalties     *PenaltyShootout    `json:"penalties,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// IsCleanSheet reports whether the opponent failed to score
func (g Game) IsCleanSheet() bool { return g.OpponentGoals == 0 }

// WeeklyRun is one weekend-league session of up to 15 games
type WeeklyRun struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	GameVersion   string    `json:"game_version"`
	Name          string    `json:"name,omitempty"`
	TargetRank    string    `json:"target_rank,omitempty"`
	TargetWins    int       `json:"target_wins,omitempty"`
	Games         []Game    `json:"games"`
	TotalWins     int       `json:"total_wins"`
	TotalLosses   int       `json:"total_losses"`
	TotalGoals    int       `json:"total_goals"`
	TotalConceded int       `json:"total_conceded"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecomputeTotals derives the run aggregates from its games
func (r *WeeklyRun) RecomputeTotals() {
	r.TotalWins, r.TotalLosses, r.TotalGoals, r.TotalConceded = 0, 0, 0, 0
	for _, g := range r.Games {
		switch {
		case g.Result.IsWin():
			r.TotalWins++
		case g.Result.IsLoss():
			r.TotalLosses++
		}
		r.TotalGoals += g.UserGoals
		r.TotalConceded += g.OpponentGoals
	}
}

// NextGameNumber returns the lowest unused ordinal, or 0 if the run is full
func (r *WeeklyRun) NextGameNumber() int {
	used := make(map[int]bool, len(r.Games))
	for _, g := range r.Games {
		used[g.GameNumber] = true
	}
	for n := 1; n <= MaxGamesPerRun; n++ {
		if !used[n] {
			return n
		}
	}
	return 0
}
