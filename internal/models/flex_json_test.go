package models

import (
	"encoding/json"
	"testing"
)

func TestGameUnmarshal_QuotedNumbers(t *testing.T) {
	input := `{"game_number": "3", "result": "W", "user_goals": "2", "opponent_goals": "1.0", "opponent_skill": "85"}`

	var g Game
	if err := json.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if g.GameNumber != 3 {
		t.Errorf("GameNumber = %d, want 3", g.GameNumber)
	}
	if g.Result != ResultWin {
		t.Errorf("Result = %q, want win", g.Result)
	}
	if g.UserGoals != 2 || g.OpponentGoals != 1 {
		t.Errorf("score = %d-%d, want 2-1", g.UserGoals, g.OpponentGoals)
	}
	if g.OpponentSkill != 85 {
		t.Errorf("OpponentSkill = %d, want 85", g.OpponentSkill)
	}
}

func TestGameUnmarshal_NativeTypes(t *testing.T) {
	input := `{"game_number": 7, "result": "loss", "user_goals": 0, "opponent_goals": 3, "penalties": {"user_score": 4, "opponent_score": 5}}`

	var g Game
	if err := json.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if g.GameNumber != 7 || g.Result != ResultLoss || g.OpponentGoals != 3 {
		t.Errorf("game = %+v", g)
	}
	if g.Penalties == nil || g.Penalties.OpponentScore != 5 {
		t.Errorf("Penalties = %+v", g.Penalties)
	}
}

func TestGameUnmarshal_GarbageReadsAsZero(t *testing.T) {
	input := `{"game_number": "two", "result": "win", "user_goals": [1], "opponent_goals": null}`

	var g Game
	if err := json.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if g.GameNumber != 0 || g.UserGoals != 0 || g.OpponentGoals != 0 {
		t.Errorf("garbage should read as zero, got %+v", g)
	}
	if g.Result != ResultWin {
		t.Errorf("Result = %q, want win", g.Result)
	}
}

func TestGameUnmarshal_FloatNumbers(t *testing.T) {
	input := `{"game_number": 4.0, "result": "win", "user_goals": 2.0, "opponent_goals": "1.0", "opponent_skill": 1250.0}`

	var g Game
	if err := json.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if g.GameNumber != 4 {
		t.Errorf("GameNumber = %d, want 4", g.GameNumber)
	}
	if g.UserGoals != 2 || g.OpponentGoals != 1 {
		t.Errorf("score = %d-%d, want 2-1", g.UserGoals, g.OpponentGoals)
	}
	if g.OpponentSkill != 1250 {
		t.Errorf("OpponentSkill = %d, want 1250", g.OpponentSkill)
	}
}

func TestGameUnmarshal_UnknownResult(t *testing.T) {
	tests := []struct {
		in   string
		want Result
	}{
		{`"win"`, ResultWin},
		{`" Loss "`, ResultLoss},
		{`"l"`, ResultLoss},
		{`"draw"`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var g Game
		if err := json.Unmarshal([]byte(`{"result": `+tt.in+`}`), &g); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if g.Result != tt.want {
			t.Errorf("result %s = %q, want %q", tt.in, g.Result, tt.want)
		}
	}
}

func TestWeeklyRunUnmarshal_Games(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantGames int
	}{
		{"Missing games", `{"game_version": "FC26"}`, 0},
		{"Null games", `{"game_version": "FC26", "games": null}`, 0},
		{"Object instead of array", `{"game_version": "FC26", "games": {"1": "win"}}`, 0},
		{"Bad items are skipped", `{"game_version": "FC26", "games": [{"game_number": 1, "result": "win"}, 42, {"game_number": "2", "result": "l"}]}`, 2},
		{"String totals", `{"game_version": "FC26", "total_wins": "3", "games": []}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r WeeklyRun
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if r.Games == nil {
				t.Fatal("Games must never be nil")
			}
			if len(r.Games) != tt.wantGames {
				t.Errorf("len(Games) = %d, want %d", len(r.Games), tt.wantGames)
			}
			if r.GameVersion != "FC26" {
				t.Errorf("GameVersion = %q, want FC26", r.GameVersion)
			}
		})
	}
}

func TestWeeklyRunUnmarshal_CoercesTotals(t *testing.T) {
	var r WeeklyRun
	if err := json.Unmarshal([]byte(`{"total_wins": "3", "completed": "true", "games": "none"}`), &r); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if r.TotalWins != 3 || !r.Completed {
		t.Errorf("run = %+v", r)
	}
	if len(r.Games) != 0 {
		t.Errorf("Games = %v, want empty", r.Games)
	}
}

func TestWeeklyRunHelpers(t *testing.T) {
	r := WeeklyRun{Games: []Game{
		{GameNumber: 1, Result: ResultWin, UserGoals: 2, OpponentGoals: 0},
		{GameNumber: 3, Result: ResultLoss, UserGoals: 1, OpponentGoals: 2},
		{GameNumber: 4, Result: "", UserGoals: 1, OpponentGoals: 1},
	}}
	r.RecomputeTotals()

	if r.TotalWins != 1 || r.TotalLosses != 1 || r.TotalGoals != 4 || r.TotalConceded != 3 {
		t.Errorf("totals = %+v", r)
	}
	if n := r.NextGameNumber(); n != 2 {
		t.Errorf("NextGameNumber = %d, want 2", n)
	}

	full := WeeklyRun{}
	for i := 1; i <= MaxGamesPerRun; i++ {
		full.Games = append(full.Games, Game{GameNumber: i})
	}
	if n := full.NextGameNumber(); n != 0 {
		t.Errorf("full run NextGameNumber = %d, want 0", n)
	}
}
