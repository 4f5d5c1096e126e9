package models

type CreateRunRequest struct {
	GameVersion string `json:"game_version" validate:"required,max=32"`
	Name        string `json:"name" validate:"max=100"`
	TargetRank  string `json:"target_rank" validate:"max=32"`
	TargetWins  int    `json:"target_wins" validate:"gte=0,lte=15"`
}

type UpdateRunRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	TargetRank *string `json:"target_rank" validate:"omitempty,max=32"`
	TargetWins *int    `json:"target_wins" validate:"omitempty,gte=0,lte=15"`
}

type LogGameRequest struct {
	GameNumber    int                 `json:"game_number" validate:"gte=0,lte=15"`
	Result        Result              `json:"result" validate:"required,oneof=win loss"`
	UserGoals     int                 `json:"user_goals" validate:"gte=0,lte=99"`
	OpponentGoals int                 `json:"opponent_goals" validate:"gte=0,lte=99"`
	OpponentSkill int                 `json:"opponent_skill" validate:"gte=0,lte=65535"`
	Players       []PlayerPerformance `json:"players" validate:"omitempty,max=23,dive"`
	TeamStats     *TeamStats          `json:"team_stats"`
	Penalties     *PenaltyShootout    `json:"penalties"`
}

type CreateLeagueRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	GameVersion string `json:"game_version" validate:"required,max=32"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
}

type JoinLeagueRequest struct {
	InviteCode  string `json:"invite_code" validate:"required,len=8"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
}

// LogGameResponse is returned after a game is stored
type LogGameResponse struct {
	Game     Game      `json:"game"`
	Run      WeeklyRun `json:"run"`
	Feedback *Feedback `json:"feedback,omitempty"`
}
