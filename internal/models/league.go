package models

import (
	"time"

	"github.com/google/uuid"
)

// League is a private group of friends comparing results for one game version
type League struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerID     uuid.UUID `json:"owner_id"`
	GameVersion string    `json:"game_version"`
	InviteCode  string    `json:"invite_code"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeagueStanding is one member's row in a league table
type LeagueStanding struct {
	Rank           int       `json:"rank"`
	UserID         uuid.UUID `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	Runs           int       `json:"runs"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	BestRunWins    int       `json:"best_run_wins"`
}

// NotificationSettings has one switch per channel and category
type NotificationSettings struct {
	UserID             uuid.UUID `json:"user_id"`
	EmailAchievements  bool      `json:"email_achievements"`
	PushAchievements   bool      `json:"push_achievements"`
	EmailLeagues       bool      `json:"email_leagues"`
	PushLeagues        bool      `json:"push_leagues"`
	EmailWeeklySummary bool      `json:"email_weekly_summary"`
	PushWeeklySummary  bool      `json:"push_weekly_summary"`
	InAppFeedback      bool      `json:"in_app_feedback"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultNotificationSettings is what a user gets before saving any preference
func DefaultNotificationSettings(userID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		UserID:             userID,
		PushAchievements:   true,
		PushLeagues:        true,
		EmailWeeklySummary: true,
		InAppFeedback:      true,
	}
}
