package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/futchampions/tracker-api/internal/models"
)

type settingsService struct {
	pg  PgPool
	now func() time.Time
}

func NewSettingsService(pg PgPool) SettingsService {
	return &settingsService{pg: pg, now: time.Now}
}

// GetNotificationSettings falls back to defaults when the user never saved any
func (s *settingsService) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (*models.NotificationSettings, error) {
	ns := models.NotificationSettings{UserID: userID}
	err := s.pg.QueryRow(ctx, `
		SELECT email_achievements, push_achievements, email_leagues, push_leagues,
			email_weekly_summary, push_weekly_summary, in_app_feedback, updated_at
		FROM fut_notification_settings
		WHERE user_id = $1
	`, userID).Scan(&ns.EmailAchievements, &ns.PushAchievements, &ns.EmailLeagues, &ns.PushLeagues,
		&ns.EmailWeeklySummary, &ns.PushWeeklySummary, &ns.InAppFeedback, &ns.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		def := models.DefaultNotificationSettings(userID)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query notification settings: %w", err)
	}
	return &ns, nil
}

func (s *settingsService) UpdateNotificationSettings(ctx context.Context, ns models.NotificationSettings) (*models.NotificationSettings, error) {
	ns.UpdatedAt = s.now().UTC()
	_, err := s.pg.Exec(ctx, `
		INSERT INTO fut_notification_settings (user_id, email_achievements, push_achievements, email_leagues,
			push_leagues, email_weekly_summary, push_weekly_summary, in_app_feedback, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET email_achievements = EXCLUDED.email_achievements,
			push_achievements = EXCLUDED.push_achievements,
			email_leagues = EXCLUDED.email_leagues,
			push_leagues = EXCLUDED.push_leagues,
			email_weekly_summary = EXCLUDED.email_weekly_summary,
			push_weekly_summary = EXCLUDED.push_weekly_summary,
			in_app_feedback = EXCLUDED.in_app_feedback,
			updated_at = EXCLUDED.updated_at
	`, ns.UserID, ns.EmailAchievements, ns.PushAchievements, ns.EmailLeagues, ns.PushLeagues,
		ns.EmailWeeklySummary, ns.PushWeeklySummary, ns.InAppFeedback, ns.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save notification settings: %w", err)
	}
	return &ns, nil
}
