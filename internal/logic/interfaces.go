package logic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/futchampions/tracker-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RunService interface {
	CreateRun(ctx context.Context, userID uuid.UUID, req models.CreateRunRequest) (*models.WeeklyRun, error)
	GetRun(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error)
	ListRuns(ctx context.Context, userID uuid.UUID, version string) ([]models.WeeklyRun, error)
	UpdateRun(ctx context.Context, userID, runID uuid.UUID, req models.UpdateRunRequest) (*models.WeeklyRun, error)
	CompleteRun(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error)
	DeleteRun(ctx context.Context, userID, runID uuid.UUID) error
	AddGame(ctx context.Context, userID, runID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error)
	UpdateGame(ctx context.Context, userID, runID, gameID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error)
	DeleteGame(ctx context.Context, userID, runID, gameID uuid.UUID) (*models.WeeklyRun, error)
	ListGames(ctx context.Context, userID uuid.UUID, version string) ([]models.Game, error)
}

type AchievementsService interface {
	Definitions() []models.AchievementDefinition
	GetUserAchievements(ctx context.Context, userID uuid.UUID, version string) ([]models.UserAchievement, error)
	Recalculate(ctx context.Context, userID uuid.UUID, version string) (models.AchievementDelta, error)
}

type LeagueService interface {
	CreateLeague(ctx context.Context, userID uuid.UUID, req models.CreateLeagueRequest) (*models.League, error)
	JoinLeague(ctx context.Context, userID uuid.UUID, req models.JoinLeagueRequest) (*models.League, error)
	ListLeagues(ctx context.Context, userID uuid.UUID) ([]models.League, error)
	GetStandings(ctx context.Context, userID, leagueID uuid.UUID) ([]models.LeagueStanding, error)
	InvalidateStandings(ctx context.Context, userID uuid.UUID, version string) error
}

type SettingsService interface {
	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (*models.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, settings models.NotificationSettings) (*models.NotificationSettings, error)
}

type VersionStatsService interface {
	GetVersionStats(ctx context.Context, version string) (*models.VersionStats, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID, version string) (*models.Dashboard, error)
}
