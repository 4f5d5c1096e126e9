package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/futchampions/tracker-api/internal/models"
)

type versionStatsService struct {
	ch driver.Conn
}

func NewVersionStatsService(ch driver.Conn) VersionStatsService {
	return &versionStatsService{ch: ch}
}

// GetVersionStats aggregates every logged game of a version across all users
func (s *versionStatsService) GetVersionStats(ctx context.Context, version string) (*models.VersionStats, error) {
	stats := &models.VersionStats{GameVersion: version}

	var wins uint64
	var goalsFor, goalsAgainst float64
	err := s.ch.QueryRow(ctx, `
		SELECT
			count() AS games,
			uniqExact(user_id) AS players,
			countIf(result = 'win') AS wins,
			avg(user_goals) AS goals_for,
			avg(opponent_goals) AS goals_against
		FROM fut_stats.game_results FINAL
		WHERE game_version = ?
	`, version).Scan(&stats.TotalGames, &stats.TotalPlayers, &wins, &goalsFor, &goalsAgainst)
	if err != nil {
		return nil, fmt.Errorf("query version stats: %w", err)
	}

	if stats.TotalGames > 0 {
		stats.WinRate = float64(wins) / float64(stats.TotalGames)
		stats.AvgGoalsFor = goalsFor
		stats.AvgGoalsAgainst = goalsAgainst
	}
	return stats, nil
}
