package logic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/futchampions/tracker-api/internal/models"
)

type dashboardService struct {
	runs         RunService
	achievements AchievementsService
	versions     VersionStatsService
}

func NewDashboardService(runs RunService, achievements AchievementsService, versions VersionStatsService) DashboardService {
	return &dashboardService{runs: runs, achievements: achievements, versions: versions}
}

// GetDashboard fetches runs, achievements and version stats concurrently.
// Version stats are optional: a failing analytics store leaves them nil.
func (s *dashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, version string) (*models.Dashboard, error) {
	d := &models.Dashboard{GameVersion: version}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runs, err := s.runs.ListRuns(ctx, userID, version)
		if err != nil {
			return fmt.Errorf("runs: %w", err)
		}
		d.Runs = runs
		d.Chunks = AnalyzeChunks(runs)
		return nil
	})

	g.Go(func() error {
		list, err := s.achievements.GetUserAchievements(ctx, userID, version)
		if err != nil {
			return fmt.Errorf("achievements: %w", err)
		}
		d.Achievements = list
		return nil
	})

	if s.versions != nil {
		g.Go(func() error {
			if vs, err := s.versions.GetVersionStats(ctx, version); err == nil {
				d.Version = vs
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
