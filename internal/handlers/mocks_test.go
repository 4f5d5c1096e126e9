package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/models"
	"github.com/futchampions/tracker-api/internal/worker"
)

// Mocks

type MockRuns struct {
	logic.RunService
	CreateRunFunc   func(ctx context.Context, userID uuid.UUID, req models.CreateRunRequest) (*models.WeeklyRun, error)
	GetRunFunc      func(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error)
	ListRunsFunc    func(ctx context.Context, userID uuid.UUID, version string) ([]models.WeeklyRun, error)
	DeleteRunFunc   func(ctx context.Context, userID, runID uuid.UUID) error
	AddGameFunc     func(ctx context.Context, userID, runID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error)
	DeleteGameFunc  func(ctx context.Context, userID, runID, gameID uuid.UUID) (*models.WeeklyRun, error)
	ListGamesFunc   func(ctx context.Context, userID uuid.UUID, version string) ([]models.Game, error)
	LastVersion     string
	ListGamesCalled bool
}

func (m *MockRuns) CreateRun(ctx context.Context, userID uuid.UUID, req models.CreateRunRequest) (*models.WeeklyRun, error) {
	return m.CreateRunFunc(ctx, userID, req)
}

func (m *MockRuns) GetRun(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error) {
	return m.GetRunFunc(ctx, userID, runID)
}

func (m *MockRuns) ListRuns(ctx context.Context, userID uuid.UUID, version string) ([]models.WeeklyRun, error) {
	m.LastVersion = version
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(ctx, userID, version)
	}
	return []models.WeeklyRun{}, nil
}

func (m *MockRuns) DeleteRun(ctx context.Context, userID, runID uuid.UUID) error {
	if m.DeleteRunFunc != nil {
		return m.DeleteRunFunc(ctx, userID, runID)
	}
	return nil
}

func (m *MockRuns) AddGame(ctx context.Context, userID, runID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error) {
	return m.AddGameFunc(ctx, userID, runID, req)
}

func (m *MockRuns) DeleteGame(ctx context.Context, userID, runID, gameID uuid.UUID) (*models.WeeklyRun, error) {
	return m.DeleteGameFunc(ctx, userID, runID, gameID)
}

func (m *MockRuns) ListGames(ctx context.Context, userID uuid.UUID, version string) ([]models.Game, error) {
	m.ListGamesCalled = true
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx, userID, version)
	}
	return nil, nil
}

type MockAchievements struct {
	Defs []models.AchievementDefinition
	List []models.UserAchievement
	Err  error
}

func (m *MockAchievements) Definitions() []models.AchievementDefinition { return m.Defs }

func (m *MockAchievements) GetUserAchievements(ctx context.Context, userID uuid.UUID, version string) ([]models.UserAchievement, error) {
	return m.List, m.Err
}

func (m *MockAchievements) Recalculate(ctx context.Context, userID uuid.UUID, version string) (models.AchievementDelta, error) {
	return models.AchievementDelta{}, m.Err
}

type MockLeagues struct {
	logic.LeagueService
	JoinErr      error
	Standings    []models.LeagueStanding
	StandingsErr error
}

func (m *MockLeagues) JoinLeague(ctx context.Context, userID uuid.UUID, req models.JoinLeagueRequest) (*models.League, error) {
	if m.JoinErr != nil {
		return nil, m.JoinErr
	}
	return &models.League{ID: uuid.New(), InviteCode: req.InviteCode, MemberCount: 2}, nil
}

func (m *MockLeagues) GetStandings(ctx context.Context, userID, leagueID uuid.UUID) ([]models.LeagueStanding, error) {
	return m.Standings, m.StandingsErr
}

type MockSettings struct {
	Saved *models.NotificationSettings
}

func (m *MockSettings) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (*models.NotificationSettings, error) {
	ns := models.DefaultNotificationSettings(userID)
	return &ns, nil
}

func (m *MockSettings) UpdateNotificationSettings(ctx context.Context, ns models.NotificationSettings) (*models.NotificationSettings, error) {
	m.Saved = &ns
	return &ns, nil
}

type MockGameQueue struct {
	Reject bool
	mu     sync.Mutex
	Games  []models.Game
}

func (m *MockGameQueue) Enqueue(game models.Game, version string) bool {
	if m.Reject {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Games = append(m.Games, game)
	return true
}

func (m *MockGameQueue) QueueDepth() int { return len(m.Games) }

type MockRecalcQueue struct {
	Reject bool
	Jobs   []worker.RecalcJob
}

func (m *MockRecalcQueue) Enqueue(job worker.RecalcJob) bool {
	if m.Reject {
		return false
	}
	m.Jobs = append(m.Jobs, job)
	return true
}
