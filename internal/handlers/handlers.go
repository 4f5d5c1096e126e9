package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/models"
	"github.com/futchampions/tracker-api/internal/worker"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// GameQueue defines the interface for the game ingestion worker pool
type GameQueue interface {
	Enqueue(game models.Game, version string) bool
	QueueDepth() int
}

// RecalcQueue defines the interface for the achievement worker
type RecalcQueue interface {
	Enqueue(job worker.RecalcJob) bool
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type Config struct {
	GamePool       GameQueue
	Recalc         RecalcQueue
	Checks         map[string]HealthCheck
	Logger         *zap.Logger
	DefaultVersion string
	// Services
	Runs         logic.RunService
	Achievements logic.AchievementsService
	Leagues      logic.LeagueService
	Settings     logic.SettingsService
	Dashboard    logic.DashboardService
	Feedback     *logic.FeedbackSelector
}

type Handler struct {
	pool           GameQueue
	recalc         RecalcQueue
	checks         map[string]HealthCheck
	logger         *zap.SugaredLogger
	validator      *validator.Validate
	defaultVersion string
	runs           logic.RunService
	achievements   logic.AchievementsService
	leagues        logic.LeagueService
	settings       logic.SettingsService
	dashboard      logic.DashboardService
	feedback       *logic.FeedbackSelector
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:           cfg.GamePool,
		recalc:         cfg.Recalc,
		checks:         cfg.Checks,
		logger:         cfg.Logger.Sugar(),
		validator:      validator.New(),
		defaultVersion: cfg.DefaultVersion,
		runs:           cfg.Runs,
		achievements:   cfg.Achievements,
		leagues:        cfg.Leagues,
		settings:       cfg.Settings,
		dashboard:      cfg.Dashboard,
		feedback:       cfg.Feedback,
	}
}
