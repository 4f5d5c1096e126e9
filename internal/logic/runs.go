package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/futchampions/tracker-api/internal/models"
)

const runColumns = `
	id, user_id, game_version, COALESCE(name, ''), COALESCE(target_rank, ''), COALESCE(target_wins, 0),
	total_wins, total_losses, total_goals, total_conceded, completed, created_at, updated_at`

const gameColumns = `
	g.id, g.run_id, g.user_id, g.game_number, g.result, g.user_goals, g.opponent_goals,
	g.opponent_skill, g.details, g.created_at`

// gameDetails is the optional part of a game stored as jsonb
type gameDetails struct {
	Players   []models.PlayerPerformance `json:"players,omitempty"`
	TeamStats *models.TeamStats          `json:"team_stats,omitempty"`
	Penalties *models.PenaltyShootout    `json:"penalties,omitempty"`
}

type runService struct {
	pg  PgPool
	now func() time.Time
}

func NewRunService(pg PgPool) RunService {
	return &runService{pg: pg, now: time.Now}
}

func (s *runService) CreateRun(ctx context.Context, userID uuid.UUID, req models.CreateRunRequest) (*models.WeeklyRun, error) {
	now := s.now().UTC()
	run := &models.WeeklyRun{
		ID:          uuid.New(),
		UserID:      userID,
		GameVersion: req.GameVersion,
		Name:        req.Name,
		TargetRank:  req.TargetRank,
		TargetWins:  req.TargetWins,
		Games:       []models.Game{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.pg.Exec(ctx, `
		INSERT INTO fut_runs (id, user_id, game_version, name, target_rank, target_wins,
			total_wins, total_losses, total_goals, total_conceded, completed, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, 0), 0, 0, 0, 0, false, $7, $7)
	`, run.ID, run.UserID, run.GameVersion, run.Name, run.TargetRank, run.TargetWins, now)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

func (s *runService) GetRun(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error) {
	row := s.pg.QueryRow(ctx, `SELECT `+runColumns+` FROM fut_runs WHERE id = $1 AND user_id = $2`, runID, userID)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	games, err := s.queryGames(ctx, `
		SELECT `+gameColumns+`
		FROM fut_games g
		WHERE g.run_id = $1
		ORDER BY g.game_number
	`, runID)
	if err != nil {
		return nil, err
	}
	run.Games = games
	return run, nil
}

func (s *runService) ListRuns(ctx context.Context, userID uuid.UUID, version string) ([]models.WeeklyRun, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT `+runColumns+`
		FROM fut_runs
		WHERE user_id = $1 AND game_version = $2
		ORDER BY created_at DESC
	`, userID, version)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.WeeklyRun{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		run.Games = []models.Game{}
		index[run.ID] = len(runs)
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	if len(runs) == 0 {
		return runs, nil
	}

	games, err := s.queryGames(ctx, `
		SELECT `+gameColumns+`
		FROM fut_games g
		JOIN fut_runs r ON r.id = g.run_id
		WHERE r.user_id = $1 AND r.game_version = $2
		ORDER BY g.run_id, g.game_number
	`, userID, version)
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if i, ok := index[g.RunID]; ok {
			runs[i].Games = append(runs[i].Games, g)
		}
	}
	return runs, nil
}

func (s *runService) UpdateRun(ctx context.Context, userID, runID uuid.UUID, req models.UpdateRunRequest) (*models.WeeklyRun, error) {
	run, err := s.GetRun(ctx, userID, runID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		run.Name = *req.Name
	}
	if req.TargetRank != nil {
		run.TargetRank = *req.TargetRank
	}
	if req.TargetWins != nil {
		run.TargetWins = *req.TargetWins
	}
	run.UpdatedAt = s.now().UTC()

	_, err = s.pg.Exec(ctx, `
		UPDATE fut_runs
		SET name = NULLIF($3, ''), target_rank = NULLIF($4, ''), target_wins = NULLIF($5, 0), updated_at = $6
		WHERE id = $1 AND user_id = $2
	`, run.ID, userID, run.Name, run.TargetRank, run.TargetWins, run.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	return run, nil
}

func (s *runService) CompleteRun(ctx context.Context, userID, runID uuid.UUID) (*models.WeeklyRun, error) {
	run, err := s.GetRun(ctx, userID, runID)
	if err != nil {
		return nil, err
	}
	if run.Completed {
		return run, nil
	}
	run.Completed = true
	run.RecomputeTotals()
	if err := s.saveRunState(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *runService) DeleteRun(ctx context.Context, userID, runID uuid.UUID) error {
	tag, err := s.pg.Exec(ctx, `DELETE FROM fut_runs WHERE id = $1 AND user_id = $2`, runID, userID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *runService) AddGame(ctx context.Context, userID, runID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error) {
	run, err := s.GetRun(ctx, userID, runID)
	if err != nil {
		return nil, nil, err
	}
	if run.Completed {
		return nil, nil, ErrRunCompleted
	}
	if len(run.Games) >= models.MaxGamesPerRun {
		return nil, nil, ErrRunFull
	}

	number := req.GameNumber
	if number == 0 {
		number = run.NextGameNumber()
	}
	if number < 1 || number > models.MaxGamesPerRun {
		return nil, nil, ErrInvalidGame
	}
	for _, g := range run.Games {
		if g.GameNumber == number {
			return nil, nil, ErrDuplicateGame
		}
	}

	game := gameFromRequest(req)
	game.ID = uuid.New()
	game.RunID = run.ID
	game.UserID = userID
	game.GameNumber = number
	game.CreatedAt = s.now().UTC()

	details, err := json.Marshal(gameDetails{Players: game.Players, TeamStats: game.TeamStats, Penalties: game.Penalties})
	if err != nil {
		return nil, nil, fmt.Errorf("encode game details: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO fut_games (id, run_id, user_id, game_number, result, user_goals, opponent_goals,
			opponent_skill, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, game.ID, game.RunID, game.UserID, game.GameNumber, string(game.Result), game.UserGoals,
		game.OpponentGoals, game.OpponentSkill, details, game.CreatedAt)
	if isUniqueViolation(err) {
		return nil, nil, ErrDuplicateGame
	}
	if err != nil {
		return nil, nil, fmt.Errorf("insert game: %w", err)
	}

	run.Games = append(run.Games, game)
	run.RecomputeTotals()
	if err := s.saveRunState(ctx, run); err != nil {
		return nil, nil, err
	}
	return &game, run, nil
}

func (s *runService) UpdateGame(ctx context.Context, userID, runID, gameID uuid.UUID, req models.LogGameRequest) (*models.Game, *models.WeeklyRun, error) {
	run, err := s.GetRun(ctx, userID, runID)
	if err != nil {
		return nil, nil, err
	}

	idx := findGame(run.Games, gameID)
	if idx < 0 {
		return nil, nil, ErrNotFound
	}

	existing := run.Games[idx]
	number := req.GameNumber
	if number == 0 {
		number = existing.GameNumber
	}
	if number < 1 || number > models.MaxGamesPerRun {
		return nil, nil, ErrInvalidGame
	}
	for i, g := range run.Games {
		if i != idx && g.GameNumber == number {
			return nil, nil, ErrDuplicateGame
		}
	}

	game := gameFromRequest(req)
	game.ID = existing.ID
	game.RunID = existing.RunID
	game.UserID = existing.UserID
	game.CreatedAt = existing.CreatedAt
	game.GameNumber = number

	details, err := json.Marshal(gameDetails{Players: game.Players, TeamStats: game.TeamStats, Penalties: game.Penalties})
	if err != nil {
		return nil, nil, fmt.Errorf("encode game details: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		UPDATE fut_games
		SET game_number = $3, result = $4, user_goals = $5, opponent_goals = $6, opponent_skill = $7, details = $8
		WHERE id = $1 AND run_id = $2
	`, game.ID, game.RunID, game.GameNumber, string(game.Result), game.UserGoals, game.OpponentGoals,
		game.OpponentSkill, details)
	if isUniqueViolation(err) {
		return nil, nil, ErrDuplicateGame
	}
	if err != nil {
		return nil, nil, fmt.Errorf("update game: %w", err)
	}

	run.Games[idx] = game
	run.RecomputeTotals()
	if err := s.saveRunState(ctx, run); err != nil {
		return nil, nil, err
	}
	return &game, run, nil
}

func (s *runService) DeleteGame(ctx context.Context, userID, runID, gameID uuid.UUID) (*models.WeeklyRun, error) {
	run, err := s.GetRun(ctx, userID, runID)
	if err != nil {
		return nil, err
	}

	idx := findGame(run.Games, gameID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	if _, err := s.pg.Exec(ctx, `DELETE FROM fut_games WHERE id = $1 AND run_id = $2`, gameID, runID); err != nil {
		return nil, fmt.Errorf("delete game: %w", err)
	}

	run.Games = append(run.Games[:idx], run.Games[idx+1:]...)
	run.RecomputeTotals()
	if err := s.saveRunState(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *runService) ListGames(ctx context.Context, userID uuid.UUID, version string) ([]models.Game, error) {
	return s.queryGames(ctx, `
		SELECT `+gameColumns+`
		FROM fut_games g
		JOIN fut_runs r ON r.id = g.run_id
		WHERE r.user_id = $1 AND r.game_version = $2
		ORDER BY g.created_at
	`, userID, version)
}

// saveRunState writes the derived totals and completion flag back to the run row
func (s *runService) saveRunState(ctx context.Context, run *models.WeeklyRun) error {
	run.UpdatedAt = s.now().UTC()
	_, err := s.pg.Exec(ctx, `
		UPDATE fut_runs
		SET total_wins = $2, total_losses = $3, total_goals = $4, total_conceded = $5,
			completed = $6, updated_at = $7
		WHERE id = $1
	`, run.ID, run.TotalWins, run.TotalLosses, run.TotalGoals, run.TotalConceded, run.Completed, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update run totals: %w", err)
	}
	return nil
}

func (s *runService) queryGames(ctx context.Context, sql string, args ...any) ([]models.Game, error) {
	rows, err := s.pg.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		var (
			g       models.Game
			result  string
			details []byte
		)
		if err := rows.Scan(&g.ID, &g.RunID, &g.UserID, &g.GameNumber, &result, &g.UserGoals,
			&g.OpponentGoals, &g.OpponentSkill, &details, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Result = models.Result(result)
		if len(details) > 0 {
			var d gameDetails
			if err := json.Unmarshal(details, &d); err == nil {
				g.Players, g.TeamStats, g.Penalties = d.Players, d.TeamStats, d.Penalties
			}
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

func scanRun(row pgx.Row) (*models.WeeklyRun, error) {
	var run models.WeeklyRun
	err := row.Scan(&run.ID, &run.UserID, &run.GameVersion, &run.Name, &run.TargetRank, &run.TargetWins,
		&run.TotalWins, &run.TotalLosses, &run.TotalGoals, &run.TotalConceded, &run.Completed,
		&run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &run, nil
}

func gameFromRequest(req models.LogGameRequest) models.Game {
	return models.Game{
		Result:        req.Result,
		UserGoals:     req.UserGoals,
		OpponentGoals: req.OpponentGoals,
		OpponentSkill: req.OpponentSkill,
		Players:       req.Players,
		TeamStats:     req.TeamStats,
		Penalties:     req.Penalties,
	}
}

func findGame(games []models.Game, id uuid.UUID) int {
	for i, g := range games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// isUniqueViolation reports a concurrent log that won the (run_id, game_number) slot
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
