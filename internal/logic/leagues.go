package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/futchampions/tracker-api/internal/models"
)

type leagueService struct {
	pg       PgPool
	redis    RedisClient
	cacheTTL time.Duration
	now      func() time.Time
}

func NewLeagueService(pg PgPool, rdb RedisClient, cacheTTL time.Duration) LeagueService {
	return &leagueService{pg: pg, redis: rdb, cacheTTL: cacheTTL, now: time.Now}
}

func standingsKey(leagueID uuid.UUID) string {
	return "league:" + leagueID.String() + ":standings"
}

// newInviteCode returns an 8 character upper-case code
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (s *leagueService) CreateLeague(ctx context.Context, userID uuid.UUID, req models.CreateLeagueRequest) (*models.League, error) {
	league := &models.League{
		ID:          uuid.New(),
		Name:        req.Name,
		OwnerID:     userID,
		GameVersion: req.GameVersion,
		InviteCode:  newInviteCode(),
		MemberCount: 1,
		CreatedAt:   s.now().UTC(),
	}

	_, err := s.pg.Exec(ctx, `
		INSERT INTO fut_leagues (id, name, owner_id, game_version, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, league.ID, league.Name, league.OwnerID, league.GameVersion, league.InviteCode, league.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert league: %w", err)
	}

	if err := s.addMember(ctx, league.ID, userID, req.DisplayName); err != nil {
		return nil, err
	}
	return league, nil
}

func (s *leagueService) JoinLeague(ctx context.Context, userID uuid.UUID, req models.JoinLeagueRequest) (*models.League, error) {
	var league models.League
	err := s.pg.QueryRow(ctx, `
		SELECT l.id, l.name, l.owner_id, l.game_version, l.invite_code, l.created_at,
			(SELECT COUNT(*) FROM fut_league_members m WHERE m.league_id = l.id)
		FROM fut_leagues l
		WHERE l.invite_code = $1
	`, strings.ToUpper(req.InviteCode)).Scan(&league.ID, &league.Name, &league.OwnerID, &league.GameVersion,
		&league.InviteCode, &league.CreatedAt, &league.MemberCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find league: %w", err)
	}

	if err := s.addMember(ctx, league.ID, userID, req.DisplayName); err != nil {
		return nil, err
	}
	league.MemberCount++
	s.dropCache(ctx, league.ID)
	return &league, nil
}

func (s *leagueService) addMember(ctx context.Context, leagueID, userID uuid.UUID, displayName string) error {
	tag, err := s.pg.Exec(ctx, `
		INSERT INTO fut_league_members (league_id, user_id, display_name, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (league_id, user_id) DO NOTHING
	`, leagueID, userID, displayName, s.now().UTC())
	if err != nil {
		return fmt.Errorf("insert league member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyMember
	}
	return nil
}

func (s *leagueService) ListLeagues(ctx context.Context, userID uuid.UUID) ([]models.League, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT l.id, l.name, l.owner_id, l.game_version, l.invite_code, l.created_at,
			(SELECT COUNT(*) FROM fut_league_members c WHERE c.league_id = l.id)
		FROM fut_leagues l
		JOIN fut_league_members m ON m.league_id = l.id
		WHERE m.user_id = $1
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query leagues: %w", err)
	}
	defer rows.Close()

	list := []models.League{}
	for rows.Next() {
		var l models.League
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &l.GameVersion, &l.InviteCode, &l.CreatedAt, &l.MemberCount); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leagues: %w", err)
	}
	return list, nil
}

// GetStandings returns the league table. Only members may read it.
func (s *leagueService) GetStandings(ctx context.Context, userID, leagueID uuid.UUID) ([]models.LeagueStanding, error) {
	var version string
	err := s.pg.QueryRow(ctx, `
		SELECT l.game_version
		FROM fut_leagues l
		JOIN fut_league_members m ON m.league_id = l.id
		WHERE l.id = $1 AND m.user_id = $2
	`, leagueID, userID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find league: %w", err)
	}

	if cached, ok := s.readCache(ctx, leagueID); ok {
		return cached, nil
	}

	rows, err := s.pg.Query(ctx, `
		SELECT m.user_id, m.display_name,
			COUNT(r.id),
			COALESCE(SUM(r.total_wins), 0),
			COALESCE(SUM(r.total_losses), 0),
			COALESCE(SUM(r.total_goals), 0),
			COALESCE(SUM(r.total_conceded), 0),
			COALESCE(MAX(r.total_wins), 0)
		FROM fut_league_members m
		LEFT JOIN fut_runs r ON r.user_id = m.user_id AND r.game_version = $2
		WHERE m.league_id = $1
		GROUP BY m.user_id, m.display_name
	`, leagueID, version)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var table []models.LeagueStanding
	for rows.Next() {
		var st models.LeagueStanding
		if err := rows.Scan(&st.UserID, &st.DisplayName, &st.Runs, &st.Wins, &st.Losses,
			&st.GoalsFor, &st.GoalsAgainst, &st.BestRunWins); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		table = append(table, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}

	table = RankStandings(table)
	s.writeCache(ctx, leagueID, table)
	return table, nil
}

// InvalidateStandings drops cached tables for every league of the user on version
func (s *leagueService) InvalidateStandings(ctx context.Context, userID uuid.UUID, version string) error {
	rows, err := s.pg.Query(ctx, `
		SELECT l.id
		FROM fut_leagues l
		JOIN fut_league_members m ON m.league_id = l.id
		WHERE m.user_id = $1 AND l.game_version = $2
	`, userID, version)
	if err != nil {
		return fmt.Errorf("query member leagues: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan league id: %w", err)
		}
		keys = append(keys, standingsKey(id))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user leagues: %w", err)
	}
	if len(keys) == 0 || s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, keys...).Err()
}

// RankStandings orders by wins, then goal difference, then name, and assigns
// 1-based ranks.
func RankStandings(table []models.LeagueStanding) []models.LeagueStanding {
	out := make([]models.LeagueStanding, len(table))
	copy(out, table)
	for i := range out {
		out[i].GoalDifference = out[i].GoalsFor - out[i].GoalsAgainst
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func (s *leagueService) readCache(ctx context.Context, leagueID uuid.UUID) ([]models.LeagueStanding, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, standingsKey(leagueID)).Result()
	if err != nil {
		return nil, false
	}
	var table []models.LeagueStanding
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, false
	}
	return table, true
}

func (s *leagueService) writeCache(ctx context.Context, leagueID uuid.UUID, table []models.LeagueStanding) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(table)
	if err != nil {
		return
	}
	s.redis.Set(ctx, standingsKey(leagueID), data, s.cacheTTL)
}

func (s *leagueService) dropCache(ctx context.Context, leagueID uuid.UUID) {
	if s.redis != nil {
		s.redis.Del(ctx, standingsKey(leagueID))
	}
}
