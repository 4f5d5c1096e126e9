package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/futchampions/tracker-api/internal/models"
)

// EvaluateAchievements compares metrics against every definition and returns
// the writes needed to bring stored progress up to date. Unlocked records are
// never touched again; unchanged progress produces no write.
func EvaluateAchievements(
	defs []models.AchievementDefinition,
	existing []models.UserAchievement,
	metrics models.AchievementMetrics,
	userID uuid.UUID,
	version string,
	now time.Time,
) models.AchievementDelta {
	stored := make(map[string]models.UserAchievement, len(existing))
	for _, ua := range existing {
		stored[ua.AchievementID] = ua
	}

	var delta models.AchievementDelta
	for _, def := range defs {
		prev, hasPrev := stored[def.ID]
		if hasPrev && prev.Unlocked {
			continue
		}

		current := metrics.Value(def.Metric)
		rec := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			GameVersion:   version,
			Progress:      current,
			Target:        def.Target,
			UpdatedAt:     now,
		}

		if current >= def.Target {
			unlockedAt := now
			rec.Progress = def.Target
			rec.Unlocked = true
			rec.UnlockedAt = &unlockedAt
		} else if hasPrev && prev.Progress == current {
			continue
		}

		if hasPrev {
			delta.Upserts = append(delta.Upserts, rec)
		} else {
			delta.Inserts = append(delta.Inserts, rec)
		}
	}
	return delta
}

type achievementsService struct {
	pg   PgPool
	runs RunService
	defs []models.AchievementDefinition
	now  func() time.Time
}

func NewAchievementsService(pg PgPool, runs RunService, defs []models.AchievementDefinition) AchievementsService {
	return &achievementsService{pg: pg, runs: runs, defs: defs, now: time.Now}
}

func (s *achievementsService) Definitions() []models.AchievementDefinition {
	return s.defs
}

func (s *achievementsService) GetUserAchievements(ctx context.Context, userID uuid.UUID, version string) ([]models.UserAchievement, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT user_id, achievement_id, game_version, progress, target, unlocked, unlocked_at, updated_at
		FROM fut_user_achievements
		WHERE user_id = $1 AND game_version = $2
		ORDER BY achievement_id
	`, userID, version)
	if err != nil {
		return nil, fmt.Errorf("query user achievements: %w", err)
	}
	defer rows.Close()

	list := []models.UserAchievement{}
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.UserID, &ua.AchievementID, &ua.GameVersion, &ua.Progress, &ua.Target,
			&ua.Unlocked, &ua.UnlockedAt, &ua.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		list = append(list, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user achievements: %w", err)
	}
	return list, nil
}

// Recalculate folds the user's games, evaluates every definition and writes
// the delta as an upsert batch followed by an insert batch. The two writes are
// not transactional; a failure in between is repaired by the next call.
func (s *achievementsService) Recalculate(ctx context.Context, userID uuid.UUID, version string) (models.AchievementDelta, error) {
	games, err := s.runs.ListGames(ctx, userID, version)
	if err != nil {
		return models.AchievementDelta{}, err
	}
	existing, err := s.GetUserAchievements(ctx, userID, version)
	if err != nil {
		return models.AchievementDelta{}, err
	}

	delta := EvaluateAchievements(s.defs, existing, CalculateMetrics(games), userID, version, s.now().UTC())

	if len(delta.Upserts) > 0 {
		if err := s.write(ctx, upsertAchievementsSQL, userID, version, delta.Upserts); err != nil {
			return delta, fmt.Errorf("upsert achievements: %w", err)
		}
	}
	if len(delta.Inserts) > 0 {
		if err := s.write(ctx, insertAchievementsSQL, userID, version, delta.Inserts); err != nil {
			return delta, fmt.Errorf("insert achievements: %w", err)
		}
	}
	return delta, nil
}

// The guard on unlocked keeps an unlock sticky even if two evaluations race.
const upsertAchievementsSQL = `
	INSERT INTO fut_user_achievements (user_id, achievement_id, game_version, progress, target, unlocked, unlocked_at, updated_at)
	SELECT $1, a.id, $2, a.progress, a.target, a.unlocked, a.unlocked_at, a.updated_at
	FROM unnest($3::text[], $4::int[], $5::int[], $6::bool[], $7::timestamptz[], $8::timestamptz[])
		AS a(id, progress, target, unlocked, unlocked_at, updated_at)
	ON CONFLICT (user_id, achievement_id, game_version) DO UPDATE
	SET progress = EXCLUDED.progress, target = EXCLUDED.target, unlocked = EXCLUDED.unlocked,
		unlocked_at = EXCLUDED.unlocked_at, updated_at = EXCLUDED.updated_at
	WHERE NOT fut_user_achievements.unlocked`

const insertAchievementsSQL = `
	INSERT INTO fut_user_achievements (user_id, achievement_id, game_version, progress, target, unlocked, unlocked_at, updated_at)
	SELECT $1, a.id, $2, a.progress, a.target, a.unlocked, a.unlocked_at, a.updated_at
	FROM unnest($3::text[], $4::int[], $5::int[], $6::bool[], $7::timestamptz[], $8::timestamptz[])
		AS a(id, progress, target, unlocked, unlocked_at, updated_at)
	ON CONFLICT (user_id, achievement_id, game_version) DO NOTHING`

func (s *achievementsService) write(ctx context.Context, sql string, userID uuid.UUID, version string, recs []models.UserAchievement) error {
	ids := make([]string, len(recs))
	progress := make([]int, len(recs))
	targets := make([]int, len(recs))
	unlocked := make([]bool, len(recs))
	unlockedAt := make([]*time.Time, len(recs))
	updatedAt := make([]time.Time, len(recs))
	for i, r := range recs {
		ids[i] = r.AchievementID
		progress[i] = r.Progress
		targets[i] = r.Target
		unlocked[i] = r.Unlocked
		unlockedAt[i] = r.UnlockedAt
		updatedAt[i] = r.UpdatedAt
	}

	_, err := s.pg.Exec(ctx, sql, userID, version, ids, progress, targets, unlocked, unlockedAt, updatedAt)
	return err
}
