package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/models"
)

// ErrLockBusy is returned when another recalculation for the same user and
// version held the lock for the whole wait period
var ErrLockBusy = errors.New("recalculation lock busy")

// StatStore abstracts the Redis operations the worker needs
type StatStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Publish(ctx context.Context, channel string, message interface{}) error
	// Release deletes key only while it still holds token
	Release(ctx context.Context, key, token string) (bool, error)
}

// RedisStatStore implements StatStore using Redis
type RedisStatStore struct {
	client *redis.Client
}

func NewRedisStatStore(client *redis.Client) *RedisStatStore {
	return &RedisStatStore{client: client}
}

func (s *RedisStatStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, expiration).Result()
}

func (s *RedisStatStore) Publish(ctx context.Context, channel string, message interface{}) error {
	return s.client.Publish(ctx, channel, message).Err()
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (s *RedisStatStore) Release(ctx context.Context, key, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, s.client, []string{key}, token).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RecalcJob asks for a user's achievements on one game version to be re-evaluated
type RecalcJob struct {
	UserID  uuid.UUID
	Version string
}

// AchievementWorkerConfig configures the recalculation worker
type AchievementWorkerConfig struct {
	Workers   int
	QueueSize int
	LockTTL   time.Duration
	// LockRetry is the pause between attempts to take a busy lock
	LockRetry time.Duration
}

// AchievementWorker re-evaluates achievements off the request path and
// announces unlocks on Redis
type AchievementWorker struct {
	achievements logic.AchievementsService
	leagues      logic.LeagueService
	statStore    StatStore
	logger       *zap.SugaredLogger
	config       AchievementWorkerConfig
	defs         map[string]models.AchievementDefinition
	ctx          context.Context
	cancel       context.CancelFunc
	jobQueue     chan RecalcJob
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewAchievementWorker creates a new achievement processing worker.
// leagues may be nil when standings caching is not in use.
func NewAchievementWorker(achievements logic.AchievementsService, leagues logic.LeagueService, statStore StatStore, logger *zap.SugaredLogger, cfg AchievementWorkerConfig) *AchievementWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.LockRetry <= 0 {
		cfg.LockRetry = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	defs := make(map[string]models.AchievementDefinition)
	for _, d := range achievements.Definitions() {
		defs[d.ID] = d
	}

	return &AchievementWorker{
		achievements: achievements,
		leagues:      leagues,
		statStore:    statStore,
		logger:       logger,
		config:       cfg,
		defs:         defs,
		ctx:          ctx,
		cancel:       cancel,
		jobQueue:     make(chan RecalcJob, cfg.QueueSize),
	}
}

// Start begins the achievement worker
func (w *AchievementWorker) Start() {
	for i := 0; i < w.config.Workers; i++ {
		w.wg.Add(1)
		go w.worker()
	}
	w.logger.Infow("Achievement worker started", "workers", w.config.Workers)
}

// Stop drains queued jobs and waits for the workers to exit
func (w *AchievementWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.jobQueue)
		w.wg.Wait()
		w.cancel()
		w.logger.Info("Achievement worker stopped")
	})
}

func (w *AchievementWorker) worker() {
	defer w.wg.Done()
	for job := range w.jobQueue {
		if err := w.Process(w.ctx, job); err != nil {
			recalcFailed.Inc()
			w.logger.Errorw("Achievement recalculation failed",
				"user_id", job.UserID,
				"version", job.Version,
				"error", err,
			)
		}
	}
}

// Enqueue adds a job to the processing queue. Full queues drop the job.
func (w *AchievementWorker) Enqueue(job RecalcJob) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warnw("Failed to enqueue recalculation (worker stopped)", "error", r)
			ok = false
		}
	}()

	select {
	case w.jobQueue <- job:
		return true
	default:
		recalcDropped.Inc()
		w.logger.Warnw("Achievement worker queue full, dropping job", "user_id", job.UserID, "version", job.Version)
		return false
	}
}

// QueueDepth returns current queue size
func (w *AchievementWorker) QueueDepth() int {
	return len(w.jobQueue)
}

func lockKey(job RecalcJob) string {
	return "achievements:lock:" + job.UserID.String() + ":" + job.Version
}

func unlockChannel(userID uuid.UUID) string {
	return "achievements:" + userID.String()
}

// Process runs one recalculation while holding the per-user lock, so two
// evaluations for the same user and version never interleave.
func (w *AchievementWorker) Process(ctx context.Context, job RecalcJob) error {
	token, err := w.acquire(ctx, job)
	if err != nil {
		return err
	}
	defer func() {
		released, err := w.statStore.Release(context.Background(), lockKey(job), token)
		if err != nil {
			w.logger.Warnw("Failed to release recalculation lock", "user_id", job.UserID, "error", err)
		} else if !released {
			w.logger.Warnw("Recalculation lock expired before release", "user_id", job.UserID, "version", job.Version)
		}
	}()

	start := time.Now()
	delta, err := w.achievements.Recalculate(ctx, job.UserID, job.Version)
	recalcDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("recalculate: %w", err)
	}
	recalcProcessed.Inc()

	if w.leagues != nil {
		if err := w.leagues.InvalidateStandings(ctx, job.UserID, job.Version); err != nil {
			w.logger.Warnw("Failed to invalidate league standings", "user_id", job.UserID, "error", err)
		}
	}

	for _, ua := range delta.NewlyUnlocked() {
		w.notifyUser(ctx, ua)
	}
	return nil
}

// acquire takes the lock and returns the token that owns it
func (w *AchievementWorker) acquire(ctx context.Context, job RecalcJob) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(w.config.LockTTL)
	for {
		ok, err := w.statStore.SetNX(ctx, lockKey(job), token, w.config.LockTTL)
		if err != nil {
			return "", fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", ErrLockBusy
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(w.config.LockRetry):
		}
	}
}

// UnlockNotification is the payload published on achievements:<userID>
type UnlockNotification struct {
	Type          string    `json:"type"`
	UserID        uuid.UUID `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	GameVersion   string    `json:"game_version"`
	Name          string    `json:"name"`
	Tier          string    `json:"tier"`
	Points        int       `json:"points"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

func (w *AchievementWorker) notifyUser(ctx context.Context, ua models.UserAchievement) {
	def := w.defs[ua.AchievementID]
	n := UnlockNotification{
		Type:          "achievement_unlock",
		UserID:        ua.UserID,
		AchievementID: ua.AchievementID,
		GameVersion:   ua.GameVersion,
		Name:          def.Name,
		Tier:          def.Tier,
		Points:        def.Points,
	}
	if ua.UnlockedAt != nil {
		n.UnlockedAt = *ua.UnlockedAt
	}

	jsonData, err := json.Marshal(n)
	if err != nil {
		w.logger.Errorw("Failed to marshal achievement notification", "error", err)
		return
	}

	if err := w.statStore.Publish(ctx, unlockChannel(ua.UserID), jsonData); err != nil {
		w.logger.Errorw("Failed to publish achievement notification", "error", err)
		return
	}
	achievementsUnlocked.Inc()

	w.logger.Infow("Achievement unlocked",
		"user_id", ua.UserID,
		"achievement", ua.AchievementID,
		"points", def.Points,
	)
}
