// Package worker moves logged games off the request path.
// The Pool batches games into ClickHouse for version-wide analytics and then
// hands each affected user to the AchievementWorker for re-evaluation.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/futchampions/tracker-api/internal/models"
)

// Prometheus metrics
var (
	gamesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_games_ingested_total",
		Help: "Total number of logged games queued for analytics",
	})

	gamesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_games_processed_total",
		Help: "Total number of games written to ClickHouse",
	})

	gamesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_games_failed_total",
		Help: "Total number of games that failed to write",
	})

	gamesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_games_load_shed_total",
		Help: "Total number of games dropped because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fut_worker_queue_depth",
		Help: "Current depth of the game queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fut_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	recalcProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_achievement_recalculations_total",
		Help: "Total number of completed achievement recalculations",
	})

	recalcFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_achievement_recalculations_failed_total",
		Help: "Total number of failed achievement recalculations",
	})

	recalcDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_achievement_recalculations_dropped_total",
		Help: "Total number of recalculations dropped because the queue was full",
	})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fut_achievement_recalculation_duration_seconds",
		Help:    "Duration of a single achievement recalculation",
		Buckets: prometheus.DefBuckets,
	})

	achievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fut_achievements_unlocked_total",
		Help: "Total number of achievement unlock notifications published",
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Game      models.Game
	Version   string
	Timestamp time.Time
}

// RecalcQueue receives users whose games changed
type RecalcQueue interface {
	Enqueue(job RecalcJob) bool
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Achievements  RecalcQueue
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async game processing
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop flushes queued games and waits for the workers to exit
// Stop is safe to call more than once, and before Start.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping worker pool...")
		close(p.jobQueue)
		p.wg.Wait()
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Info("Worker pool stopped")
	})
}

// Enqueue adds a logged game to the queue. Returns false without blocking
// when the queue is full or the pool is stopped.
func (p *Pool) Enqueue(game models.Game, version string) (ok bool) {
	job := Job{
		Game:      game,
		Version:   version,
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue game (pool stopped)", "error", r)
			ok = false
		}
	}()

	select {
	case p.jobQueue <- job:
		gamesIngested.Inc()
		return true
	case <-p.ctx.Done():
		gamesLoadShed.Inc()
		return false
	default:
		p.logger.Warnw("Game queue full, dropping game", "game_id", game.ID)
		gamesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			gamesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch processed", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			gamesProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes a batch to ClickHouse and then queues one
// recalculation per distinct user and version. Recalculation reads
// Postgres, so it runs even when the analytics write fails.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}
	defer p.enqueueRecalculations(batch)

	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO fut_stats.game_results (
			game_id, run_id, user_id, game_version, game_number, result,
			user_goals, opponent_goals, opponent_skill, penalties, created_at, ingested_at
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		g := job.Game
		err := chBatch.Append(
			g.ID,
			g.RunID,
			g.UserID,
			job.Version,
			uint8(g.GameNumber),
			string(g.Result),
			uint16(g.UserGoals),
			uint16(g.OpponentGoals),
			uint16(g.OpponentSkill),
			g.Penalties != nil,
			g.CreatedAt,
			job.Timestamp,
		)
		if err != nil {
			p.logger.Warnw("Failed to append game to batch", "error", err, "game_id", g.ID)
			continue
		}
	}

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "batchSize", len(batch))
		return err
	}
	return nil
}

func (p *Pool) enqueueRecalculations(batch []Job) {
	if p.config.Achievements == nil {
		return
	}

	seen := make(map[RecalcJob]struct{}, len(batch))
	for _, job := range batch {
		if job.Game.UserID == uuid.Nil {
			continue
		}
		key := RecalcJob{UserID: job.Game.UserID, Version: job.Version}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		p.config.Achievements.Enqueue(key)
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
