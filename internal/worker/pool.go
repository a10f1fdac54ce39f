// Package worker implements the buffered worker pool pattern for async league recomputes.
// This decouples HTTP snapshot uploads from the analysis pass, providing:
// - Backpressure handling via load shedding
// - Report cache warming after every stored snapshot
// - Graceful shutdown with drain guarantees
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/cache"
	"github.com/rotolab/roto-api/internal/models"
)

// Prometheus metrics
var (
	jobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_recompute_jobs_enqueued_total",
		Help: "Total number of league recompute jobs enqueued",
	})

	jobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_recompute_jobs_processed_total",
		Help: "Total number of league recompute jobs processed by workers",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_recompute_jobs_failed_total",
		Help: "Total number of league recompute jobs that failed",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roto_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roto_recompute_job_duration_seconds",
		Help:    "Duration of league recompute jobs",
		Buckets: prometheus.DefBuckets,
	})

	jobsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_recompute_jobs_load_shed_total",
		Help: "Total number of recompute jobs dropped due to load shedding",
	})

	jobsSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_recompute_jobs_superseded_total",
		Help: "Total number of recompute results discarded because a newer run was queued",
	})
)

// LeagueLoader reads stored league snapshots
type LeagueLoader interface {
	LoadLeague(ctx context.Context, id string) (*models.League, error)
}

// Analyzer runs the analysis pipeline
type Analyzer interface {
	Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error)
}

// ReportWriter stores finished reports
type ReportWriter interface {
	Set(ctx context.Context, key string, report *models.LeagueReport) error
}

// Job represents a unit of work for the worker pool
type Job struct {
	RunID    uuid.UUID
	LeagueID string
	Enqueued time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	JobTimeout  time.Duration
	Store       LeagueLoader
	Analysis    Analyzer
	Cache       ReportWriter
	Logger      *zap.Logger
}

// Pool manages a pool of workers for async league recomputes
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	// latest holds the newest run per league; older runs never write the cache.
	mu      sync.Mutex
	latest  map[string]uuid.UUID
	writeMu sync.Mutex
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines. Jobs see ctx's values but not its
// cancellation, so queued work still drains after the caller's context ends;
// only Stop cancels the pool.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Start queue depth reporter
	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"jobTimeout", p.config.JobTimeout,
	)
}

// Stop closes the queue, lets the workers drain it and then shuts down
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	close(p.jobQueue)
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Worker pool stopped")
}

// Enqueue schedules a recompute of a stored league. It never blocks: when the
// queue is full or the pool is stopped the job is dropped and ok is false.
func (p *Pool) Enqueue(leagueID string) (runID uuid.UUID, ok bool) {
	job := Job{
		RunID:    uuid.New(),
		LeagueID: leagueID,
		Enqueued: time.Now(),
	}

	// Recorded before the send so a dropped newer run still retires older ones.
	p.mu.Lock()
	if p.latest == nil {
		p.latest = make(map[string]uuid.UUID)
	}
	p.latest[leagueID] = job.RunID
	p.mu.Unlock()

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue job (pool stopped)", "league", leagueID, "error", r)
			jobsLoadShed.Inc()
			runID, ok = uuid.Nil, false
		}
	}()

	select {
	case p.jobQueue <- job:
		jobsEnqueued.Inc()
		return job.RunID, true
	default:
		p.logger.Warnw("Worker queue full, dropping recompute", "league", leagueID)
		jobsLoadShed.Inc()
		return uuid.Nil, false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Infow("Worker started", "worker", id)

	for job := range p.jobQueue {
		start := time.Now()
		if err := p.process(job); err != nil {
			p.logger.Errorw("Recompute failed",
				"worker", id,
				"league", job.LeagueID,
				"runID", job.RunID,
				"error", err,
			)
			jobsFailed.Inc()
		} else {
			p.logger.Infow("Recompute finished",
				"worker", id,
				"league", job.LeagueID,
				"runID", job.RunID,
				"queued", start.Sub(job.Enqueued),
				"duration", time.Since(start),
			)
			jobsProcessed.Inc()
		}
		jobDuration.Observe(time.Since(start).Seconds())
	}
}

// process loads the snapshot, analyses it and writes the league report to the cache
func (p *Pool) process(job Job) error {
	parent := p.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, p.config.JobTimeout)
	defer cancel()

	league, err := p.config.Store.LoadLeague(ctx, job.LeagueID)
	if err != nil {
		return fmt.Errorf("load league: %w", err)
	}

	report, err := p.config.Analysis.Analyze(ctx, *league, models.AnalysisOptions{})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	report.RunID = job.RunID.String()

	// Check and write under one lock so a slow older run cannot land after a newer one.
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if !p.isLatest(job) {
		p.logger.Infow("Recompute superseded, not caching", "league", job.LeagueID, "runID", job.RunID)
		jobsSuperseded.Inc()
		return nil
	}
	if err := p.config.Cache.Set(ctx, cache.LeagueKey(job.LeagueID), report); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	p.mu.Lock()
	if p.latest[job.LeagueID] == job.RunID {
		delete(p.latest, job.LeagueID)
	}
	p.mu.Unlock()
	return nil
}

// isLatest reports whether job is the newest run queued for its league. An entry is
// only removed by the newest run itself, so a missing entry means job is older.
func (p *Pool) isLatest(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest[job.LeagueID] == job.RunID
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
