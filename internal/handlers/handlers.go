package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Analyzer is the ranking engine as seen by the HTTP layer.
type Analyzer interface {
	Registry() *category.Registry
	Standings(ctx context.Context, entities []models.Entity, names []string) (*models.Standings, []string, error)
	Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error)
}

// LeagueStore persists league snapshots.
type LeagueStore interface {
	SaveLeague(ctx context.Context, league models.League) error
	LoadLeague(ctx context.Context, id string) (*models.League, error)
	DeleteLeague(ctx context.Context, id string) error
}

// ReportCache holds computed reports keyed by league or by content hash.
type ReportCache interface {
	Get(ctx context.Context, key string) (*models.LeagueReport, bool, error)
	Set(ctx context.Context, key string, report *models.LeagueReport) error
	Invalidate(ctx context.Context, leagueID string) error
}

// RecomputeQueue defines the interface for the report recompute worker pool
type RecomputeQueue interface {
	Enqueue(leagueID string) (uuid.UUID, bool)
	QueueDepth() int
}

// HealthCheck pings one dependency for the readiness probe.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Analysis     Analyzer
	Store        LeagueStore
	Cache        ReportCache
	Queue        RecomputeQueue
	HealthChecks map[string]HealthCheck
	Logger       *zap.Logger
}

type Handler struct {
	analysis  Analyzer
	store     LeagueStore
	cache     ReportCache
	queue     RecomputeQueue
	checks    map[string]HealthCheck
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analysis:  cfg.Analysis,
		store:     cfg.Store,
		cache:     cfg.Cache,
		queue:     cfg.Queue,
		checks:    cfg.HealthChecks,
		logger:    logger.Sugar(),
		validator: validator.New(),
	}
}
