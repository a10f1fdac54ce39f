package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/cache"
	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/models"
	"github.com/rotolab/roto-api/internal/store"
)

// MockStore implements LeagueStore in memory
type MockStore struct {
	mu      sync.Mutex
	Leagues map[string]models.League
	SaveErr error
	Loads   int
}

func NewMockStore() *MockStore {
	return &MockStore{Leagues: make(map[string]models.League)}
}

func (m *MockStore) SaveLeague(ctx context.Context, league models.League) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Leagues[league.ID] = league
	return nil
}

func (m *MockStore) LoadLeague(ctx context.Context, id string) (*models.League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	l, ok := m.Leagues[id]
	if !ok {
		return nil, store.ErrLeagueNotFound
	}
	return &l, nil
}

func (m *MockStore) DeleteLeague(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Leagues[id]; !ok {
		return store.ErrLeagueNotFound
	}
	delete(m.Leagues, id)
	return nil
}

// MockCache implements ReportCache in memory
type MockCache struct {
	mu          sync.Mutex
	Reports     map[string]*models.LeagueReport
	Invalidated []string
}

func NewMockCache() *MockCache {
	return &MockCache{Reports: make(map[string]*models.LeagueReport)}
}

func (m *MockCache) Get(ctx context.Context, key string) (*models.LeagueReport, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reports[key]
	return r, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key string, report *models.LeagueReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[key] = report
	return nil
}

func (m *MockCache) Invalidate(ctx context.Context, leagueID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, leagueID)
	delete(m.Reports, cache.LeagueKey(leagueID))
	return nil
}

// MockQueue implements RecomputeQueue
type MockQueue struct {
	Full     bool
	Enqueued []string
}

func (m *MockQueue) Enqueue(leagueID string) (uuid.UUID, bool) {
	if m.Full {
		return uuid.Nil, false
	}
	m.Enqueued = append(m.Enqueued, leagueID)
	return uuid.New(), true
}

func (m *MockQueue) QueueDepth() int { return len(m.Enqueued) }

// CountingAnalyzer wraps the real service and counts full analyses.
type CountingAnalyzer struct {
	*logic.AnalysisService
	mu       sync.Mutex
	Analyzes int
}

func (c *CountingAnalyzer) Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error) {
	c.mu.Lock()
	c.Analyzes++
	c.mu.Unlock()
	return c.AnalysisService.Analyze(ctx, league, opts)
}

type testEnv struct {
	h        *Handler
	store    *MockStore
	cache    *MockCache
	queue    *MockQueue
	analyzer *CountingAnalyzer
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store: NewMockStore(),
		cache: NewMockCache(),
		queue: &MockQueue{},
		analyzer: &CountingAnalyzer{AnalysisService: logic.NewAnalysisService(logic.AnalysisConfig{
			Registry: category.DefaultRegistry(),
		})},
	}
	env.h = New(Config{
		Analysis: env.analyzer,
		Store:    env.store,
		Cache:    env.cache,
		Queue:    env.queue,
		Logger:   zap.NewNop(),
	})
	return env
}

// sampleTeams builds n teams where team i holds value i+1 in every category, so the
// last team leads every descending category and the first leads ERA and WHIP.
func sampleTeams(n int) []models.Entity {
	reg := category.DefaultRegistry()
	teams := make([]models.Entity, n)
	for i := range teams {
		stats := make(models.StatLine, reg.Len())
		for _, c := range reg.All() {
			stats[c.Name] = float64(i + 1)
		}
		teams[i] = models.Entity{
			ID:    fmt.Sprintf("T%d", i+1),
			Name:  fmt.Sprintf("Team %d", i+1),
			Stats: stats,
		}
	}
	return teams
}
