package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rotolab/roto-api/internal/models"
)

var errNotFound = errors.New("league not found")

// MockStore implements LeagueLoader
type MockStore struct {
	Leagues map[string]*models.League
}

func (m *MockStore) LoadLeague(ctx context.Context, id string) (*models.League, error) {
	l, ok := m.Leagues[id]
	if !ok {
		return nil, errNotFound
	}
	return l, nil
}

// MockAnalyzer implements Analyzer and counts calls
type MockAnalyzer struct {
	mu    sync.Mutex
	Calls []string
	Err   error
}

func (m *MockAnalyzer) Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, league.ID)
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.LeagueReport{LeagueID: league.ID}, nil
}

func (m *MockAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockCache implements ReportWriter
type MockCache struct {
	mu      sync.Mutex
	Reports map[string]*models.LeagueReport
}

func NewMockCache() *MockCache {
	return &MockCache{Reports: make(map[string]*models.LeagueReport)}
}

func (m *MockCache) Set(ctx context.Context, key string, report *models.LeagueReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[key] = report
	return nil
}

func (m *MockCache) Get(key string) (*models.LeagueReport, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Reports[key]
	return r, ok
}

// GatedAnalyzer holds its first call until Release is closed.
type GatedAnalyzer struct {
	Started chan struct{}
	Release chan struct{}
	once    sync.Once
}

func NewGatedAnalyzer() *GatedAnalyzer {
	return &GatedAnalyzer{Started: make(chan struct{}), Release: make(chan struct{})}
}

func (m *GatedAnalyzer) Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error) {
	first := false
	m.once.Do(func() { first = true })
	if first {
		close(m.Started)
		<-m.Release
	}
	return &models.LeagueReport{LeagueID: league.ID}, nil
}
