package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// Prometheus metrics
var (
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roto_analysis_duration_seconds",
		Help:    "Duration of full league analyses",
		Buckets: prometheus.DefBuckets,
	})

	analysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_analyses_total",
		Help: "Total number of league analyses run",
	})

	analysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_analyses_failed_total",
		Help: "Total number of league analyses that returned an error",
	})
)

// AnalysisConfig configures an AnalysisService
type AnalysisConfig struct {
	Registry          *category.Registry
	Policy            InvalidStatPolicy
	TopK              int
	TopN              int
	WaiverPerCategory int
	Logger            *zap.SugaredLogger
}

// AnalysisService runs the full pipeline: roll-up, standings, profiles, trade partners,
// strategy notes and waiver targets.
type AnalysisService struct {
	reg               *category.Registry
	agg               *Aggregator
	topK              int
	topN              int
	waiverPerCategory int
	logger            *zap.SugaredLogger
}

func NewAnalysisService(cfg AnalysisConfig) *AnalysisService {
	if cfg.Registry == nil {
		cfg.Registry = category.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = min(DefaultTopK, MaxTopK(cfg.Registry.Len()))
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.WaiverPerCategory <= 0 {
		cfg.WaiverPerCategory = DefaultWaiverTargets
	}
	return &AnalysisService{
		reg:               cfg.Registry,
		agg:               NewAggregator(cfg.Policy, cfg.Logger),
		topK:              cfg.TopK,
		topN:              cfg.TopN,
		waiverPerCategory: cfg.WaiverPerCategory,
		logger:            cfg.Logger,
	}
}

// Registry returns the category registry the service ranks with.
func (s *AnalysisService) Registry() *category.Registry { return s.reg }

// Standings ranks entities over the named categories, or every registered category
// when names is empty. Unknown names are returned, not treated as errors.
func (s *AnalysisService) Standings(ctx context.Context, entities []models.Entity, names []string) (*models.Standings, []string, error) {
	cats := s.reg.All()
	var ignored []string
	if len(names) > 0 {
		cats, ignored = s.reg.Select(names)
	}
	st, err := s.agg.Aggregate(ctx, entities, cats)
	if err != nil {
		return nil, ignored, err
	}
	return st, ignored, nil
}

// Analyze produces a full report for a league snapshot.
func (s *AnalysisService) Analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error) {
	start := time.Now()
	analysesTotal.Inc()
	defer func() { analysisDuration.Observe(time.Since(start).Seconds()) }()

	report, err := s.analyze(ctx, league, opts)
	if err != nil {
		analysesFailed.Inc()
		s.logger.Warnw("League analysis failed", "league", league.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("League analysis complete",
		"league", league.ID,
		"runID", report.RunID,
		"teams", len(report.Standings),
		"warnings", len(report.Warnings),
		"duration", time.Since(start),
	)
	return report, nil
}

func (s *AnalysisService) analyze(ctx context.Context, league models.League, opts models.AnalysisOptions) (*models.LeagueReport, error) {
	report := &models.LeagueReport{
		RunID:       uuid.NewString(),
		LeagueID:    league.ID,
		GeneratedAt: time.Now().UTC(),
	}

	teams := league.Teams
	if len(teams) == 0 && len(league.Rosters) > 0 {
		var warnings []string
		teams, warnings = RollupTeams(s.reg, league.Rosters, league.Players)
		report.Warnings = append(report.Warnings, warnings...)
	}
	if len(teams) == 0 {
		return nil, invalidStat("", nil, "league has no teams or rosters")
	}

	standings, err := s.agg.Aggregate(ctx, teams, s.reg.All())
	if err != nil {
		return nil, err
	}
	report.Standings = standings.Rows
	report.Rankings = standings.Rankings

	k := s.topK
	if opts.TopK != nil {
		k = *opts.TopK
	}
	profiles, err := ClassifyAll(standings, k)
	if err != nil {
		return nil, err
	}
	report.Profiles = profiles

	targets := standings.Rows
	if opts.TargetTeam != "" {
		row, ok := standings.Row(opts.TargetTeam)
		if !ok {
			return nil, unknownEntity(opts.TargetTeam)
		}
		targets = []models.StandingsRow{row}
	}

	freeAgents := league.FreeAgents
	if len(freeAgents) == 0 && len(league.Players) > 0 && len(league.Rosters) > 0 {
		freeAgents = IdentifyFreeAgents(league.Players, league.Rosters)
	}
	if len(freeAgents) > 0 {
		for _, g := range []category.Group{category.Batting, category.Pitching} {
			pools, err := s.agg.RankFreeAgents(ctx, s.reg, freeAgents, g)
			if err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("free agents (%s): %v", g, err))
				continue
			}
			report.FreeAgentStandings = append(report.FreeAgentStandings, pools...)
		}
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = s.topN
	}
	perCategory := opts.WaiverPerCategory
	if perCategory <= 0 {
		perCategory = s.waiverPerCategory
	}

	rosters := rosterLines(league.Rosters, league.Players)

	report.Teams = make([]models.TeamAnalysis, 0, len(targets))
	for _, row := range targets {
		profile := profileFor(profiles, row.EntityID)
		trades, err := RecommendPartners(row.EntityID, profiles, topN)
		if err != nil {
			return nil, err
		}
		if len(rosters) > 0 {
			for i := range trades {
				partner := trades[i].PartnerEntity
				trades[i].NotablePlayers = NotablePlayers(s.reg, profile, profileFor(profiles, partner), rosters[partner])
			}
		}
		ta := models.TeamAnalysis{
			TeamID:        row.EntityID,
			Name:          row.Name,
			Position:      row.Position,
			OverallTotal:  row.OverallTotal,
			Profile:       profile,
			Needs:         Needs(s.reg, profile),
			Notes:         StrategyNotes(s.reg, profile, trades, rosters[row.EntityID]),
			TradePartners: trades,
		}
		if len(freeAgents) > 0 {
			ta.WaiverTargets = WaiverTargets(s.reg, profile, freeAgents, perCategory)
		}
		report.Teams = append(report.Teams, ta)
	}

	return report, nil
}

func profileFor(profiles []models.Profile, id string) models.Profile {
	for _, p := range profiles {
		if p.EntityID == id {
			return p
		}
	}
	return models.Profile{EntityID: id}
}

// rosterLines resolves each roster's player IDs to stat lines, keyed by team ID.
// Unknown players are dropped; RollupTeams already warns about them.
func rosterLines(rosters []models.Roster, players []models.Entity) map[string][]models.Entity {
	if len(rosters) == 0 || len(players) == 0 {
		return nil
	}
	byID := make(map[string]models.Entity, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	out := make(map[string][]models.Entity, len(rosters))
	for _, r := range rosters {
		lines := make([]models.Entity, 0, len(r.PlayerIDs))
		for _, id := range r.PlayerIDs {
			if p, ok := byID[id]; ok {
				lines = append(lines, p)
			}
		}
		out[r.TeamID] = lines
	}
	return out
}
