package logic

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InvalidStatPolicy decides what happens to a missing or non-finite category value.
type InvalidStatPolicy string

const (
	// PolicyFail aborts the whole ranking pass.
	PolicyFail InvalidStatPolicy = "fail"
	// PolicySkip drops the entity from that one category and logs it.
	PolicySkip InvalidStatPolicy = "skip"
)

// ParsePolicy accepts "fail", "skip" or "" (fail).
func ParsePolicy(s string) (InvalidStatPolicy, error) {
	switch InvalidStatPolicy(s) {
	case "", PolicyFail:
		return PolicyFail, nil
	case PolicySkip:
		return PolicySkip, nil
	}
	return "", fmt.Errorf("unknown invalid stat policy %q", s)
}

// Aggregator turns a pool of entities into rotisserie standings.
type Aggregator struct {
	policy InvalidStatPolicy
	logger *zap.SugaredLogger
}

func NewAggregator(policy InvalidStatPolicy, logger *zap.SugaredLogger) *Aggregator {
	if policy == "" {
		policy = PolicyFail
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Aggregator{policy: policy, logger: logger}
}

// Policy returns the configured invalid stat policy.
func (a *Aggregator) Policy() InvalidStatPolicy { return a.policy }

// Aggregate ranks every category across the whole pool and sums the points per entity.
// Rows come back sorted by overall total, highest first; equal totals keep input order
// and share a leaderboard position. Rankings are returned in category order.
func (a *Aggregator) Aggregate(ctx context.Context, entities []models.Entity, cats []category.Category) (*models.Standings, error) {
	if len(cats) == 0 {
		return nil, &Error{Kind: KindEmptyCategorySet, Detail: "no categories supplied"}
	}
	if len(entities) == 0 {
		return nil, invalidStat("", nil, "no entities to rank")
	}
	if dup := duplicateIDs(entities); len(dup) > 0 {
		return nil, &Error{Kind: KindDuplicateEntity, EntityIDs: dup}
	}

	rankings := make([]models.CategoryRanking, len(cats))
	errs := make([]error, len(cats))

	// Every category runs to completion so the reported failure is the first one
	// in category order, not whichever goroutine lost the race.
	var g errgroup.Group
	for i, cat := range cats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			rankings[i], errs[i] = a.rankCategory(cat, entities)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	index := make(map[string]int, len(entities))
	rows := make([]models.StandingsRow, len(entities))
	for i, e := range entities {
		index[e.ID] = i
		rows[i] = models.StandingsRow{
			EntityID:   e.ID,
			Name:       e.DisplayName(),
			Categories: make(map[string]models.CategoryPlacement, len(cats)),
		}
	}

	for i, cat := range cats {
		r := rankings[i]
		for _, entry := range r.Entries {
			row := &rows[index[entry.EntityID]]
			row.Categories[cat.Name] = models.CategoryPlacement{
				Value:    entry.Value,
				Rank:     entry.Rank,
				Points:   entry.Points,
				PoolSize: r.PoolSize(),
			}
			if cat.Group == category.Pitching {
				row.PitchingTotal += entry.Points
			} else {
				row.BattingTotal += entry.Points
			}
		}
	}

	for i := range rows {
		rows[i].OverallTotal = rows[i].BattingTotal + rows[i].PitchingTotal
	}
	slices.SortStableFunc(rows, func(x, y models.StandingsRow) int {
		return y.OverallTotal - x.OverallTotal
	})
	for i := range rows {
		if i > 0 && rows[i].OverallTotal == rows[i-1].OverallTotal {
			rows[i].Position = rows[i-1].Position
		} else {
			rows[i].Position = i + 1
		}
	}

	return &models.Standings{Rows: rows, Rankings: rankings}, nil
}

func (a *Aggregator) rankCategory(cat category.Category, entities []models.Entity) (models.CategoryRanking, error) {
	values := make([]models.EntityValue, 0, len(entities))
	var bad []string
	for _, e := range entities {
		v, ok := e.Stats[cat.Name]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, e.ID)
			continue
		}
		values = append(values, models.EntityValue{EntityID: e.ID, Value: v})
	}

	if len(bad) > 0 {
		if a.policy != PolicySkip {
			return models.CategoryRanking{}, invalidStat(cat.Name, bad, "missing or non-finite value")
		}
		a.logger.Warnw("Skipping entities in category", "category", cat.Name, "entities", bad)
	}

	if len(values) == 0 {
		return models.CategoryRanking{Category: cat.Name, Entries: []models.RankedEntry{}, Skipped: bad}, nil
	}

	r, err := RankPoints(cat, values)
	if err != nil {
		return models.CategoryRanking{}, err
	}
	r.Skipped = bad
	return r, nil
}

func duplicateIDs(entities []models.Entity) []string {
	seen := make(map[string]bool, len(entities))
	var dup []string
	for _, e := range entities {
		if seen[e.ID] && !slices.Contains(dup, e.ID) {
			dup = append(dup, e.ID)
		}
		seen[e.ID] = true
	}
	return dup
}

// CheckFinite reports the first stat column, in name order, holding a NaN or
// infinite value across the given entity sets. Missing columns are not checked
// here; the ranking policy decides those.
func CheckFinite(sets ...[]models.Entity) error {
	bad := make(map[string][]string)
	for _, set := range sets {
		for _, e := range set {
			for col, v := range e.Stats {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					if !slices.Contains(bad[col], e.ID) {
						bad[col] = append(bad[col], e.ID)
					}
				}
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	cols := make([]string, 0, len(bad))
	for col := range bad {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return invalidStat(cols[0], bad[cols[0]], "non-finite value")
}
