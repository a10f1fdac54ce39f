package logic

import (
	"context"
	"fmt"
	"slices"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// DefaultWaiverTargets is the number of free agents suggested per weak category.
const DefaultWaiverTargets = 5

// UnassignedPool names the pool of free agents that carry no position.
const UnassignedPool = "UTIL"

// IdentifyFreeAgents returns the players that are not on any roster, in input order.
func IdentifyFreeAgents(players []models.Entity, rosters []models.Roster) []models.Entity {
	owned := make(map[string]bool)
	for _, r := range rosters {
		for _, id := range r.PlayerIDs {
			owned[id] = true
		}
	}
	out := make([]models.Entity, 0, len(players))
	for _, p := range players {
		if !owned[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// RankFreeAgents builds one rotisserie leaderboard per pool over a group's categories.
// Only players with at least one value in the group take part. Free-agent lines are
// usually sparse, so missing values always exclude the player from that category
// instead of failing the pool.
func (a *Aggregator) RankFreeAgents(ctx context.Context, reg *category.Registry, players []models.Entity, group category.Group) ([]models.PoolStandings, error) {
	cats := reg.Group(group)
	if len(cats) == 0 {
		return nil, &Error{Kind: KindEmptyCategorySet, Detail: fmt.Sprintf("no %s categories", group)}
	}

	var order []string
	pools := make(map[string][]models.Entity)
	for _, p := range players {
		if !hasAny(p.Stats, cats) {
			continue
		}
		pool := p.Pool
		if pool == "" {
			pool = UnassignedPool
		}
		if _, ok := pools[pool]; !ok {
			order = append(order, pool)
		}
		pools[pool] = append(pools[pool], p)
	}

	lenient := &Aggregator{policy: PolicySkip, logger: a.logger}
	out := make([]models.PoolStandings, 0, len(order))
	for _, pool := range order {
		s, err := lenient.Aggregate(ctx, pools[pool], cats)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", pool, err)
		}
		out = append(out, models.PoolStandings{Pool: pool, Group: string(group), Rows: s.Rows})
	}
	return out, nil
}

// WaiverTargets lists, for each of the profile's weaknesses, the best free agents in
// that category. Players below the category's playing-time qualifier are ignored.
func WaiverTargets(reg *category.Registry, profile models.Profile, freeAgents []models.Entity, perCategory int) []models.WaiverTarget {
	if perCategory <= 0 {
		perCategory = DefaultWaiverTargets
	}

	var out []models.WaiverTarget
	for _, w := range profile.Weaknesses {
		cat, ok := reg.Lookup(w.Category)
		if !ok {
			continue
		}

		var pool []models.Entity
		for _, p := range freeAgents {
			if _, ok := finite(p.Stats, cat.Name); ok && cat.Qualifies(p.Stats) {
				pool = append(pool, p)
			}
		}
		slices.SortStableFunc(pool, func(x, y models.Entity) int {
			return cat.Compare(x.Stats[cat.Name], y.Stats[cat.Name])
		})

		for i, p := range pool {
			if i == perCategory {
				break
			}
			rank := i + 1
			if i > 0 && cat.Compare(p.Stats[cat.Name], pool[i-1].Stats[cat.Name]) == 0 {
				rank = out[len(out)-1].Rank
			}
			out = append(out, models.WaiverTarget{
				Category: cat.Name,
				EntityID: p.ID,
				Name:     p.DisplayName(),
				Pool:     p.Pool,
				Value:    p.Stats[cat.Name],
				Rank:     rank,
			})
		}
	}
	return out
}

func hasAny(stats models.StatLine, cats []category.Category) bool {
	for _, c := range cats {
		if _, ok := stats[c.Name]; ok {
			return true
		}
	}
	return false
}
