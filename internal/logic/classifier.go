package logic

import (
	"fmt"
	"slices"

	"github.com/rotolab/roto-api/internal/models"
)

// DefaultTopK is the number of strengths and weaknesses reported per entity.
const DefaultTopK = 4

// MaxTopK is the largest k that keeps strengths and weaknesses disjoint.
func MaxTopK(numCategories int) int { return numCategories / 2 }

// Classify picks an entity's k best and k worst categories by rank.
//
// Only categories ranked strictly better than the pool midpoint can be strengths and
// only those strictly worse can be weaknesses, so an entity that leads every category
// has no weaknesses. Equal ranks keep the order of rankings.
func Classify(row models.StandingsRow, rankings []models.CategoryRanking, k int) (models.Profile, error) {
	if k < 0 || k > MaxTopK(len(rankings)) {
		return models.Profile{}, &Error{
			Kind:      KindInvalidTopK,
			EntityIDs: []string{row.EntityID},
			Detail:    fmt.Sprintf("k=%d, allowed 0..%d for %d categories", k, MaxTopK(len(rankings)), len(rankings)),
		}
	}

	var strengths, weaknesses []models.CategoryRank
	for _, r := range rankings {
		entry, ok := r.Find(row.EntityID)
		if !ok {
			continue
		}
		cr := models.CategoryRank{Category: r.Category, Rank: entry.Rank, PoolSize: r.PoolSize()}
		// Compare 2*rank against N+1 to stay in integers.
		switch mid := r.PoolSize() + 1; {
		case 2*entry.Rank < mid:
			strengths = append(strengths, cr)
		case 2*entry.Rank > mid:
			weaknesses = append(weaknesses, cr)
		}
	}

	slices.SortStableFunc(strengths, func(a, b models.CategoryRank) int { return a.Rank - b.Rank })
	slices.SortStableFunc(weaknesses, func(a, b models.CategoryRank) int { return b.Rank - a.Rank })

	return models.Profile{
		EntityID:   row.EntityID,
		Strengths:  head(strengths, k),
		Weaknesses: head(weaknesses, k),
	}, nil
}

// ClassifyAll classifies every row of the standings, in standings order.
func ClassifyAll(s *models.Standings, k int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(s.Rows))
	for _, row := range s.Rows {
		p, err := Classify(row, s.Rankings, k)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func head(in []models.CategoryRank, k int) []models.CategoryRank {
	if len(in) > k {
		in = in[:k]
	}
	if in == nil {
		return []models.CategoryRank{}
	}
	return in
}
