package logic

import (
	"math"
	"slices"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// RankPoints ranks one category column and awards rotisserie points.
//
// Entities are ordered best first by the category comparator. Equal values share
// the best rank of their group and the following rank is skipped (1, 1, 3).
// Each entity receives N+1-rank points where N is the number of values.
// The input slice is not modified.
func RankPoints(cat category.Category, values []models.EntityValue) (models.CategoryRanking, error) {
	if len(values) == 0 {
		return models.CategoryRanking{}, invalidStat(cat.Name, nil, "no values to rank")
	}

	var bad []string
	for _, v := range values {
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			bad = append(bad, v.EntityID)
		}
	}
	if len(bad) > 0 {
		return models.CategoryRanking{}, invalidStat(cat.Name, bad, "non-finite value")
	}

	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b models.EntityValue) int {
		return cat.Compare(a.Value, b.Value)
	})

	n := len(sorted)
	entries := make([]models.RankedEntry, n)
	for i, v := range sorted {
		rank := i + 1
		if i > 0 && cat.Compare(v.Value, sorted[i-1].Value) == 0 {
			rank = entries[i-1].Rank
		}
		entries[i] = models.RankedEntry{
			EntityID: v.EntityID,
			Value:    v.Value,
			Rank:     rank,
			Points:   n + 1 - rank,
		}
	}

	return models.CategoryRanking{Category: cat.Name, Entries: entries}, nil
}
