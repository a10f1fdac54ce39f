package logic

import (
	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// sampleTeams is a four-team league covering every default category.
// Expected totals: A 37, B 28, C 26, D 19.
func sampleTeams() []models.Entity {
	return []models.Entity{
		{ID: "A", Name: "Kenny Kawaguchis", Stats: models.StatLine{
			"R": 900, "HR": 313, "RBI": 880, "SB": 150, "AVG": 0.270, "OPS": 0.800,
			"ERA": 3.50, "WHIP": 1.15, "K/9": 9.5, "QS": 90, "SV": 40,
		}},
		{ID: "B", Name: "Bay Bombers", Stats: models.StatLine{
			"R": 850, "HR": 273, "RBI": 840, "SB": 90, "AVG": 0.260, "OPS": 0.760,
			"ERA": 3.90, "WHIP": 1.25, "K/9": 8.8, "QS": 80, "SV": 70,
		}},
		{ID: "C", Name: "Crosstown Aces", Stats: models.StatLine{
			"R": 800, "HR": 235, "RBI": 800, "SB": 60, "AVG": 0.250, "OPS": 0.720,
			"ERA": 3.20, "WHIP": 1.05, "K/9": 10.2, "QS": 100, "SV": 20,
		}},
		{ID: "D", Name: "Deep Drives", Stats: models.StatLine{
			"R": 780, "HR": 220, "RBI": 760, "SB": 120, "AVG": 0.275, "OPS": 0.740,
			"ERA": 4.10, "WHIP": 1.30, "K/9": 8.1, "QS": 70, "SV": 55,
		}},
	}
}

func mustCategory(name string) category.Category {
	c, ok := category.DefaultRegistry().Lookup(name)
	if !ok {
		panic("unknown category " + name)
	}
	return c
}

func values(ids []string, vals []float64) []models.EntityValue {
	out := make([]models.EntityValue, len(ids))
	for i := range ids {
		out[i] = models.EntityValue{EntityID: ids[i], Value: vals[i]}
	}
	return out
}

func rankOf(r models.CategoryRanking, id string) (int, int) {
	e, ok := r.Find(id)
	if !ok {
		return 0, 0
	}
	return e.Rank, e.Points
}

func names(ranks []models.CategoryRank) []string {
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Category
	}
	return out
}
