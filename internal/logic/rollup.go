package logic

import (
	"fmt"
	"math"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
	"github.com/shopspring/decimal"
)

// RollupTeams builds one team entity per roster from individual player lines.
//
// Counting categories are summed. Ratio categories are the volume-weighted mean of
// the player values (AVG by AB, ERA by IP, ...), rounded to the category precision.
// Volume columns are summed as well. Problems with individual players never fail the
// roll-up; they are returned as warnings.
func RollupTeams(reg *category.Registry, rosters []models.Roster, players []models.Entity) ([]models.Entity, []string) {
	byID := make(map[string]models.Entity, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	var warnings []string
	teams := make([]models.Entity, 0, len(rosters))
	for _, roster := range rosters {
		lines := make([]models.StatLine, 0, len(roster.PlayerIDs))
		for _, pid := range roster.PlayerIDs {
			p, ok := byID[pid]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("team %s: no stat line for player %s", roster.TeamID, pid))
				continue
			}
			lines = append(lines, p.Stats)
		}

		stats := make(models.StatLine, reg.Len()+2)
		for _, col := range reg.VolumeColumns() {
			stats[col] = sumColumn(lines, col).InexactFloat64()
		}
		for _, cat := range reg.All() {
			if cat.Rollup.Volume == "" {
				stats[cat.Name] = sumColumn(lines, cat.Name).InexactFloat64()
				continue
			}
			v, ok := weightedMean(lines, cat.Name, cat.Rollup.Volume)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("team %s: no %s volume for %s, using 0", roster.TeamID, cat.Rollup.Volume, cat.Name))
				stats[cat.Name] = 0
				continue
			}
			stats[cat.Name] = v.Round(cat.Rollup.Precision).InexactFloat64()
		}

		teams = append(teams, models.Entity{
			ID:    roster.TeamID,
			Name:  roster.TeamName,
			Stats: stats,
		})
	}
	return teams, warnings
}

func sumColumn(lines []models.StatLine, col string) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if v, ok := finite(l, col); ok {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
	}
	return sum
}

// weightedMean returns false when the players carry no volume for the column.
func weightedMean(lines []models.StatLine, col, volume string) (decimal.Decimal, bool) {
	num, den := decimal.Zero, decimal.Zero
	for _, l := range lines {
		v, ok := finite(l, col)
		if !ok {
			continue
		}
		w, ok := finite(l, volume)
		if !ok || w <= 0 {
			continue
		}
		weight := decimal.NewFromFloat(w)
		num = num.Add(decimal.NewFromFloat(v).Mul(weight))
		den = den.Add(weight)
	}
	if den.IsZero() {
		return decimal.Zero, false
	}
	return num.Div(den), true
}

func finite(l models.StatLine, col string) (float64, bool) {
	v, ok := l[col]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
