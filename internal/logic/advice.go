package logic

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// Needs maps the profile's weaknesses to need labels, deduplicated in weakness order.
func Needs(reg *category.Registry, p models.Profile) []string {
	needs := []string{}
	for _, w := range p.Weaknesses {
		cat, ok := reg.Lookup(w.Category)
		if !ok || cat.Need == "" || slices.Contains(needs, cat.Need) {
			continue
		}
		needs = append(needs, cat.Need)
	}
	return needs
}

// tradeChips are the strength categories a single player can be shopped for,
// with the line that player must beat.
var tradeChips = map[string]float64{"SB": 20, "SV": 20}

// StrategyNotes turns a profile and its trade partners into short recommendations.
// roster holds the team's own player lines and may be empty.
func StrategyNotes(reg *category.Registry, p models.Profile, trades []models.TradeRecommendation, roster []models.Entity) []string {
	notes := []string{}
	weak := categoryNames(p.Weaknesses)
	strong := categoryNames(p.Strengths)

	if needs := Needs(reg, p); len(needs) > 0 {
		notes = append(notes, fmt.Sprintf(
			"Target %s: weakest in %s. Trade for players who excel in these categories.",
			strings.Join(needs, ", "), strings.Join(weak, ", ")))
	}

	if len(strong) > 0 {
		top := strong[:min(2, len(strong))]
		notes = append(notes, fmt.Sprintf(
			"Trade from strength: surplus in %s can be dealt for help elsewhere.",
			strings.Join(top, ", ")))
	}

	if slices.Contains(weak, "OPS") {
		notes = append(notes, "Improve OPS: add a high on-base, high slugging bat.")
	}
	ratios := slices.Contains(weak, "ERA") || slices.Contains(weak, "WHIP")
	if ratios {
		notes = append(notes, "Focus on pitching ratios: target pitchers with elite ERA and WHIP even if their counting stats are modest.")
	}

	if len(trades) > 0 {
		t := trades[0]
		note := fmt.Sprintf("Best trade partner: %s, strong in %s.", t.PartnerEntity, strings.Join(t.MatchedCategories, ", "))
		if len(t.OfferCategories) > 0 {
			note += fmt.Sprintf(" They need %s, which you can offer.", strings.Join(t.OfferCategories, ", "))
		}
		notes = append(notes, note)

		if len(t.NotablePlayers) > 0 {
			if chip, cat, ok := tradeChip(p, roster); ok {
				notes = append(notes, fmt.Sprintf(
					"Potential trade package: give %s (%s), get a player like %s from %s.",
					chip, cat, t.NotablePlayers[0], t.PartnerEntity))
			}
		}
	}

	switch {
	case ratios:
		notes = append(notes, "Waiver wire: watch for starting pitchers with good ratios.")
	case slices.Contains(weak, "OPS") || slices.Contains(weak, "AVG"):
		notes = append(notes, "Waiver wire: monitor undervalued high-OBP and high-SLG hitters.")
	}

	return notes
}

// tradeChip picks the first player on the roster who carries one of the team's
// chip strengths, best strength first.
func tradeChip(p models.Profile, roster []models.Entity) (string, string, bool) {
	for _, st := range p.Strengths {
		floor, ok := tradeChips[st.Category]
		if !ok {
			continue
		}
		for _, e := range roster {
			if v, ok := e.Stats[st.Category]; ok && v > floor {
				return e.DisplayName(), st.Category, true
			}
		}
	}
	return "", "", false
}

func categoryNames(ranks []models.CategoryRank) []string {
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Category
	}
	return out
}
