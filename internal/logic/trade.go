package logic

import (
	"cmp"
	"slices"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

// DefaultTopN is the number of trade partners returned when the caller asks for none.
const DefaultTopN = 3

// MaxNotablePlayers caps the players named per trade partner.
const MaxNotablePlayers = 3

type tradeCandidate struct {
	rec      models.TradeRecommendation
	coverage float64
}

// RecommendPartners finds the entities whose strengths cover the target's weaknesses.
//
// Each matched category contributes 1/rank of the candidate in that category, so a
// league leader counts more than a merely above-average team. Candidates without any
// match are dropped. Ties on score prefer the partner whose strengths are mostly
// matches, then profile order.
func RecommendPartners(targetID string, profiles []models.Profile, topN int) ([]models.TradeRecommendation, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	idx := slices.IndexFunc(profiles, func(p models.Profile) bool { return p.EntityID == targetID })
	if idx < 0 {
		return nil, unknownEntity(targetID)
	}
	target := profiles[idx]
	if len(target.Weaknesses) == 0 {
		return []models.TradeRecommendation{}, nil
	}

	needs := categorySet(target.Weaknesses)

	var candidates []tradeCandidate
	for _, p := range profiles {
		if p.EntityID == targetID {
			continue
		}

		var matched []string
		var score float64
		for _, s := range p.Strengths {
			if needs[s.Category] && s.Rank > 0 {
				matched = append(matched, s.Category)
				score += 1 / float64(s.Rank)
			}
		}
		if len(matched) == 0 {
			continue
		}

		theirNeeds := categorySet(p.Weaknesses)
		var offer []string
		for _, s := range target.Strengths {
			if theirNeeds[s.Category] {
				offer = append(offer, s.Category)
			}
		}

		candidates = append(candidates, tradeCandidate{
			rec: models.TradeRecommendation{
				SourceEntity:      targetID,
				PartnerEntity:     p.EntityID,
				OverlapScore:      score,
				MatchedCategories: matched,
				OfferCategories:   offer,
			},
			coverage: float64(len(matched)) / float64(len(p.Strengths)),
		})
	}

	slices.SortStableFunc(candidates, func(a, b tradeCandidate) int {
		if c := cmp.Compare(b.rec.OverlapScore, a.rec.OverlapScore); c != 0 {
			return c
		}
		return cmp.Compare(b.coverage, a.coverage)
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	out := make([]models.TradeRecommendation, len(candidates))
	for i, c := range candidates {
		out[i] = c.rec
	}
	return out, nil
}

func categorySet(ranks []models.CategoryRank) map[string]bool {
	set := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		set[r.Category] = true
	}
	return set
}

// NotablePlayers names up to MaxNotablePlayers players on the partner's roster whose
// line beats the registry's notable threshold in one of the target's weak categories.
// A category group is only searched when the partner is strong somewhere in that
// group. Roster order is kept.
func NotablePlayers(reg *category.Registry, target, partner models.Profile, roster []models.Entity) []string {
	groups := make(map[category.Group]bool, 2)
	for _, s := range partner.Strengths {
		if c, ok := reg.Lookup(s.Category); ok {
			groups[c.Group] = true
		}
	}

	var weak []category.Category
	for _, w := range target.Weaknesses {
		if c, ok := reg.Lookup(w.Category); ok && groups[c.Group] {
			weak = append(weak, c)
		}
	}
	if len(weak) == 0 {
		return nil
	}

	var out []string
	for _, p := range roster {
		if slices.ContainsFunc(weak, func(c category.Category) bool {
			v, ok := p.Stats[c.Name]
			return ok && c.IsNotable(v)
		}) {
			out = append(out, p.DisplayName())
			if len(out) == MaxNotablePlayers {
				break
			}
		}
	}
	return out
}
