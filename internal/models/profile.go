package models

// CategoryRank is a category together with the entity's rank in it.
type CategoryRank struct {
	Category string `json:"category"`
	Rank     int    `json:"rank"`
	PoolSize int    `json:"pool_size"`
}

// Profile partitions an entity's categories into strengths and weaknesses.
type Profile struct {
	EntityID   string         `json:"entity_id" validate:"required"`
	Strengths  []CategoryRank `json:"strengths"`  // best rank first
	Weaknesses []CategoryRank `json:"weaknesses"` // worst rank first
}

// TradeRecommendation is a partner whose strengths cover the source's weaknesses.
type TradeRecommendation struct {
	SourceEntity      string   `json:"source_entity"`
	PartnerEntity     string   `json:"partner_entity"`
	OverlapScore      float64  `json:"overlap_score"`
	MatchedCategories []string `json:"matched_categories"`
	// OfferCategories are source strengths the partner is weak in.
	OfferCategories []string `json:"offer_categories,omitempty"`
	// NotablePlayers are partner players who stand out in the source's weak
	// categories. Only filled when rosters are known.
	NotablePlayers []string `json:"notable_players,omitempty"`
}

// WaiverTarget is a free agent who leads one of a team's weak categories.
type WaiverTarget struct {
	Category string  `json:"category"`
	EntityID string  `json:"entity_id"`
	Name     string  `json:"name"`
	Pool     string  `json:"pool,omitempty"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
}
