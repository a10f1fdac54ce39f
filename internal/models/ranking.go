package models

// RankedEntry is one entity's placement in a single category.
type RankedEntry struct {
	EntityID string  `json:"entity_id"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
	Points   int     `json:"points"`
}

// CategoryRanking is the full ranking of one category, best first.
// Skipped holds entities excluded from this category only.
type CategoryRanking struct {
	Category string        `json:"category"`
	Entries  []RankedEntry `json:"entries"`
	Skipped  []string      `json:"skipped,omitempty"`
}

// PoolSize is the number of ranked entities.
func (r CategoryRanking) PoolSize() int { return len(r.Entries) }

// Find returns the entry for an entity.
func (r CategoryRanking) Find(entityID string) (RankedEntry, bool) {
	for _, e := range r.Entries {
		if e.EntityID == entityID {
			return e, true
		}
	}
	return RankedEntry{}, false
}

// TotalPoints sums the points awarded in the category.
func (r CategoryRanking) TotalPoints() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Points
	}
	return total
}

// CategoryPlacement is the per-category view stored on a standings row.
type CategoryPlacement struct {
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
	Points   int     `json:"points"`
	PoolSize int     `json:"pool_size"`
}

// StandingsRow is one entity's line in the leaderboard.
type StandingsRow struct {
	Position      int                          `json:"position"`
	EntityID      string                       `json:"entity_id"`
	Name          string                       `json:"name"`
	Categories    map[string]CategoryPlacement `json:"categories"`
	BattingTotal  int                          `json:"batting_total"`
	PitchingTotal int                          `json:"pitching_total"`
	OverallTotal  int                          `json:"overall_total"`
}

// Standings is the output of one ranking pass.
type Standings struct {
	Rows     []StandingsRow    `json:"rows"`
	Rankings []CategoryRanking `json:"rankings"`
}

// Row returns the standings row for an entity.
func (s *Standings) Row(entityID string) (StandingsRow, bool) {
	for _, r := range s.Rows {
		if r.EntityID == entityID {
			return r, true
		}
	}
	return StandingsRow{}, false
}

// PoolStandings is a free-agent leaderboard for one position pool.
type PoolStandings struct {
	Pool  string         `json:"pool"`
	Group string         `json:"group"`
	Rows  []StandingsRow `json:"rows"`
}
