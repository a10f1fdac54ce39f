package models

// Entity is a team or a player inside one comparison pool.
type Entity struct {
	ID    string   `json:"id" validate:"required"`
	Name  string   `json:"name"`
	Pool  string   `json:"pool,omitempty"` // position group or league-team set
	Stats StatLine `json:"stats"`
}

// DisplayName falls back to the ID when no name was supplied.
func (e Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// EntityValue is one cell of a category column.
type EntityValue struct {
	EntityID string  `json:"entity_id"`
	Value    float64 `json:"value"`
}

// Roster lists the players owned by a league team.
type Roster struct {
	TeamID    string   `json:"team_id" validate:"required"`
	TeamName  string   `json:"team_name"`
	PlayerIDs []string `json:"player_ids"`
}
