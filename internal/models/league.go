package models

import "time"

// League is a full snapshot: team tables, or rosters plus player lines to roll up.
type League struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Teams      []Entity `json:"teams,omitempty" validate:"dive"`
	Rosters    []Roster `json:"rosters,omitempty" validate:"dive"`
	Players    []Entity `json:"players,omitempty" validate:"dive"`
	FreeAgents []Entity `json:"free_agents,omitempty" validate:"dive"`
}

// AnalysisOptions tunes one analysis run. Nil/zero values use service defaults.
type AnalysisOptions struct {
	TargetTeam        string `json:"target_team,omitempty"`
	TopK              *int   `json:"top_k,omitempty"`
	TopN              int    `json:"top_n,omitempty"`
	WaiverPerCategory int    `json:"waiver_per_category,omitempty"`
}

// TeamAnalysis collects everything derived for a single team.
type TeamAnalysis struct {
	TeamID        string                `json:"team_id"`
	Name          string                `json:"name"`
	Position      int                   `json:"position"`
	OverallTotal  int                   `json:"overall_total"`
	Profile       Profile               `json:"profile"`
	Needs         []string              `json:"needs"`
	Notes         []string              `json:"notes"`
	TradePartners []TradeRecommendation `json:"trade_partners"`
	WaiverTargets []WaiverTarget        `json:"waiver_targets,omitempty"`
}

// LeagueReport is the result of one analysis run.
type LeagueReport struct {
	RunID              string            `json:"run_id"`
	LeagueID           string            `json:"league_id,omitempty"`
	GeneratedAt        time.Time         `json:"generated_at"`
	Standings          []StandingsRow    `json:"standings"`
	Rankings           []CategoryRanking `json:"rankings"`
	Profiles           []Profile         `json:"profiles"`
	Teams              []TeamAnalysis    `json:"teams"`
	FreeAgentStandings []PoolStandings   `json:"free_agent_standings,omitempty"`
	Warnings           []string          `json:"warnings,omitempty"`
}
