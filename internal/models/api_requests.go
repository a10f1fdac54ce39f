package models

type StandingsRequest struct {
	Entities   []Entity `json:"entities" validate:"required,min=1,dive"`
	Categories []string `json:"categories,omitempty"`
}

type StandingsResponse struct {
	Standings         *Standings `json:"standings"`
	IgnoredCategories []string   `json:"ignored_categories,omitempty"`
}

type AnalysisRequest struct {
	League  League          `json:"league"`
	Options AnalysisOptions `json:"options"`
}

type TradeRequest struct {
	Target   string    `json:"target" validate:"required"`
	Profiles []Profile `json:"profiles" validate:"required,min=1,dive"`
	TopN     int       `json:"top_n,omitempty"`
}

type LeagueAcceptedResponse struct {
	LeagueID string `json:"league_id"`
	RunID    string `json:"run_id,omitempty"`
	Queued   bool   `json:"queued"`
}
