// Package store persists league snapshots in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/models"
)

// ErrLeagueNotFound is returned when no snapshot exists for a league id.
var ErrLeagueNotFound = errors.New("league not found")

// Entity kinds stored in league_entities
const (
	KindTeam      = "team"
	KindPlayer    = "player"
	KindFreeAgent = "free_agent"
)

// Schema creates the snapshot tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS leagues (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS league_entities (
	league_id TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	kind      TEXT NOT NULL,
	ordinal   INT NOT NULL,
	entity_id TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	pool      TEXT NOT NULL DEFAULT '',
	stats     JSONB NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (league_id, kind, entity_id)
);

CREATE TABLE IF NOT EXISTS league_rosters (
	league_id  TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	ordinal    INT NOT NULL,
	team_id    TEXT NOT NULL,
	team_name  TEXT NOT NULL DEFAULT '',
	player_ids TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (league_id, team_id)
);
`

// Store reads and writes league snapshots
type Store struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func New(pg PgPool, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{pg: pg, logger: logger}
}

// EnsureSchema installs the snapshot tables if they are missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, Schema); err != nil {
		s.logger.Errorw("failed to execute schema", "db", "PostgreSQL", "error", err)
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.logger.Infow("successfully installed schema", "db", "PostgreSQL")
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pg.Ping(ctx)
}

// SaveLeague replaces the stored snapshot of a league in one transaction.
func (s *Store) SaveLeague(ctx context.Context, league models.League) error {
	if league.ID == "" {
		return errors.New("save league: empty id")
	}

	tx, err := s.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO leagues (id, name, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
	`, league.ID, league.Name)
	if err != nil {
		return fmt.Errorf("upsert league: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM league_entities WHERE league_id = $1`, league.ID); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM league_rosters WHERE league_id = $1`, league.ID); err != nil {
		return fmt.Errorf("clear rosters: %w", err)
	}

	groups := []struct {
		kind     string
		entities []models.Entity
	}{
		{KindTeam, league.Teams},
		{KindPlayer, league.Players},
		{KindFreeAgent, league.FreeAgents},
	}
	for _, g := range groups {
		for i, e := range g.entities {
			stats, err := json.Marshal(e.Stats)
			if err != nil {
				return fmt.Errorf("%s %s: encode stats: %w", g.kind, e.ID, err)
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO league_entities (league_id, kind, ordinal, entity_id, name, pool, stats)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, league.ID, g.kind, i, e.ID, e.Name, e.Pool, stats)
			if err != nil {
				return fmt.Errorf("insert %s %s: %w", g.kind, e.ID, err)
			}
		}
	}

	for i, r := range league.Rosters {
		playerIDs := r.PlayerIDs
		if playerIDs == nil {
			playerIDs = []string{}
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO league_rosters (league_id, ordinal, team_id, team_name, player_ids)
			VALUES ($1, $2, $3, $4, $5)
		`, league.ID, i, r.TeamID, r.TeamName, playerIDs)
		if err != nil {
			return fmt.Errorf("insert roster %s: %w", r.TeamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Infow("League snapshot saved",
		"league", league.ID,
		"teams", len(league.Teams),
		"rosters", len(league.Rosters),
		"players", len(league.Players),
		"freeAgents", len(league.FreeAgents),
	)
	return nil
}

// LoadLeague rebuilds a league snapshot. Unknown ids return ErrLeagueNotFound.
func (s *Store) LoadLeague(ctx context.Context, id string) (*models.League, error) {
	league := &models.League{ID: id}

	err := s.pg.QueryRow(ctx, `SELECT name FROM leagues WHERE id = $1`, id).Scan(&league.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load league %s: %w", id, err)
	}

	rows, err := s.pg.Query(ctx, `
		SELECT kind, entity_id, name, pool, stats
		FROM league_entities
		WHERE league_id = $1
		ORDER BY kind, ordinal
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var raw []byte
		var e models.Entity
		if err := rows.Scan(&kind, &e.ID, &e.Name, &e.Pool, &raw); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		if err := json.Unmarshal(raw, &e.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of %s: %w", e.ID, err)
		}
		switch kind {
		case KindTeam:
			league.Teams = append(league.Teams, e)
		case KindPlayer:
			league.Players = append(league.Players, e)
		case KindFreeAgent:
			league.FreeAgents = append(league.FreeAgents, e)
		default:
			s.logger.Warnw("Ignoring entity of unknown kind", "league", id, "kind", kind, "entity", e.ID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}

	rosterRows, err := s.pg.Query(ctx, `
		SELECT team_id, team_name, player_ids
		FROM league_rosters
		WHERE league_id = $1
		ORDER BY ordinal
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query rosters: %w", err)
	}
	defer rosterRows.Close()

	for rosterRows.Next() {
		var r models.Roster
		if err := rosterRows.Scan(&r.TeamID, &r.TeamName, &r.PlayerIDs); err != nil {
			return nil, fmt.Errorf("scan roster: %w", err)
		}
		league.Rosters = append(league.Rosters, r)
	}
	if err := rosterRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rosters: %w", err)
	}

	return league, nil
}

// DeleteLeague removes a snapshot and everything under it.
func (s *Store) DeleteLeague(ctx context.Context, id string) error {
	tag, err := s.pg.Exec(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete league %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeagueNotFound
	}
	return nil
}
