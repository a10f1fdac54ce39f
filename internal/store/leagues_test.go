package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/models"
)

type execCall struct {
	sql  string
	args []any
}

// MockPgPool implements PgPool for testing
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecTag      pgconn.CommandTag
	ExecErr      error
	Tx           *MockTx
	Execs        []execCall
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPgRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPgRow{}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, execCall{sql, args})
	return m.ExecTag, m.ExecErr
}

func (m *MockPgPool) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.Tx == nil {
		m.Tx = &MockTx{}
	}
	return m.Tx, nil
}

func (m *MockPgPool) Ping(ctx context.Context) error { return nil }

// MockTx records statements; only Exec, Commit and Rollback are used by the store.
type MockTx struct {
	pgx.Tx
	Execs      []execCall
	FailOn     string
	Committed  bool
	RolledBack bool
}

func (m *MockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.FailOn != "" && strings.Contains(sql, m.FailOn) {
		return pgconn.CommandTag{}, errors.New("exec failed")
	}
	m.Execs = append(m.Execs, execCall{sql, args})
	return pgconn.CommandTag{}, nil
}

func (m *MockTx) Commit(ctx context.Context) error {
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockPgRow implements pgx.Row
type MockPgRow struct {
	Values []any
	Err    error
}

func (r *MockPgRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(dest, r.Values)
}

// MockPgRows implements pgx.Rows over fixed data
type MockPgRows struct {
	pgx.Rows
	Data [][]any
	curr int
}

func (r *MockPgRows) Close()     {}
func (r *MockPgRows) Err() error { return nil }
func (r *MockPgRows) Next() bool {
	r.curr++
	return r.curr <= len(r.Data)
}
func (r *MockPgRows) Scan(dest ...any) error {
	return assign(dest, r.Data[r.curr-1])
}

func assign(dest []any, vals []any) error {
	for i, d := range dest {
		if i >= len(vals) {
			break
		}
		switch p := d.(type) {
		case *string:
			*p = vals[i].(string)
		case *[]byte:
			*p = []byte(vals[i].(string))
		case *[]string:
			*p = vals[i].([]string)
		}
	}
	return nil
}

func TestSaveLeague(t *testing.T) {
	pg := &MockPgPool{}
	s := New(pg, zap.NewNop().Sugar())

	league := models.League{
		ID:   "2874",
		Name: "Kawaguchi League",
		Teams: []models.Entity{
			{ID: "t1", Name: "One", Stats: models.StatLine{"HR": 313}},
			{ID: "t2", Name: "Two", Stats: models.StatLine{"HR": 273}},
		},
		Players:    []models.Entity{{ID: "p1", Pool: "OF", Stats: models.StatLine{"HR": 30}}},
		FreeAgents: []models.Entity{{ID: "fa1", Pool: "SS", Stats: models.StatLine{"SB": 20}}},
		Rosters:    []models.Roster{{TeamID: "t1", PlayerIDs: []string{"p1"}}, {TeamID: "t2"}},
	}

	if err := s.SaveLeague(context.Background(), league); err != nil {
		t.Fatalf("SaveLeague() error = %v", err)
	}

	tx := pg.Tx
	if !tx.Committed || tx.RolledBack {
		t.Errorf("committed = %v, rolled back = %v", tx.Committed, tx.RolledBack)
	}
	// upsert + 2 deletes + 4 entities + 2 rosters
	if len(tx.Execs) != 9 {
		t.Fatalf("statements = %d, want 9", len(tx.Execs))
	}

	var kinds []string
	for _, e := range tx.Execs {
		if strings.Contains(e.sql, "INSERT INTO league_entities") {
			kinds = append(kinds, e.args[1].(string))
			if _, ok := e.args[6].([]byte); !ok {
				t.Errorf("stats arg is %T, want []byte", e.args[6])
			}
		}
	}
	if strings.Join(kinds, ",") != "team,team,player,free_agent" {
		t.Errorf("kinds = %v", kinds)
	}

	last := tx.Execs[len(tx.Execs)-1]
	if ids, ok := last.args[4].([]string); !ok || ids == nil {
		t.Errorf("empty roster should store a non-nil array, got %#v", last.args[4])
	}
}

func TestSaveLeague_Errors(t *testing.T) {
	s := New(&MockPgPool{}, nil)
	if err := s.SaveLeague(context.Background(), models.League{}); err == nil {
		t.Error("expected error for empty id")
	}

	pg := &MockPgPool{Tx: &MockTx{FailOn: "league_rosters (league_id"}}
	s = New(pg, nil)
	err := s.SaveLeague(context.Background(), models.League{
		ID:      "x",
		Rosters: []models.Roster{{TeamID: "t1"}},
	})
	if err == nil || !strings.Contains(err.Error(), "insert roster t1") {
		t.Errorf("error = %v", err)
	}
	if pg.Tx.Committed || !pg.Tx.RolledBack {
		t.Error("failed save should roll back")
	}
}

func TestLoadLeague(t *testing.T) {
	pg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockPgRow{Values: []any{"Kawaguchi League"}}
		},
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			if strings.Contains(sql, "league_rosters") {
				return &MockPgRows{Data: [][]any{
					{"t1", "One", []string{"p1", "p2"}},
				}}, nil
			}
			return &MockPgRows{Data: [][]any{
				{"free_agent", "fa1", "Waiver Guy", "SS", `{"SB": "22"}`},
				{"player", "p1", "", "OF", `{"HR": 30, "AB": 550}`},
				{"team", "t1", "One", "", `{"HR": 313}`},
				{"mystery", "m1", "", "", `{}`},
			}}, nil
		},
	}

	league, err := New(pg, nil).LoadLeague(context.Background(), "2874")
	if err != nil {
		t.Fatalf("LoadLeague() error = %v", err)
	}
	if league.ID != "2874" || league.Name != "Kawaguchi League" {
		t.Errorf("header = %q / %q", league.ID, league.Name)
	}
	if len(league.Teams) != 1 || league.Teams[0].Stats["HR"] != 313 {
		t.Errorf("teams = %+v", league.Teams)
	}
	if len(league.Players) != 1 || league.Players[0].Pool != "OF" {
		t.Errorf("players = %+v", league.Players)
	}
	if len(league.FreeAgents) != 1 || league.FreeAgents[0].Stats["SB"] != 22 {
		t.Errorf("free agents = %+v", league.FreeAgents)
	}
	if len(league.Rosters) != 1 || len(league.Rosters[0].PlayerIDs) != 2 {
		t.Errorf("rosters = %+v", league.Rosters)
	}
}

func TestLoadLeague_NotFound(t *testing.T) {
	pg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockPgRow{Err: pgx.ErrNoRows}
		},
	}
	_, err := New(pg, nil).LoadLeague(context.Background(), "missing")
	if !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("error = %v, want ErrLeagueNotFound", err)
	}
}

func TestDeleteLeague(t *testing.T) {
	pg := &MockPgPool{ExecTag: pgconn.NewCommandTag("DELETE 1")}
	if err := New(pg, nil).DeleteLeague(context.Background(), "x"); err != nil {
		t.Errorf("DeleteLeague() error = %v", err)
	}

	pg = &MockPgPool{ExecTag: pgconn.NewCommandTag("DELETE 0")}
	if err := New(pg, nil).DeleteLeague(context.Background(), "x"); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("error = %v, want ErrLeagueNotFound", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	pg := &MockPgPool{}
	if err := New(pg, nil).EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(pg.Execs) != 1 || !strings.Contains(pg.Execs[0].sql, "CREATE TABLE IF NOT EXISTS league_rosters") {
		t.Errorf("execs = %+v", pg.Execs)
	}

	pg = &MockPgPool{ExecErr: errors.New("permission denied")}
	if err := New(pg, nil).EnsureSchema(context.Background()); err == nil {
		t.Error("expected error")
	}
}
