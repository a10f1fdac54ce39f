package logic

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/models"
)

func sampleStandings(t *testing.T) *models.Standings {
	t.Helper()
	s, err := newTestAggregator(PolicyFail).Aggregate(context.Background(), sampleTeams(), category.DefaultRegistry().All())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	return s
}

func TestClassify_SampleLeague(t *testing.T) {
	s := sampleStandings(t)

	tests := []struct {
		id             string
		wantStrengths  []string
		wantWeaknesses []string
	}{
		{"A", []string{"R", "HR", "RBI", "SB"}, []string{"SV"}},
		{"B", []string{"SV", "R", "HR", "RBI"}, []string{"SB", "AVG", "ERA", "WHIP"}},
		{"C", []string{"ERA", "WHIP", "K/9", "QS"}, []string{"SB", "AVG", "OPS", "SV"}},
		{"D", []string{"AVG", "SB", "SV"}, []string{"R", "HR", "RBI", "ERA"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			row, ok := s.Row(tt.id)
			if !ok {
				t.Fatalf("row %s missing", tt.id)
			}
			p, err := Classify(row, s.Rankings, DefaultTopK)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got := names(p.Strengths); !slices.Equal(got, tt.wantStrengths) {
				t.Errorf("strengths = %v, want %v", got, tt.wantStrengths)
			}
			if got := names(p.Weaknesses); !slices.Equal(got, tt.wantWeaknesses) {
				t.Errorf("weaknesses = %v, want %v", got, tt.wantWeaknesses)
			}
		})
	}
}

func TestClassify_Ordering(t *testing.T) {
	s := sampleStandings(t)
	row, _ := s.Row("D")
	p, err := Classify(row, s.Rankings, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(p.Strengths); i++ {
		if p.Strengths[i].Rank < p.Strengths[i-1].Rank {
			t.Errorf("strengths not best-first: %+v", p.Strengths)
		}
	}
	for i := 1; i < len(p.Weaknesses); i++ {
		if p.Weaknesses[i].Rank > p.Weaknesses[i-1].Rank {
			t.Errorf("weaknesses not worst-first: %+v", p.Weaknesses)
		}
	}
	// Seven last places fill k=5 before OPS (third) is reached.
	if got := names(p.Weaknesses); !slices.Equal(got, []string{"R", "HR", "RBI", "ERA", "WHIP"}) {
		t.Errorf("weaknesses = %v", got)
	}
}

func TestClassify_FirstEverywhereHasNoWeaknesses(t *testing.T) {
	teams := []models.Entity{
		{ID: "best", Stats: models.StatLine{"HR": 40, "SB": 30, "ERA": 2.5, "SV": 40}},
		{ID: "mid", Stats: models.StatLine{"HR": 30, "SB": 20, "ERA": 3.5, "SV": 20}},
		{ID: "low", Stats: models.StatLine{"HR": 20, "SB": 10, "ERA": 4.5, "SV": 10}},
	}
	cats := []category.Category{mustCategory("HR"), mustCategory("SB"), mustCategory("ERA"), mustCategory("SV")}
	s, err := newTestAggregator(PolicyFail).Aggregate(context.Background(), teams, cats)
	if err != nil {
		t.Fatal(err)
	}

	row, _ := s.Row("best")
	for k := 0; k <= MaxTopK(len(cats)); k++ {
		p, err := Classify(row, s.Rankings, k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(p.Weaknesses) != 0 {
			t.Errorf("k=%d: weaknesses = %v, want none", k, names(p.Weaknesses))
		}
		if len(p.Strengths) != k {
			t.Errorf("k=%d: strengths = %d", k, len(p.Strengths))
		}
	}

	// The middle team sits exactly on the midpoint everywhere.
	mid, _ := s.Row("mid")
	p, err := Classify(mid, s.Rankings, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Strengths) != 0 || len(p.Weaknesses) != 0 {
		t.Errorf("balanced team profile = %+v, want empty", p)
	}
	if p.Strengths == nil || p.Weaknesses == nil {
		t.Error("empty sets should be non-nil slices")
	}
}

func TestClassify_InvalidTopK(t *testing.T) {
	s := sampleStandings(t)
	row := s.Rows[0]

	for _, k := range []int{-1, 6, 11} {
		_, err := Classify(row, s.Rankings, k)
		if !errors.Is(err, ErrInvalidTopK) {
			t.Errorf("k=%d: error = %v, want InvalidTopK", k, err)
		}
	}
	if _, err := Classify(row, s.Rankings, 5); err != nil {
		t.Errorf("k=5 with 11 categories should be valid: %v", err)
	}
}

func TestClassifyAll(t *testing.T) {
	s := sampleStandings(t)
	profiles, err := ClassifyAll(s, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != len(s.Rows) {
		t.Fatalf("profiles = %d, want %d", len(profiles), len(s.Rows))
	}
	for i, p := range profiles {
		if p.EntityID != s.Rows[i].EntityID {
			t.Errorf("profile %d = %s, want %s", i, p.EntityID, s.Rows[i].EntityID)
		}
	}
}
