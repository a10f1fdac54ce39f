// Package category defines the scored statistical categories of a rotisserie league.
//
// A Registry is built once at startup and is immutable afterwards. Every component
// receives it explicitly; there is no process-wide category table.
package category

import (
	"cmp"
	"fmt"
)

// Group is the data group a category belongs to.
type Group string

const (
	Batting  Group = "batting"
	Pitching Group = "pitching"
)

// Direction tells whether a higher or a lower raw value is better.
type Direction string

const (
	// Descending categories rank the largest value first (HR, SB, ...).
	Descending Direction = "descending"
	// Ascending categories rank the smallest value first (ERA, WHIP).
	Ascending Direction = "ascending"
)

// Rollup describes how player lines combine into a team value.
// An empty Volume means the category is a counting stat and is summed;
// otherwise the team value is the Volume-weighted mean of player values.
type Rollup struct {
	Volume    string `json:"volume,omitempty"`
	Precision int32  `json:"precision,omitempty"`
}

// Qualifier is the minimum playing-time threshold for individual leaders,
// e.g. AB >= 400 for batting average.
type Qualifier struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
}

// Category is a single scored statistic.
type Category struct {
	Name      string     `json:"name"`
	Group     Group      `json:"group"`
	Direction Direction  `json:"direction"`
	Need      string     `json:"need,omitempty"`
	Rollup    Rollup     `json:"rollup"`
	Qualifier *Qualifier `json:"qualifier,omitempty"`
	// Notable is the individual line a player must beat to stand out in the
	// category. Zero disables it.
	Notable float64 `json:"notable,omitempty"`

	compare func(a, b float64) int
}

// Compare orders two raw values so that the better one sorts first.
func (c Category) Compare(a, b float64) int {
	if c.compare == nil {
		return compareFor(c.Direction)(a, b)
	}
	return c.compare(a, b)
}

// Better reports whether a is strictly better than b.
func (c Category) Better(a, b float64) bool {
	return c.Compare(a, b) < 0
}

// Qualifies reports whether a stat line meets the category's playing-time threshold.
func (c Category) Qualifies(stats map[string]float64) bool {
	if c.Qualifier == nil {
		return true
	}
	v, ok := stats[c.Qualifier.Column]
	return ok && v >= c.Qualifier.Min
}

// IsNotable reports whether a player value strictly beats the Notable threshold.
func (c Category) IsNotable(v float64) bool {
	return c.Notable != 0 && c.Better(v, c.Notable)
}

func compareFor(d Direction) func(a, b float64) int {
	if d == Ascending {
		return cmp.Compare[float64]
	}
	return func(a, b float64) int { return cmp.Compare(b, a) }
}

// Registry is the immutable set of recognised categories, in configuration order.
type Registry struct {
	categories []Category
	byName     map[string]int
}

// NewRegistry validates the definitions and binds each category's comparator.
func NewRegistry(defs []Category) (*Registry, error) {
	r := &Registry{
		categories: make([]Category, 0, len(defs)),
		byName:     make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("category with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", d.Name)
		}
		if d.Group != Batting && d.Group != Pitching {
			return nil, fmt.Errorf("category %q: unknown group %q", d.Name, d.Group)
		}
		if d.Direction != Ascending && d.Direction != Descending {
			return nil, fmt.Errorf("category %q: unknown direction %q", d.Name, d.Direction)
		}
		d.compare = compareFor(d.Direction)
		r.byName[d.Name] = len(r.categories)
		r.categories = append(r.categories, d)
	}
	return r, nil
}

// DefaultDefinitions returns the standard 6x5 baseball categories.
func DefaultDefinitions() []Category {
	return []Category{
		{Name: "R", Group: Batting, Direction: Descending, Need: "speed", Notable: 90},
		{Name: "HR", Group: Batting, Direction: Descending, Need: "power hitting", Notable: 30},
		{Name: "RBI", Group: Batting, Direction: Descending, Need: "power hitting", Notable: 90},
		{Name: "SB", Group: Batting, Direction: Descending, Need: "speed", Notable: 20},
		{Name: "AVG", Group: Batting, Direction: Descending, Need: "batting average/OPS", Notable: 0.280,
			Rollup: Rollup{Volume: "AB", Precision: 3}, Qualifier: &Qualifier{Column: "AB", Min: 400}},
		{Name: "OPS", Group: Batting, Direction: Descending, Need: "batting average/OPS", Notable: 0.850,
			Rollup: Rollup{Volume: "AB", Precision: 3}, Qualifier: &Qualifier{Column: "AB", Min: 400}},
		{Name: "ERA", Group: Pitching, Direction: Ascending, Need: "starting pitching", Notable: 3.20,
			Rollup: Rollup{Volume: "IP", Precision: 2}, Qualifier: &Qualifier{Column: "IP", Min: 150}},
		{Name: "WHIP", Group: Pitching, Direction: Ascending, Need: "starting pitching", Notable: 1.10,
			Rollup: Rollup{Volume: "IP", Precision: 2}, Qualifier: &Qualifier{Column: "IP", Min: 150}},
		{Name: "K/9", Group: Pitching, Direction: Descending, Need: "starting pitching", Notable: 10.5,
			Rollup: Rollup{Volume: "IP", Precision: 1}, Qualifier: &Qualifier{Column: "IP", Min: 150}},
		{Name: "QS", Group: Pitching, Direction: Descending, Need: "starting pitching", Notable: 18},
		{Name: "SV", Group: Pitching, Direction: Descending, Need: "relief pitching", Notable: 30},
	}
}

// DefaultRegistry builds the registry from DefaultDefinitions.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of every category in configuration order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of categories.
func (r *Registry) Len() int { return len(r.categories) }

// Lookup finds a category by its exact, case-sensitive name.
func (r *Registry) Lookup(name string) (Category, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Group returns the categories of one group in configuration order.
func (r *Registry) Group(g Group) []Category {
	var out []Category
	for _, c := range r.categories {
		if c.Group == g {
			out = append(out, c)
		}
	}
	return out
}

// Select resolves names to categories. Unknown names are returned separately
// so callers can ignore superset inputs.
func (r *Registry) Select(names []string) (known []Category, unknown []string) {
	for _, n := range names {
		if c, ok := r.Lookup(n); ok {
			known = append(known, c)
		} else {
			unknown = append(unknown, n)
		}
	}
	return known, unknown
}

// VolumeColumns lists the distinct roll-up volume columns (AB, IP, ...).
func (r *Registry) VolumeColumns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.categories {
		if v := c.Rollup.Volume; v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
