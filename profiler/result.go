package profiler

import (
	"fmt"
)

// Role classifies a result row.
type Role string

// Result roles.
const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Policy is how rows with the same label combine across threads and
// iterations.
type Policy string

// PolicySum sums rows. For rows that carry only a locator it is the
// identity.
const PolicySum Policy = "sum"

// Result is a result row. Profilers produce secondary rows whose only
// payload is ExtendedInfo, a human-readable locator for an artifact the
// tool wrote.
type Result struct {
	Role         Role   `json:"role"                   yaml:"role"`
	Label        string `json:"label"                  yaml:"label"`
	Policy       Policy `json:"policy"                 yaml:"policy"`
	Unit         string `json:"unit"                   yaml:"unit"`
	ExtendedInfo string `json:"extendedInfo,omitempty" yaml:"extendedInfo,omitempty"`
}

// Secondary returns a secondary row. The label should start with "@".
func Secondary(label, info string) Result {
	return Result{
		Role:         RoleSecondary,
		Label:        label,
		Policy:       PolicySum,
		Unit:         "none",
		ExtendedInfo: info,
	}
}

// Aggregate combines r with others. Locator rows carry no samples, so the
// result is a copy of r with its role and unit kept.
func (r Result) Aggregate(_ ...Result) Result {
	out := r

	return out
}

// ResultSet is an insertion-ordered set of rows keyed by label.
//
// Create instances with [NewResultSet].
type ResultSet struct {
	rows   map[string]Result
	owners map[string]string
	order  []string
}

// NewResultSet creates an empty [ResultSet].
func NewResultSet() *ResultSet {
	return &ResultSet{
		rows:   make(map[string]Result),
		owners: make(map[string]string),
	}
}

// Add records rows produced by the named profiler. Rows sharing a label
// with an earlier row from the same profiler are aggregated; a label
// already owned by another profiler is an [ErrLabelConflict].
func (s *ResultSet) Add(owner string, rows ...Result) error {
	for _, r := range rows {
		prev, ok := s.rows[r.Label]
		if !ok {
			s.rows[r.Label] = r
			s.owners[r.Label] = owner
			s.order = append(s.order, r.Label)

			continue
		}

		if s.owners[r.Label] != owner {
			return fmt.Errorf("%w: %q from %s, already reported by %s",
				ErrLabelConflict, r.Label, owner, s.owners[r.Label])
		}

		s.rows[r.Label] = prev.Aggregate(r)
	}

	return nil
}

// Get returns the row with the given label.
func (s *ResultSet) Get(label string) (Result, bool) {
	r, ok := s.rows[label]

	return r, ok
}

// Owner returns the name of the profiler that produced label.
func (s *ResultSet) Owner(label string) string {
	return s.owners[label]
}

// Labels returns labels in insertion order.
func (s *ResultSet) Labels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Rows returns rows in insertion order.
func (s *ResultSet) Rows() []Result {
	out := make([]Result, 0, len(s.order))
	for _, label := range s.order {
		out = append(out, s.rows[label])
	}

	return out
}

// Len returns the number of rows.
func (s *ResultSet) Len() int {
	return len(s.order)
}
