package grading

import (
	"cmp"
	"slices"

	"github.com/pavelanni/gradebook/internal/model"
)

// FallbackLabel is returned by a range table when no row matches.
const FallbackLabel = "F"

// Policy maps a percentage to a grade label.
type Policy interface {
	Name() model.GradingPolicy
	Grade(percent float64) string
}

// Threshold is an inclusive lower bound on percentage.
type Threshold struct {
	Min   float64
	Label string
}

// Fixed grades through a hard-coded cascade of thresholds.
type Fixed struct {
	thresholds []Threshold
	fallback   string
}

// DefaultFixed is the four-point scale: 80, 70, 60 and 50 percent cut-offs.
var DefaultFixed = NewFixed([]Threshold{
	{Min: 80, Label: "4"},
	{Min: 70, Label: "3"},
	{Min: 60, Label: "2"},
	{Min: 50, Label: "1"},
}, "0")

// NewFixed returns a Fixed policy. Thresholds are copied and evaluated in
// descending order regardless of the order given.
func NewFixed(thresholds []Threshold, fallback string) Fixed {
	ts := slices.Clone(thresholds)
	slices.SortStableFunc(ts, func(a, b Threshold) int { return cmp.Compare(b.Min, a.Min) })
	return Fixed{thresholds: ts, fallback: fallback}
}

func (Fixed) Name() model.GradingPolicy { return model.PolicyFixed }

// Grade returns the label of the first threshold percent reaches.
func (f Fixed) Grade(percent float64) string {
	for _, t := range f.thresholds {
		if percent >= t.Min {
			return t.Label
		}
	}
	return f.fallback
}

// RangeTable grades with a scope's configured grade ranges.
type RangeTable struct {
	ranges []model.GradeRange
}

// NewRangeTable returns a RangeTable over a copy of ranges sorted by
// descending min score. An empty table grades everything FallbackLabel.
func NewRangeTable(ranges []model.GradeRange) RangeTable {
	rs := slices.Clone(ranges)
	slices.SortStableFunc(rs, func(a, b model.GradeRange) int { return cmp.Compare(b.MinScore, a.MinScore) })
	return RangeTable{ranges: rs}
}

func (RangeTable) Name() model.GradingPolicy { return model.PolicyRange }

// Grade returns the label of the row with the greatest min score not above percent.
func (t RangeTable) Grade(percent float64) string {
	for _, r := range t.ranges {
		if r.MinScore <= percent {
			return r.Label
		}
	}
	return FallbackLabel
}

// ForScope returns the policy described by g. Only one policy ever applies:
// a range policy ignores the fixed table and vice versa.
func ForScope(g model.ScopeGrading) Policy {
	if g.Policy == model.PolicyRange {
		return NewRangeTable(g.Ranges)
	}
	return DefaultFixed
}
