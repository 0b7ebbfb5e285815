// Package grading derives totals, percentages and grade labels from a
// student's recorded scores. Everything here is a pure function of its
// inputs; reading items, scores and range tables is the caller's job.
package grading

import (
	"math"

	"github.com/pavelanni/gradebook/internal/model"
)

// PercentPlaces is the number of decimal places percentages are rounded to.
const PercentPlaces = 1

// Result is the derived grade view for one student within one scope.
type Result struct {
	Scores  map[int64]float64
	Total   float64
	Max     float64
	Percent float64
	Grade   string
}

// Aggregate sums a student's scores over the applicable items and grades the
// resulting percentage with policy. Scores for items outside items are ignored
// and items without a recorded score count as zero.
func Aggregate(items []model.ScoreItem, scores []model.Score, policy Policy) Result {
	recorded := make(map[int64]float64, len(scores))
	for _, sc := range scores {
		recorded[sc.ScoreItemID] = sc.Score
	}

	res := Result{Scores: make(map[int64]float64, len(items))}
	for _, it := range items {
		if v, ok := recorded[it.ID]; ok {
			res.Scores[it.ID] = v
			res.Total += v
		}
		res.Max += it.MaxScore
	}
	res.Percent = Percent(res.Total, res.Max)
	res.Grade = policy.Grade(res.Percent)
	return res
}

// Percent returns 100*total/max rounded to PercentPlaces, or 0 when max is not positive.
func Percent(total, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Round(100*total/max, PercentPlaces)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
