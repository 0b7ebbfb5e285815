package grading

import (
	"strconv"
	"strings"

	"github.com/pavelanni/gradebook/internal/model"
)

// Labels is the fixed label set every grade-range table must define.
var Labels = []string{"A", "B+", "B", "C+", "C", "D+", "D", "F"}

// ValidateRanges checks a replacement range table: exactly one row per label
// in Labels, each min score within [0, 100]. Coverage of 0-100 is left to the caller.
func ValidateRanges(ranges []model.GradeRange) error {
	if len(ranges) != len(Labels) {
		return model.NewValidationError(model.FieldError{
			Field: "ranges",
			Rule:  "count",
			Param: strconv.Itoa(len(Labels)),
		})
	}

	want := make(map[string]bool, len(Labels))
	for _, l := range Labels {
		want[l] = true
	}
	var flds []model.FieldError
	for _, r := range ranges {
		label := strings.TrimSpace(r.Label)
		if !want[label] {
			flds = append(flds, model.FieldError{Field: "grade_label", Rule: "labels", Param: strings.Join(Labels, " ")})
			continue
		}
		delete(want, label)
		if r.MinScore < 0 || r.MinScore > 100 {
			flds = append(flds, model.FieldError{Field: "min_score", Rule: "bounds", Param: label})
		}
	}
	if len(flds) > 0 {
		return model.NewValidationError(flds...)
	}
	return nil
}
