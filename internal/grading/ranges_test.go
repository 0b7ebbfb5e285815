package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/gradebook/internal/model"
)

func fullTable() []model.GradeRange {
	return []model.GradeRange{
		{Label: "A", MinScore: 80},
		{Label: "B+", MinScore: 75},
		{Label: "B", MinScore: 70},
		{Label: "C+", MinScore: 65},
		{Label: "C", MinScore: 60},
		{Label: "D+", MinScore: 55},
		{Label: "D", MinScore: 50},
		{Label: "F", MinScore: 0},
	}
}

func TestValidateRanges(t *testing.T) {
	t.Run("full table accepted", func(t *testing.T) {
		assert.NoError(t, ValidateRanges(fullTable()))
	})

	t.Run("seven entries rejected", func(t *testing.T) {
		err := ValidateRanges(fullTable()[:7])
		require.ErrorIs(t, err, model.ErrInvalidInput)

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "count", verr.Fields[0].Rule)
		assert.Equal(t, "8", verr.Fields[0].Param)
	})

	t.Run("nine entries rejected", func(t *testing.T) {
		rs := append(fullTable(), model.GradeRange{Label: "A", MinScore: 90})
		assert.ErrorIs(t, ValidateRanges(rs), model.ErrInvalidInput)
	})

	t.Run("duplicate label rejected", func(t *testing.T) {
		rs := fullTable()
		rs[1].Label = "A"
		var verr *model.ValidationError
		require.ErrorAs(t, ValidateRanges(rs), &verr)
		assert.Equal(t, "labels", verr.Fields[0].Rule)
	})

	t.Run("unknown label rejected", func(t *testing.T) {
		rs := fullTable()
		rs[7].Label = "E"
		assert.ErrorIs(t, ValidateRanges(rs), model.ErrInvalidInput)
	})

	t.Run("out of bounds min score rejected", func(t *testing.T) {
		rs := fullTable()
		rs[0].MinScore = 101
		var verr *model.ValidationError
		require.ErrorAs(t, ValidateRanges(rs), &verr)
		assert.Equal(t, "bounds", verr.Fields[0].Rule)
		assert.Equal(t, "min_score", verr.Fields[0].Field)
	})
}
