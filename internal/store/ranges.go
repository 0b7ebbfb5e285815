package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/pavelanni/gradebook/internal/model"
)

// ListGradeRanges returns the grade-range table of a scope, highest bound first.
// A scope without a table yields an empty slice.
func (s *Store) ListGradeRanges(ctx context.Context, scope model.Scope) ([]model.GradeRange, error) {
	ranges := []model.GradeRange{}
	err := s.db.SelectContext(ctx, &ranges, s.db.Rebind(
		`SELECT grade_label, min_score FROM grade_ranges
		 WHERE grade_id = ? AND subject_id = ? AND academic_year_id = ? AND semester_id = ?
		 ORDER BY min_score DESC`),
		scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID,
	)
	return ranges, err
}

// ReplaceGradeRanges swaps the whole range table of a scope in one transaction.
// Callers validate the table first; nothing here checks its shape.
func (s *Store) ReplaceGradeRanges(ctx context.Context, scope model.Scope, ranges []model.GradeRange) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`DELETE FROM grade_ranges
			 WHERE grade_id = ? AND subject_id = ? AND academic_year_id = ? AND semester_id = ?`),
			scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID,
		)
		if err != nil {
			return err
		}
		insert := tx.Rebind(
			`INSERT INTO grade_ranges (grade_id, subject_id, academic_year_id, semester_id, grade_label, min_score)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		for _, r := range ranges {
			_, err := tx.ExecContext(ctx, insert,
				scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID, r.Label, r.MinScore)
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("replaced grade ranges", "scope", scope.Key(), "count", len(ranges))
	return nil
}

// GetGradingPolicy returns the policy assigned to a scope; found is false when none is.
func (s *Store) GetGradingPolicy(ctx context.Context, scope model.Scope) (policy model.GradingPolicy, found bool, err error) {
	err = s.db.GetContext(ctx, &policy, s.db.Rebind(
		`SELECT policy FROM grading_policies
		 WHERE grade_id = ? AND subject_id = ? AND academic_year_id = ? AND semester_id = ?`),
		scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return policy, true, nil
}

// SetGradingPolicy assigns a policy to a scope, replacing any previous one.
func (s *Store) SetGradingPolicy(ctx context.Context, scope model.Scope, policy model.GradingPolicy) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO grading_policies (grade_id, subject_id, academic_year_id, semester_id, policy)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (grade_id, subject_id, academic_year_id, semester_id) DO UPDATE SET policy = excluded.policy`),
		scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID, policy,
	)
	if err != nil {
		return err
	}
	slog.Info("set grading policy", "scope", scope.Key(), "policy", policy)
	return nil
}
