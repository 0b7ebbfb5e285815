package store

import (
	"context"
	"fmt"

	"github.com/pavelanni/gradebook/internal/model"
)

// ListAcademicYears returns academic years, newest first.
func (s *Store) ListAcademicYears(ctx context.Context) ([]model.AcademicYear, error) {
	years := []model.AcademicYear{}
	err := s.db.SelectContext(ctx, &years, `SELECT id, year FROM academic_years ORDER BY year DESC`)
	return years, err
}

// ListSemesters returns all semesters.
func (s *Store) ListSemesters(ctx context.Context) ([]model.Semester, error) {
	semesters := []model.Semester{}
	err := s.db.SelectContext(ctx, &semesters, `SELECT id, name FROM semesters ORDER BY id`)
	return semesters, err
}

// ListGradeLevels returns all school grades.
func (s *Store) ListGradeLevels(ctx context.Context) ([]model.GradeLevel, error) {
	grades := []model.GradeLevel{}
	err := s.db.SelectContext(ctx, &grades, `SELECT id, name FROM grades ORDER BY id`)
	return grades, err
}

// ListSubjects returns all subjects.
func (s *Store) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	subjects := []model.Subject{}
	err := s.db.SelectContext(ctx, &subjects, `SELECT id, name FROM subjects ORDER BY id`)
	return subjects, err
}

// ListScoreTypes returns all score types.
func (s *Store) ListScoreTypes(ctx context.Context) ([]model.ScoreType, error) {
	types := []model.ScoreType{}
	err := s.db.SelectContext(ctx, &types, `SELECT id, name FROM score_types ORDER BY id`)
	return types, err
}

// ImportReference inserts reference rows that do not exist yet and reports how many were added.
func (s *Store) ImportReference(ctx context.Context, ref model.ReferenceImport) (int, error) {
	added := 0
	insert := func(table, column string, value any) error {
		res, err := s.db.ExecContext(ctx, s.db.Rebind(
			fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?) ON CONFLICT (%s) DO NOTHING`, table, column, column)),
			value,
		)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		added += int(n)
		return nil
	}

	for _, y := range ref.Years {
		if err := insert("academic_years", "year", y); err != nil {
			return added, err
		}
	}
	for _, pair := range []struct {
		table string
		names []string
	}{
		{"semesters", ref.Semesters},
		{"grades", ref.Grades},
		{"subjects", ref.Subjects},
		{"score_types", ref.ScoreTypes},
	} {
		for _, name := range pair.names {
			if err := insert(pair.table, "name", name); err != nil {
				return added, err
			}
		}
	}
	return added, nil
}
