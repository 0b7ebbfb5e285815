package store

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/pavelanni/gradebook/internal/model"
)

// ListStudents returns the students of a room for an academic year, ordered by code.
func (s *Store) ListStudents(ctx context.Context, gradeID, roomID, academicYearID int64) ([]model.Student, error) {
	students := []model.Student{}
	err := s.db.SelectContext(ctx, &students, s.db.Rebind(
		`SELECT id, code, name, grade_id, room_id, academic_year_id
		 FROM students
		 WHERE grade_id = ? AND room_id = ? AND academic_year_id = ?
		 ORDER BY code`),
		gradeID, roomID, academicYearID,
	)
	return students, err
}

// GetStudent returns a student by ID.
func (s *Store) GetStudent(ctx context.Context, id int64) (model.Student, error) {
	var st model.Student
	err := s.db.GetContext(ctx, &st, s.db.Rebind(
		`SELECT id, code, name, grade_id, room_id, academic_year_id FROM students WHERE id = ?`), id)
	return st, translate(err)
}

// CreateStudent inserts a student and returns the stored row.
func (s *Store) CreateStudent(ctx context.Context, st model.Student) (model.Student, error) {
	var created model.Student
	err := s.db.GetContext(ctx, &created, s.db.Rebind(
		`INSERT INTO students (code, name, grade_id, room_id, academic_year_id)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, code, name, grade_id, room_id, academic_year_id`),
		st.Code, st.Name, st.GradeID, st.RoomID, st.AcademicYearID,
	)
	if err != nil {
		return model.Student{}, translate(err)
	}
	slog.Info("created student", "id", created.ID, "code", created.Code)
	return created, nil
}

// UpdateStudent changes a student's code and name.
func (s *Store) UpdateStudent(ctx context.Context, id int64, u model.StudentUpdate) error {
	return mustAffect(s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE students SET code = ?, name = ? WHERE id = ?`), u.Code, u.Name, id))
}

// DeleteStudent removes a student and all of their scores.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM scores WHERE student_id = ?`), id); err != nil {
			return err
		}
		return mustAffect(tx.ExecContext(ctx, tx.Rebind(`DELETE FROM students WHERE id = ?`), id))
	})
	if err != nil {
		return err
	}
	slog.Info("deleted student", "id", id)
	return nil
}
