package store

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/pavelanni/gradebook/internal/model"
)

const scoreItemColumns = `si.id, si.name, si.max_score, si.type_id, COALESCE(st.name, '') AS type_name,
	si.grade_id, si.subject_id, si.academic_year_id, si.semester_id`

// ListScoreItems returns the score items of a scope ordered by type then id.
func (s *Store) ListScoreItems(ctx context.Context, scope model.Scope) ([]model.ScoreItem, error) {
	items := []model.ScoreItem{}
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(
		`SELECT `+scoreItemColumns+`
		 FROM score_items si
		 LEFT JOIN score_types st ON si.type_id = st.id
		 WHERE si.grade_id = ? AND si.subject_id = ? AND si.academic_year_id = ? AND si.semester_id = ?
		 ORDER BY si.type_id, si.id`),
		scope.GradeID, scope.SubjectID, scope.AcademicYearID, scope.SemesterID,
	)
	return items, err
}

// ListApplicableItems returns the items that make up the grading denominator of a scope.
func (s *Store) ListApplicableItems(ctx context.Context, scope model.Scope) ([]model.ScoreItem, error) {
	return s.ListScoreItems(ctx, scope)
}

// GetScoreItem returns a score item by ID.
func (s *Store) GetScoreItem(ctx context.Context, id int64) (model.ScoreItem, error) {
	var it model.ScoreItem
	err := s.db.GetContext(ctx, &it, s.db.Rebind(
		`SELECT `+scoreItemColumns+`
		 FROM score_items si
		 LEFT JOIN score_types st ON si.type_id = st.id
		 WHERE si.id = ?`), id)
	return it, translate(err)
}

// CreateScoreItem inserts a score item and returns it with its ID.
func (s *Store) CreateScoreItem(ctx context.Context, it model.ScoreItem) (model.ScoreItem, error) {
	err := s.db.GetContext(ctx, &it.ID, s.db.Rebind(
		`INSERT INTO score_items (name, max_score, type_id, grade_id, subject_id, academic_year_id, semester_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		it.Name, it.MaxScore, it.TypeID, it.GradeID, it.SubjectID, it.AcademicYearID, it.SemesterID,
	)
	if err != nil {
		return model.ScoreItem{}, translate(err)
	}
	slog.Info("created score item", "id", it.ID, "scope", it.Scope.Key(), "max_score", it.MaxScore)
	return it, nil
}

// UpdateScoreItem changes the editable fields of a score item.
func (s *Store) UpdateScoreItem(ctx context.Context, id int64, u model.ScoreItemUpdate) error {
	return mustAffect(s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE score_items SET name = ?, max_score = ?, type_id = ? WHERE id = ?`),
		u.Name, u.MaxScore, u.TypeID, id,
	))
}

// DeleteScoreItem removes a score item and every score recorded against it.
func (s *Store) DeleteScoreItem(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM scores WHERE score_item_id = ?`), id); err != nil {
			return err
		}
		return mustAffect(tx.ExecContext(ctx, tx.Rebind(`DELETE FROM score_items WHERE id = ?`), id))
	})
	if err != nil {
		return err
	}
	slog.Info("deleted score item", "id", id)
	return nil
}
