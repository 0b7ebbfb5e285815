package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pavelanni/gradebook/internal/model"
)

// UpsertScore inserts or replaces the score for a (student, item) pair.
// Referencing a missing student or item yields model.ErrNotFound.
func (s *Store) UpsertScore(ctx context.Context, sc model.Score) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO scores (student_id, score_item_id, score)
		 VALUES (?, ?, ?)
		 ON CONFLICT (student_id, score_item_id) DO UPDATE SET score = excluded.score`),
		sc.StudentID, sc.ScoreItemID, sc.Score,
	)
	return translate(err)
}

// ListScores returns every score recorded for a student.
func (s *Store) ListScores(ctx context.Context, studentID int64) ([]model.Score, error) {
	scores := []model.Score{}
	err := s.db.SelectContext(ctx, &scores, s.db.Rebind(
		`SELECT student_id, score_item_id, score FROM scores WHERE student_id = ? ORDER BY score_item_id`),
		studentID,
	)
	return scores, err
}

// ListScoresForStudents returns, in one query, the scores of the given
// students restricted to the given items.
func (s *Store) ListScoresForStudents(ctx context.Context, studentIDs, itemIDs []int64) ([]model.Score, error) {
	scores := []model.Score{}
	if len(studentIDs) == 0 || len(itemIDs) == 0 {
		return scores, nil
	}
	query, args, err := sqlx.In(
		`SELECT student_id, score_item_id, score FROM scores
		 WHERE student_id IN (?) AND score_item_id IN (?)
		 ORDER BY student_id, score_item_id`,
		studentIDs, itemIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("expand score query: %w", err)
	}
	err = s.db.SelectContext(ctx, &scores, s.db.Rebind(query), args...)
	return scores, err
}
