package gradebook

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/gradebook/internal/model"
)

// Meta returns every reference list in one response. The five reads run concurrently.
func (s *Service) Meta(ctx context.Context) (model.Meta, error) {
	var m model.Meta
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.Years, err = s.store.ListAcademicYears(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.Semesters, err = s.store.ListSemesters(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.Grades, err = s.store.ListGradeLevels(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.Subjects, err = s.store.ListSubjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.ScoreTypes, err = s.store.ListScoreTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Meta{}, fmt.Errorf("load reference data: %w", err)
	}
	return m, nil
}

// ImportReference adds any missing reference rows and reports how many were added.
func (s *Service) ImportReference(ctx context.Context, ref model.ReferenceImport) (int, error) {
	return s.store.ImportReference(ctx, ref)
}

func (s *Service) ListRooms(ctx context.Context, gradeID int64) ([]model.Room, error) {
	if gradeID == 0 {
		return []model.Room{}, nil
	}
	return s.store.ListRooms(ctx, gradeID)
}

// CreateRoom adds a room; a duplicate room number in the grade is model.ErrConflict.
func (s *Service) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	if err := model.Validate(room); err != nil {
		return model.Room{}, err
	}
	return s.store.CreateRoom(ctx, room)
}

// ListScoreItems returns the items of a scope. An incomplete scope yields an empty list.
func (s *Service) ListScoreItems(ctx context.Context, scope model.Scope) ([]model.ScoreItem, error) {
	if !scope.Complete() {
		return []model.ScoreItem{}, nil
	}
	return s.store.ListScoreItems(ctx, scope)
}

func (s *Service) CreateScoreItem(ctx context.Context, it model.ScoreItem) (model.ScoreItem, error) {
	if err := model.Validate(it); err != nil {
		return model.ScoreItem{}, err
	}
	return s.store.CreateScoreItem(ctx, it)
}

// UpdateScoreItem changes an item and returns it as stored.
func (s *Service) UpdateScoreItem(ctx context.Context, id int64, u model.ScoreItemUpdate) (model.ScoreItem, error) {
	if err := model.Validate(u); err != nil {
		return model.ScoreItem{}, err
	}
	if err := s.store.UpdateScoreItem(ctx, id, u); err != nil {
		return model.ScoreItem{}, err
	}
	return s.store.GetScoreItem(ctx, id)
}

// DeleteScoreItem removes an item together with the scores recorded against it.
func (s *Service) DeleteScoreItem(ctx context.Context, id int64) error {
	return s.store.DeleteScoreItem(ctx, id)
}

func (s *Service) CreateStudent(ctx context.Context, st model.Student) (model.Student, error) {
	if err := model.Validate(st); err != nil {
		return model.Student{}, err
	}
	return s.store.CreateStudent(ctx, st)
}

func (s *Service) UpdateStudent(ctx context.Context, id int64, u model.StudentUpdate) (model.Student, error) {
	if err := model.Validate(u); err != nil {
		return model.Student{}, err
	}
	if err := s.store.UpdateStudent(ctx, id, u); err != nil {
		return model.Student{}, err
	}
	return s.store.GetStudent(ctx, id)
}

// DeleteStudent removes a student together with their scores.
func (s *Service) DeleteStudent(ctx context.Context, id int64) error {
	return s.store.DeleteStudent(ctx, id)
}

// SaveScore records a score, replacing any earlier value for the same
// student and item. Negative scores are rejected.
func (s *Service) SaveScore(ctx context.Context, sc model.Score) error {
	if err := model.Validate(sc); err != nil {
		return err
	}
	return s.store.UpsertScore(ctx, sc)
}
