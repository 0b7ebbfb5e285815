package store

import (
	"context"
	"log/slog"

	"github.com/pavelanni/gradebook/internal/model"
)

// ListRooms returns the rooms of a grade ordered by room number.
func (s *Store) ListRooms(ctx context.Context, gradeID int64) ([]model.Room, error) {
	rooms := []model.Room{}
	err := s.db.SelectContext(ctx, &rooms, s.db.Rebind(
		`SELECT id, grade_id, room_no FROM rooms WHERE grade_id = ? ORDER BY room_no`), gradeID)
	return rooms, err
}

// CreateRoom inserts a room. A duplicate room number within the grade yields model.ErrConflict.
func (s *Store) CreateRoom(ctx context.Context, r model.Room) (model.Room, error) {
	err := s.db.GetContext(ctx, &r.ID, s.db.Rebind(
		`INSERT INTO rooms (grade_id, room_no) VALUES (?, ?) RETURNING id`),
		r.GradeID, r.RoomNo,
	)
	if err != nil {
		return model.Room{}, translate(err)
	}
	slog.Info("created room", "id", r.ID, "grade_id", r.GradeID, "room_no", r.RoomNo)
	return r, nil
}
