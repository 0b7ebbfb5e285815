package model

import (
	"fmt"
)

// GradingPolicy selects how a percentage is turned into a grade label for a scope.
type GradingPolicy string

const (
	// PolicyFixed grades with the built-in threshold cascade.
	PolicyFixed GradingPolicy = "fixed"
	// PolicyRange grades with the scope's configured grade-range table.
	PolicyRange GradingPolicy = "range"
)

// Valid reports whether p is a known policy.
func (p GradingPolicy) Valid() bool {
	return p == PolicyFixed || p == PolicyRange
}

// Scope partitions score items, grade ranges and grading policies.
type Scope struct {
	GradeID        int64 `json:"grade_id" db:"grade_id" validate:"required"`
	SubjectID      int64 `json:"subject_id" db:"subject_id" validate:"required"`
	AcademicYearID int64 `json:"academic_year_id" db:"academic_year_id" validate:"required"`
	SemesterID     int64 `json:"semester_id" db:"semester_id" validate:"required"`
}

// Complete reports whether every part of the scope is set.
func (s Scope) Complete() bool {
	return s.GradeID != 0 && s.SubjectID != 0 && s.AcademicYearID != 0 && s.SemesterID != 0
}

// Key returns a stable string form of the scope, used for cache keys and logs.
func (s Scope) Key() string {
	return fmt.Sprintf("%d:%d:%d:%d", s.GradeID, s.SubjectID, s.AcademicYearID, s.SemesterID)
}

// ScoreItem is a gradable unit (assignment, exam) with a maximum possible score.
type ScoreItem struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name" validate:"required"`
	MaxScore float64 `json:"max_score" db:"max_score" validate:"gt=0"`
	TypeID   int64   `json:"type_id" db:"type_id" validate:"required"`
	TypeName string  `json:"type_name,omitempty" db:"type_name"`
	Scope
}

// ScoreItemUpdate holds the editable fields of a score item.
type ScoreItemUpdate struct {
	Name     string  `json:"name" validate:"required"`
	MaxScore float64 `json:"max_score" validate:"gt=0"`
	TypeID   int64   `json:"type_id" validate:"required"`
}

// Score is a student's recorded result for one score item.
type Score struct {
	StudentID   int64   `json:"student_id" db:"student_id" validate:"required"`
	ScoreItemID int64   `json:"score_item_id" db:"score_item_id" validate:"required"`
	Score       float64 `json:"score" db:"score" validate:"gte=0"`
}

// GradeRange is one labeled lower bound of a scope's grade-range table.
type GradeRange struct {
	Label    string  `json:"grade_label" db:"grade_label" validate:"required"`
	MinScore float64 `json:"min_score" db:"min_score" validate:"gte=0,lte=100"`
}

// GradeRangeTable is a full replacement submission for one scope.
type GradeRangeTable struct {
	Scope
	Ranges []GradeRange `json:"ranges" validate:"dive"`
}

// ScopePolicy assigns a grading policy to a scope.
type ScopePolicy struct {
	Scope
	Policy GradingPolicy `json:"policy" db:"policy" validate:"required,oneof=fixed range"`
}

// ScopeGrading is everything needed to grade percentages within a scope.
type ScopeGrading struct {
	Policy GradingPolicy `json:"policy"`
	Ranges []GradeRange  `json:"ranges,omitempty"`
}

// Student is enrolled in one room of one grade for an academic year.
type Student struct {
	ID             int64  `json:"id" db:"id"`
	Code           string `json:"code" db:"code" validate:"required"`
	Name           string `json:"name" db:"name" validate:"required"`
	GradeID        int64  `json:"grade_id" db:"grade_id" validate:"required"`
	RoomID         int64  `json:"room_id" db:"room_id" validate:"required"`
	AcademicYearID int64  `json:"academic_year_id" db:"academic_year_id" validate:"required"`
}

// StudentUpdate holds the editable fields of a student.
type StudentUpdate struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// StudentQuery selects the students of a room and the scope they are graded in.
type StudentQuery struct {
	GradeID        int64
	RoomID         int64
	AcademicYearID int64
	SubjectID      int64
	SemesterID     int64
}

// Complete reports whether every filter is set.
func (q StudentQuery) Complete() bool {
	return q.RoomID != 0 && q.Scope().Complete()
}

// Scope returns the grading scope the query addresses.
func (q StudentQuery) Scope() Scope {
	return Scope{
		GradeID:        q.GradeID,
		SubjectID:      q.SubjectID,
		AcademicYearID: q.AcademicYearID,
		SemesterID:     q.SemesterID,
	}
}

// StudentGrade is a student record augmented with derived grading fields.
type StudentGrade struct {
	Student
	Scores  map[int64]float64 `json:"scores"`
	Total   float64           `json:"total"`
	Max     float64           `json:"max"`
	Percent float64           `json:"percent"`
	Grade   string            `json:"grade"`
}

// Room is a class within a grade.
type Room struct {
	ID      int64 `json:"id" db:"id"`
	GradeID int64 `json:"grade_id" db:"grade_id" validate:"required"`
	RoomNo  int   `json:"room_no" db:"room_no" validate:"required"`
}
