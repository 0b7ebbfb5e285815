package handler

import (
	"net/http"

	"github.com/pavelanni/gradebook/internal/model"
)

// handleListStudents returns the room's students with their derived grades.
func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	v, err := queryInts(r, "grade_id", "room_id", "academic_year_id", "subject_id", "semester_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	grades, err := h.svc.ListStudentGrades(r.Context(), model.StudentQuery{
		GradeID:        v[0],
		RoomID:         v[1],
		AcademicYearID: v[2],
		SubjectID:      v[3],
		SemesterID:     v[4],
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

// handleStudentGrade grades one student for a subject and semester of their
// own grade and academic year.
func (h *Handler) handleStudentGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "InvalidID")
		return
	}
	v, err := queryInts(r, "subject_id", "semester_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	g, err := h.svc.StudentGrade(r.Context(), id, v[0], v[1])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) handleListGradeRanges(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ranges, err := h.svc.ListGradeRanges(r.Context(), scope)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranges)
}

// handleReplaceGradeRanges swaps a scope's range table and echoes the stored table.
func (h *Handler) handleReplaceGradeRanges(w http.ResponseWriter, r *http.Request) {
	var t model.GradeRangeTable
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	if err := h.svc.ReplaceGradeRanges(r.Context(), t); err != nil {
		h.fail(w, r, err)
		return
	}
	ranges, err := h.svc.ListGradeRanges(r.Context(), t.Scope)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.GradeRangeTable{Scope: t.Scope, Ranges: ranges})
}

func (h *Handler) handleGetGradingPolicy(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.GradingPolicy(r.Context(), scope)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleSetGradingPolicy(w http.ResponseWriter, r *http.Request) {
	var p model.ScopePolicy
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	if err := h.svc.SetGradingPolicy(r.Context(), p); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
