package handler

import (
	"errors"
	"net/http"

	"github.com/pavelanni/gradebook/internal/model"
)

func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Meta(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	v, err := queryInts(r, "grade_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rooms, err := h.svc.ListRooms(r.Context(), v[0])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var room model.Room
	if err := decodeJSON(r, &room); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	created, err := h.svc.CreateRoom(r.Context(), room)
	if errors.Is(err, model.ErrConflict) {
		writeError(w, r, http.StatusBadRequest, "RoomExists")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListScoreItems(w http.ResponseWriter, r *http.Request) {
	scope, err := queryScope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.svc.ListScoreItems(r.Context(), scope)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreateScoreItem(w http.ResponseWriter, r *http.Request) {
	var it model.ScoreItem
	if err := decodeJSON(r, &it); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	created, err := h.svc.CreateScoreItem(r.Context(), it)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateScoreItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "InvalidID")
		return
	}
	var u model.ScoreItemUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	updated, err := h.svc.UpdateScoreItem(r.Context(), id, u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteScoreItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "InvalidID")
		return
	}
	if err := h.svc.DeleteScoreItem(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var st model.Student
	if err := decodeJSON(r, &st); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	created, err := h.svc.CreateStudent(r.Context(), st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "InvalidID")
		return
	}
	var u model.StudentUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	updated, err := h.svc.UpdateStudent(r.Context(), id, u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "InvalidID")
		return
	}
	if err := h.svc.DeleteStudent(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	var sc model.Score
	if err := decodeJSON(r, &sc); err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return
	}
	if err := h.svc.SaveScore(r.Context(), sc); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
