package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/gradebook/internal/gradebook"
	"github.com/pavelanni/gradebook/internal/i18n"
	"github.com/pavelanni/gradebook/internal/metrics"
	"github.com/pavelanni/gradebook/internal/model"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc *gradebook.Service
	db  Pinger
}

// New creates a new Handler.
func New(svc *gradebook.Service, db Pinger) *Handler {
	return &Handler{svc: svc, db: db}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(i18n.Middleware)

		r.Get("/meta", h.handleMeta)

		r.Get("/rooms", h.handleListRooms)
		r.Post("/rooms", h.handleCreateRoom)

		r.Get("/score-items", h.handleListScoreItems)
		r.Post("/score-items", h.handleCreateScoreItem)
		r.Put("/score-items/{id}", h.handleUpdateScoreItem)
		r.Delete("/score-items/{id}", h.handleDeleteScoreItem)

		r.Get("/students", h.handleListStudents)
		r.Post("/students", h.handleCreateStudent)
		r.Put("/students/{id}", h.handleUpdateStudent)
		r.Delete("/students/{id}", h.handleDeleteStudent)
		r.Get("/students/{id}/grade", h.handleStudentGrade)

		r.Put("/scores", h.handleSaveScore)

		r.Get("/grade-ranges", h.handleListGradeRanges)
		r.Put("/grade-ranges", h.handleReplaceGradeRanges)

		r.Get("/grading-policy", h.handleGetGradingPolicy)
		r.Put("/grading-policy", h.handleSetGradingPolicy)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	writeJSON(w, status, errorBody{Error: i18n.T(r.Context(), msgID)})
}

// fail maps a service error onto a status code and a localized body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		body := errorBody{Error: i18n.T(r.Context(), "InvalidInput"), Fields: make(map[string]string)}
		for _, fe := range verr.Fields {
			if _, seen := body.Fields[fe.Field]; !seen {
				body.Fields[fe.Field] = i18n.FieldMessage(r.Context(), fe)
			}
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "InvalidInput")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NotFound")
	case errors.Is(err, model.ErrConflict):
		writeError(w, r, http.StatusConflict, "Conflict")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "InternalError")
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInts parses the named query parameters. Missing parameters are zero;
// a present but non-numeric one is an error.
func queryInts(r *http.Request, names ...string) ([]int64, error) {
	q := r.URL.Query()
	out := make([]int64, len(names))
	for i, name := range names {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, model.NewValidationError(model.FieldError{Field: name, Rule: "numeric"})
		}
		out[i] = n
	}
	return out, nil
}

func queryScope(r *http.Request) (model.Scope, error) {
	v, err := queryInts(r, "grade_id", "subject_id", "academic_year_id", "semester_id")
	if err != nil {
		return model.Scope{}, err
	}
	return model.Scope{GradeID: v[0], SubjectID: v[1], AcademicYearID: v[2], SemesterID: v[3]}, nil
}
