// Package gradebook ties the store, the grading cache and the grade
// aggregator together. Handlers talk to a Service; the Service validates
// input, reads in batches and never writes anything grading derives.
package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/gradebook/internal/grading"
	"github.com/pavelanni/gradebook/internal/metrics"
	"github.com/pavelanni/gradebook/internal/model"
)

// Storage is the persistence the service needs. *store.Store implements it.
type Storage interface {
	ListAcademicYears(ctx context.Context) ([]model.AcademicYear, error)
	ListSemesters(ctx context.Context) ([]model.Semester, error)
	ListGradeLevels(ctx context.Context) ([]model.GradeLevel, error)
	ListSubjects(ctx context.Context) ([]model.Subject, error)
	ListScoreTypes(ctx context.Context) ([]model.ScoreType, error)
	ImportReference(ctx context.Context, ref model.ReferenceImport) (int, error)

	ListRooms(ctx context.Context, gradeID int64) ([]model.Room, error)
	CreateRoom(ctx context.Context, room model.Room) (model.Room, error)

	ListScoreItems(ctx context.Context, scope model.Scope) ([]model.ScoreItem, error)
	ListApplicableItems(ctx context.Context, scope model.Scope) ([]model.ScoreItem, error)
	GetScoreItem(ctx context.Context, id int64) (model.ScoreItem, error)
	CreateScoreItem(ctx context.Context, it model.ScoreItem) (model.ScoreItem, error)
	UpdateScoreItem(ctx context.Context, id int64, u model.ScoreItemUpdate) error
	DeleteScoreItem(ctx context.Context, id int64) error

	ListStudents(ctx context.Context, gradeID, roomID, academicYearID int64) ([]model.Student, error)
	GetStudent(ctx context.Context, id int64) (model.Student, error)
	CreateStudent(ctx context.Context, st model.Student) (model.Student, error)
	UpdateStudent(ctx context.Context, id int64, u model.StudentUpdate) error
	DeleteStudent(ctx context.Context, id int64) error

	UpsertScore(ctx context.Context, sc model.Score) error
	ListScores(ctx context.Context, studentID int64) ([]model.Score, error)
	ListScoresForStudents(ctx context.Context, studentIDs, itemIDs []int64) ([]model.Score, error)

	ListGradeRanges(ctx context.Context, scope model.Scope) ([]model.GradeRange, error)
	ReplaceGradeRanges(ctx context.Context, scope model.Scope, ranges []model.GradeRange) error
	GetGradingPolicy(ctx context.Context, scope model.Scope) (model.GradingPolicy, bool, error)
	SetGradingPolicy(ctx context.Context, scope model.Scope, policy model.GradingPolicy) error
}

// GradingCache holds resolved scope gradings. *cache.Memory, *cache.Redis
// and cache.Nop implement it.
type GradingCache interface {
	Get(ctx context.Context, scope model.Scope) (model.ScopeGrading, bool, error)
	Set(ctx context.Context, scope model.Scope, g model.ScopeGrading) error
	Invalidate(ctx context.Context, scope model.Scope) error
}

// Config tunes a Service.
type Config struct {
	// DefaultPolicy applies to scopes without an assigned policy.
	DefaultPolicy model.GradingPolicy
	// Workers bounds concurrent per-student aggregation. Zero means GOMAXPROCS.
	Workers int
}

type Service struct {
	store  Storage
	cache  GradingCache
	config Config

	// mu orders cache writes against invalidation. gens counts the
	// invalidations of each scope; a grading read from the store is cached
	// only if its scope's count did not move while it was being read.
	mu   sync.Mutex
	gens map[string]uint64
}

// New creates a Service. A nil cache disables caching.
func New(s Storage, c GradingCache, cfg Config) (*Service, error) {
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = model.PolicyFixed
	}
	if !cfg.DefaultPolicy.Valid() {
		return nil, fmt.Errorf("unknown default grading policy %q", cfg.DefaultPolicy)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if c == nil {
		c = nopCache{}
	}
	return &Service{store: s, cache: c, config: cfg, gens: make(map[string]uint64)}, nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, model.Scope) (model.ScopeGrading, bool, error) {
	return model.ScopeGrading{}, false, nil
}
func (nopCache) Set(context.Context, model.Scope, model.ScopeGrading) error { return nil }
func (nopCache) Invalidate(context.Context, model.Scope) error              { return nil }

// ListStudentGrades returns the students of a room with their scores,
// totals and grade for the query's scope, in student-code order.
// An incomplete query yields an empty list.
func (s *Service) ListStudentGrades(ctx context.Context, q model.StudentQuery) ([]model.StudentGrade, error) {
	out := []model.StudentGrade{}
	if !q.Complete() {
		return out, nil
	}
	scope := q.Scope()

	students, err := s.store.ListStudents(ctx, q.GradeID, q.RoomID, q.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if len(students) == 0 {
		return out, nil
	}
	items, err := s.store.ListApplicableItems(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list score items: %w", err)
	}
	policy, err := s.policyFor(ctx, scope)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]int64, len(students))
	for i, st := range students {
		studentIDs[i] = st.ID
	}
	itemIDs := make([]int64, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID
	}
	scores, err := s.store.ListScoresForStudents(ctx, studentIDs, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	byStudent := make(map[int64][]model.Score, len(students))
	for _, sc := range scores {
		byStudent[sc.StudentID] = append(byStudent[sc.StudentID], sc)
	}

	out = make([]model.StudentGrade, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, st := range students {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := grading.Aggregate(items, byStudent[st.ID], policy)
			out[i] = model.StudentGrade{
				Student: st,
				Scores:  res.Scores,
				Total:   res.Total,
				Max:     res.Max,
				Percent: res.Percent,
				Grade:   res.Grade,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.GradesComputed.WithLabelValues(string(policy.Name())).Add(float64(len(out)))
	return out, nil
}

// StudentGrade grades one student for a subject and semester of the
// student's own grade and academic year.
func (s *Service) StudentGrade(ctx context.Context, studentID, subjectID, semesterID int64) (model.StudentGrade, error) {
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return model.StudentGrade{}, err
	}
	scope := model.Scope{
		GradeID:        st.GradeID,
		SubjectID:      subjectID,
		AcademicYearID: st.AcademicYearID,
		SemesterID:     semesterID,
	}
	if err := model.Validate(scope); err != nil {
		return model.StudentGrade{}, err
	}

	items, err := s.store.ListApplicableItems(ctx, scope)
	if err != nil {
		return model.StudentGrade{}, fmt.Errorf("list score items: %w", err)
	}
	scores, err := s.store.ListScores(ctx, st.ID)
	if err != nil {
		return model.StudentGrade{}, fmt.Errorf("list scores: %w", err)
	}
	policy, err := s.policyFor(ctx, scope)
	if err != nil {
		return model.StudentGrade{}, err
	}
	res := grading.Aggregate(items, scores, policy)
	metrics.GradesComputed.WithLabelValues(string(policy.Name())).Inc()
	return model.StudentGrade{
		Student: st,
		Scores:  res.Scores,
		Total:   res.Total,
		Max:     res.Max,
		Percent: res.Percent,
		Grade:   res.Grade,
	}, nil
}

// ScopeGrading returns the policy and range table that apply to a scope.
// The cache is consulted first; cache failures fall through to the store.
func (s *Service) ScopeGrading(ctx context.Context, scope model.Scope) (model.ScopeGrading, error) {
	g, ok, err := s.cache.Get(ctx, scope)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		slog.Warn("grading cache get failed", "scope", scope.Key(), "error", err)
	case ok:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return g, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	gen := s.generation(scope)

	policy, found, err := s.store.GetGradingPolicy(ctx, scope)
	if err != nil {
		return model.ScopeGrading{}, fmt.Errorf("get grading policy: %w", err)
	}
	if !found {
		policy = s.config.DefaultPolicy
	}
	g = model.ScopeGrading{Policy: policy}
	if policy == model.PolicyRange {
		g.Ranges, err = s.store.ListGradeRanges(ctx, scope)
		if err != nil {
			return model.ScopeGrading{}, fmt.Errorf("list grade ranges: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[scope.Key()] != gen {
		// Invalidated while reading; what was read may predate the change.
		slog.Debug("skipping grading cache set", "scope", scope.Key())
		return g, nil
	}
	if err := s.cache.Set(ctx, scope, g); err != nil {
		slog.Warn("grading cache set failed", "scope", scope.Key(), "error", err)
	}
	return g, nil
}

func (s *Service) policyFor(ctx context.Context, scope model.Scope) (grading.Policy, error) {
	g, err := s.ScopeGrading(ctx, scope)
	if err != nil {
		return nil, err
	}
	return grading.ForScope(g), nil
}

func (s *Service) generation(scope model.Scope) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[scope.Key()]
}

// invalidate drops a scope's cached grading. Call it after the store change commits.
func (s *Service) invalidate(ctx context.Context, scope model.Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[scope.Key()]++
	if err := s.cache.Invalidate(ctx, scope); err != nil {
		slog.Warn("grading cache invalidate failed", "scope", scope.Key(), "error", err)
	}
}

// ListGradeRanges returns a scope's range table, highest bound first.
// An incomplete scope yields an empty table.
func (s *Service) ListGradeRanges(ctx context.Context, scope model.Scope) ([]model.GradeRange, error) {
	if !scope.Complete() {
		return []model.GradeRange{}, nil
	}
	return s.store.ListGradeRanges(ctx, scope)
}

// ReplaceGradeRanges validates and atomically replaces a scope's range table.
// Nothing is written when validation fails.
func (s *Service) ReplaceGradeRanges(ctx context.Context, t model.GradeRangeTable) error {
	if err := model.Validate(t.Scope); err != nil {
		return err
	}
	ranges := make([]model.GradeRange, len(t.Ranges))
	for i, r := range t.Ranges {
		ranges[i] = model.GradeRange{Label: strings.TrimSpace(r.Label), MinScore: r.MinScore}
	}
	if err := grading.ValidateRanges(ranges); err != nil {
		return err
	}
	if err := s.store.ReplaceGradeRanges(ctx, t.Scope, ranges); err != nil {
		return fmt.Errorf("replace grade ranges: %w", err)
	}
	s.invalidate(ctx, t.Scope)
	metrics.RangeReplacements.Inc()
	return nil
}

// GradingPolicy returns the policy that applies to a scope, falling back
// to the configured default.
func (s *Service) GradingPolicy(ctx context.Context, scope model.Scope) (model.ScopePolicy, error) {
	if err := model.Validate(scope); err != nil {
		return model.ScopePolicy{}, err
	}
	policy, found, err := s.store.GetGradingPolicy(ctx, scope)
	if err != nil {
		return model.ScopePolicy{}, fmt.Errorf("get grading policy: %w", err)
	}
	if !found {
		policy = s.config.DefaultPolicy
	}
	return model.ScopePolicy{Scope: scope, Policy: policy}, nil
}

// SetGradingPolicy assigns a policy to a scope.
func (s *Service) SetGradingPolicy(ctx context.Context, p model.ScopePolicy) error {
	if err := model.Validate(p); err != nil {
		return err
	}
	if err := s.store.SetGradingPolicy(ctx, p.Scope, p.Policy); err != nil {
		return fmt.Errorf("set grading policy: %w", err)
	}
	s.invalidate(ctx, p.Scope)
	return nil
}
