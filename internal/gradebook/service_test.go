package gradebook

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/gradebook/internal/cache"
	"github.com/pavelanni/gradebook/internal/model"
)

var scope = model.Scope{GradeID: 1, SubjectID: 2, AcademicYearID: 3, SemesterID: 1}

var query = model.StudentQuery{GradeID: 1, RoomID: 5, AcademicYearID: 3, SubjectID: 2, SemesterID: 1}

var fullTable = []model.GradeRange{
	{Label: "A", MinScore: 80},
	{Label: "B+", MinScore: 75},
	{Label: "B", MinScore: 70},
	{Label: "C+", MinScore: 65},
	{Label: "C", MinScore: 60},
	{Label: "D+", MinScore: 55},
	{Label: "D", MinScore: 50},
	{Label: "F", MinScore: 0},
}

// fakeStore is an in-memory Storage that counts the calls the service makes.
type fakeStore struct {
	mu       sync.Mutex
	students []model.Student
	items    []model.ScoreItem
	scores   []model.Score
	ranges   map[model.Scope][]model.GradeRange
	policies map[model.Scope]model.GradingPolicy
	calls    map[string]int
	failOn   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ranges:   make(map[model.Scope][]model.GradeRange),
		policies: make(map[model.Scope]model.GradingPolicy),
		calls:    make(map[string]int),
	}
}

var errStorage = errors.New("storage down")

func (f *fakeStore) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.failOn == name {
		return errStorage
	}
	return nil
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) ListAcademicYears(context.Context) ([]model.AcademicYear, error) {
	return []model.AcademicYear{{ID: 1, Year: 2567}}, f.call("ListAcademicYears")
}
func (f *fakeStore) ListSemesters(context.Context) ([]model.Semester, error) {
	return []model.Semester{{ID: 1, Name: "1"}}, f.call("ListSemesters")
}
func (f *fakeStore) ListGradeLevels(context.Context) ([]model.GradeLevel, error) {
	return []model.GradeLevel{{ID: 1, Name: "M.1"}}, f.call("ListGradeLevels")
}
func (f *fakeStore) ListSubjects(context.Context) ([]model.Subject, error) {
	return []model.Subject{{ID: 2, Name: "Math"}}, f.call("ListSubjects")
}
func (f *fakeStore) ListScoreTypes(context.Context) ([]model.ScoreType, error) {
	return []model.ScoreType{{ID: 1, Name: "Exam"}}, f.call("ListScoreTypes")
}
func (f *fakeStore) ImportReference(context.Context, model.ReferenceImport) (int, error) {
	return 0, f.call("ImportReference")
}
func (f *fakeStore) ListRooms(context.Context, int64) ([]model.Room, error) {
	return []model.Room{}, f.call("ListRooms")
}
func (f *fakeStore) CreateRoom(_ context.Context, r model.Room) (model.Room, error) {
	return r, f.call("CreateRoom")
}
func (f *fakeStore) ListScoreItems(ctx context.Context, s model.Scope) ([]model.ScoreItem, error) {
	return f.ListApplicableItems(ctx, s)
}
func (f *fakeStore) ListApplicableItems(_ context.Context, s model.Scope) ([]model.ScoreItem, error) {
	if err := f.call("ListApplicableItems"); err != nil {
		return nil, err
	}
	var out []model.ScoreItem
	for _, it := range f.items {
		if it.Scope == s {
			out = append(out, it)
		}
	}
	return out, nil
}
func (f *fakeStore) GetScoreItem(_ context.Context, id int64) (model.ScoreItem, error) {
	if err := f.call("GetScoreItem"); err != nil {
		return model.ScoreItem{}, err
	}
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.ScoreItem{}, model.ErrNotFound
}
func (f *fakeStore) CreateScoreItem(_ context.Context, it model.ScoreItem) (model.ScoreItem, error) {
	return it, f.call("CreateScoreItem")
}
func (f *fakeStore) UpdateScoreItem(context.Context, int64, model.ScoreItemUpdate) error {
	return f.call("UpdateScoreItem")
}
func (f *fakeStore) DeleteScoreItem(context.Context, int64) error { return f.call("DeleteScoreItem") }
func (f *fakeStore) ListStudents(context.Context, int64, int64, int64) ([]model.Student, error) {
	return f.students, f.call("ListStudents")
}
func (f *fakeStore) GetStudent(_ context.Context, id int64) (model.Student, error) {
	if err := f.call("GetStudent"); err != nil {
		return model.Student{}, err
	}
	for _, st := range f.students {
		if st.ID == id {
			return st, nil
		}
	}
	return model.Student{}, model.ErrNotFound
}
func (f *fakeStore) CreateStudent(_ context.Context, st model.Student) (model.Student, error) {
	return st, f.call("CreateStudent")
}
func (f *fakeStore) UpdateStudent(context.Context, int64, model.StudentUpdate) error {
	return f.call("UpdateStudent")
}
func (f *fakeStore) DeleteStudent(context.Context, int64) error { return f.call("DeleteStudent") }
func (f *fakeStore) UpsertScore(context.Context, model.Score) error {
	return f.call("UpsertScore")
}
func (f *fakeStore) ListScores(_ context.Context, studentID int64) ([]model.Score, error) {
	if err := f.call("ListScores"); err != nil {
		return nil, err
	}
	var out []model.Score
	for _, sc := range f.scores {
		if sc.StudentID == studentID {
			out = append(out, sc)
		}
	}
	return out, nil
}
func (f *fakeStore) ListScoresForStudents(_ context.Context, studentIDs, itemIDs []int64) ([]model.Score, error) {
	if err := f.call("ListScoresForStudents"); err != nil {
		return nil, err
	}
	var out []model.Score
	for _, sc := range f.scores {
		if slices.Contains(studentIDs, sc.StudentID) && slices.Contains(itemIDs, sc.ScoreItemID) {
			out = append(out, sc)
		}
	}
	return out, nil
}
func (f *fakeStore) ListGradeRanges(_ context.Context, s model.Scope) ([]model.GradeRange, error) {
	if err := f.call("ListGradeRanges"); err != nil {
		return nil, err
	}
	return f.ranges[s], nil
}
func (f *fakeStore) ReplaceGradeRanges(_ context.Context, s model.Scope, ranges []model.GradeRange) error {
	if err := f.call("ReplaceGradeRanges"); err != nil {
		return err
	}
	f.ranges[s] = ranges
	return nil
}
func (f *fakeStore) GetGradingPolicy(_ context.Context, s model.Scope) (model.GradingPolicy, bool, error) {
	if err := f.call("GetGradingPolicy"); err != nil {
		return "", false, err
	}
	p, ok := f.policies[s]
	return p, ok, nil
}
func (f *fakeStore) SetGradingPolicy(_ context.Context, s model.Scope, p model.GradingPolicy) error {
	if err := f.call("SetGradingPolicy"); err != nil {
		return err
	}
	f.policies[s] = p
	return nil
}

// seeded returns a store with two 50-point items and three students:
// 001 scored 40+30, 002 scored nothing, 003 scored 45+45 plus a score on an item of another scope.
func seeded() *fakeStore {
	f := newFakeStore()
	other := scope
	other.SemesterID = 2
	f.items = []model.ScoreItem{
		{ID: 10, Name: "Midterm", MaxScore: 50, TypeID: 1, Scope: scope},
		{ID: 11, Name: "Final", MaxScore: 50, TypeID: 1, Scope: scope},
		{ID: 12, Name: "Other term", MaxScore: 100, TypeID: 1, Scope: other},
	}
	f.students = []model.Student{
		{ID: 1, Code: "001", Name: "Anong", GradeID: 1, RoomID: 5, AcademicYearID: 3},
		{ID: 2, Code: "002", Name: "Boon", GradeID: 1, RoomID: 5, AcademicYearID: 3},
		{ID: 3, Code: "003", Name: "Chai", GradeID: 1, RoomID: 5, AcademicYearID: 3},
	}
	f.scores = []model.Score{
		{StudentID: 1, ScoreItemID: 10, Score: 40},
		{StudentID: 1, ScoreItemID: 11, Score: 30},
		{StudentID: 3, ScoreItemID: 10, Score: 45},
		{StudentID: 3, ScoreItemID: 11, Score: 45},
		{StudentID: 3, ScoreItemID: 12, Score: 100},
	}
	return f
}

func newService(t *testing.T, s Storage, c GradingCache, cfg Config) *Service {
	t.Helper()
	svc, err := New(s, c, cfg)
	require.NoError(t, err)
	return svc
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	_, err := New(newFakeStore(), nil, Config{DefaultPolicy: "curve"})
	assert.Error(t, err)
}

func TestListStudentGradesIncompleteQuery(t *testing.T) {
	f := seeded()
	svc := newService(t, f, nil, Config{})

	q := query
	q.SemesterID = 0
	got, err := svc.ListStudentGrades(context.Background(), q)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, f.count("ListStudents"))
}

func TestListStudentGradesFixed(t *testing.T) {
	f := seeded()
	svc := newService(t, f, nil, Config{Workers: 2})

	got, err := svc.ListStudentGrades(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"001", "002", "003"}, []string{got[0].Code, got[1].Code, got[2].Code})

	assert.Equal(t, map[int64]float64{10: 40, 11: 30}, got[0].Scores)
	assert.Equal(t, 70.0, got[0].Total)
	assert.Equal(t, 100.0, got[0].Max)
	assert.Equal(t, 70.0, got[0].Percent)
	assert.Equal(t, "3", got[0].Grade)

	assert.Empty(t, got[1].Scores)
	assert.Equal(t, 0.0, got[1].Total)
	assert.Equal(t, 100.0, got[1].Max)
	assert.Equal(t, "0", got[1].Grade)

	// The other-scope item contributes neither to total nor max.
	assert.Equal(t, 90.0, got[2].Total)
	assert.Equal(t, 100.0, got[2].Max)
	assert.Equal(t, "4", got[2].Grade)

	assert.Equal(t, 1, f.count("ListScoresForStudents"), "scores must be read in one batch")
	assert.Zero(t, f.count("ListScores"))
	assert.Zero(t, f.count("ListGradeRanges"), "fixed policy needs no range table")
}

func TestListStudentGradesMatchesPerStudent(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyRange
	f.ranges[scope] = fullTable
	svc := newService(t, f, nil, Config{Workers: 1})
	ctx := context.Background()

	batch, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	for i, st := range f.students {
		one, err := svc.StudentGrade(ctx, st.ID, scope.SubjectID, scope.SemesterID)
		require.NoError(t, err)
		assert.Equal(t, one, batch[i], "student %s", st.Code)
	}
}

func TestStudentGrade(t *testing.T) {
	f := seeded()
	svc := newService(t, f, nil, Config{})
	ctx := context.Background()

	got, err := svc.StudentGrade(ctx, 3, scope.SubjectID, scope.SemesterID)
	require.NoError(t, err)
	assert.Equal(t, "003", got.Code)
	assert.Equal(t, 90.0, got.Total, "the other semester's item must not count")
	assert.Equal(t, "4", got.Grade)
	assert.Equal(t, 1, f.count("ListScores"))

	_, err = svc.StudentGrade(ctx, 99, scope.SubjectID, scope.SemesterID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.StudentGrade(ctx, 1, 0, scope.SemesterID)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestListStudentGradesRangePolicyWithoutRows(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyRange
	svc := newService(t, f, nil, Config{})

	got, err := svc.ListStudentGrades(context.Background(), query)
	require.NoError(t, err)
	for _, sg := range got {
		assert.Equal(t, "F", sg.Grade, "student %s", sg.Code)
	}
}

func TestListStudentGradesDefaultPolicy(t *testing.T) {
	f := seeded()
	f.ranges[scope] = fullTable
	svc := newService(t, f, nil, Config{DefaultPolicy: model.PolicyRange})

	got, err := svc.ListStudentGrades(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "B", got[0].Grade)
	assert.Equal(t, "F", got[1].Grade)
	assert.Equal(t, "A", got[2].Grade)
}

func TestListStudentGradesNoStudents(t *testing.T) {
	f := newFakeStore()
	svc := newService(t, f, nil, Config{})

	got, err := svc.ListStudentGrades(context.Background(), query)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListStudentGradesStorageError(t *testing.T) {
	f := seeded()
	f.failOn = "ListScoresForStudents"
	svc := newService(t, f, nil, Config{})

	_, err := svc.ListStudentGrades(context.Background(), query)
	assert.ErrorIs(t, err, errStorage)
}

func TestScopeGradingIsCached(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyRange
	f.ranges[scope] = fullTable
	svc := newService(t, f, cache.NewMemory(0), Config{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ListStudentGrades(ctx, query)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.count("GetGradingPolicy"))
	assert.Equal(t, 1, f.count("ListGradeRanges"))
}

func TestReplaceGradeRangesInvalidatesCache(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyRange
	f.ranges[scope] = fullTable
	svc := newService(t, f, cache.NewMemory(0), Config{})
	ctx := context.Background()

	got, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	require.Equal(t, "B", got[0].Grade)

	stricter := slices.Clone(fullTable)
	stricter[2].MinScore = 72 // B
	stricter[3].MinScore = 70 // C+
	require.NoError(t, svc.ReplaceGradeRanges(ctx, model.GradeRangeTable{Scope: scope, Ranges: stricter}))

	got, err = svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "C+", got[0].Grade)
}

func TestSetGradingPolicyInvalidatesCache(t *testing.T) {
	f := seeded()
	f.ranges[scope] = fullTable
	svc := newService(t, f, cache.NewMemory(0), Config{})
	ctx := context.Background()

	got, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	require.Equal(t, "3", got[0].Grade)

	require.NoError(t, svc.SetGradingPolicy(ctx, model.ScopePolicy{Scope: scope, Policy: model.PolicyRange}))

	got, err = svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "B", got[0].Grade)
}

// stallingStore serves the grade ranges it held when first asked, then
// blocks that first read until release is closed.
type stallingStore struct {
	*fakeStore
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStallingStore(f *fakeStore) *stallingStore {
	return &stallingStore{fakeStore: f, read: make(chan struct{}), release: make(chan struct{})}
}

func (s *stallingStore) ListGradeRanges(ctx context.Context, sc model.Scope) ([]model.GradeRange, error) {
	ranges, err := s.fakeStore.ListGradeRanges(ctx, sc)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	return ranges, err
}

func (s *stallingStore) GetGradingPolicy(ctx context.Context, sc model.Scope) (model.GradingPolicy, bool, error) {
	p, ok, err := s.fakeStore.GetGradingPolicy(ctx, sc)
	if p == model.PolicyFixed {
		// Fixed scopes never read ranges; stall here instead.
		s.once.Do(func() {
			close(s.read)
			<-s.release
		})
	}
	return p, ok, err
}

func TestReplaceDuringListingDoesNotCacheStaleTable(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyRange
	f.ranges[scope] = fullTable
	s := newStallingStore(f)
	svc := newService(t, s, cache.NewMemory(0), Config{})
	ctx := context.Background()

	done := make(chan []model.StudentGrade)
	go func() {
		got, err := svc.ListStudentGrades(ctx, query)
		assert.NoError(t, err)
		done <- got
	}()
	<-s.read

	stricter := slices.Clone(fullTable)
	stricter[2].MinScore = 72
	stricter[3].MinScore = 70
	require.NoError(t, svc.ReplaceGradeRanges(ctx, model.GradeRangeTable{Scope: scope, Ranges: stricter}))
	close(s.release)

	// The listing that overlapped the replace may still show the old table.
	first := <-done
	require.Len(t, first, 3)
	assert.Equal(t, "B", first[0].Grade)

	got, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "C+", got[0].Grade)
}

func TestSetPolicyDuringListingDoesNotCacheStalePolicy(t *testing.T) {
	f := seeded()
	f.policies[scope] = model.PolicyFixed
	f.ranges[scope] = fullTable
	s := newStallingStore(f)
	svc := newService(t, s, cache.NewMemory(0), Config{})
	ctx := context.Background()

	done := make(chan []model.StudentGrade)
	go func() {
		got, err := svc.ListStudentGrades(ctx, query)
		assert.NoError(t, err)
		done <- got
	}()
	<-s.read

	require.NoError(t, svc.SetGradingPolicy(ctx, model.ScopePolicy{Scope: scope, Policy: model.PolicyRange}))
	close(s.release)
	first := <-done
	require.Len(t, first, 3)
	assert.Equal(t, "3", first[0].Grade)

	got, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "B", got[0].Grade)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, model.Scope) (model.ScopeGrading, bool, error) {
	return model.ScopeGrading{}, false, errors.New("cache down")
}
func (brokenCache) Set(context.Context, model.Scope, model.ScopeGrading) error {
	return errors.New("cache down")
}
func (brokenCache) Invalidate(context.Context, model.Scope) error { return errors.New("cache down") }

func TestCacheFailuresAreBypassed(t *testing.T) {
	f := seeded()
	svc := newService(t, f, brokenCache{}, Config{})
	ctx := context.Background()

	got, err := svc.ListStudentGrades(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "3", got[0].Grade)

	assert.NoError(t, svc.ReplaceGradeRanges(ctx, model.GradeRangeTable{Scope: scope, Ranges: fullTable}))
}

func TestReplaceGradeRangesValidation(t *testing.T) {
	tests := []struct {
		name   string
		table  model.GradeRangeTable
		fields []string
	}{
		{
			name:   "seven entries",
			table:  model.GradeRangeTable{Scope: scope, Ranges: fullTable[:7]},
			fields: []string{"ranges"},
		},
		{
			name:   "duplicate label",
			table:  model.GradeRangeTable{Scope: scope, Ranges: append(slices.Clone(fullTable[:7]), model.GradeRange{Label: "A", MinScore: 0})},
			fields: []string{"grade_label"},
		},
		{
			name:   "incomplete scope",
			table:  model.GradeRangeTable{Scope: model.Scope{GradeID: 1}, Ranges: fullTable},
			fields: []string{"subject_id", "academic_year_id", "semester_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			svc := newService(t, f, nil, Config{})

			err := svc.ReplaceGradeRanges(context.Background(), tt.table)
			require.ErrorIs(t, err, model.ErrInvalidInput)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, fe := range verr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Zero(t, f.count("ReplaceGradeRanges"), "nothing may be written")
		})
	}
}

func TestReplaceGradeRangesTrimsLabels(t *testing.T) {
	f := newFakeStore()
	svc := newService(t, f, nil, Config{})

	padded := slices.Clone(fullTable)
	padded[1].Label = " B+ "
	require.NoError(t, svc.ReplaceGradeRanges(context.Background(), model.GradeRangeTable{Scope: scope, Ranges: padded}))
	assert.Equal(t, "B+", f.ranges[scope][1].Label)
	assert.Equal(t, " B+ ", padded[1].Label, "input must not be modified")
}

func TestGradingPolicy(t *testing.T) {
	f := newFakeStore()
	svc := newService(t, f, nil, Config{})
	ctx := context.Background()

	p, err := svc.GradingPolicy(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyFixed, p.Policy)

	err = svc.SetGradingPolicy(ctx, model.ScopePolicy{Scope: scope, Policy: "curve"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	require.NoError(t, svc.SetGradingPolicy(ctx, model.ScopePolicy{Scope: scope, Policy: model.PolicyRange}))
	p, err = svc.GradingPolicy(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyRange, p.Policy)
	assert.Equal(t, scope, p.Scope)
}

func TestMeta(t *testing.T) {
	f := newFakeStore()
	svc := newService(t, f, nil, Config{})

	m, err := svc.Meta(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Years, 1)
	assert.Len(t, m.Semesters, 1)
	assert.Len(t, m.Grades, 1)
	assert.Len(t, m.Subjects, 1)
	assert.Len(t, m.ScoreTypes, 1)

	f.failOn = "ListSubjects"
	_, err = svc.Meta(context.Background())
	assert.ErrorIs(t, err, errStorage)
}

func TestRecordValidation(t *testing.T) {
	f := newFakeStore()
	svc := newService(t, f, nil, Config{})
	ctx := context.Background()

	err := svc.SaveScore(ctx, model.Score{StudentID: 1, ScoreItemID: 1, Score: -1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.NoError(t, svc.SaveScore(ctx, model.Score{StudentID: 1, ScoreItemID: 1, Score: 0}))

	_, err = svc.CreateScoreItem(ctx, model.ScoreItem{Name: "Quiz", MaxScore: 0, TypeID: 1, Scope: scope})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.CreateStudent(ctx, model.Student{Code: "001", GradeID: 1, RoomID: 1, AcademicYearID: 1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.CreateRoom(ctx, model.Room{GradeID: 1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.UpdateStudent(ctx, 1, model.StudentUpdate{Code: "001"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = svc.UpdateScoreItem(ctx, 1, model.ScoreItemUpdate{Name: "x", MaxScore: -5, TypeID: 1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.Equal(t, 1, f.count("UpsertScore"))
	assert.Zero(t, f.count("CreateScoreItem"))
	assert.Zero(t, f.count("CreateStudent"))
	assert.Zero(t, f.count("CreateRoom"))
	assert.Zero(t, f.count("UpdateStudent"))
	assert.Zero(t, f.count("UpdateScoreItem"))
}

func TestUpdatesReturnStoredRow(t *testing.T) {
	f := seeded()
	svc := newService(t, f, nil, Config{})
	ctx := context.Background()

	st, err := svc.UpdateStudent(ctx, 2, model.StudentUpdate{Code: "002", Name: "Boon"})
	require.NoError(t, err)
	assert.Equal(t, f.students[1], st)
	assert.Equal(t, 1, f.count("GetStudent"))

	it, err := svc.UpdateScoreItem(ctx, 11, model.ScoreItemUpdate{Name: "Final", MaxScore: 50, TypeID: 1})
	require.NoError(t, err)
	assert.Equal(t, f.items[1], it)

	f.failOn = "UpdateStudent"
	_, err = svc.UpdateStudent(ctx, 2, model.StudentUpdate{Code: "002", Name: "Boon"})
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, f.count("GetStudent"), "a failed update must not read back")
}

func TestListingsWithIncompleteFilters(t *testing.T) {
	f := seeded()
	svc := newService(t, f, nil, Config{})
	ctx := context.Background()

	items, err := svc.ListScoreItems(ctx, model.Scope{GradeID: 1})
	require.NoError(t, err)
	assert.Empty(t, items)

	rooms, err := svc.ListRooms(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	ranges, err := svc.ListGradeRanges(ctx, model.Scope{})
	require.NoError(t, err)
	assert.Empty(t, ranges)

	assert.Zero(t, f.count("ListApplicableItems"))
	assert.Zero(t, f.count("ListRooms"))
	assert.Zero(t, f.count("ListGradeRanges"))
}
