package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/gradebook/internal/model"
)

var scope = model.Scope{GradeID: 1, SubjectID: 2, AcademicYearID: 3, SemesterID: 4}

var rangeGrading = model.ScopeGrading{
	Policy: model.PolicyRange,
	Ranges: []model.GradeRange{{Label: "A", MinScore: 80}, {Label: "F", MinScore: 0}},
}

// exercise runs the behavior every Cache implementation must share.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, scope)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, c.Set(ctx, scope, rangeGrading))
	got, ok, err := c.Get(ctx, scope)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rangeGrading, got)

	other := scope
	other.SemesterID = 9
	_, ok, err = c.Get(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok, "scopes must not share entries")

	require.NoError(t, c.Invalidate(ctx, scope))
	_, ok, err = c.Get(ctx, scope)
	require.NoError(t, err)
	assert.False(t, ok, "invalidated entry should miss")
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory(0))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, scope, rangeGrading))
	_, ok, _ := m.Get(ctx, scope)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, scope)
	assert.False(t, ok, "entry should expire after TTL")
}

func TestMemoryCopiesRanges(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	g := model.ScopeGrading{Policy: model.PolicyRange, Ranges: []model.GradeRange{{Label: "A", MinScore: 80}}}

	require.NoError(t, m.Set(ctx, scope, g))
	g.Ranges[0].MinScore = 10

	got, _, _ := m.Get(ctx, scope)
	assert.Equal(t, 80.0, got.Ranges[0].MinScore)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Nop
	require.NoError(t, c.Set(ctx, scope, rangeGrading))
	_, ok, err := c.Get(ctx, scope)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(ctx, Options{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(ctx, Options{Kind: "memcached"})
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("GRADEBOOK_TEST_REDIS")
	if addr == "" {
		t.Skip("GRADEBOOK_TEST_REDIS not set")
	}
	c, err := NewRedis(context.Background(), addr, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	exercise(t, c)
}
