package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
)

var heartbeat = core.Locator{Module: "builtin", Symbol: "heartbeat"}

func collect(t *testing.T, s *GormStorage) []core.TaskRecord {
	t.Helper()
	var out []core.TaskRecord
	for rec, err := range s.List(context.Background()) {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
	assert.True(t, s.DB().Migrator().HasTable("tasks"))
	assert.True(t, s.DB().Migrator().HasColumn(&core.TaskRecord{}, "module_locator"))
	assert.True(t, s.DB().Migrator().HasColumn(&core.TaskRecord{}, "symbol_locator"))
	assert.True(t, s.DB().Migrator().HasColumn(&core.TaskRecord{}, "interval_seconds"))
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, core.NewTaskRecord("dummy", heartbeat, 5*time.Second)))

	rec, err := s.Get(ctx, "dummy")
	require.NoError(t, err)
	assert.Equal(t, "dummy", rec.Name)
	assert.Equal(t, heartbeat, rec.Locator())
	assert.Equal(t, int64(5), rec.IntervalSeconds)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestCreate_Duplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, core.NewTaskRecord("dummy", heartbeat, 5*time.Second)))
	err := s.Create(ctx, core.NewTaskRecord("dummy", heartbeat, 9*time.Second))

	var dup *core.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "dummy", dup.Name)
	assert.False(t, errors.Is(err, core.ErrPersistence))

	rec, err := s.Get(ctx, "dummy")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.IntervalSeconds)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStorage(t)

	rec, err := s.Get(context.Background(), "missing")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpsert_InsertsThenReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, core.NewTaskRecord("job", heartbeat, 5*time.Second)))

	other := core.Locator{Module: "scraping", Symbol: "scrape-websites"}
	require.NoError(t, s.Upsert(ctx, core.NewTaskRecord("job", other, 30*time.Second)))

	rec, err := s.Get(ctx, "job")
	require.NoError(t, err)
	assert.Equal(t, other, rec.Locator())
	assert.Equal(t, int64(30), rec.IntervalSeconds)
	assert.Len(t, collect(t, s), 1)
}

func TestUpdateInterval(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, core.NewTaskRecord("job", heartbeat, 5*time.Second)))

	changed, err := s.UpdateInterval(ctx, "job", 10)
	require.NoError(t, err)
	assert.True(t, changed)

	rec, err := s.Get(ctx, "job")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.IntervalSeconds)
	assert.Equal(t, heartbeat, rec.Locator())

	changed, err = s.UpdateInterval(ctx, "missing", 10)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, core.NewTaskRecord("job", heartbeat, 5*time.Second)))

	removed, err := s.Delete(ctx, "job")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, "job")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.Get(ctx, "job")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestList_OrderedAndRestartable(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, s.Create(ctx, core.NewTaskRecord(name, heartbeat, time.Second)))
	}

	first := collect(t, s)
	require.Len(t, first, 3)
	assert.Equal(t, "alpha", first[0].Name)
	assert.Equal(t, "bravo", first[1].Name)
	assert.Equal(t, "charlie", first[2].Name)

	// A second range is a fresh snapshot.
	_, err := s.Delete(ctx, "bravo")
	require.NoError(t, err)
	second := collect(t, s)
	require.Len(t, second, 2)
	assert.Equal(t, "charlie", second[1].Name)
}

func TestList_EarlyBreak(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	for _, name := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.Create(ctx, core.NewTaskRecord(name, heartbeat, time.Second)))
	}

	seen := 0
	for _, err := range s.List(ctx) {
		require.NoError(t, err)
		seen++
		if seen == 1 {
			break
		}
	}
	assert.Equal(t, 1, seen)

	// The connection was released by the early break.
	_, err := s.Get(ctx, "a2")
	assert.NoError(t, err)
}

func TestList_Empty(t *testing.T) {
	s := newTestStorage(t)
	assert.Empty(t, collect(t, s))
}

func TestClose_Idempotent(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "job")
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestFailures_ArePersistenceErrors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Close())

	err := s.Create(ctx, core.NewTaskRecord("job", heartbeat, time.Second))
	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "create", pe.Op)

	err = s.Upsert(ctx, core.NewTaskRecord("job", heartbeat, time.Second))
	assert.ErrorIs(t, err, core.ErrPersistence)

	_, err = s.UpdateInterval(ctx, "job", 3)
	assert.ErrorIs(t, err, core.ErrPersistence)

	_, err = s.Delete(ctx, "job")
	assert.ErrorIs(t, err, core.ErrPersistence)

	for _, err := range s.List(ctx) {
		assert.ErrorIs(t, err, core.ErrPersistence)
	}
}
