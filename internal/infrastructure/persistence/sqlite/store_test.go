package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "assessment.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_GetPutDelete(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "k", "one"))
	require.NoError(t, store.Put(ctx, "k", "two"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlot_RoundTripAcrossReopen(t *testing.T) {
	store, path := openTempStore(t)
	ctx := context.Background()
	slot := NewSlot(store, "assessmentData")

	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, student.ErrSlotEmpty)

	s := student.New("1", "Anna")
	s.Grades["DLV3"] = 5.5
	s.Comments["DLV3"] = "präzise"
	require.NoError(t, slot.Save(ctx, []student.Student{s}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := NewSlot(reopened, "assessmentData").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{s}, got)
}

func TestSlot_CorruptValue(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "assessmentData", "{oops"))

	_, err := NewSlot(store, "assessmentData").Load(ctx)
	assert.ErrorIs(t, err, student.ErrSlotCorrupt)
	assert.NotErrorIs(t, err, student.ErrSlotEmpty)
}

func TestSlot_KeysAreIndependent(t *testing.T) {
	store, _ := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, NewSlot(store, "a").Save(ctx, []student.Student{student.New("1", "Anna")}))

	_, err := NewSlot(store, "b").Load(ctx)
	assert.ErrorIs(t, err, student.ErrSlotEmpty)
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE x;\n-- +migrate Down\nDROP TABLE x;\n"
	assert.Equal(t, "\nCREATE TABLE x;\n", extractUpMigration(content))
	assert.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
}
