package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookwormapp/bookworm-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(store.Options{Path: dbPath}, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_Create_Success(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:    "1",
		Name:  "Jordan Reader",
		Email: "jordan@example.com",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.ID, retrieved.ID)
	require.Equal(t, testData.Name, retrieved.Name)
	require.Equal(t, testData.Email, retrieved.Email)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "First"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "Second"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Original must be untouched.
	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "First", retrieved.Name)
}

func TestEntity_Create_UniqueIndexConflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "same@example.com"})
	require.NoError(t, err)

	// Different ID, same index key: the whole transaction must fail.
	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "same@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = entity.Get(context.Background(), "2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_GetByIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "a@example.com"})
	require.NoError(t, err)

	found, err := entity.GetByIndex(context.Background(), "email", "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", found.ID)

	_, err = entity.GetByIndex(context.Background(), "email", "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Update_ReindexesChangedKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "old@example.com"})
	require.NoError(t, err)

	err = entity.Update(context.Background(), "1", &TestEntity{ID: "1", Email: "new@example.com"})
	require.NoError(t, err)

	// Old key is gone, new key resolves.
	_, err = entity.GetByIndex(context.Background(), "email", "old@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	found, err := entity.GetByIndex(context.Background(), "email", "new@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", found.ID)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &TestEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_IsIdempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1")) // Second delete is a no-op

	// Index key must be cleaned up too.
	_, err = entity.GetByIndex(context.Background(), "email", "a@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	for _, e := range []*TestEntity{
		{ID: "1", Email: "a@example.com"},
		{ID: "2", Email: "b@example.com"},
		{ID: "3", Email: "c@example.com"},
	} {
		require.NoError(t, entity.Create(context.Background(), e.ID, e))
	}

	var ids []string
	for e, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	// Index keys must not leak into the listing.
	require.ElementsMatch(t, []string{"1", "2", "3"}, ids)
}

func TestEntity_ContextCancellation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := entity.Create(ctx, "1", &TestEntity{ID: "1"})
	require.True(t, errors.Is(err, context.Canceled))
}
