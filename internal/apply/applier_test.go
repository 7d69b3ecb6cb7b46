package apply

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type projectStore interface {
	Store
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
}

// failingStore rejects the n-th upsert or delete of a batch.
type failingStore struct {
	projectStore
	failOn int
}

var errRejected = errors.New("store rejected write")

func (s *failingStore) Batch(ctx context.Context, projectID string, fn func(db.FileTx) error) error {
	return s.projectStore.Batch(ctx, projectID, func(tx db.FileTx) error {
		return fn(&failingTx{FileTx: tx, failOn: s.failOn})
	})
}

type failingTx struct {
	db.FileTx
	failOn int
	writes int
}

func (t *failingTx) UpsertFile(ctx context.Context, path, content string) error {
	t.writes++
	if t.writes == t.failOn {
		return errRejected
	}
	return t.FileTx.UpsertFile(ctx, path, content)
}

func (t *failingTx) DeleteFile(ctx context.Context, path string) error {
	t.writes++
	if t.writes == t.failOn {
		return errRejected
	}
	return t.FileTx.DeleteFile(ctx, path)
}

func stores(t *testing.T) map[string]projectStore {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "apply.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return map[string]projectStore{
		"memory": db.NewMemoryStore(),
		"sqlite": database,
	}
}

func TestApplyWritesInOrder(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			project, err := store.CreateProject(ctx, "apollo")
			require.NoError(t, err)

			applier := New(store, zap.NewNop())
			result, err := applier.Apply(ctx, project.ID, []models.FileOperation{
				{Path: "app/about/page.tsx", Content: "line one\nline two", Kind: models.OperationCreate},
				{Path: "app/globals.css", Content: "body {}", Kind: models.OperationUpdate},
				{Path: "app/about/page.tsx", Content: "line one\nline 2", Kind: models.OperationCreate},
				{Path: "missing.txt", Kind: models.OperationDelete},
				{Path: "next.config.ts", Kind: models.OperationDelete},
			})
			require.NoError(t, err)

			assert.Equal(t, []string{"app/about/page.tsx", "app/globals.css", "next.config.ts"}, result.Paths)
			require.Len(t, result.Changes, 3)
			assert.Equal(t, ChangeCreated, result.Changes[0].Change)
			assert.Equal(t, ChangeUpdated, result.Changes[1].Change)
			assert.Equal(t, ChangeDeleted, result.Changes[2].Change)
			assert.Positive(t, result.Changes[2].Removed)

			got, err := store.GetProject(ctx, project.ID)
			require.NoError(t, err)

			about, ok := got.File("app/about/page.tsx")
			require.True(t, ok)
			assert.Equal(t, "line one\nline 2", about.Content)
			assert.Equal(t, "typescript", about.Type)

			css, ok := got.File("app/globals.css")
			require.True(t, ok)
			assert.Equal(t, "body {}", css.Content)

			_, ok = got.File("next.config.ts")
			assert.False(t, ok)
		})
	}
}

func TestApplyIsAtomic(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			project, err := store.CreateProject(ctx, "apollo")
			require.NoError(t, err)

			before, err := store.GetProject(ctx, project.ID)
			require.NoError(t, err)

			applier := New(&failingStore{projectStore: store, failOn: 2}, zap.NewNop())
			result, err := applier.Apply(ctx, project.ID, []models.FileOperation{
				{Path: "one.ts", Content: "1", Kind: models.OperationCreate},
				{Path: "two.ts", Content: "2", Kind: models.OperationCreate},
				{Path: "app/page.tsx", Content: "3", Kind: models.OperationCreate},
			})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, errRejected)

			var applyErr *ApplyError
			require.ErrorAs(t, err, &applyErr)
			assert.Equal(t, "two.ts", applyErr.Op.Path)

			after, err := store.GetProject(ctx, project.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Files, after.Files)
		})
	}
}

func TestApplyUnknownProject(t *testing.T) {
	applier := New(db.NewMemoryStore(), zap.NewNop())

	_, err := applier.Apply(context.Background(), "missing", []models.FileOperation{
		{Path: "a.ts", Content: "a", Kind: models.OperationCreate},
	})

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.ErrorIs(t, err, db.ErrProjectNotFound)
}

func TestApplyUnchangedContent(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	project, err := store.CreateProject(ctx, "apollo")
	require.NoError(t, err)
	current, err := store.GetProject(ctx, project.ID)
	require.NoError(t, err)
	page, _ := current.File("app/page.tsx")

	result, err := New(store, zap.NewNop()).Apply(ctx, project.ID, []models.FileOperation{
		{Path: "app/page.tsx", Content: page.Content, Kind: models.OperationCreate},
	})
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, ChangeUnchanged, result.Changes[0].Change)
	assert.Zero(t, result.Changes[0].Added)
	assert.Zero(t, result.Changes[0].Removed)
}

func TestLineStats(t *testing.T) {
	added, removed := lineStats("a\nb\nc\n", "a\nB\nc\nd\n")
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)

	added, removed = lineStats("", "x\ny")
	assert.Equal(t, 2, added)
	assert.Zero(t, removed)
}
