package db

import (
	"context"
	"testing"
	"time"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingStore interface {
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	ListRecentProjects(ctx context.Context, limit int) ([]models.Project, error)
	SaveMessage(ctx context.Context, projectID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error)
}

func TestNonPositiveLimitReturnsEverything(t *testing.T) {
	stores := map[string]listingStore{
		"sqlite": newTestDatabase(t),
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var project *models.Project
			for _, n := range []string{"one", "two", "three"} {
				p, err := store.CreateProject(ctx, n)
				require.NoError(t, err)
				project = p
			}

			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, content := range []string{"first", "second", "third"} {
				require.NoError(t, store.SaveMessage(ctx, project.ID, models.ChatMessage{
					ID:        content,
					Role:      models.RoleUser,
					Content:   content,
					CreatedAt: base.Add(time.Duration(i) * time.Second),
				}))
			}

			for _, limit := range []int{0, -1} {
				projects, err := store.ListRecentProjects(ctx, limit)
				require.NoError(t, err)
				assert.Len(t, projects, 3, "projects with limit %d", limit)

				messages, err := store.ListMessages(ctx, project.ID, limit)
				require.NoError(t, err)
				require.Len(t, messages, 3, "messages with limit %d", limit)
				assert.Equal(t, "first", messages[0].Content)
			}

			projects, err := store.ListRecentProjects(ctx, 2)
			require.NoError(t, err)
			require.Len(t, projects, 2)
			assert.Equal(t, "three", projects[0].Name)

			messages, err := store.ListMessages(ctx, project.ID, 2)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, "second", messages[0].Content)
		})
	}
}
