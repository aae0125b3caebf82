package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-life-planner/internal/model"
)

func TestEntityService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("generates id and timestamps", func(t *testing.T) {
		_, entities, _ := newServices(t)
		entities.now = func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }

		created, err := entities.Create(ctx, owner, model.KindVision, model.Document{"title": "Live well"})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID())
		assert.Equal(t, "2026-05-01T08:00:00Z", created.String("createdAt"))
		assert.Equal(t, "2026-05-01T08:00:00Z", created.String("updatedAt"))

		live, err := entities.Get(ctx, owner, model.KindVision, created.ID())
		require.NoError(t, err)
		assert.Equal(t, "Live well", live.String("title"))
	})

	t.Run("invalid document is rejected", func(t *testing.T) {
		_, entities, _ := newServices(t)

		_, err := entities.Create(ctx, owner, model.KindGoal, model.Document{"id": "G1"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		_, entities, _ := newServices(t)
		mustCreate(t, entities, model.KindIdea, model.Document{"id": "I1", "title": "x"})

		_, err := entities.Create(ctx, owner, model.KindIdea, model.Document{"id": "I1", "title": "y"})
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, entities, _ := newServices(t)

		_, err := entities.Create(ctx, owner, "habit", model.Document{"id": "H1"})
		assert.ErrorIs(t, err, model.ErrInvalidType)
	})
}

func TestEntityService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("archives then removes", func(t *testing.T) {
		recycle, entities, _ := newServices(t)
		mustCreate(t, entities, model.KindJournalEntry, model.Document{"id": "J1", "content": "Good day"})

		item, err := entities.Delete(ctx, owner, model.KindJournalEntry, "J1", "journal/2026-05")
		require.NoError(t, err)
		assert.Equal(t, "journal/2026-05", item.OriginalLocation)
		assert.Equal(t, model.KindJournalEntry, item.Type)

		_, err = entities.Get(ctx, owner, model.KindJournalEntry, "J1")
		assert.ErrorIs(t, err, model.ErrEntityNotFound)

		stored, err := recycle.Get(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "J1", stored.EntityID)
	})

	t.Run("missing entity is not archived", func(t *testing.T) {
		recycle, entities, _ := newServices(t)

		_, err := entities.Delete(ctx, owner, model.KindTask, "T404", "")
		assert.ErrorIs(t, err, model.ErrEntityNotFound)

		items, err := recycle.List(ctx, owner, "")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("failed archive keeps entity live", func(t *testing.T) {
		recycle, entities, _ := newServices(t)
		mustCreate(t, entities, model.KindIdea, model.Document{"id": "I1", "title": "x"})

		_, err := recycle.Archive(ctx, ArchiveInput{OwnerID: owner, Type: model.KindIdea, Snapshot: map[string]any{"id": "I1", "title": "x"}})
		require.NoError(t, err)

		_, err = entities.Delete(ctx, owner, model.KindIdea, "I1", "")
		assert.ErrorIs(t, err, model.ErrConflict)

		_, err = entities.Get(ctx, owner, model.KindIdea, "I1")
		assert.NoError(t, err)
	})
}
