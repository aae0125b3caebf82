package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-life-planner/internal/model"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("every kind has a definition", func(t *testing.T) {
		for _, kind := range Kinds() {
			def, err := Lookup(kind)
			require.NoError(t, err)
			require.Equal(t, kind, def.Kind)
			require.NotEmpty(t, def.Collection)
		}
		require.Len(t, Kinds(), 7)
		require.Len(t, Collections(), 7)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := Lookup("habit")
		require.ErrorIs(t, err, model.ErrInvalidType)
	})

	t.Run("parent relationships", func(t *testing.T) {
		goal, err := Lookup(model.KindGoal)
		require.NoError(t, err)
		require.Equal(t, "visionId", goal.ParentField)
		require.Equal(t, model.KindVision, goal.ParentKind)
		require.True(t, goal.ParentRequired)

		task, err := Lookup(model.KindTask)
		require.NoError(t, err)
		require.Equal(t, model.KindGoal, task.ParentKind)
		require.False(t, task.ParentRequired)

		vision, err := Lookup(model.KindVision)
		require.NoError(t, err)
		require.False(t, vision.HasParent())
		require.Empty(t, vision.ParentOf(model.Document{"id": "V1", "visionId": "ignored"}))
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	cases := map[string]model.Kind{
		"task":          model.KindTask,
		" Goal ":        model.KindGoal,
		"journal":       model.KindJournalEntry,
		"journal_entry": model.KindJournalEntry,
		"journalEntry":  model.KindJournalEntry,
	}
	for raw, want := range cases {
		got, err := ParseKind(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseKind("")
	require.ErrorIs(t, err, model.ErrInvalidType)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	task, err := Lookup(model.KindTask)
	require.NoError(t, err)

	require.NoError(t, task.Validate(model.Document{"id": "T123", "title": "Draft proposal", "goalId": nil}))

	err = task.Validate(model.Document{"id": "T123"})
	require.ErrorIs(t, err, model.ErrValidation)

	err = task.Validate(model.Document{"id": "T123", "title": "Draft proposal", "completed": "yes"})
	require.ErrorIs(t, err, model.ErrValidation)

	goal, err := Lookup(model.KindGoal)
	require.NoError(t, err)
	doc, err := model.DecodeDocument([]byte(`{"id":"G1","title":"Run a marathon","progress":42}`))
	require.NoError(t, err)
	require.NoError(t, goal.Validate(doc))
	require.Equal(t, "G1", doc.ID())
}
