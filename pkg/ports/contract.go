package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-test-doc-" + time.Now().Format("20060102150405")

	newDoc := func(id string) *domain.Document {
		bold := domain.NewStyleSet("BOLD")
		return &domain.Document{
			ID: id,
			Content: domain.Content{Blocks: []domain.Block{
				{Key: "a", Type: "header-one", Text: "Hi", Styles: []domain.StyleSet{bold, {}}},
			}},
			Selection:      domain.Caret("a", 1),
			InlineOverride: &bold,
			UndoStack: []domain.HistoryEntry{{
				Content:    domain.Content{Blocks: []domain.Block{{Key: "a", Type: domain.BlockUnstyled, Text: "Hi", Styles: []domain.StyleSet{{}, {}}}}},
				Selection:  domain.Caret("a", 0),
				ChangeType: domain.ChangeBlockType,
			}},
			LastChange: domain.ChangeBlockType,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		doc := newDoc(docID)

		err := store.Save(ctx, docID, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, doc.Content.Equal(loaded.Content), "content should survive a round trip")
		assert.Equal(t, doc.Selection, loaded.Selection)
		require.NotNil(t, loaded.InlineOverride)
		assert.True(t, loaded.InlineOverride.Has("BOLD"))
		require.Len(t, loaded.UndoStack, 1)
		assert.Equal(t, domain.ChangeBlockType, loaded.UndoStack[0].ChangeType)
		assert.Equal(t, domain.ChangeBlockType, loaded.LastChange)
	})

	t.Run("Saved Copy Is Isolated", func(t *testing.T) {
		doc := newDoc(docID)
		require.NoError(t, store.Save(ctx, docID, doc))

		doc.Content.Blocks[0].Text = "mutated"

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", loaded.Content.Blocks[0].Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, docID, newDoc(docID))
		require.NoError(t, err)

		err = store.Delete(ctx, docID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := docID + "-1"
		id2 := docID + "-2"
		_ = store.Save(ctx, id1, newDoc(id1))
		_ = store.Save(ctx, id2, newDoc(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunDocumentModelContract verifies that a DocumentModel implementation behaves
// the way the formatting engine expects.
func RunDocumentModelContract(t *testing.T, model EditableModel) {
	fixture := func(t *testing.T) *domain.Document {
		t.Helper()
		doc := model.NewDocument("contract",
			domain.Block{Key: "a", Type: domain.BlockUnstyled},
			domain.Block{Key: "b", Type: domain.BlockUnstyled},
		)
		doc, err := model.InsertText(doc, "hello")
		require.NoError(t, err)
		doc, err = model.Select(doc, domain.Caret("b", 0))
		require.NoError(t, err)
		doc, err = model.InsertText(doc, "world")
		require.NoError(t, err)
		return doc
	}

	span := domain.Span(domain.Position{BlockKey: "a", Offset: 1}, domain.Position{BlockKey: "b", Offset: 2})

	t.Run("NewDocument", func(t *testing.T) {
		doc := model.NewDocument("fresh")
		assert.Equal(t, "fresh", doc.ID)
		require.NotEmpty(t, doc.Content.Blocks, "a new document always has a block")
		assert.True(t, model.Selection(doc).IsCollapsed())
		assert.True(t, model.IsUndoStackEmpty(doc))
		assert.True(t, model.IsRedoStackEmpty(doc))
	})

	t.Run("Apply And Remove Inline Style", func(t *testing.T) {
		doc := fixture(t)

		styled, err := model.ApplyInlineStyle(doc, span, "BOLD")
		require.NoError(t, err)
		assert.False(t, model.InlineStylesAt(styled, domain.Position{BlockKey: "a", Offset: 0}).Has("BOLD"))
		assert.True(t, model.InlineStylesAt(styled, domain.Position{BlockKey: "a", Offset: 1}).Has("BOLD"))
		assert.True(t, model.InlineStylesAt(styled, domain.Position{BlockKey: "b", Offset: 1}).Has("BOLD"))
		assert.False(t, model.InlineStylesAt(styled, domain.Position{BlockKey: "b", Offset: 2}).Has("BOLD"))
		assert.False(t, model.InlineStylesAt(doc, domain.Position{BlockKey: "a", Offset: 1}).Has("BOLD"), "input must stay unchanged")

		cleared, err := model.RemoveInlineStyle(styled, span, "BOLD")
		require.NoError(t, err)
		assert.True(t, doc.Content.Equal(cleared.Content))
	})

	t.Run("Inherited Styles", func(t *testing.T) {
		doc := fixture(t)
		styled, err := model.ApplyInlineStyle(doc, domain.Span(domain.Position{BlockKey: "a", Offset: 4}, domain.Position{BlockKey: "a", Offset: 5}), "red")
		require.NoError(t, err)

		assert.True(t, model.InheritedStylesAt(styled, domain.Position{BlockKey: "a", Offset: 5}).Has("red"))
		assert.False(t, model.InheritedStylesAt(styled, domain.Position{BlockKey: "a", Offset: 4}).Has("red"))
		assert.False(t, model.InheritedStylesAt(styled, domain.Position{BlockKey: "b", Offset: 0}).Has("red"), "offset zero reads the first character of the block")
	})

	t.Run("Apply Block Type", func(t *testing.T) {
		doc := fixture(t)
		out, err := model.ApplyBlockType(doc, span, "blockquote")
		require.NoError(t, err)

		for _, key := range []string{"a", "b"} {
			typ, ok := model.BlockType(out, key)
			require.True(t, ok)
			assert.Equal(t, "blockquote", typ)
		}
		_, ok := model.BlockType(out, "missing")
		assert.False(t, ok)
	})

	t.Run("Unknown Block", func(t *testing.T) {
		doc := fixture(t)
		bad := domain.Caret("missing", 0)
		bad.Focus.Offset = 1

		_, err := model.ApplyInlineStyle(doc, bad, "BOLD")
		assert.ErrorIs(t, err, domain.ErrUnknownBlock)
		_, err = model.ApplyBlockType(doc, bad, "blockquote")
		assert.ErrorIs(t, err, domain.ErrUnknownBlock)
		_, err = model.Select(doc, bad)
		assert.ErrorIs(t, err, domain.ErrUnknownBlock)
	})

	t.Run("Inline Override", func(t *testing.T) {
		doc := fixture(t)
		_, ok := model.InlineOverride(doc)
		assert.False(t, ok)

		set := domain.NewStyleSet("ITALIC")
		withOverride := model.WithInlineOverride(doc, &set)
		got, ok := model.InlineOverride(withOverride)
		require.True(t, ok)
		assert.True(t, got.Equal(set))

		typed, err := model.InsertText(withOverride, "!")
		require.NoError(t, err)
		assert.True(t, model.InheritedStylesAt(typed, model.Selection(typed).Start()).Has("ITALIC"), "typed text takes the override")
		_, ok = model.InlineOverride(typed)
		assert.False(t, ok, "typing consumes the override")

		cleared := model.WithInlineOverride(withOverride, nil)
		_, ok = model.InlineOverride(cleared)
		assert.False(t, ok)
	})

	t.Run("History", func(t *testing.T) {
		doc := fixture(t)
		assert.False(t, model.IsUndoStackEmpty(doc), "typing records history")

		same := model.PushHistory(doc, doc, domain.ChangeInlineStyle)
		assert.Equal(t, len(doc.UndoStack), len(same.UndoStack), "unchanged content records nothing")

		styled, err := model.ApplyBlockType(doc, span, "header-one")
		require.NoError(t, err)
		next := model.PushHistory(doc, styled, domain.ChangeBlockType)
		assert.Len(t, next.UndoStack, len(doc.UndoStack)+1)
		assert.True(t, model.IsRedoStackEmpty(next))

		undone, err := model.Undo(next)
		require.NoError(t, err)
		assert.True(t, doc.Content.Equal(undone.Content))
		assert.False(t, model.IsRedoStackEmpty(undone))

		redone, err := model.Redo(undone)
		require.NoError(t, err)
		assert.True(t, styled.Content.Equal(redone.Content))

		_, err = model.Redo(redone)
		assert.ErrorIs(t, err, domain.ErrEmptyHistory)

		empty := model.NewDocument("empty")
		_, err = model.Undo(empty)
		assert.ErrorIs(t, err, domain.ErrEmptyHistory)
	})
}
