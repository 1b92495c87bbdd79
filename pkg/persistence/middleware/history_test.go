package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(changes ...domain.ChangeType) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(changes))
	for i, c := range changes {
		out[i] = domain.HistoryEntry{ChangeType: c}
	}
	return out
}

func TestHistoryLimitMiddleware(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewHistoryLimitMiddleware(2)(underlying)
	ctx := context.Background()

	doc := secretDoc("doc")
	doc.UndoStack = entries(domain.ChangeBlockType, domain.ChangeInsertCharacters, domain.ChangeInlineStyle)
	doc.RedoStack = entries(domain.ChangeInlineStyle)

	require.NoError(t, store.Save(ctx, "doc", doc))
	assert.Len(t, doc.UndoStack, 3, "the caller's document keeps its history")

	loaded, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, loaded.UndoStack, 2)
	assert.Equal(t, domain.ChangeInsertCharacters, loaded.UndoStack[0].ChangeType, "the oldest entry is dropped")
	assert.Equal(t, domain.ChangeInlineStyle, loaded.UndoStack[1].ChangeType)
	assert.Len(t, loaded.RedoStack, 1)
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	store := middleware.Chain(underlying,
		middleware.NewHistoryLimitMiddleware(0),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)
	ctx := context.Background()

	doc := secretDoc("doc")
	doc.UndoStack = entries(domain.ChangeInlineStyle)
	require.NoError(t, store.Save(ctx, "doc", doc))

	raw, err := underlying.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "__encrypted__", raw.Content.Blocks[0].Key, "encryption runs closest to the store")

	loaded, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, loaded.UndoStack, "history is trimmed before encryption")
}
