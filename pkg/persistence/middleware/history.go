package middleware

import (
	"context"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
)

type historyMiddleware struct {
	next  ports.DocumentStore
	limit int
}

// NewHistoryLimitMiddleware keeps at most limit undo and redo entries on save,
// dropping the oldest ones. The caller's document is not modified.
// A limit of zero persists no history at all.
func NewHistoryLimitMiddleware(limit int) Middleware {
	if limit < 0 {
		limit = 0
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &historyMiddleware{next: next, limit: limit}
	}
}

func (m *historyMiddleware) Save(ctx context.Context, id string, doc *domain.Document) error {
	trimmed := *doc
	trimmed.UndoStack = m.trim(doc.UndoStack)
	trimmed.RedoStack = m.trim(doc.RedoStack)
	return m.next.Save(ctx, id, &trimmed)
}

// Stacks grow at the end, so the oldest entries come first.
func (m *historyMiddleware) trim(stack []domain.HistoryEntry) []domain.HistoryEntry {
	if len(stack) <= m.limit {
		return stack
	}
	return stack[len(stack)-m.limit:]
}

func (m *historyMiddleware) Load(ctx context.Context, id string) (*domain.Document, error) {
	return m.next.Load(ctx, id)
}

func (m *historyMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *historyMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
