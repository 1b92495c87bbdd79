package cli

import (
	"testing"

	"github.com/aretw0/qtext/internal/logging"
	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolbar_HistoryLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"Flag Caps Model History", 2, 2},
		{"Zero Keeps Model Default", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := NewToolbar(Options{HistoryLimit: tt.limit}, logging.NewNop(), domain.LifecycleHooks{})
			require.NoError(t, err)

			doc := tb.NewDocument("d", domain.Block{Text: "abc"})
			doc, err = tb.Editor().Select(doc, domain.Span(
				domain.Position{BlockKey: "b0", Offset: 0},
				domain.Position{BlockKey: "b0", Offset: 3},
			))
			require.NoError(t, err)

			for range 3 {
				out, err := tb.Dispatch(doc, domain.Command{Action: "bold"})
				require.NoError(t, err)
				doc = out.Document
			}
			assert.Len(t, doc.UndoStack, tt.want)
			assert.LessOrEqual(t, len(doc.UndoStack), memory.DefaultHistoryLimit)
		})
	}
}
