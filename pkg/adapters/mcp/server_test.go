package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...qtext.Option) (*Server, *session.Manager) {
	t.Helper()
	tb, err := qtext.New(opts...)
	require.NoError(t, err)
	sessions := session.NewManager(memory.NewStore())
	return NewServer(tb, sessions), sessions
}

func find(t *testing.T, bar []domain.Resolution, action string) domain.Resolution {
	t.Helper()
	for _, entry := range bar {
		if entry.Action == action {
			return entry
		}
	}
	t.Fatalf("action %q not in toolbar", action)
	return domain.Resolution{}
}

func TestResolve_CreatesSession(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "doc"})
	require.NoError(t, err)
	assert.Equal(t, "doc", resp.SessionID)
	assert.Equal(t, "black", find(t, resp.Toolbar, "color").Value)

	_, err = sessions.Load(ctx, "doc")
	assert.NoError(t, err)

	resp, err = s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "doc", "action": "heading"})
	require.NoError(t, err)
	require.Len(t, resp.Toolbar, 1)
	assert.Equal(t, domain.KindBlockGroup, resp.Toolbar[0].Kind)
}

func TestDispatch_EditingFlow(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleInsert(ctx, req, map[string]interface{}{"session_id": "doc", "text": "hello"})
	require.NoError(t, err)

	// Offsets arrive as JSON numbers.
	resp, err := s.handleSelect(ctx, req, map[string]interface{}{"session_id": "doc", "anchor": float64(0), "focus": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Selection.Focus.Offset)

	out, err := s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc", "action": "color", "value": "red"})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, domain.KindGroup, out.Kind)
	assert.Equal(t, "red", find(t, out.Toolbar, "color").Value)

	out, err = s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc", "action": "undoandredo", "value": "Undo"})
	require.NoError(t, err)
	assert.Equal(t, "black", find(t, out.Toolbar, "color").Value)
	assert.Equal(t, "hello", out.Text)
}

func TestDispatch_Errors(t *testing.T) {
	s, _ := newTestServer(t, qtext.WithDisabled("bold"))
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc", "action": "bold"})
	assert.ErrorIs(t, err, domain.ErrInvalidDispatch)

	_, err = s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc"})
	assert.Error(t, err)

	_, err = s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc", "action": "bold", "extra": true})
	assert.ErrorContains(t, err, "invalid arguments")

	_, err = s.handleSelect(ctx, req, map[string]interface{}{"session_id": "doc", "anchor": float64(42)})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	out, err := s.handleDispatch(ctx, req, map[string]interface{}{"session_id": "doc", "action": "sparkle"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindNone, out.Kind)
	assert.False(t, out.Changed)
}

func TestDecodeArgs(t *testing.T) {
	var in selectArgs
	require.NoError(t, decodeArgs(map[string]interface{}{"session_id": "x", "anchor": "3"}, &in))
	assert.Equal(t, 3, in.Anchor)
	assert.Nil(t, in.Focus)
}
