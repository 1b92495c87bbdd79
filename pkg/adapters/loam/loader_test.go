package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/qtext/internal/testutils"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))
	testutils.WriteFiles(t, dir, files)
	return New(loam.NewTypedRepository[Fragment](repo))
}

func TestLoader_MergesFragments(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"01-inline.md": `---
title: Inline styles
inline:
  - key: BOLD
    label: Bold
  - key: ITALIC
---
Inline formatting keys.`,
		"02-colors.yaml": `groups:
  - name: color
    tool: color
    default: black
    styles:
      - key: black
      - key: red
        payload:
          color: "#ff0000"
`,
		"03-blocks.json": `{
  "blocks": [{"key": "unstyled"}, {"key": "header-one"}],
  "groups": [{"name": "heading", "tool": "heading", "kind": "block", "default": "unstyled", "blocks": ["unstyled", "header-one"]}]
}`,
		"99-toolbar.md": `---
tools: [bold, italic, color, heading, undoandredo]
---`,
	})

	c, err := loader.LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bold", "italic", "color", "heading", "undoandredo"}, c.Tools())
	style, ok := c.Style("red")
	require.True(t, ok)
	assert.Equal(t, "color", style.Group)
	assert.Equal(t, "#ff0000", style.Payload["color"])

	group, ok := c.Group("heading")
	require.True(t, ok)
	assert.Equal(t, catalog.KindBlock, group.Kind)
}

func TestLoader_NumericPayload(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"sizes.md": `---
inline:
  - key: BOLD
groups:
  - name: fontsize
    tool: fontsize
    default: fontsize-14
    styles:
      - key: fontsize-14
        payload:
          font-size: 14
tools: [fontsize]
---`,
	})

	c, err := loader.LoadCatalog(context.Background())
	require.NoError(t, err)
	style, ok := c.Style("fontsize-14")
	require.True(t, ok)
	assert.Equal(t, "14", style.Payload["font-size"])
}

func TestLoader_Errors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := newLoader(t, nil).LoadCatalog(context.Background())
		assert.Error(t, err)
	})

	t.Run("collision", func(t *testing.T) {
		loader := newLoader(t, map[string]string{
			"colors.md":   "---\ntools: [bold]\n---",
			"colors.json": `{"tools": ["italic"]}`,
		})
		_, err := loader.LoadCatalog(context.Background())
		assert.ErrorContains(t, err, "collision detected")
	})

	t.Run("invalid catalog", func(t *testing.T) {
		loader := newLoader(t, map[string]string{
			"bad.md": "---\ninline:\n  - key: BOLD\n  - key: BOLD\n---",
		})
		_, err := loader.LoadCatalog(context.Background())
		var verr *catalog.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "groups/color", trimExtension("groups/color.yaml"))
	assert.Equal(t, "toolbar", trimExtension("toolbar"))
}
