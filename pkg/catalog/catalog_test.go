package catalog_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := catalog.Default()

	color, ok := c.Group("color")
	require.True(t, ok)
	assert.Equal(t, "black", color.Default)
	assert.Contains(t, color.Keys, "red")
	assert.Equal(t, catalog.KindInline, color.Kind)

	size, ok := c.Tool("FontSize")
	require.True(t, ok, "tools are matched case-insensitively")
	assert.Equal(t, "font-size", size.Name)
	assert.Equal(t, "14", size.Default)

	heading, ok := c.Tool("heading")
	require.True(t, ok)
	assert.Equal(t, catalog.KindBlock, heading.Kind)
	assert.Equal(t, "unstyled", heading.Default)

	d, ok := c.Lookup("bold")
	require.True(t, ok)
	assert.Equal(t, "BOLD", d.Key)
	assert.Equal(t, "bold", d.Payload["font-weight"])

	red, ok := c.Style("red")
	require.True(t, ok)
	assert.Equal(t, "color", red.Group)
	assert.Equal(t, "#e53935", red.Payload["color"])

	g, ok := c.GroupOf("header-two")
	require.True(t, ok)
	assert.Equal(t, "heading", g.Name)

	assert.True(t, c.IsBlock("blockquote"))
	assert.False(t, c.IsBlock("BOLD"))
	assert.True(t, c.IsInline("24"))
	assert.Equal(t, "preview", c.Tools()[0])
	assert.Contains(t, c.InlineToggles(), "UNDERLINE")
	assert.NotContains(t, c.InlineToggles(), "red")
}

func TestGroup_ReturnsCopy(t *testing.T) {
	c := catalog.Default()
	g, _ := c.Group("color")
	g.Keys[0] = "mutated"

	again, _ := c.Group("color")
	assert.NotEqual(t, "mutated", again.Keys[0])
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		spec   catalog.Spec
		reason string
	}{
		{
			name: "Duplicate Key Across Groups",
			spec: catalog.Spec{Groups: []catalog.GroupSpec{
				{Name: "a", Styles: []catalog.StyleSpec{{Key: "x"}}},
				{Name: "b", Styles: []catalog.StyleSpec{{Key: "X"}}},
			}},
			reason: `duplicate style key (already declared as "x")`,
		},
		{
			name: "Inline And Block Share A Key",
			spec: catalog.Spec{
				Inline: []catalog.StyleSpec{{Key: "quote"}},
				Blocks: []catalog.StyleSpec{{Key: "quote"}},
			},
			reason: `duplicate style key (already declared as "quote")`,
		},
		{
			name: "Default Outside Group",
			spec: catalog.Spec{Groups: []catalog.GroupSpec{
				{Name: "color", Default: "pink", Styles: []catalog.StyleSpec{{Key: "red"}}},
			}},
			reason: `default "pink" is not a member of the group`,
		},
		{
			name: "Block Group With Unknown Block",
			spec: catalog.Spec{Groups: []catalog.GroupSpec{
				{Name: "heading", Kind: "block", Blocks: []string{"header-one"}},
			}},
			reason: `group "heading" references an unknown block type`,
		},
		{
			name: "Tool Collides With Style",
			spec: catalog.Spec{
				Inline: []catalog.StyleSpec{{Key: "BOLD"}},
				Groups: []catalog.GroupSpec{{Name: "g", Tool: "bold", Styles: []catalog.StyleSpec{{Key: "y"}}}},
			},
			reason: `tool of group "g" collides with a style key`,
		},
		{
			name:   "Duplicate Tool",
			spec:   catalog.Spec{Tools: []string{"bold", "Bold"}},
			reason: "duplicate toolbar entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.spec)
			require.Error(t, err)

			errs := catalog.ValidationErrors(err)
			require.NotEmpty(t, errs)

			var reasons []string
			for _, e := range errs {
				var ve *catalog.ValidationError
				require.ErrorAs(t, e, &ve)
				reasons = append(reasons, ve.Reason)
			}
			assert.Contains(t, reasons, tt.reason)
		})
	}
}

func TestParse_WeakTyping(t *testing.T) {
	src := `
groups:
  - name: font-size
    tool: fontsize
    default: 14
    styles:
      - key: 14
        payload:
          font-size: 14
      - key: 16
tools: [fontsize]
`
	c, err := catalog.Parse([]byte(src))
	require.NoError(t, err)

	g, ok := c.Group("font-size")
	require.True(t, ok)
	assert.Equal(t, []string{"14", "16"}, g.Keys)
	assert.Equal(t, "14", g.Default)

	d, _ := c.Style("14")
	assert.Equal(t, "14", d.Payload["font-size"])
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := catalog.Parse([]byte("colours: [red]\n"))
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	spec := catalog.Spec{
		Inline: []catalog.StyleSpec{{Key: "BOLD"}},
		Tools:  []string{"bold"},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bold"}, c.Tools())

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(catalog.Default())
	require.NoError(t, err)

	var spec catalog.Spec
	require.NoError(t, json.Unmarshal(data, &spec))
	assert.NotEmpty(t, spec.Groups)
	assert.Equal(t, catalog.Default().Spec().Tools, spec.Tools)
}

func TestMerge(t *testing.T) {
	merged := catalog.Merge(
		catalog.Spec{Inline: []catalog.StyleSpec{{Key: "BOLD"}}, Tools: []string{"bold"}},
		catalog.Spec{Groups: []catalog.GroupSpec{{Name: "color", Styles: []catalog.StyleSpec{{Key: "red"}}}}},
	)
	c, err := catalog.New(merged)
	require.NoError(t, err)
	_, ok := c.Group("color")
	assert.True(t, ok)
}
