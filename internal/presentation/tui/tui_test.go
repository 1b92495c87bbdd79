package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(block string, from, to int) domain.Selection {
	return domain.Selection{
		Anchor: domain.Position{BlockKey: block, Offset: from},
		Focus:  domain.Position{BlockKey: block, Offset: to},
	}
}

func TestMarkdown_Inline(t *testing.T) {
	m := memory.NewModel()
	doc := m.NewDocument("d", domain.Block{Text: "hello world"})

	doc, err := m.ApplyInlineStyle(doc, span("b0", 0, 5), "BOLD")
	require.NoError(t, err)
	doc, err = m.ApplyInlineStyle(doc, span("b0", 3, 5), "ITALIC")
	require.NoError(t, err)
	doc, err = m.ApplyInlineStyle(doc, span("b0", 6, 11), "red")
	require.NoError(t, err)

	assert.Equal(t, "**hel****_lo_** world", Markdown(doc))
}

func TestMarkdown_Blocks(t *testing.T) {
	doc := memory.NewModel().NewDocument("d",
		domain.Block{Type: "header-one", Text: "Title"},
		domain.Block{Text: "Intro"},
		domain.Block{Type: "ordered-list-item", Text: "one"},
		domain.Block{Type: "ordered-list-item", Text: "two"},
		domain.Block{Type: "unordered-list-item", Text: "dot"},
		domain.Block{Type: "code-block", Text: "a := 1"},
		domain.Block{Type: "code-block", Text: "b := 2"},
		domain.Block{Type: "blockquote", Text: "quoted"},
	)

	want := "# Title\n\nIntro\n\n1. one\n2. two\n\n- dot\n\n```\na := 1\nb := 2\n```\n\n> quoted"
	assert.Equal(t, want, Markdown(doc))
}

func TestFormatToolbar(t *testing.T) {
	c := catalog.Default()
	entries := []domain.Resolution{
		{Action: "bold", Kind: domain.KindInline, Active: true},
		{Action: "italic", Kind: domain.KindInline},
		{Action: "color", Kind: domain.KindGroup, Value: "red"},
		{Action: "undoandredo", Kind: domain.KindHistory, CanUndo: true},
		{Action: "image", Kind: domain.KindMediaInsert, Value: "image"},
	}

	out := FormatToolbar(termenv.Ascii, c, entries)
	assert.Equal(t, ""+
		"bold             [x]\n"+
		"italic           [ ]\n"+
		"color            red\n"+
		"undoandredo      undo on  redo off\n"+
		"image            insert image", out)

	colored := FormatToolbar(termenv.TrueColor, c, entries[2:3])
	assert.Contains(t, colored, "■")
}

func TestSwatch(t *testing.T) {
	assert.Empty(t, Swatch(termenv.Ascii, "#ff0000"))
	assert.Empty(t, Swatch(termenv.TrueColor, ""))
	assert.Contains(t, Swatch(termenv.TrueColor, "#ff0000"), "■")
}

func TestOptions(t *testing.T) {
	e := domain.Resolution{Value: "b", Options: []string{"a", "b", "c"}}
	assert.Equal(t, "a *b c", Options(e))
}

func TestPlainRenderer(t *testing.T) {
	out, err := PlainRenderer()("# hi")
	require.NoError(t, err)
	assert.Equal(t, "# hi", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}
