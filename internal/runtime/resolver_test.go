package runtime

import (
	"testing"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/dsl"
	"github.com/stretchr/testify/assert"
)

func TestActiveInlineStyles(t *testing.T) {
	e, _ := newTestEngine()

	base := func() *dsl.Builder {
		return dsl.New("d").
			Add("a").Text("ab", "BOLD").Text("cd", "red").
			Add("b").
			Add("c").Text("ef", "ITALIC").
			Done()
	}

	tests := []struct {
		name string
		doc  *domain.Document
		want domain.StyleSet
	}{
		{"Caret Reads Previous Character", base().Caret("a", 3).MustBuild(), domain.NewStyleSet("red")},
		{"Caret At Run Boundary", base().Caret("a", 2).MustBuild(), domain.NewStyleSet("BOLD")},
		{"Caret At Block Start", base().Caret("c", 0).MustBuild(), domain.NewStyleSet("ITALIC")},
		{"Caret In Empty Block Looks Upward", base().Caret("b", 0).MustBuild(), domain.NewStyleSet("red")},
		{"Override Wins", base().Caret("a", 3).Override("CODE").MustBuild(), domain.NewStyleSet("CODE")},
		{"Range Reads Start", base().Select("a", 1, "a", 4).MustBuild(), domain.NewStyleSet("BOLD")},
		{"Range Starting At Block End", base().Select("a", 4, "c", 1).MustBuild(), domain.StyleSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ActiveInlineStyles(tt.doc)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestActiveBlockType(t *testing.T) {
	e, _ := newTestEngine()
	doc := dsl.New("d").
		Add("a").Type("header-three").Text("title").
		Add("b").Type("blockquote").Text("quote").
		Done().
		Select("b", 1, "a", 0).
		MustBuild()

	assert.Equal(t, "header-three", e.ActiveBlockType(doc), "the start of a backward selection is its focus")
	assert.True(t, e.HasBlockStyle(doc, "header-three"))
	assert.False(t, e.HasBlockStyle(doc, "blockquote"))

	doc.Selection = domain.Caret("gone", 0)
	assert.Equal(t, "", e.ActiveBlockType(doc))
	assert.False(t, e.HasBlockStyle(doc, ""))
}

func TestResolver_BackwardRangeWithoutFlag(t *testing.T) {
	e, _ := newTestEngine()
	doc := dsl.New("d").
		Add("a").Text("x", "red").Text("y").
		Add("b").Type("header-one").Text("z").
		Done().
		MustBuild()
	doc.Selection = domain.Selection{
		Anchor: domain.Position{BlockKey: "b", Offset: 1},
		Focus:  domain.Position{BlockKey: "a", Offset: 0},
	}

	assert.True(t, domain.NewStyleSet("red").Equal(e.ActiveInlineStyles(doc)), "styles are read at the earlier position")
	assert.Equal(t, domain.BlockUnstyled, e.ActiveBlockType(doc))

	sameBlock := dsl.New("d").Add("a").Text("ab", "BOLD").Text("cd").Done().Select("a", 4, "a", 0).MustBuild()
	assert.True(t, sameBlock.Selection.Backward)
	assert.True(t, domain.NewStyleSet("BOLD").Equal(e.ActiveInlineStyles(sameBlock)))
}

func TestResolve_Idempotent(t *testing.T) {
	e, _ := newTestEngine()
	doc := dsl.New("d").Add("a").Text("ab", "red", "BOLD").Done().Select("a", 0, "a", 2).MustBuild()
	before := doc.Snapshot()

	for _, action := range []string{"bold", "color", "heading", "undoandredo", "image", "nonsense"} {
		first := e.Resolve(doc, action)
		second := e.Resolve(doc, action)
		assert.Equal(t, first, second, action)
	}
	assert.Nil(t, domain.Diff(before, doc), "resolving never changes the document")
}
