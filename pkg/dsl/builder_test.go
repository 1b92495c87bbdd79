package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/qtext/pkg/domain"
)

func TestBuilder_Document(t *testing.T) {
	doc, err := New("note").
		Add("title").Type("header-one").Text("Report").
		Add("body").Text("ab").Text("cd", "red", "BOLD").
		Done().
		Select("body", 1, "body", 3).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(doc.Content.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Content.Blocks))
	}
	title := doc.Content.Blocks[0]
	if title.Type != "header-one" || title.Text != "Report" {
		t.Errorf("unexpected title block: %+v", title)
	}

	body := doc.Content.Blocks[1]
	if body.Type != domain.BlockUnstyled {
		t.Errorf("expected default block type, got %q", body.Type)
	}
	if len(body.Styles) != 4 {
		t.Fatalf("expected one style slot per character, got %d", len(body.Styles))
	}
	if body.StyleAt(1).Has("red") || !body.StyleAt(2).Has("red") || !body.StyleAt(3).Has("BOLD") {
		t.Errorf("unexpected styles: %v", body.Styles)
	}
	if doc.Selection.Start().Offset != 1 || doc.Selection.End().Offset != 3 {
		t.Errorf("unexpected selection: %+v", doc.Selection)
	}
}

func TestBuilder_BackwardSelection(t *testing.T) {
	doc := New("d").Add("a").Text("abc").Add("b").Text("de").Done().Select("b", 1, "a", 2).MustBuild()
	if !doc.Selection.Backward {
		t.Fatalf("expected a backward selection, got %+v", doc.Selection)
	}
	if start := doc.Selection.Start(); start.BlockKey != "a" || start.Offset != 2 {
		t.Errorf("unexpected start: %+v", start)
	}
}

func TestBuilder_DuplicateKeys(t *testing.T) {
	_, err := New("d").Add("a").Text("x").Add("a").Text("y").Done().Build()
	if err == nil {
		t.Fatal("expected an error for duplicate block keys")
	}
}

func TestBuilder_Defaults(t *testing.T) {
	doc := New("empty").MustBuild()
	if len(doc.Content.Blocks) != 1 {
		t.Fatalf("expected a single empty block, got %d", len(doc.Content.Blocks))
	}
	if !doc.Selection.IsCollapsed() || doc.Selection.Anchor.BlockKey != "b0" {
		t.Errorf("expected caret at the first block, got %+v", doc.Selection)
	}
	if doc.InlineOverride != nil {
		t.Error("expected no override")
	}

	withOverride := New("x").Add("a").Text("hi").Done().Caret("a", 2).Override("BOLD").MustBuild()
	if withOverride.InlineOverride == nil || !withOverride.InlineOverride.Has("BOLD") {
		t.Error("expected BOLD override")
	}
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("x")
	b.Add("a").Text("one")
	b.Add("a").Text("two")

	doc := b.MustBuild()
	if got := doc.Content.Blocks[0].Text; got != "onetwo" {
		t.Errorf("expected text to accumulate, got %q", got)
	}
}

func TestBuilder_InvalidSelection(t *testing.T) {
	_, err := New("x").Add("a").Text("hi").Done().Caret("missing", 0).Build()
	if !errors.Is(err, domain.ErrUnknownBlock) {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}

	_, err = New("x").Add("a").Text("hi").Done().Caret("a", 3).Build()
	if !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}
