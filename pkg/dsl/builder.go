package dsl

import (
	"fmt"

	"github.com/aretw0/qtext/pkg/domain"
)

// Builder manages document construction.
type Builder struct {
	id       string
	blocks   []*BlockBuilder
	sel      *domain.Selection
	override *domain.StyleSet
}

// New creates a new document builder.
func New(id string) *Builder {
	return &Builder{id: id}
}

// Add appends a block to the document.
// If a block with the same key exists, it returns the existing builder.
func (b *Builder) Add(key string) *BlockBuilder {
	for _, bb := range b.blocks {
		if bb.block.Key == key {
			return bb
		}
	}
	bb := &BlockBuilder{
		block:   domain.Block{Key: key, Type: domain.BlockUnstyled},
		builder: b,
	}
	b.blocks = append(b.blocks, bb)
	return bb
}

// Caret places a collapsed selection.
func (b *Builder) Caret(blockKey string, offset int) *Builder {
	sel := domain.Caret(blockKey, offset)
	b.sel = &sel
	return b
}

// Select places a selection from one position to another. Build sets its
// direction from document order.
func (b *Builder) Select(fromKey string, fromOffset int, toKey string, toOffset int) *Builder {
	sel := domain.Span(
		domain.Position{BlockKey: fromKey, Offset: fromOffset},
		domain.Position{BlockKey: toKey, Offset: toOffset},
	)
	b.sel = &sel
	return b
}

// Override sets the pending caret styles.
func (b *Builder) Override(styles ...string) *Builder {
	set := domain.NewStyleSet(styles...)
	b.override = &set
	return b
}

// Build assembles the document. Without an explicit selection the caret is
// placed at the start of the first block.
func (b *Builder) Build() (*domain.Document, error) {
	if len(b.blocks) == 0 {
		b.Add("b0")
	}

	doc := &domain.Document{ID: b.id, InlineOverride: b.override}
	for _, bb := range b.blocks {
		if bb.block.Key == "" {
			return nil, fmt.Errorf("block with empty key")
		}
		doc.Content.Blocks = append(doc.Content.Blocks, bb.block)
	}
	if dup := doc.Content.DuplicateKey(); dup != "" {
		return nil, fmt.Errorf("duplicate block key %q", dup)
	}

	doc.Selection = domain.Caret(doc.Content.Blocks[0].Key, 0)
	if b.sel != nil {
		for _, p := range []domain.Position{b.sel.Anchor, b.sel.Focus} {
			i := doc.Content.IndexOf(p.BlockKey)
			if i < 0 {
				return nil, fmt.Errorf("selection: %w: %q", domain.ErrUnknownBlock, p.BlockKey)
			}
			if p.Offset < 0 || p.Offset > doc.Content.Blocks[i].Len() {
				return nil, fmt.Errorf("selection: %w: offset %d in block %q", domain.ErrInvalidSelection, p.Offset, p.BlockKey)
			}
		}
		doc.Selection = doc.Content.Orient(*b.sel)
	}
	return doc, nil
}

// MustBuild is like Build but panics on error. Intended for tests and fixtures.
func (b *Builder) MustBuild() *domain.Document {
	doc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return doc
}
