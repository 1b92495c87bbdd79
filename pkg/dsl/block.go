package dsl

import "github.com/aretw0/qtext/pkg/domain"

// BlockBuilder provides a fluent API for a single block.
type BlockBuilder struct {
	block   domain.Block
	builder *Builder
}

// Type sets the block type.
func (bb *BlockBuilder) Type(blockType string) *BlockBuilder {
	bb.block.Type = blockType
	return bb
}

// Text appends a run of characters sharing the given inline styles.
func (bb *BlockBuilder) Text(text string, styles ...string) *BlockBuilder {
	set := domain.NewStyleSet(styles...)
	bb.block.Text += text
	for range []rune(text) {
		bb.block.Styles = append(bb.block.Styles, set)
	}
	return bb
}

// Add starts the next block.
func (bb *BlockBuilder) Add(key string) *BlockBuilder {
	return bb.builder.Add(key)
}

// Done returns to the document builder.
func (bb *BlockBuilder) Done() *Builder {
	return bb.builder
}
