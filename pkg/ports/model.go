package ports

import "github.com/aretw0/qtext/pkg/domain"

// DocumentModel is the rich-text document model the formatting engine drives.
// Implementations must treat documents as immutable values: every method that
// changes something returns a new *domain.Document and leaves its input intact.
type DocumentModel interface {
	// Selection returns the selection carried by the document. Backward must
	// reflect document order so Start is the earlier position.
	Selection(doc *domain.Document) domain.Selection

	// BlockType returns the type of the block with the given key.
	BlockType(doc *domain.Document, blockKey string) (string, bool)

	// InlineStylesAt returns the styles of the character at pos.
	// At the end of a block it looks at the first character of the next block.
	InlineStylesAt(doc *domain.Document, pos domain.Position) domain.StyleSet

	// InheritedStylesAt returns the styles a character typed at pos would
	// take: the character before pos, the first character of the block at
	// offset zero, or the last character of the nearest non-empty previous block.
	InheritedStylesAt(doc *domain.Document, pos domain.Position) domain.StyleSet

	// InlineOverride returns the pending caret styles, if any.
	InlineOverride(doc *domain.Document) (domain.StyleSet, bool)

	// WithInlineOverride sets the pending caret styles; nil clears them.
	WithInlineOverride(doc *domain.Document, styles *domain.StyleSet) *domain.Document

	// RemoveInlineStyle removes key from every character in sel.
	RemoveInlineStyle(doc *domain.Document, sel domain.Selection, key string) (*domain.Document, error)

	// ApplyInlineStyle adds key to every character in sel.
	ApplyInlineStyle(doc *domain.Document, sel domain.Selection, key string) (*domain.Document, error)

	// ApplyBlockType sets the type of every block intersecting sel.
	ApplyBlockType(doc *domain.Document, sel domain.Selection, blockType string) (*domain.Document, error)

	// PushHistory records prev on the undo stack of next as one change.
	// It returns next unchanged when the contents of prev and next are equal.
	PushHistory(prev, next *domain.Document, change domain.ChangeType) *domain.Document

	IsUndoStackEmpty(doc *domain.Document) bool
	IsRedoStackEmpty(doc *domain.Document) bool

	// Undo and Redo return domain.ErrEmptyHistory when the stack is empty.
	Undo(doc *domain.Document) (*domain.Document, error)
	Redo(doc *domain.Document) (*domain.Document, error)
}

// DocumentEditor is the host-side editing surface of a document model:
// the operations a UI performs between toolbar commands.
type DocumentEditor interface {
	// NewDocument builds a document from blocks with a caret at the start.
	NewDocument(id string, blocks ...domain.Block) *domain.Document

	// Select replaces the selection. It clears the caret override.
	Select(doc *domain.Document, sel domain.Selection) (*domain.Document, error)

	// InsertText replaces the selection with text and records one history entry.
	InsertText(doc *domain.Document, text string) (*domain.Document, error)
}

// EditableModel is a document model that also supports host-side editing.
type EditableModel interface {
	DocumentModel
	DocumentEditor
}
