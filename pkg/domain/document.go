package domain

import "slices"

// BlockUnstyled is the block type that carries no formatting.
const BlockUnstyled = "unstyled"

// ChangeType labels a history entry.
type ChangeType string

const (
	ChangeInlineStyle      ChangeType = "change-inline-style"
	ChangeBlockType        ChangeType = "change-block-type"
	ChangeInsertCharacters ChangeType = "insert-characters"
	ChangeUndo             ChangeType = "undo"
	ChangeRedo             ChangeType = "redo"
)

// Block is one paragraph-level unit of content.
type Block struct {
	Key  string `json:"key"`
	Type string `json:"type"`
	Text string `json:"text"`

	// Styles holds one style set per rune of Text.
	Styles []StyleSet `json:"styles,omitempty"`
}

// Len returns the number of characters in the block.
func (b Block) Len() int {
	return len([]rune(b.Text))
}

// StyleAt returns the inline styles of the character at offset i.
func (b Block) StyleAt(i int) StyleSet {
	if i < 0 || i >= len(b.Styles) {
		return StyleSet{}
	}
	return b.Styles[i]
}

// Equal compares key, type, text and per-character styles.
func (b Block) Equal(o Block) bool {
	if b.Key != o.Key || b.Type != o.Type || b.Text != o.Text {
		return false
	}
	n := max(len(b.Styles), len(o.Styles))
	for i := 0; i < n; i++ {
		if !b.StyleAt(i).Equal(o.StyleAt(i)) {
			return false
		}
	}
	return true
}

// Content is the ordered block sequence of a document.
type Content struct {
	Blocks []Block `json:"blocks"`
}

// Equal reports whether both contents hold equal blocks in the same order.
func (c Content) Equal(o Content) bool {
	return slices.EqualFunc(c.Blocks, o.Blocks, Block.Equal)
}

// IndexOf returns the position of the block with the given key, or -1.
func (c Content) IndexOf(key string) int {
	return slices.IndexFunc(c.Blocks, func(b Block) bool { return b.Key == key })
}

// Orient returns sel with Backward set from document order.
// A selection that references an unknown block is returned unchanged.
func (c Content) Orient(sel Selection) Selection {
	ai, fi := c.IndexOf(sel.Anchor.BlockKey), c.IndexOf(sel.Focus.BlockKey)
	if ai < 0 || fi < 0 {
		return sel
	}
	sel.Backward = fi < ai || (fi == ai && sel.Focus.Offset < sel.Anchor.Offset)
	return sel
}

// DuplicateKey returns the first block key used more than once, or "".
func (c Content) DuplicateKey() string {
	seen := make(map[string]bool, len(c.Blocks))
	for _, b := range c.Blocks {
		if seen[b.Key] {
			return b.Key
		}
		seen[b.Key] = true
	}
	return ""
}

// HistoryEntry is a content snapshot recorded on the undo or redo stack.
type HistoryEntry struct {
	Content    Content    `json:"content"`
	Selection  Selection  `json:"selection"`
	ChangeType ChangeType `json:"change_type"`
}

// Document is an immutable rich-text value.
// Operations in this module never mutate a Document; they return a new one
// and the previous value stays valid.
type Document struct {
	ID        string    `json:"id,omitempty"`
	Content   Content   `json:"content"`
	Selection Selection `json:"selection"`

	// InlineOverride holds the pending styles for the next typed character.
	// Nil means no override is set.
	InlineOverride *StyleSet `json:"inline_override,omitempty"`

	UndoStack  []HistoryEntry `json:"undo,omitempty"`
	RedoStack  []HistoryEntry `json:"redo,omitempty"`
	LastChange ChangeType     `json:"last_change,omitempty"`
}

// Snapshot returns a copy whose slices can be replaced without affecting d.
// Blocks and history entries are values and are shared structurally.
func (d *Document) Snapshot() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Content.Blocks = slices.Clone(d.Content.Blocks)
	out.UndoStack = slices.Clone(d.UndoStack)
	out.RedoStack = slices.Clone(d.RedoStack)
	if d.InlineOverride != nil {
		o := *d.InlineOverride
		out.InlineOverride = &o
	}
	return &out
}

// PlainText joins the block texts with newlines.
func (d *Document) PlainText() string {
	var out []rune
	for i, b := range d.Content.Blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, []rune(b.Text)...)
	}
	return string(out)
}
