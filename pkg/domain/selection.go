package domain

// Position addresses a character boundary inside a block.
type Position struct {
	BlockKey string `json:"block"`
	Offset   int    `json:"offset"`
}

// Selection is an (anchor, focus) pair. Backward is set when the focus lies
// before the anchor in document order.
type Selection struct {
	Anchor   Position `json:"anchor"`
	Focus    Position `json:"focus"`
	Backward bool     `json:"backward,omitempty"`
}

// Caret returns a collapsed selection at the given position.
func Caret(blockKey string, offset int) Selection {
	p := Position{BlockKey: blockKey, Offset: offset}
	return Selection{Anchor: p, Focus: p}
}

// Span returns a forward selection from start to end.
func Span(start, end Position) Selection {
	return Selection{Anchor: start, Focus: end}
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Start is the effective cursor point: the earlier of anchor and focus.
func (s Selection) Start() Position {
	if s.Backward {
		return s.Focus
	}
	return s.Anchor
}

// End is the later of anchor and focus.
func (s Selection) End() Position {
	if s.Backward {
		return s.Anchor
	}
	return s.Focus
}
