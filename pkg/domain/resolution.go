package domain

// ActionKind classifies a toolbar action.
type ActionKind string

const (
	KindNone          ActionKind = "none"
	KindInline        ActionKind = "inline"
	KindBlock         ActionKind = "block"
	KindGroup         ActionKind = "group"
	KindBlockGroup    ActionKind = "block-group"
	KindPreviewToggle ActionKind = "preview-toggle"
	KindModeToggle    ActionKind = "mode-toggle"
	KindHistory       ActionKind = "history"
	KindMediaInsert   ActionKind = "media-insert"
)

// IsDocumentAction reports whether actions of this kind transform the document.
func (k ActionKind) IsDocumentAction() bool {
	switch k {
	case KindInline, KindBlock, KindGroup, KindBlockGroup, KindHistory:
		return true
	}
	return false
}

// Resolution describes how a toolbar entry should be rendered for a document.
type Resolution struct {
	Action string     `json:"action"`
	Kind   ActionKind `json:"kind"`
	Active bool       `json:"active"`

	// Value is the style key for toggles, the active member (or the group
	// default) for dropdowns, and the media type for media inserts.
	Value   string   `json:"value,omitempty"`
	Group   string   `json:"group,omitempty"`
	Options []string `json:"options,omitempty"`

	CanUndo bool `json:"can_undo,omitempty"`
	CanRedo bool `json:"can_redo,omitempty"`
}

// Outcome is the result of dispatching a command.
type Outcome struct {
	Action   string     `json:"action"`
	Kind     ActionKind `json:"kind"`
	Document *Document  `json:"document"`
	Changed  bool       `json:"changed"`

	// Value echoes the resolved style key, media type or history operation.
	Value string `json:"value,omitempty"`
}

// Err returns ErrUnknownAction for outcomes of unrecognized actions.
func (o *Outcome) Err() error {
	if o.Kind == KindNone {
		return ErrUnknownAction
	}
	return nil
}
