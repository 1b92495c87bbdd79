package domain

// ToggleKind selects the toggle operation for a command.
type ToggleKind string

const (
	ToggleInline  ToggleKind = "inline"
	ToggleBlock   ToggleKind = "block"
	ToggleGrouped ToggleKind = "grouped"
)

// ToggleCommand is a fully resolved toggle request.
// Group is only meaningful for ToggleGrouped.
type ToggleCommand struct {
	Kind     ToggleKind `json:"kind"`
	StyleKey string     `json:"style"`
	Group    string     `json:"group,omitempty"`
}

// Command is a toolbar action issued by the UI layer.
//
// Action is a toolbar key ("bold", "color", "undoandredo") or a catalog style
// key ("red", "header-two"). Dropdown tools carry the chosen member in Value;
// the history tool carries "undo" or "redo".
type Command struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
	Group  string `json:"group,omitempty"`
}
