package domain

import "slices"

// DocumentDiff represents the changes between two documents.
// It is designed to be serialized to JSON for partial updates on the client.
type DocumentDiff struct {
	// DocumentID is always present to identify the target.
	DocumentID string `json:"document_id"`

	// Blocks contains added or modified blocks.
	Blocks []Block `json:"blocks,omitempty"`

	// Removed lists keys of blocks that no longer exist.
	Removed []string `json:"removed,omitempty"`

	// Order is the full key order, sent only when the order changed.
	Order []string `json:"order,omitempty"`

	Selection *Selection `json:"selection,omitempty"`

	// InlineOverride is the new pending caret style. OverrideCleared is set
	// when a previous override was dropped.
	InlineOverride  *StyleSet `json:"inline_override,omitempty"`
	OverrideCleared bool      `json:"override_cleared,omitempty"`

	CanUndo *bool `json:"can_undo,omitempty"`
	CanRedo *bool `json:"can_redo,omitempty"`
}

// Diff calculates the difference between oldDoc and newDoc.
// If oldDoc is nil, it returns a diff representing the entire newDoc (initial load).
// It returns nil when nothing changed.
func Diff(oldDoc, newDoc *Document) *DocumentDiff {
	if newDoc == nil {
		return nil
	}

	diff := &DocumentDiff{DocumentID: newDoc.ID}
	if oldDoc == nil {
		oldDoc = &Document{}
		sel := newDoc.Selection
		diff.Selection = &sel
	}

	diff.Blocks, diff.Removed, diff.Order = diffBlocks(oldDoc.Content, newDoc.Content)

	if oldDoc.Selection != newDoc.Selection {
		sel := newDoc.Selection
		diff.Selection = &sel
	}

	switch {
	case newDoc.InlineOverride != nil:
		if oldDoc.InlineOverride == nil || !oldDoc.InlineOverride.Equal(*newDoc.InlineOverride) {
			o := *newDoc.InlineOverride
			diff.InlineOverride = &o
		}
	case oldDoc.InlineOverride != nil:
		diff.OverrideCleared = true
	}

	if canUndo := len(newDoc.UndoStack) > 0; canUndo != (len(oldDoc.UndoStack) > 0) {
		diff.CanUndo = &canUndo
	}
	if canRedo := len(newDoc.RedoStack) > 0; canRedo != (len(oldDoc.RedoStack) > 0) {
		diff.CanRedo = &canRedo
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffBlocks(old, new Content) (changed []Block, removed []string, order []string) {
	oldByKey := make(map[string]Block, len(old.Blocks))
	for _, b := range old.Blocks {
		oldByKey[b.Key] = b
	}

	newKeys := make([]string, 0, len(new.Blocks))
	for _, b := range new.Blocks {
		newKeys = append(newKeys, b.Key)
		if prev, ok := oldByKey[b.Key]; !ok || !prev.Equal(b) {
			changed = append(changed, b)
		}
	}

	oldKeys := make([]string, 0, len(old.Blocks))
	for _, b := range old.Blocks {
		oldKeys = append(oldKeys, b.Key)
		if !slices.Contains(newKeys, b.Key) {
			removed = append(removed, b.Key)
		}
	}

	if !slices.Equal(oldKeys, newKeys) {
		order = newKeys
	}
	return changed, removed, order
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *DocumentDiff) IsEmpty() bool {
	return len(d.Blocks) == 0 &&
		len(d.Removed) == 0 &&
		d.Order == nil &&
		d.Selection == nil &&
		d.InlineOverride == nil &&
		!d.OverrideCleared &&
		d.CanUndo == nil &&
		d.CanRedo == nil
}
