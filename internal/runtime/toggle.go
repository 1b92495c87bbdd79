package runtime

import (
	"fmt"

	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
)

// Toggle applies a resolved toggle command.
func (e *Engine) Toggle(doc *domain.Document, cmd domain.ToggleCommand) (*domain.Document, error) {
	switch cmd.Kind {
	case domain.ToggleBlock:
		return e.ToggleBlock(doc, cmd.StyleKey)
	case domain.ToggleInline:
		return e.ToggleInline(doc, cmd.StyleKey)
	case domain.ToggleGrouped:
		return e.ToggleGrouped(doc, cmd.Group, cmd.StyleKey)
	default:
		return nil, fmt.Errorf("unsupported toggle kind %q", cmd.Kind)
	}
}

// ToggleBlock sets blockType on every block intersecting the selection.
// It never turns a type off; applying "unstyled" clears formatting.
func (e *Engine) ToggleBlock(doc *domain.Document, blockType string) (*domain.Document, error) {
	if blockType == "" {
		return nil, fmt.Errorf("%w: empty block type", domain.ErrUnknownStyle)
	}
	if e.catalog.IsInline(blockType) {
		return nil, fmt.Errorf("%w: %q is an inline style", domain.ErrUnknownStyle, blockType)
	}

	next, err := e.model.ApplyBlockType(doc, e.model.Selection(doc), blockType)
	if err != nil {
		return nil, fmt.Errorf("failed to apply block type %s: %w", blockType, err)
	}
	return e.model.PushHistory(doc, next, domain.ChangeBlockType), nil
}

// ToggleInline flips a non-grouped inline style.
// A caret only changes the pending override. A range is cleared when the
// style is active at its start and styled otherwise.
func (e *Engine) ToggleInline(doc *domain.Document, key string) (*domain.Document, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty style key", domain.ErrUnknownStyle)
	}
	if g, ok := e.catalog.GroupOf(key); ok {
		return nil, fmt.Errorf("%w: %q belongs to group %q", domain.ErrUnknownStyle, key, g.Name)
	}
	if e.catalog.IsBlock(key) {
		return nil, fmt.Errorf("%w: %q is a block type", domain.ErrUnknownStyle, key)
	}

	sel := e.model.Selection(doc)
	active := e.ActiveInlineStyles(doc)

	if sel.IsCollapsed() {
		pending := active.Add(key)
		if active.Has(key) {
			pending = active.Remove(key)
		}
		return e.model.WithInlineOverride(doc, &pending), nil
	}

	var (
		next *domain.Document
		err  error
	)
	if active.Has(key) {
		next, err = e.model.RemoveInlineStyle(doc, sel, key)
	} else {
		next, err = e.model.ApplyInlineStyle(doc, sel, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle %s: %w", key, err)
	}
	return e.model.PushHistory(doc, next, domain.ChangeInlineStyle), nil
}

// ToggleGrouped switches an exclusive inline group to key.
// Every member of the group is removed from the selection first; key is then
// applied unless it was already active at the selection start. On a caret the
// same happens to the pending override while other pending styles survive.
// The whole transition is recorded as one history entry.
func (e *Engine) ToggleGrouped(doc *domain.Document, groupName, key string) (*domain.Document, error) {
	group, ok := e.catalog.Group(groupName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown group %q", domain.ErrUnknownStyle, groupName)
	}
	if group.Kind != catalog.KindInline {
		return nil, fmt.Errorf("%w: group %q is not an inline group", domain.ErrUnknownStyle, groupName)
	}
	if !group.Contains(key) {
		return nil, fmt.Errorf("%w: %q is not a member of group %q", domain.ErrUnknownStyle, key, groupName)
	}

	sel := e.model.Selection(doc)
	before := e.ActiveInlineStyles(doc)
	wasActive := before.Has(key)

	next := doc
	for _, member := range group.Keys {
		var err error
		next, err = e.model.RemoveInlineStyle(next, sel, member)
		if err != nil {
			return nil, fmt.Errorf("failed to clear %s from group %s: %w", member, groupName, err)
		}
	}

	if sel.IsCollapsed() {
		pending := before.Remove(group.Keys...)
		if !wasActive {
			pending = pending.Add(key)
		}
		next = e.model.WithInlineOverride(next, &pending)
	} else if !wasActive {
		var err error
		next, err = e.model.ApplyInlineStyle(next, sel, key)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", key, err)
		}
	}

	return e.model.PushHistory(doc, next, domain.ChangeInlineStyle), nil
}
