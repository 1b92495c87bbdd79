package runtime

import "github.com/aretw0/qtext/pkg/domain"

// ActiveInlineStyles returns the inline styles at the effective cursor point.
// For a caret this is the pending override when one is set, otherwise the
// styles the next typed character would inherit. For a range it is the
// styles of the first selected character.
func (e *Engine) ActiveInlineStyles(doc *domain.Document) domain.StyleSet {
	sel := e.model.Selection(doc)
	if sel.IsCollapsed() {
		if override, ok := e.model.InlineOverride(doc); ok {
			return override
		}
		return e.model.InheritedStylesAt(doc, sel.Start())
	}
	return e.model.InlineStylesAt(doc, sel.Start())
}

// ActiveBlockType returns the type of the block holding the selection start,
// or "" when that block is unknown.
func (e *Engine) ActiveBlockType(doc *domain.Document) string {
	typ, _ := e.model.BlockType(doc, e.model.Selection(doc).Start().BlockKey)
	return typ
}

func (e *Engine) HasInlineStyle(doc *domain.Document, key string) bool {
	return e.ActiveInlineStyles(doc).Has(key)
}

func (e *Engine) HasBlockStyle(doc *domain.Document, key string) bool {
	typ := e.ActiveBlockType(doc)
	return typ != "" && typ == key
}
