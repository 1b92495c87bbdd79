package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
)

// Fixed toolbar actions that do not come from the catalog.
const (
	ActionPreview = domain.ActionPreview
	ActionMode    = "pcandmobile"
	ActionHistory = "undoandredo"
	ActionUndo    = "undo"
	ActionRedo    = "redo"
)

var mediaTypes = map[string]string{
	"image": "IMAGE",
	"video": "VIDEO",
	"link":  "LINK",
	"audio": "AUDIO",
}

// route is the classification of one action key.
type route struct {
	key   string
	kind  domain.ActionKind
	owner string // toolbar entry that must also be permitted
	style catalog.Descriptor
	group catalog.Group
	value string
}

func normalize(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

func (e *Engine) classify(action string) route {
	key := normalize(action)
	r := route{key: key, kind: domain.KindNone}

	if d, ok := e.catalog.Lookup(key); ok {
		r.style = d
		r.value = d.Key
		r.kind = domain.KindInline
		if d.Kind == catalog.KindBlock {
			r.kind = domain.KindBlock
		}
		if g, ok := e.catalog.GroupOf(d.Key); ok {
			r.group = g
			r.owner = g.Tool
		}
		return r
	}

	if g, ok := e.catalog.Tool(key); ok {
		r.group = g
		r.kind = domain.KindGroup
		if g.Kind == catalog.KindBlock {
			r.kind = domain.KindBlockGroup
		}
		return r
	}

	switch key {
	case ActionPreview:
		r.kind = domain.KindPreviewToggle
	case ActionMode:
		r.kind = domain.KindModeToggle
	case ActionHistory:
		r.kind = domain.KindHistory
	case ActionUndo, ActionRedo:
		r.kind = domain.KindHistory
		r.owner = ActionHistory
		r.value = key
	default:
		if media, ok := mediaTypes[key]; ok {
			r.kind = domain.KindMediaInsert
			r.value = media
		}
	}
	return r
}

func (e *Engine) permits(r route) bool {
	return e.policy.Permits(r.key) && (r.owner == "" || e.policy.Permits(r.owner))
}

// Resolve reports how a toolbar action renders for doc.
// Unrecognized actions resolve to KindNone.
func (e *Engine) Resolve(doc *domain.Document, action string) domain.Resolution {
	r := e.classify(action)
	res := domain.Resolution{Action: r.key, Kind: r.kind, Value: r.value}

	switch r.kind {
	case domain.KindInline:
		res.Active = e.HasInlineStyle(doc, r.style.Key)
		res.Group = r.group.Name
	case domain.KindBlock:
		res.Active = e.HasBlockStyle(doc, r.style.Key)
		res.Group = r.group.Name
	case domain.KindGroup:
		active := e.ActiveInlineStyles(doc)
		res.Group = r.group.Name
		res.Options = r.group.Keys
		res.Value = r.group.Default
		for _, k := range r.group.Keys {
			if active.Has(k) {
				res.Value, res.Active = k, true
				break
			}
		}
	case domain.KindBlockGroup:
		res.Group = r.group.Name
		res.Options = r.group.Keys
		res.Value = r.group.Default
		if typ := e.ActiveBlockType(doc); r.group.Contains(typ) {
			res.Value = typ
			res.Active = typ != r.group.Default
		}
	case domain.KindHistory:
		res.CanUndo = e.CanUndo(doc)
		res.CanRedo = e.CanRedo(doc)
	}
	return res
}

// Toolbar resolves the catalog vocabulary in order, omitting entries the
// policy does not permit and entries that are not recognized.
func (e *Engine) Toolbar(doc *domain.Document) []domain.Resolution {
	tools := e.catalog.Tools()
	out := make([]domain.Resolution, 0, len(tools))
	for _, tool := range tools {
		r := e.classify(tool)
		if r.kind == domain.KindNone || !e.permits(r) {
			continue
		}
		out = append(out, e.Resolve(doc, tool))
	}
	return out
}

// Dispatch routes a toolbar command to the toggle engine or the history gate.
//
// Unknown actions yield a KindNone outcome with the unchanged document.
// Actions the policy forbids, and malformed dropdown or history commands, fail
// with a *domain.DispatchError wrapping domain.ErrInvalidDispatch. Preview,
// mode and media actions return the unchanged document for the host to act on.
func (e *Engine) Dispatch(doc *domain.Document, cmd domain.Command) (*domain.Outcome, error) {
	r := e.classify(cmd.Action)

	if r.kind == domain.KindNone {
		e.logger.Debug("unknown toolbar action", "action", r.key, "document_id", doc.ID)
		out := &domain.Outcome{Action: r.key, Kind: domain.KindNone, Document: doc}
		e.emitDispatch(doc, out)
		return out, nil
	}
	if !e.permits(r) {
		return nil, e.reject(doc, r, "action is disabled", nil)
	}

	var (
		next  = doc
		value = r.value
		err   error
	)

	switch r.kind {
	case domain.KindInline:
		if cmd.Group != "" && cmd.Group != r.group.Name {
			return nil, e.reject(doc, r, fmt.Sprintf("style %q is not in group %q", r.style.Key, cmd.Group), domain.ErrUnknownStyle)
		}
		tc := domain.ToggleCommand{Kind: domain.ToggleInline, StyleKey: r.style.Key}
		if r.group.Name != "" {
			tc = domain.ToggleCommand{Kind: domain.ToggleGrouped, StyleKey: r.style.Key, Group: r.group.Name}
		}
		next, err = e.Toggle(doc, tc)

	case domain.KindBlock:
		next, err = e.Toggle(doc, domain.ToggleCommand{Kind: domain.ToggleBlock, StyleKey: r.style.Key})

	case domain.KindGroup, domain.KindBlockGroup:
		member, reason, cause := e.member(r, cmd.Value)
		if reason != "" {
			return nil, e.reject(doc, r, reason, cause)
		}
		value = member
		tc := domain.ToggleCommand{Kind: domain.ToggleGrouped, StyleKey: member, Group: r.group.Name}
		if r.kind == domain.KindBlockGroup {
			tc = domain.ToggleCommand{Kind: domain.ToggleBlock, StyleKey: member}
		}
		next, err = e.Toggle(doc, tc)

	case domain.KindHistory:
		op := r.value
		if op == "" {
			op = normalize(cmd.Value)
		}
		value = op
		switch op {
		case ActionUndo:
			next = e.Undo(doc)
		case ActionRedo:
			next = e.Redo(doc)
		default:
			return nil, e.reject(doc, r, "history action needs \"undo\" or \"redo\"", nil)
		}
	}

	if err != nil {
		e.logger.Warn("toolbar action failed", "action", r.key, "document_id", doc.ID, "error", err)
		e.emitRejected(doc, r.key, r.kind, err)
		return nil, fmt.Errorf("dispatch %s: %w", r.key, err)
	}

	out := &domain.Outcome{
		Action:   r.key,
		Kind:     r.kind,
		Document: next,
		Changed:  domain.Diff(doc, next) != nil,
		Value:    value,
	}
	e.logger.Debug("toolbar action dispatched", "action", r.key, "kind", r.kind, "value", value, "changed", out.Changed)
	e.emitDispatch(doc, out)
	return out, nil
}

// member resolves the dropdown value of a group command. A non-empty reason
// means the command is malformed.
func (e *Engine) member(r route, value string) (key, reason string, cause error) {
	if strings.TrimSpace(value) == "" {
		return "", "dropdown action needs a value", nil
	}
	d, ok := e.catalog.Lookup(value)
	if !ok || !r.group.Contains(d.Key) {
		return "", fmt.Sprintf("%q is not a member of group %q", value, r.group.Name), domain.ErrUnknownStyle
	}
	return d.Key, "", nil
}

func (e *Engine) reject(doc *domain.Document, r route, reason string, cause error) error {
	err := &domain.DispatchError{Action: r.key, Reason: reason, Err: cause}
	e.logger.Warn("toolbar action rejected", "action", r.key, "reason", reason, "document_id", doc.ID)
	e.emitRejected(doc, r.key, r.kind, err)
	return err
}
