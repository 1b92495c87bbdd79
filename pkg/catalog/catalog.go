package catalog

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind tells whether a style applies to characters or to whole blocks.
type Kind string

const (
	KindInline Kind = "inline"
	KindBlock  Kind = "block"
)

// Descriptor is the immutable description of one style key.
type Descriptor struct {
	Key         string            `json:"key"`
	Kind        Kind              `json:"kind"`
	Group       string            `json:"group,omitempty"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Payload     map[string]string `json:"payload,omitempty"`
}

// Group is a named set of mutually exclusive style keys.
type Group struct {
	Name    string   `json:"name"`
	Tool    string   `json:"tool,omitempty"`
	Kind    Kind     `json:"kind"`
	Default string   `json:"default,omitempty"`
	Keys    []string `json:"keys"`
}

// Contains reports whether key is a member of the group.
func (g Group) Contains(key string) bool {
	return slices.Contains(g.Keys, key)
}

// Catalog is the static style configuration of a toolbar.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	spec Spec

	styles   map[string]Descriptor
	folded   map[string]string
	inline   []string
	blocks   []string
	groups   []Group
	byName   map[string]int
	byTool   map[string]int
	memberOf map[string]string
	tools    []string
}

// New validates spec and builds a catalog from it.
// All problems found are reported together in an *AggregateError.
func New(spec Spec) (*Catalog, error) {
	c := &Catalog{
		spec:     spec,
		styles:   make(map[string]Descriptor),
		folded:   make(map[string]string),
		byName:   make(map[string]int),
		byTool:   make(map[string]int),
		memberOf: make(map[string]string),
	}

	var errs []error
	fail := func(key, reason string, args ...any) {
		errs = append(errs, &ValidationError{Key: key, Reason: fmt.Sprintf(reason, args...)})
	}

	register := func(s StyleSpec, kind Kind, group string) (string, bool) {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			fail(group, "style with empty key")
			return "", false
		}
		if prev, ok := c.folded[strings.ToLower(key)]; ok {
			fail(key, "duplicate style key (already declared as %q)", prev)
			return "", false
		}
		c.folded[strings.ToLower(key)] = key
		c.styles[key] = Descriptor{
			Key:         key,
			Kind:        kind,
			Group:       group,
			Label:       s.Label,
			Description: s.Description,
			Icon:        s.Icon,
			Payload:     maps.Clone(s.Payload),
		}
		return key, true
	}

	for _, s := range spec.Inline {
		if key, ok := register(s, KindInline, ""); ok {
			c.inline = append(c.inline, key)
		}
	}
	for _, s := range spec.Blocks {
		if key, ok := register(s, KindBlock, ""); ok {
			c.blocks = append(c.blocks, key)
		}
	}

	for _, gs := range spec.Groups {
		name := strings.TrimSpace(gs.Name)
		if name == "" {
			fail("", "group with empty name")
			continue
		}
		if _, dup := c.byName[name]; dup {
			fail(name, "duplicate group name")
			continue
		}

		g := Group{Name: name, Tool: strings.ToLower(strings.TrimSpace(gs.Tool)), Kind: Kind(gs.Kind), Default: gs.Default}
		if g.Kind == "" {
			g.Kind = KindInline
		}

		switch g.Kind {
		case KindInline:
			if len(gs.Blocks) > 0 {
				fail(name, "inline group cannot reference block types")
			}
			for _, s := range gs.Styles {
				if key, ok := register(s, KindInline, name); ok {
					g.Keys = append(g.Keys, key)
				}
			}
		case KindBlock:
			if len(gs.Styles) > 0 {
				fail(name, "block group members must be declared as block types")
			}
			for _, key := range gs.Blocks {
				d, ok := c.styles[key]
				switch {
				case !ok || d.Kind != KindBlock:
					fail(key, "group %q references an unknown block type", name)
				case c.memberOf[key] != "":
					fail(key, "block type already belongs to group %q", c.memberOf[key])
				default:
					g.Keys = append(g.Keys, key)
				}
			}
		default:
			fail(name, "unknown group kind %q", gs.Kind)
			continue
		}

		if len(g.Keys) == 0 {
			fail(name, "group has no members")
		}
		if g.Default != "" && !g.Contains(g.Default) {
			fail(name, "default %q is not a member of the group", g.Default)
		}
		for _, key := range g.Keys {
			c.memberOf[key] = name
		}

		c.byName[name] = len(c.groups)
		if g.Tool != "" {
			if _, clash := c.folded[g.Tool]; clash {
				fail(g.Tool, "tool of group %q collides with a style key", name)
			} else if other, dup := c.byTool[g.Tool]; dup {
				fail(g.Tool, "tool already opens group %q", c.groups[other].Name)
			} else {
				c.byTool[g.Tool] = len(c.groups)
			}
		}
		c.groups = append(c.groups, g)
	}

	seen := make(map[string]bool, len(spec.Tools))
	for _, tool := range spec.Tools {
		key := strings.ToLower(strings.TrimSpace(tool))
		if key == "" {
			fail("", "empty toolbar entry")
			continue
		}
		if seen[key] {
			fail(key, "duplicate toolbar entry")
			continue
		}
		seen[key] = true
		c.tools = append(c.tools, key)
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return c, nil
}

// Style returns the descriptor of an exact style key.
func (c *Catalog) Style(key string) (Descriptor, bool) {
	d, ok := c.styles[key]
	return d, ok
}

// Lookup returns the descriptor of a style key, ignoring case.
func (c *Catalog) Lookup(key string) (Descriptor, bool) {
	if d, ok := c.styles[key]; ok {
		return d, true
	}
	exact, ok := c.folded[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Descriptor{}, false
	}
	return c.styles[exact], true
}

// IsBlock reports whether key is a block type.
func (c *Catalog) IsBlock(key string) bool {
	d, ok := c.styles[key]
	return ok && d.Kind == KindBlock
}

// IsInline reports whether key is an inline style.
func (c *Catalog) IsInline(key string) bool {
	d, ok := c.styles[key]
	return ok && d.Kind == KindInline
}

// Group returns the group with the given name.
func (c *Catalog) Group(name string) (Group, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Group{}, false
	}
	return c.groups[i].clone(), true
}

// GroupOf returns the group a style key belongs to.
func (c *Catalog) GroupOf(key string) (Group, bool) {
	name, ok := c.memberOf[key]
	if !ok {
		return Group{}, false
	}
	return c.Group(name)
}

// Tool returns the dropdown group opened by a toolbar action, ignoring case.
func (c *Catalog) Tool(action string) (Group, bool) {
	i, ok := c.byTool[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return Group{}, false
	}
	return c.groups[i].clone(), true
}

// Tools returns the toolbar vocabulary in display order, lowercased.
func (c *Catalog) Tools() []string { return slices.Clone(c.tools) }

// Groups returns every group in declaration order.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.clone()
	}
	return out
}

// InlineToggles returns the non-grouped inline styles.
func (c *Catalog) InlineToggles() []string { return slices.Clone(c.inline) }

// BlockTypes returns every block type.
func (c *Catalog) BlockTypes() []string { return slices.Clone(c.blocks) }

// Spec returns the declarations the catalog was built from.
func (c *Catalog) Spec() Spec { return c.spec }

// MarshalJSON encodes the catalog as its declarations.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.spec)
}

func (g Group) clone() Group {
	g.Keys = slices.Clone(g.Keys)
	return g
}
