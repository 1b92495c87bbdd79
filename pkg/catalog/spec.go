package catalog

// Spec is the serializable form of a catalog.
// It uses "mapstructure" tags so that YAML, JSON and front matter sources
// decode through the same path.
type Spec struct {
	Inline []StyleSpec `json:"inline,omitempty" mapstructure:"inline"`
	Blocks []StyleSpec `json:"blocks,omitempty" mapstructure:"blocks"`
	Groups []GroupSpec `json:"groups,omitempty" mapstructure:"groups"`

	// Tools is the ordered toolbar vocabulary.
	Tools []string `json:"tools,omitempty" mapstructure:"tools"`
}

// StyleSpec declares one style key.
type StyleSpec struct {
	Key         string            `json:"key" mapstructure:"key"`
	Label       string            `json:"label,omitempty" mapstructure:"label"`
	Description string            `json:"description,omitempty" mapstructure:"description"`
	Icon        string            `json:"icon,omitempty" mapstructure:"icon"`
	Payload     map[string]string `json:"payload,omitempty" mapstructure:"payload"`
}

// GroupSpec declares an exclusive group.
// Inline groups define their members in Styles; block groups reference
// block types declared in Spec.Blocks.
type GroupSpec struct {
	Name    string      `json:"name" mapstructure:"name"`
	Tool    string      `json:"tool,omitempty" mapstructure:"tool"`
	Kind    string      `json:"kind,omitempty" mapstructure:"kind"`
	Default string      `json:"default,omitempty" mapstructure:"default"`
	Styles  []StyleSpec `json:"styles,omitempty" mapstructure:"styles"`
	Blocks  []string    `json:"blocks,omitempty" mapstructure:"blocks"`
}

// Merge concatenates the sections of several specs in order.
func Merge(specs ...Spec) Spec {
	var out Spec
	for _, s := range specs {
		out.Inline = append(out.Inline, s.Inline...)
		out.Blocks = append(out.Blocks, s.Blocks...)
		out.Groups = append(out.Groups, s.Groups...)
		out.Tools = append(out.Tools, s.Tools...)
	}
	return out
}
