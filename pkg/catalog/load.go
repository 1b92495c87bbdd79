package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML)
})

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// DefaultYAML returns the source of the built-in catalog.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Load reads a catalog from a YAML or JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML (or JSON, which is a subset) into a validated catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	spec, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return New(spec)
}

// Decode maps loosely typed configuration (YAML, JSON, front matter) onto a Spec.
// Scalars are converted to strings, so `font-size: 14` and `font-size: "14"`
// decode alike.
func Decode(raw map[string]any) (Spec, error) {
	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &spec,
	})
	if err != nil {
		return Spec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Spec{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return spec, nil
}
