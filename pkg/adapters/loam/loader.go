package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/ports"
)

// Fragment is the metadata of one catalog document: the front matter of a
// Markdown file or the top-level object of a JSON/YAML file.
type Fragment = map[string]any

// catalogKeys are the metadata keys a fragment contributes. Other keys
// (id, title, tags) belong to the document and are ignored.
var catalogKeys = []string{"inline", "blocks", "groups", "tools"}

// Loader builds a style catalog from a Loam repository.
// Every document is a catalog fragment; fragments are merged in ID order, so
// a directory can split inline styles, block types and each group into files.
type Loader struct {
	Repo *loam.TypedRepository[Fragment]
}

var _ ports.CatalogLoader = (*Loader)(nil)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[Fragment]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a Loam repository at path and wraps it in a Loader.
// Versioning is off unless opts turn it back on.
func Open(path string, opts ...loam.Option) (*Loader, error) {
	repo, err := loam.Init(path, append([]loam.Option{loam.WithVersioning(false)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog directory %s: %w", path, err)
	}
	return New(loam.NewTypedRepository[Fragment](repo)), nil
}

// LoadCatalog implements ports.CatalogLoader.
func (l *Loader) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	specs, err := l.Fragments(ctx)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("catalog directory has no documents")
	}

	ids := make([]string, 0, len(specs))
	for id := range specs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ordered := make([]catalog.Spec, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, specs[id])
	}
	c, err := catalog.New(catalog.Merge(ordered...))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Fragments decodes every document of the repository, keyed by normalized ID.
func (l *Loader) Fragments(ctx context.Context) (map[string]catalog.Spec, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	specs := make(map[string]catalog.Spec, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		raw := make(map[string]any, len(catalogKeys))
		for _, key := range catalogKeys {
			if v, ok := doc.Data[key]; ok {
				raw[key] = v
			}
		}
		spec, err := catalog.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("fragment %s: %w", doc.ID, err)
		}
		specs[id] = spec
	}
	return specs, nil
}

// Watch reports the IDs of catalog documents as they change.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}
