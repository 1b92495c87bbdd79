package qtext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/qtext/internal/logging"
	"github.com/aretw0/qtext/internal/runtime"
	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
)

// Toolbar is the high-level entry point of the library.
// It wraps the formatting runtime and a document model and never holds a document.
type Toolbar struct {
	runtime     *runtime.Engine
	catalog     *catalog.Catalog
	catalogPath string
	loader      ports.CatalogLoader
	model       ports.EditableModel
	policy      domain.Policy
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

var _ ports.ToolbarEngine = (*Toolbar)(nil)

// Option defines a functional option for configuring the Toolbar.
type Option func(*Toolbar)

// WithCatalog uses an already built catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(t *Toolbar) {
		t.catalog = c
	}
}

// WithCatalogFile loads the catalog from a YAML or JSON file.
func WithCatalogFile(path string) Option {
	return func(t *Toolbar) {
		t.catalogPath = path
	}
}

// WithCatalogLoader loads the catalog from an external source, such as a Loam directory.
func WithCatalogLoader(l ports.CatalogLoader) Option {
	return func(t *Toolbar) {
		t.loader = l
	}
}

// WithModel replaces the reference in-memory document model.
func WithModel(m ports.EditableModel) Option {
	return func(t *Toolbar) {
		t.model = m
	}
}

// WithPolicy sets the host allow/deny policy.
func WithPolicy(p domain.Policy) Option {
	return func(t *Toolbar) {
		t.policy = p
	}
}

// WithDisabled adds actions to the deny list.
func WithDisabled(actions ...string) Option {
	return func(t *Toolbar) {
		t.policy.Disabled = append(t.policy.Disabled, actions...)
	}
}

// WithReadOnly restricts the toolbar to the preview toggle.
func WithReadOnly(readOnly bool) Option {
	return func(t *Toolbar) {
		t.policy.ReadOnly = readOnly
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Toolbar) {
		t.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolbar) {
		t.logger = logger
	}
}

// New builds a Toolbar. Without catalog options it uses the embedded default
// catalog; without a model it uses the in-memory reference model.
// The catalog sources are tried in order: WithCatalog, WithCatalogLoader, WithCatalogFile.
func New(opts ...Option) (*Toolbar, error) {
	t := &Toolbar{}
	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = logging.NewNop()
	}

	switch {
	case t.catalog != nil:
	case t.loader != nil:
		c, err := t.loader.LoadCatalog(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		t.catalog = c
	case t.catalogPath != "":
		c, err := catalog.Load(t.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		t.catalog = c
		t.logger = t.logger.With("catalog", t.catalogPath)
	default:
		t.catalog = catalog.Default()
	}

	if t.model == nil {
		t.model = memory.NewModel()
	}

	t.runtime = runtime.NewEngine(t.catalog, t.model,
		runtime.WithPolicy(t.policy),
		runtime.WithLifecycleHooks(t.hooks),
		runtime.WithLogger(t.logger),
	)
	return t, nil
}

// NewDocument creates a document with the configured model.
func (t *Toolbar) NewDocument(id string, blocks ...domain.Block) *domain.Document {
	return t.model.NewDocument(id, blocks...)
}

// Resolve reports how one toolbar action renders for doc.
func (t *Toolbar) Resolve(doc *domain.Document, action string) domain.Resolution {
	return t.runtime.Resolve(doc, action)
}

// Toolbar resolves every permitted toolbar entry in display order.
func (t *Toolbar) Toolbar(doc *domain.Document) []domain.Resolution {
	return t.runtime.Toolbar(doc)
}

// Dispatch applies a toolbar action.
func (t *Toolbar) Dispatch(doc *domain.Document, cmd domain.Command) (*domain.Outcome, error) {
	return t.runtime.Dispatch(doc, cmd)
}

// ActiveInlineStyles returns the inline styles at the selection start.
func (t *Toolbar) ActiveInlineStyles(doc *domain.Document) domain.StyleSet {
	return t.runtime.ActiveInlineStyles(doc)
}

// ActiveBlockType returns the type of the block holding the selection start.
func (t *Toolbar) ActiveBlockType(doc *domain.Document) string {
	return t.runtime.ActiveBlockType(doc)
}

// Toggle applies a toggle command directly, bypassing the action vocabulary and the policy.
func (t *Toolbar) Toggle(doc *domain.Document, cmd domain.ToggleCommand) (*domain.Document, error) {
	return t.runtime.Toggle(doc, cmd)
}

func (t *Toolbar) CanUndo(doc *domain.Document) bool { return t.runtime.CanUndo(doc) }

func (t *Toolbar) CanRedo(doc *domain.Document) bool { return t.runtime.CanRedo(doc) }

// Undo reverts the last change, or returns doc when there is nothing to undo.
func (t *Toolbar) Undo(doc *domain.Document) *domain.Document { return t.runtime.Undo(doc) }

// Redo reapplies the last undone change, or returns doc when there is nothing to redo.
func (t *Toolbar) Redo(doc *domain.Document) *domain.Document { return t.runtime.Redo(doc) }

// Catalog returns the style catalog in use.
func (t *Toolbar) Catalog() *catalog.Catalog { return t.catalog }

// Policy returns the host policy in use.
func (t *Toolbar) Policy() domain.Policy { return t.policy }

// Model returns the document model used by the toolbar.
func (t *Toolbar) Model() ports.DocumentModel { return t.model }

// Editor returns the host-side editing operations of the document model.
func (t *Toolbar) Editor() ports.DocumentEditor { return t.model }
