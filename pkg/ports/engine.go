package ports

import (
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
)

// ToolbarEngine is the surface host adapters (HTTP, MCP, CLI) drive.
// It never holds a document: every call takes and returns one.
type ToolbarEngine interface {
	// Catalog returns the style configuration the toolbar renders.
	Catalog() *catalog.Catalog

	// Resolve reports how one toolbar action renders for doc.
	Resolve(doc *domain.Document, action string) domain.Resolution

	// Toolbar resolves the permitted vocabulary in display order.
	Toolbar(doc *domain.Document) []domain.Resolution

	// Dispatch applies a toolbar action and returns the resulting document.
	Dispatch(doc *domain.Document, cmd domain.Command) (*domain.Outcome, error)

	CanUndo(doc *domain.Document) bool
	CanRedo(doc *domain.Document) bool
}
