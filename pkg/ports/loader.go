package ports

import (
	"context"

	"github.com/aretw0/qtext/pkg/catalog"
)

// CatalogLoader retrieves the style catalog from an external source
// (a directory of documents, a config service).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}
