/*
Package ports defines the driven ports (interfaces) of the qtext toolbar engine.

These interfaces decouple the formatting engine from the rich-text document
model and from the infrastructure hosts need around it.

# Key Interfaces

  - DocumentModel: The document model the engine queries and transforms.
  - DocumentEditor: Host-side editing (selection changes, typing).
  - DocumentStore: Persists documents between commands.
  - DistributedLocker: Serializes commands on a document across replicas.
  - CatalogLoader: Loads the style catalog from an external source.

The contract suites in this package (RunDocumentStoreContract,
RunDocumentModelContract) are meant to be run by every adapter.
*/
package ports
