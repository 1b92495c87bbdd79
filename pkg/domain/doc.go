/*
Package domain contains the core domain models of the qtext toolbar engine.

It defines the values exchanged between the toolbar, the formatting engine and
the document model: style sets, selections, documents, toggle commands and
toolbar resolutions. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - StyleSet: An immutable set of inline style keys applied to a character.
  - Selection: An (anchor, focus) pair; collapsed selections are carets.
  - Document: An immutable rich-text value with blocks, a caret override and undo/redo stacks.
  - Resolution: What a toolbar entry shows for a document (active state, dropdown value).
  - Policy: The host allow/deny configuration for toolbar actions.
*/
package domain
