/*
Package qtext is the formatting-command layer of a rich-text editor toolbar.

For a document and its selection it decides which inline styles and block type
are active, and it applies toolbar commands (bold, italic, headings, font
family, font size, line height, text and background color) while keeping style
groups mutually exclusive: a run of text never carries two colors or two font
sizes.

# Concept

Documents are immutable values. The Toolbar holds configuration only (a style
catalog, a document model and a host policy); every call takes a document and
returns a new one, so the host decides where documents live. The document model
is a port, and the package ships an in-memory reference model.

# Usage

	tb, err := qtext.New()
	if err != nil {
		log.Fatal(err)
	}

	doc := tb.NewDocument("note", domain.Block{Text: "Hello"})
	doc, _ = tb.Editor().Select(doc, domain.Span(
		domain.Position{BlockKey: "b0", Offset: 0},
		domain.Position{BlockKey: "b0", Offset: 5},
	))

	out, err := tb.Dispatch(doc, domain.Command{Action: "color", Value: "red"})
	if err != nil {
		log.Fatal(err)
	}
	for _, entry := range tb.Toolbar(out.Document) {
		fmt.Println(entry.Action, entry.Value, entry.Active)
	}

# Hosts

The cmd/qtext binary exposes the same engine as an interactive terminal
editor, an HTTP API with a server-sent event stream and an MCP server.
*/
package qtext
