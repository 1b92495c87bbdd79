package qtext_test

import (
	"fmt"
	"log"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/pkg/domain"
)

// ExampleNew shows a toolbar driving an in-memory document: select a word,
// toggle bold, pick a color and undo.
func ExampleNew() {
	tb, err := qtext.New()
	if err != nil {
		log.Fatal(err)
	}

	doc := tb.NewDocument("example", domain.Block{Text: "hello world"})
	doc, err = tb.Editor().Select(doc, domain.Span(
		domain.Position{BlockKey: "b0", Offset: 0},
		domain.Position{BlockKey: "b0", Offset: 5},
	))
	if err != nil {
		log.Fatal(err)
	}

	out, err := tb.Dispatch(doc, domain.Command{Action: "bold"})
	if err != nil {
		log.Fatal(err)
	}
	doc = out.Document
	fmt.Println("bold:", tb.Resolve(doc, "bold").Active)

	out, err = tb.Dispatch(doc, domain.Command{Action: "color", Value: "red"})
	if err != nil {
		log.Fatal(err)
	}
	doc = out.Document
	fmt.Println("color:", tb.Resolve(doc, "color").Value)

	doc = tb.Undo(doc)
	fmt.Println("after undo:", tb.Resolve(doc, "color").Value, tb.CanRedo(doc))

	// Output:
	// bold: true
	// color: red
	// after undo: black true
}
