/*
Package dsl provides a fluent builder for qtext documents.

It is mostly useful in tests and fixtures, where spelling out blocks and
per-character style slices by hand is noisy.

Example usage:

	doc := dsl.New("note").
		Add("title").Type("header-one").Text("Report").
		Add("body").Text("all ").Text("red", "red", "BOLD").Text(" text").
		Done().
		Select("body", 0, "body", 7).
		MustBuild()
*/
package dsl
