/*
Package dsl provides a Go DSL for programmatically constructing flowforge graph definitions.

It lets developers declare blocks and lines with a fluent builder instead of YAML or JSON files,
which is handy for tests, embedded graphs and IDE autocompletion.

Example usage:

	b := dsl.New("greeting")

	b.Add("read").
		Echo("hello").
		To("shout")

	b.Add("shout").
		Echo("unused").
		Param("upper", true).
		To("save")

	b.Add("save").
		Type("context").
		Param("key", "greeting")

	// The resulting loader can be passed to flowforge.New via flowforge.WithLoader.
	loader, err := b.Build()
*/
package dsl
