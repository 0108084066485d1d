/*
Package schema provides the typed input/output declarations for Canopy nodes.

A node declares an ordered list of named fields. Each field carries a type
(string, image, or a fixed choice list), a required flag, an optional default,
and a multiline hint for host UIs. Resolve applies defaults, enforces required
fields, and validates every present value against its declared type before a
node is allowed to execute.

Basic usage:

	inputs := schema.Inputs{
	    {Name: "text", Field: schema.Field{Type: schema.String(), Required: true, Multiline: true}},
	    {Name: "model", Field: schema.Field{Type: schema.Choice("a", "b"), Required: true}},
	    {Name: "prompt", Field: schema.Field{Type: schema.String(), Default: "Summarize."}},
	}

	resolved, err := schema.Resolve(inputs, map[string]any{
	    "text":  "hello",
	    "model": "a",
	})

This package is designed to be library-agnostic, with zero external
dependencies beyond the Go standard library.
*/
package schema
