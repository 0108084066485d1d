/*
Package canopy packages Claude-backed plugin nodes for node-graph image/text
pipeline hosts.

Each node forwards user-provided text or image data, together with a model
name and API key, to the Anthropic Messages API and returns the textual
response as a graph output. The module's own logic is input marshaling,
prompt assembly, and response pass-through; the hard work happens on the
hosted model.

# Concept

A host runtime owns the graph: it resolves node inputs, schedules execution,
and renders widgets from the declared schemas. Canopy owns the node side of
that contract: a registry of display names, typed input/output schemas, and
an Execute step per node. This Hexagonal Architecture allows Canopy to be
embedded behind any host surface: an HTTP API, an MCP server, or a CLI.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/arvel0/canopy"
	)

	func main() {
		host, err := canopy.New(canopy.WithAPIKey("sk-ant-..."))
		if err != nil {
			log.Fatal(err)
		}

		result, err := host.Invoke(context.Background(), "Transform Text", map[string]any{
			"text":   "a moody forest, wide shot",
			"model":  "claude-3-5-sonnet-20241022",
			"prompt": "Rewrite this as a detailed image prompt.",
		})
		if err != nil {
			log.Fatal(err)
		}

		log.Println(result.Outputs["transformed_text"])
	}
*/
package canopy
