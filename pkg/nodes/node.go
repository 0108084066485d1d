// Package nodes implements the Canopy node adapter layer: four plugin nodes
// that marshal host inputs into prompts and delegate to the Claude API.
package nodes

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/schema"
)

// CategoryClaude is the palette category hosts group these nodes under.
const CategoryClaude = "Claude"

// Node is a unit of work in the host's visual graph, with typed inputs and
// outputs. Inputs must satisfy the declared schema before Execute runs; the
// host (or the canopy facade) enforces this via schema.Resolve.
type Node interface {
	// Name returns the display name used for host registration.
	Name() string
	// Category returns the palette category.
	Category() string
	// Inputs returns the declared input schema in UI order.
	Inputs() schema.Inputs
	// Outputs returns the declared output schema.
	Outputs() schema.Outputs
	// Execute runs the node with resolved inputs and returns its outputs.
	// Failures from the model helper propagate unmodified.
	Execute(ctx context.Context, in map[string]any) (map[string]any, error)
}

// decode maps resolved input values onto a per-node parameter struct.
func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("failed to decode node inputs: %w", err)
	}
	return nil
}

// --- Shared field declarations ---

func modelField(defaultModel string) schema.NamedField {
	f := schema.NamedField{
		Name: "model",
		Field: schema.Field{
			Type:        schema.Choice(claude.Models...),
			Required:    true,
			Description: "Model identifier to invoke.",
		},
	}
	if defaultModel != "" {
		f.Required = false
		f.Default = defaultModel
	}
	return f
}

func apiKeyField() schema.NamedField {
	return schema.NamedField{
		Name: "api_key",
		Field: schema.Field{
			Type:        schema.String(),
			Required:    true,
			Description: "Anthropic API key, passed through to the model call.",
		},
	}
}

func systemPromptField() schema.NamedField {
	return schema.NamedField{
		Name: "system_prompt",
		Field: schema.Field{
			Type:        schema.String(),
			Multiline:   true,
			Description: "Optional system prompt.",
		},
	}
}

func imageField() schema.NamedField {
	return schema.NamedField{
		Name: "image",
		Field: schema.Field{
			Type:        schema.Image(),
			Required:    true,
			Description: "Encoded image payload from the graph.",
		},
	}
}

func stringOutput(name, description string) schema.NamedField {
	return schema.NamedField{
		Name:  name,
		Field: schema.Field{Type: schema.String(), Description: description},
	}
}
