package nodes

import (
	"context"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/schema"
)

// TransformText rewrites a single text according to the prompt instruction.
type TransformText struct {
	caller claude.Caller
}

// NewTransformText creates the node backed by the given caller.
func NewTransformText(caller claude.Caller) *TransformText {
	return &TransformText{caller: caller}
}

func (n *TransformText) Name() string     { return "Transform Text" }
func (n *TransformText) Category() string { return CategoryClaude }

func (n *TransformText) Inputs() schema.Inputs {
	return schema.Inputs{
		{Name: "text", Field: schema.Field{
			Type: schema.String(), Required: true, Multiline: true,
			Description: "Text to transform.",
		}},
		modelField(""),
		apiKeyField(),
		systemPromptField(),
		{Name: "prompt", Field: schema.Field{
			Type:        schema.String(),
			Default:     TransformTextPrompt,
			Multiline:   true,
			Description: "Instruction applied to the text.",
		}},
	}
}

func (n *TransformText) Outputs() schema.Outputs {
	return schema.Outputs{stringOutput("transformed_text", "The transformed text.")}
}

type transformTextParams struct {
	Text         string `mapstructure:"text"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api_key"`
	SystemPrompt string `mapstructure:"system_prompt"`
	Prompt       string `mapstructure:"prompt"`
}

func (n *TransformText) Execute(ctx context.Context, in map[string]any) (map[string]any, error) {
	var p transformTextParams
	if err := decode(in, &p); err != nil {
		return nil, err
	}

	transformed, err := n.caller.RunPrompt(ctx, claude.PromptRequest{
		Prompt:       TransformPrompt(p.Prompt, p.Text),
		SystemPrompt: p.SystemPrompt,
		Model:        p.Model,
		APIKey:       p.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"transformed_text": transformed}, nil
}
