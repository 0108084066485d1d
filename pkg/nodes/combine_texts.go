package nodes

import (
	"context"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/schema"
)

// CombineTexts merges two labeled texts into one prompt and asks the model
// to fold them together.
type CombineTexts struct {
	caller claude.Caller
}

// NewCombineTexts creates the node backed by the given caller.
func NewCombineTexts(caller claude.Caller) *CombineTexts {
	return &CombineTexts{caller: caller}
}

func (n *CombineTexts) Name() string     { return "Combine Texts" }
func (n *CombineTexts) Category() string { return CategoryClaude }

func (n *CombineTexts) Inputs() schema.Inputs {
	return schema.Inputs{
		{Name: "text_1", Field: schema.Field{
			Type: schema.String(), Required: true, Multiline: true,
			Description: "First text.",
		}},
		{Name: "text_1_prefix", Field: schema.Field{
			Type: schema.String(), Default: "1",
			Description: "Label prepended to the first text.",
		}},
		{Name: "text_2", Field: schema.Field{
			Type: schema.String(), Required: true, Multiline: true,
			Description: "Second text.",
		}},
		{Name: "text_2_prefix", Field: schema.Field{
			Type: schema.String(), Default: "2",
			Description: "Label prepended to the second text.",
		}},
		modelField(""),
		apiKeyField(),
		systemPromptField(),
		{Name: "prompt", Field: schema.Field{
			Type:        schema.String(),
			Default:     CombineTextsPrompt,
			Multiline:   true,
			Description: "Instruction prepended to the labeled texts.",
		}},
	}
}

func (n *CombineTexts) Outputs() schema.Outputs {
	return schema.Outputs{stringOutput("combined_texts", "The merged text.")}
}

type combineTextsParams struct {
	Text1        string `mapstructure:"text_1"`
	Text1Prefix  string `mapstructure:"text_1_prefix"`
	Text2        string `mapstructure:"text_2"`
	Text2Prefix  string `mapstructure:"text_2_prefix"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api_key"`
	SystemPrompt string `mapstructure:"system_prompt"`
	Prompt       string `mapstructure:"prompt"`
}

func (n *CombineTexts) Execute(ctx context.Context, in map[string]any) (map[string]any, error) {
	var p combineTextsParams
	if err := decode(in, &p); err != nil {
		return nil, err
	}

	full := CombinePrompt(p.Prompt, p.Text1Prefix, p.Text1, p.Text2Prefix, p.Text2)
	combined, err := n.caller.RunPrompt(ctx, claude.PromptRequest{
		Prompt:       full,
		SystemPrompt: p.SystemPrompt,
		Model:        p.Model,
		APIKey:       p.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"combined_texts": combined}, nil
}
