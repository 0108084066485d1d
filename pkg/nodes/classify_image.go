package nodes

import (
	"context"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/schema"
)

// ClassifyImage runs the vision API with a classification instruction and
// returns the raw class string the model emits.
type ClassifyImage struct {
	caller claude.Caller
}

// NewClassifyImage creates the node backed by the given caller.
func NewClassifyImage(caller claude.Caller) *ClassifyImage {
	return &ClassifyImage{caller: caller}
}

func (n *ClassifyImage) Name() string     { return "Classify Image" }
func (n *ClassifyImage) Category() string { return CategoryClaude }

func (n *ClassifyImage) Inputs() schema.Inputs {
	return schema.Inputs{
		imageField(),
		{Name: "classification_prompt", Field: schema.Field{
			Type:        schema.String(),
			Default:     ClassifyImagePrompt,
			Multiline:   true,
			Description: "Instruction defining the class list and output contract.",
		}},
		modelField(claude.DefaultVisionModel),
		apiKeyField(),
		systemPromptField(),
	}
}

func (n *ClassifyImage) Outputs() schema.Outputs {
	return schema.Outputs{stringOutput("classification", "Comma-separated class name(s).")}
}

type classifyImageParams struct {
	Image                *domain.Image `mapstructure:"image"`
	ClassificationPrompt string        `mapstructure:"classification_prompt"`
	Model                string        `mapstructure:"model"`
	APIKey               string        `mapstructure:"api_key"`
	SystemPrompt         string        `mapstructure:"system_prompt"`
}

func (n *ClassifyImage) Execute(ctx context.Context, in map[string]any) (map[string]any, error) {
	var p classifyImageParams
	if err := decode(in, &p); err != nil {
		return nil, err
	}

	classification, err := n.caller.DescribeImage(ctx, claude.VisionRequest{
		Image:        p.Image,
		Prompt:       p.ClassificationPrompt,
		SystemPrompt: p.SystemPrompt,
		Model:        p.Model,
		APIKey:       p.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"classification": classification}, nil
}
