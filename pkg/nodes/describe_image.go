package nodes

import (
	"context"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/schema"
)

// DescribeImage sends an image to the vision API and returns a textual
// description.
type DescribeImage struct {
	caller claude.Caller
}

// NewDescribeImage creates the node backed by the given caller.
func NewDescribeImage(caller claude.Caller) *DescribeImage {
	return &DescribeImage{caller: caller}
}

func (n *DescribeImage) Name() string     { return "Describe Image" }
func (n *DescribeImage) Category() string { return CategoryClaude }

func (n *DescribeImage) Inputs() schema.Inputs {
	return schema.Inputs{
		imageField(),
		modelField(""),
		apiKeyField(),
		systemPromptField(),
		{Name: "prompt", Field: schema.Field{
			Type:        schema.String(),
			Default:     DescribeImagePrompt,
			Multiline:   true,
			Description: "Instruction sent alongside the image.",
		}},
	}
}

func (n *DescribeImage) Outputs() schema.Outputs {
	return schema.Outputs{stringOutput("description", "Textual description of the image.")}
}

type describeImageParams struct {
	Image        *domain.Image `mapstructure:"image"`
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api_key"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Prompt       string        `mapstructure:"prompt"`
}

func (n *DescribeImage) Execute(ctx context.Context, in map[string]any) (map[string]any, error) {
	var p describeImageParams
	if err := decode(in, &p); err != nil {
		return nil, err
	}

	description, err := n.caller.DescribeImage(ctx, claude.VisionRequest{
		Image:        p.Image,
		Prompt:       p.Prompt,
		SystemPrompt: p.SystemPrompt,
		Model:        p.Model,
		APIKey:       p.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"description": description}, nil
}
