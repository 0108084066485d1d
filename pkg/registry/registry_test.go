package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/nodes"
	"github.com/arvel0/canopy/pkg/registry"
)

type nopCaller struct{}

func (nopCaller) RunPrompt(ctx context.Context, req claude.PromptRequest) (string, error) {
	return "", nil
}

func (nopCaller) DescribeImage(ctx context.Context, req claude.VisionRequest) (string, error) {
	return "", nil
}

func TestDefault_RegistersFourNodes(t *testing.T) {
	r := registry.Default()

	assert.Equal(t, []string{
		"Classify Image",
		"Combine Texts",
		"Describe Image",
		"Transform Text",
	}, r.Names())

	for _, name := range r.Names() {
		n, err := r.Node(name, nopCaller{})
		require.NoError(t, err, name)
		assert.Equal(t, name, n.Name())
		assert.Equal(t, nodes.CategoryClaude, n.Category())
		assert.Len(t, n.Outputs(), 1, "each node declares exactly one output")
	}
}

func TestNode_Unknown(t *testing.T) {
	r := registry.Default()

	_, err := r.Node("Does Not Exist", nopCaller{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
}

func TestRegister_Overwrite(t *testing.T) {
	r := registry.New()
	r.Register("Transform Text", func(c claude.Caller) nodes.Node { return nodes.NewTransformText(c) })
	r.Register("Transform Text", func(c claude.Caller) nodes.Node { return nodes.NewCombineTexts(c) })

	n, err := r.Node("Transform Text", nopCaller{})
	require.NoError(t, err)
	assert.Equal(t, "Combine Texts", n.Name())
}
