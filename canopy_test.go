package canopy_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvel0/canopy"
	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/schema"
)

type fakeCaller struct {
	reply string
	err   error
	last  claude.PromptRequest
}

func (f *fakeCaller) RunPrompt(ctx context.Context, req claude.PromptRequest) (string, error) {
	f.last = req
	return f.reply, f.err
}

func (f *fakeCaller) DescribeImage(ctx context.Context, req claude.VisionRequest) (string, error) {
	return f.reply, f.err
}

func TestHost_Invoke(t *testing.T) {
	caller := &fakeCaller{reply: "rewritten"}
	host, err := canopy.New(canopy.WithCaller(caller))
	require.NoError(t, err)

	result, err := host.Invoke(context.Background(), "Transform Text", map[string]any{
		"text":    "hello",
		"model":   "claude-3-5-sonnet-20241022",
		"api_key": "sk-test",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.InvocationID)
	assert.Equal(t, "Transform Text", result.Node)
	assert.Equal(t, "claude-3-5-sonnet-20241022", result.Model)
	assert.Equal(t, "rewritten", result.Outputs["transformed_text"])
	assert.False(t, result.FinishedAt.IsZero())

	// Result was persisted under its invocation ID.
	stored, err := host.Store().Load(context.Background(), result.InvocationID)
	require.NoError(t, err)
	assert.Equal(t, result.Outputs, stored.Outputs)
}

func TestHost_Invoke_UnknownNode(t *testing.T) {
	host, err := canopy.New(canopy.WithCaller(&fakeCaller{}))
	require.NoError(t, err)

	_, err = host.Invoke(context.Background(), "Nope", nil)
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
}

func TestHost_Invoke_ValidationBeforeModelCall(t *testing.T) {
	caller := &fakeCaller{reply: "never"}
	host, err := canopy.New(canopy.WithCaller(caller))
	require.NoError(t, err)

	_, err = host.Invoke(context.Background(), "Transform Text", map[string]any{
		"model":   "claude-3-5-sonnet-20241022",
		"api_key": "sk-test",
	})
	require.Error(t, err)

	var aggr *schema.AggregateError
	assert.True(t, errors.As(err, &aggr))
	assert.Empty(t, caller.last.Prompt, "model must not be called on validation failure")
}

func TestHost_Invoke_FallbackAPIKey(t *testing.T) {
	caller := &fakeCaller{reply: "ok"}
	host, err := canopy.New(canopy.WithCaller(caller), canopy.WithAPIKey("sk-fallback"))
	require.NoError(t, err)

	_, err = host.Invoke(context.Background(), "Transform Text", map[string]any{
		"text":  "hello",
		"model": "claude-3-haiku-20240307",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", caller.last.APIKey)

	// An explicit key wins over the fallback.
	_, err = host.Invoke(context.Background(), "Transform Text", map[string]any{
		"text":    "hello",
		"model":   "claude-3-haiku-20240307",
		"api_key": "sk-explicit",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", caller.last.APIKey)
}

func TestHost_Invoke_FiresHooks(t *testing.T) {
	var nodeInvoke, nodeReturn, modelCall, modelReturn atomic.Int32

	hooks := domain.LifecycleHooks{
		OnNodeInvoke: func(ctx context.Context, e *domain.NodeEvent) {
			nodeInvoke.Add(1)
			assert.Equal(t, "Combine Texts", e.Node)
			assert.NotEmpty(t, e.InvocationID)
		},
		OnNodeReturn: func(ctx context.Context, e *domain.NodeEvent) {
			nodeReturn.Add(1)
			assert.False(t, e.IsError)
		},
		OnModelCall: func(ctx context.Context, e *domain.ModelEvent) {
			modelCall.Add(1)
			assert.Equal(t, "claude-3-haiku-20240307", e.Model)
		},
		OnModelReturn: func(ctx context.Context, e *domain.ModelEvent) {
			modelReturn.Add(1)
		},
	}

	host, err := canopy.New(canopy.WithCaller(&fakeCaller{reply: "merged"}), canopy.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, err = host.Invoke(context.Background(), "Combine Texts", map[string]any{
		"text_1":  "a",
		"text_2":  "b",
		"model":   "claude-3-haiku-20240307",
		"api_key": "sk-test",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), nodeInvoke.Load())
	assert.Equal(t, int32(1), nodeReturn.Load())
	assert.Equal(t, int32(1), modelCall.Load())
	assert.Equal(t, int32(1), modelReturn.Load())
}

func TestHost_Invoke_ModelErrorPropagates(t *testing.T) {
	apiErr := &claude.APIError{StatusCode: 429, Type: "rate_limit_error", Message: "slow down"}
	host, err := canopy.New(canopy.WithCaller(&fakeCaller{err: apiErr}))
	require.NoError(t, err)

	_, err = host.Invoke(context.Background(), "Transform Text", map[string]any{
		"text":    "x",
		"model":   "claude-3-haiku-20240307",
		"api_key": "sk-test",
	})
	require.Error(t, err)

	var got *claude.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 429, got.StatusCode)
}

func TestHost_Nodes_Manifest(t *testing.T) {
	host, err := canopy.New(canopy.WithCaller(&fakeCaller{}))
	require.NoError(t, err)

	manifests, err := host.Nodes()
	require.NoError(t, err)
	require.Len(t, manifests, 4)

	var describe canopy.NodeManifest
	for _, m := range manifests {
		if m.Name == "Describe Image" {
			describe = m
		}
	}
	require.NotEmpty(t, describe.Name)
	assert.Equal(t, "Claude", describe.Category)

	byName := make(map[string]canopy.FieldManifest)
	for _, f := range describe.Inputs {
		byName[f.Name] = f
	}

	assert.Equal(t, "image", byName["image"].Type)
	assert.True(t, byName["image"].Required)

	model := byName["model"]
	assert.Equal(t, "choice", model.Type)
	assert.NotEmpty(t, model.Choices)

	prompt := byName["prompt"]
	assert.False(t, prompt.Required)
	assert.Equal(t, "Describe this image in detail.", prompt.Default)
	assert.True(t, prompt.Multiline)

	require.Len(t, describe.Outputs, 1)
	assert.Equal(t, "description", describe.Outputs[0].Name)
	assert.Equal(t, "string", describe.Outputs[0].Type)
}
