package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvel0/canopy"
	"github.com/arvel0/canopy/pkg/claude"
)

type fakeCaller struct {
	reply      string
	err        error
	lastPrompt claude.PromptRequest
	lastVision claude.VisionRequest
}

func (f *fakeCaller) RunPrompt(ctx context.Context, req claude.PromptRequest) (string, error) {
	f.lastPrompt = req
	return f.reply, f.err
}

func (f *fakeCaller) DescribeImage(ctx context.Context, req claude.VisionRequest) (string, error) {
	f.lastVision = req
	return f.reply, f.err
}

func newTestHandler(t *testing.T, caller claude.Caller) (http.Handler, *canopy.Host) {
	t.Helper()
	host, err := canopy.New(canopy.WithCaller(caller))
	require.NoError(t, err)
	return NewHandler(host), host
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, canopy.Version, resp["version"])
}

func TestListNodes(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "GET", "/nodes", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Nodes []canopy.NodeManifest `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 4)

	names := make([]string, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		names = append(names, n.Name)
	}
	assert.Contains(t, names, "Describe Image")
	assert.Contains(t, names, "Classify Image")
}

func TestGetNode(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "GET", "/nodes/Transform%20Text", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var manifest canopy.NodeManifest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &manifest))
	assert.Equal(t, "Transform Text", manifest.Name)
	assert.Equal(t, "Claude", manifest.Category)
	assert.NotEmpty(t, manifest.Inputs)
}

func TestGetNode_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "GET", "/nodes/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvoke(t *testing.T) {
	caller := &fakeCaller{reply: "a shorter text"}
	handler, host := newTestHandler(t, caller)

	rr := doJSON(t, handler, "POST", "/nodes/Transform%20Text/invoke", map[string]any{
		"inputs": map[string]any{
			"text":    "a long text",
			"prompt":  "Shorten the following text.",
			"model":   "claude-3-haiku-20240307",
			"api_key": "sk-test",
		},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result struct {
		InvocationID string         `json:"invocation_id"`
		Node         string         `json:"node"`
		Outputs      map[string]any `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "Transform Text", result.Node)
	assert.Equal(t, "a shorter text", result.Outputs["transformed_text"])
	assert.Contains(t, caller.lastPrompt.Prompt, "a long text")

	// The result is also retrievable through the store routes.
	rr = doJSON(t, handler, "GET", "/results/"+result.InvocationID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	ids, err := host.Store().List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, result.InvocationID)
}

func TestInvoke_ImageInput(t *testing.T) {
	caller := &fakeCaller{reply: "a red square"}
	handler, _ := newTestHandler(t, caller)

	png := append([]byte("\x89PNG\r\n\x1a\n"), []byte("pixels")...)
	rr := doJSON(t, handler, "POST", "/nodes/Describe%20Image/invoke", map[string]any{
		"inputs": map[string]any{
			"image": map[string]any{
				"data": base64.StdEncoding.EncodeToString(png),
			},
			"model":   "claude-3-7-sonnet-20250219",
			"api_key": "sk-test",
		},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.NotNil(t, caller.lastVision.Image)
	assert.Equal(t, "image/png", caller.lastVision.Image.MediaType)
	assert.Equal(t, png, caller.lastVision.Image.Data)
}

func TestInvoke_BadImagePayload(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "POST", "/nodes/Describe%20Image/invoke", map[string]any{
		"inputs": map[string]any{
			"image":   map[string]any{"data": "not base64!!"},
			"model":   "claude-3-7-sonnet-20250219",
			"api_key": "sk-test",
		},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "base64")
}

func TestInvoke_ValidationError(t *testing.T) {
	caller := &fakeCaller{reply: "unused"}
	handler, _ := newTestHandler(t, caller)

	rr := doJSON(t, handler, "POST", "/nodes/Transform%20Text/invoke", map[string]any{
		"inputs": map[string]any{"api_key": "sk-test"},
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Details)

	// Validation failures never reach the model.
	assert.Empty(t, caller.lastPrompt.Model)
}

func TestInvoke_ModelFailure(t *testing.T) {
	caller := &fakeCaller{err: &claude.APIError{StatusCode: 529, Type: "overloaded_error", Message: "Overloaded"}}
	handler, _ := newTestHandler(t, caller)

	rr := doJSON(t, handler, "POST", "/nodes/Transform%20Text/invoke", map[string]any{
		"inputs": map[string]any{"text": "hello", "model": "claude-3-haiku-20240307", "api_key": "sk-test"},
	})
	require.Equal(t, http.StatusBadGateway, rr.Code)

	var resp struct {
		Upstream claude.APIError `json:"upstream"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 529, resp.Upstream.StatusCode)
	assert.Equal(t, "overloaded_error", resp.Upstream.Type)
}

func TestListModels(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	rr := doJSON(t, handler, "GET", "/models", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Models  []string `json:"models"`
		Default string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, claude.Models, resp.Models)
	assert.Equal(t, claude.DefaultVisionModel, resp.Default)
}

func TestDeleteResult(t *testing.T) {
	caller := &fakeCaller{reply: "out"}
	handler, _ := newTestHandler(t, caller)

	rr := doJSON(t, handler, "POST", "/nodes/Transform%20Text/invoke", map[string]any{
		"inputs": map[string]any{"text": "hello", "model": "claude-3-haiku-20240307", "api_key": "sk-test"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		InvocationID string `json:"invocation_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	rr = doJSON(t, handler, "DELETE", "/results/"+result.InvocationID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, handler, "GET", "/results/"+result.InvocationID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	caller := &fakeCaller{reply: "out"}
	metrics := NewMetrics()
	host, err := canopy.New(
		canopy.WithCaller(caller),
		canopy.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)
	handler := NewHandler(host, WithMetrics(metrics))

	rr := doJSON(t, handler, "POST", "/nodes/Transform%20Text/invoke", map[string]any{
		"inputs": map[string]any{"text": "hello", "model": "claude-3-haiku-20240307", "api_key": "sk-test"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, handler, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "canopy_node_invocations_total")
	assert.Contains(t, rr.Body.String(), `node="Transform Text"`)
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeCaller{})

	req := httptest.NewRequest("OPTIONS", "/nodes", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
