package canopy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arvel0/canopy/internal/logging"
	"github.com/arvel0/canopy/pkg/adapters/memory"
	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/ports"
	"github.com/arvel0/canopy/pkg/registry"
	"github.com/arvel0/canopy/pkg/schema"
)

// Version is the module version reported by adapters and the CLI.
var Version = "0.2.0"

// Host is the high-level entry point for the Canopy library.
// It wires the node registry, the model caller, and the result store behind
// a single Invoke call.
type Host struct {
	registry *registry.Registry
	caller   claude.Caller
	store    ports.ResultStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	apiKey   string
}

// Option defines a functional option for configuring the Host.
type Option func(*Host)

// WithCaller injects a custom model caller, bypassing the default client.
func WithCaller(c claude.Caller) Option {
	return func(h *Host) { h.caller = c }
}

// WithResultStore injects a result store (default: in-memory).
func WithResultStore(s ports.ResultStore) Option {
	return func(h *Host) { h.store = s }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(h *Host) { h.hooks = hooks }
}

// WithLogger sets a custom structured logger for the host.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithRegistry injects a custom node registry (default: the four Claude nodes).
func WithRegistry(r *registry.Registry) Option {
	return func(h *Host) { h.registry = r }
}

// WithAPIKey sets a fallback API key used when the graph does not wire one
// into the node's api_key input.
func WithAPIKey(key string) Option {
	return func(h *Host) { h.apiKey = key }
}

// New initializes a new Canopy Host.
func New(opts ...Option) (*Host, error) {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}

	if h.registry == nil {
		h.registry = registry.Default()
	}
	if h.caller == nil {
		h.caller = claude.New()
	}
	if h.store == nil {
		h.store = memory.NewStore()
	}
	if h.logger == nil {
		h.logger = logging.NewNop()
	}
	return h, nil
}

// Registry returns the node registry backing this host.
func (h *Host) Registry() *registry.Registry { return h.registry }

// Store returns the result store backing this host.
func (h *Host) Store() ports.ResultStore { return h.store }

// Invoke resolves inputs against the node's declared schema, executes the
// node, persists the result, and returns it. Validation failures surface as
// *schema.AggregateError before any model call; model failures propagate
// unmodified from the helper.
func (h *Host) Invoke(ctx context.Context, nodeName string, inputs map[string]any) (*domain.Result, error) {
	inv := domain.Invocation{
		ID:        uuid.NewString(),
		Node:      nodeName,
		Inputs:    inputs,
		StartedAt: time.Now().UTC(),
	}

	caller := &hookedCaller{
		inner: h.caller,
		hooks: h.hooks,
		node:  nodeName,
		invID: inv.ID,
	}
	node, err := h.registry.Node(nodeName, caller)
	if err != nil {
		return nil, err
	}

	if h.apiKey != "" {
		if _, ok := inputs["api_key"]; !ok {
			if _, declared := node.Inputs().Get("api_key"); declared {
				withKey := make(map[string]any, len(inputs)+1)
				for k, v := range inputs {
					withKey[k] = v
				}
				withKey["api_key"] = h.apiKey
				inputs = withKey
			}
		}
	}

	resolved, err := schema.Resolve(node.Inputs(), inputs)
	if err != nil {
		return nil, err
	}

	fireNodeEvent(ctx, h.hooks.OnNodeInvoke, domain.EventNodeInvoke, inv.ID, nodeName, false)

	outputs, err := node.Execute(ctx, resolved)
	fireNodeEvent(ctx, h.hooks.OnNodeReturn, domain.EventNodeReturn, inv.ID, nodeName, err != nil)
	if err != nil {
		return nil, err
	}

	result := &domain.Result{
		InvocationID: inv.ID,
		Node:         nodeName,
		Outputs:      outputs,
		FinishedAt:   time.Now().UTC(),
	}
	if model, ok := resolved["model"].(string); ok {
		result.Model = model
	}

	// The model call already succeeded and cost money; a store failure is
	// logged, not returned.
	if err := h.store.Save(ctx, result); err != nil {
		h.logger.Warn("failed to persist result", "invocation_id", inv.ID, "err", err)
	}

	return result, nil
}

func fireNodeEvent(ctx context.Context, hook func(context.Context, *domain.NodeEvent), typ domain.EventType, invID, node string, isErr bool) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp:    time.Now().UTC(),
			Type:         typ,
			InvocationID: invID,
		},
		Node:    node,
		IsError: isErr,
	})
}

// hookedCaller wraps the model caller with lifecycle hooks.
type hookedCaller struct {
	inner claude.Caller
	hooks domain.LifecycleHooks
	node  string
	invID string
}

func (c *hookedCaller) RunPrompt(ctx context.Context, req claude.PromptRequest) (string, error) {
	c.fireCall(ctx, req.Model)
	start := time.Now()
	out, err := c.inner.RunPrompt(ctx, req)
	c.fireReturn(ctx, req.Model, time.Since(start), err != nil)
	return out, err
}

func (c *hookedCaller) DescribeImage(ctx context.Context, req claude.VisionRequest) (string, error) {
	c.fireCall(ctx, req.Model)
	start := time.Now()
	out, err := c.inner.DescribeImage(ctx, req)
	c.fireReturn(ctx, req.Model, time.Since(start), err != nil)
	return out, err
}

func (c *hookedCaller) fireCall(ctx context.Context, model string) {
	if c.hooks.OnModelCall == nil {
		return
	}
	c.hooks.OnModelCall(ctx, &domain.ModelEvent{
		EventBase: domain.EventBase{
			Timestamp:    time.Now().UTC(),
			Type:         domain.EventModelCall,
			InvocationID: c.invID,
		},
		Node:  c.node,
		Model: model,
	})
}

func (c *hookedCaller) fireReturn(ctx context.Context, model string, elapsed time.Duration, isErr bool) {
	if c.hooks.OnModelReturn == nil {
		return
	}
	c.hooks.OnModelReturn(ctx, &domain.ModelEvent{
		EventBase: domain.EventBase{
			Timestamp:    time.Now().UTC(),
			Type:         domain.EventModelReturn,
			InvocationID: c.invID,
		},
		Node:    c.node,
		Model:   model,
		Elapsed: elapsed,
		IsError: isErr,
	})
}
