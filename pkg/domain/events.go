package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeInvoke  EventType = "node_invoke"
	EventNodeReturn  EventType = "node_return"
	EventModelCall   EventType = "model_call"
	EventModelReturn EventType = "model_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	InvocationID string    `json:"invocation_id"`
}

// NodeEvent represents the start or end of a node execution.
type NodeEvent struct {
	EventBase
	Node    string `json:"node"`
	IsError bool   `json:"is_error,omitempty"`
}

// ModelEvent represents an outbound model API call.
type ModelEvent struct {
	EventBase
	Node    string        `json:"node"`
	Model   string        `json:"model"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	IsError bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for host observability.
// All hooks are optional; nil hooks are skipped.
type LifecycleHooks struct {
	OnNodeInvoke  func(context.Context, *NodeEvent)
	OnNodeReturn  func(context.Context, *NodeEvent)
	OnModelCall   func(context.Context, *ModelEvent)
	OnModelReturn func(context.Context, *ModelEvent)
}
