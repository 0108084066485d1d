package domain

import "time"

// Invocation is a single execution request for a named node.
// Inputs are the host-resolved values keyed by declared input name.
type Invocation struct {
	ID        string         `json:"id"`
	Node      string         `json:"node"`
	Inputs    map[string]any `json:"inputs,omitempty"`
	StartedAt time.Time      `json:"started_at"`
}

// Result records the outcome of an invocation.
// Outputs are keyed by the node's declared output names.
type Result struct {
	InvocationID string         `json:"invocation_id"`
	Node         string         `json:"node"`
	Model        string         `json:"model,omitempty"`
	Outputs      map[string]any `json:"outputs"`
	FinishedAt   time.Time      `json:"finished_at"`
}
