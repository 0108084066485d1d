package observability

import (
	"context"
	"sync"
	"time"

	"github.com/arvel0/canopy/pkg/domain"
)

// ModelCall is one recorded model API call.
type ModelCall struct {
	Node    string
	Model   string
	Elapsed time.Duration
	IsError bool
}

// Snapshot is a point-in-time view of the recorded activity.
type Snapshot struct {
	NodeInvocations map[string]int
	NodeErrors      map[string]int
	ModelCalls      []ModelCall
}

// TotalModelTime sums the elapsed time of all recorded model calls.
func (s Snapshot) TotalModelTime() time.Duration {
	var total time.Duration
	for _, call := range s.ModelCalls {
		total += call.Elapsed
	}
	return total
}

// Recorder aggregates lifecycle events. Safe for concurrent use.
type Recorder struct {
	mu              sync.Mutex
	nodeInvocations map[string]int
	nodeErrors      map[string]int
	modelCalls      []ModelCall
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		nodeInvocations: make(map[string]int),
		nodeErrors:      make(map[string]int),
	}
}

// Hooks returns lifecycle hooks that feed the recorder. Wire them into the
// host with canopy.WithLifecycleHooks.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeInvoke: func(ctx context.Context, e *domain.NodeEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.nodeInvocations[e.Node]++
		},
		OnNodeReturn: func(ctx context.Context, e *domain.NodeEvent) {
			if !e.IsError {
				return
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			r.nodeErrors[e.Node]++
		},
		OnModelReturn: func(ctx context.Context, e *domain.ModelEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.modelCalls = append(r.modelCalls, ModelCall{
				Node:    e.Node,
				Model:   e.Model,
				Elapsed: e.Elapsed,
				IsError: e.IsError,
			})
		},
	}
}

// Snapshot copies the recorded activity.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		NodeInvocations: make(map[string]int, len(r.nodeInvocations)),
		NodeErrors:      make(map[string]int, len(r.nodeErrors)),
		ModelCalls:      make([]ModelCall, len(r.modelCalls)),
	}
	for k, v := range r.nodeInvocations {
		snap.NodeInvocations[k] = v
	}
	for k, v := range r.nodeErrors {
		snap.NodeErrors[k] = v
	}
	copy(snap.ModelCalls, r.modelCalls)
	return snap
}

// Reset clears the recorded activity.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodeInvocations = make(map[string]int)
	r.nodeErrors = make(map[string]int)
	r.modelCalls = nil
}
