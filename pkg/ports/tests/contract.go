// Package tests provides reusable contract suites for ports implementations.
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/ports"
)

// ResultStoreContractTest is a reusable test suite that verifies an adapter
// complies with ports.ResultStore.
func ResultStoreContractTest(t *testing.T, store ports.ResultStore) {
	t.Helper()
	ctx := context.Background()

	result := &domain.Result{
		InvocationID: "inv-1",
		Node:         "Transform Text",
		Model:        "claude-3-haiku-20240307",
		Outputs:      map[string]any{"transformed_text": "hello"},
		FinishedAt:   time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Save_Load", func(t *testing.T) {
		if err := store.Save(ctx, result); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "inv-1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Node != result.Node || loaded.Model != result.Model {
			t.Errorf("loaded result mismatch: got %+v, want %+v", loaded, result)
		}
		if loaded.Outputs["transformed_text"] != "hello" {
			t.Errorf("outputs mismatch: %v", loaded.Outputs)
		}
	})

	t.Run("Load_Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, "inv-1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		// Mutating a loaded result must not leak back into the store.
		loaded.Outputs["transformed_text"] = "mutated"

		again, err := store.Load(ctx, "inv-1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if again.Outputs["transformed_text"] != "hello" {
			t.Error("store state was mutated through a loaded result")
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "does-not-exist")
		if !errors.Is(err, domain.ErrResultNotFound) {
			t.Errorf("expected ErrResultNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		second := &domain.Result{
			InvocationID: "inv-2",
			Node:         "Combine Texts",
			Outputs:      map[string]any{"combined_texts": "x"},
			FinishedAt:   time.Now().UTC(),
		}
		if err := store.Save(ctx, second); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		if !lookup["inv-1"] || !lookup["inv-2"] {
			t.Errorf("List missing saved IDs: %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "inv-1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "inv-1"); !errors.Is(err, domain.ErrResultNotFound) {
			t.Errorf("expected ErrResultNotFound after delete, got %v", err)
		}
		// Deleting a missing ID is not an error.
		if err := store.Delete(ctx, "already-gone"); err != nil {
			t.Errorf("Delete of missing ID failed: %v", err)
		}
	})
}
