package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvel0/canopy/pkg/adapters/memory"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/persistence/middleware"
)

func TestRedact_MasksMatchingKeys(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	store := middleware.Chain(backing, middleware.NewRedactMiddleware([]string{"(?i)api_key", "token"}))

	result := &domain.Result{
		InvocationID: "inv-2",
		Node:         "Combine Texts",
		Outputs: map[string]any{
			"combined_texts": "the combined text",
			"API_KEY":        "sk-leaked",
			"nested": map[string]any{
				"token": "abc",
				"kept":  "visible",
			},
		},
	}
	require.NoError(t, store.Save(ctx, result))

	stored, err := backing.Load(ctx, "inv-2")
	require.NoError(t, err)
	assert.Equal(t, "the combined text", stored.Outputs["combined_texts"])
	assert.Equal(t, "***", stored.Outputs["API_KEY"])

	nested := stored.Outputs["nested"].(map[string]any)
	assert.Equal(t, "***", nested["token"])
	assert.Equal(t, "visible", nested["kept"])
}

func TestRedact_OriginalUntouched(t *testing.T) {
	ctx := context.Background()
	store := middleware.Chain(memory.NewStore(), middleware.NewRedactMiddleware([]string{"api_key"}))

	result := &domain.Result{
		InvocationID: "inv-3",
		Node:         "Transform Text",
		Outputs:      map[string]any{"api_key": "sk-keep-me"},
	}
	require.NoError(t, store.Save(ctx, result))

	// The caller's copy keeps the raw value; only the stored copy is masked.
	assert.Equal(t, "sk-keep-me", result.Outputs["api_key"])
}

func TestChain_Order(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()

	store := middleware.Chain(backing,
		middleware.NewRedactMiddleware([]string{"secret"}),
	)

	require.NoError(t, store.Save(ctx, &domain.Result{
		InvocationID: "inv-4",
		Node:         "Describe Image",
		Outputs:      map[string]any{"secret": "x", "description": "a tree"},
	}))

	stored, err := store.Load(ctx, "inv-4")
	require.NoError(t, err)
	assert.Equal(t, "***", stored.Outputs["secret"])
	assert.Equal(t, "a tree", stored.Outputs["description"])
}
