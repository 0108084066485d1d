package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvel0/canopy/pkg/adapters/memory"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleResult() *domain.Result {
	return &domain.Result{
		InvocationID: "inv-1",
		Node:         "Transform Text",
		Model:        "claude-3-haiku-20240307",
		Outputs:      map[string]any{"transformed_text": "a secret answer"},
		FinishedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestEncryption_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	key := generateKey(t)

	store := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: key,
	}))

	original := sampleResult()
	require.NoError(t, store.Save(ctx, original))

	// The backing store only sees the opaque envelope.
	raw, err := backing.Load(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "encrypted", raw.Node)
	assert.NotContains(t, raw.Outputs, "transformed_text")
	assert.Contains(t, raw.Outputs, "__encrypted__")

	// Loading through the middleware restores the real result.
	loaded, err := store.Load(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, original.Node, loaded.Node)
	assert.Equal(t, original.Model, loaded.Model)
	assert.Equal(t, "a secret answer", loaded.Outputs["transformed_text"])
}

func TestEncryption_KeyRotation(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	oldStore := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: oldKey,
	}))
	require.NoError(t, oldStore.Save(ctx, sampleResult()))

	rotated := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	}))

	loaded, err := rotated.Load(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "Transform Text", loaded.Node)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()

	writer := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: generateKey(t),
	}))
	require.NoError(t, writer.Save(ctx, sampleResult()))

	reader := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: generateKey(t),
	}))

	_, err := reader.Load(ctx, "inv-1")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryption_PlainResultRejected(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	require.NoError(t, backing.Save(ctx, sampleResult()))

	store := middleware.Chain(backing, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: generateKey(t),
	}))

	_, err := store.Load(ctx, "inv-1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
