package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/dsl"
	"github.com/aretw0/qtext/pkg/persistence/middleware"
	"github.com/aretw0/qtext/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretDoc(id string) *domain.Document {
	return dsl.New(id).Add("a").Text("my-secret-sauce", "BOLD").Done().Caret("a", 3).MustBuild()
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunDocumentStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	original := secretDoc("note")
	require.NoError(t, secure.Save(ctx, "note", original))

	stored, err := underlying.Load(ctx, "note")
	require.NoError(t, err)
	require.Len(t, stored.Content.Blocks, 1)
	assert.Equal(t, "__encrypted__", stored.Content.Blocks[0].Key)
	assert.False(t, strings.Contains(stored.Content.Blocks[0].Text, "secret"), "plaintext leaked into the envelope")
	assert.Nil(t, stored.InlineOverride)

	loaded, err := secure.Load(ctx, "note")
	require.NoError(t, err)
	assert.True(t, original.Content.Equal(loaded.Content))
	assert.Equal(t, original.Selection, loaded.Selection)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "doc", secretDoc("doc")))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Load(ctx, "doc")
	require.NoError(t, err, "fallback key should decrypt old data")
	assert.Equal(t, "my-secret-sauce", loaded.Content.Blocks[0].Text)

	require.NoError(t, newStore.Save(ctx, "doc", loaded))
	_, err = oldStore.Load(ctx, "doc")
	assert.Error(t, err, "old key cannot read data sealed with the new key")
}

func TestEncryptionMiddleware_PlainDocument(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", secretDoc("plain")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}
