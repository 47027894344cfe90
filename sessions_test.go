package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessionStore(time.Hour)

	got, err := store.Get(ctx, "user-1", "Mika")
	require.NoError(t, err)
	assert.Empty(t, got, "unknown key should come back empty, not error")

	require.NoError(t, store.Set(ctx, "user-1", "Mika", "sess-1"))

	got, err = store.Get(ctx, "user-1", "Mika")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got)

	// Same user, different persona is a different conversation.
	got, err = store.Get(ctx, "user-1", "Rex")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Delete(ctx, "user-1", "Mika"))
	got, err = store.Get(ctx, "user-1", "Mika")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessionStore(time.Minute)

	current := time.Unix(1_000_000, 0)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "user-1", "Mika", "sess-1"))

	current = current.Add(59 * time.Second)
	got, err := store.Get(ctx, "user-1", "Mika")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got)

	current = current.Add(2 * time.Second)
	got, err = store.Get(ctx, "user-1", "Mika")
	require.NoError(t, err)
	assert.Empty(t, got, "expired entry should be gone")
}

func TestMemorySessionStoreRejectsEmptyID(t *testing.T) {
	store := newMemorySessionStore(time.Hour)
	assert.Error(t, store.Set(context.Background(), "user-1", "Mika", ""))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "chatsession:u1:Mika", sessionKey("u1", "Mika"))
}
