package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChannelSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Mika", "mika"},
		{"Captain Rex", "captain-rex"},
		{"  Dr. Strange  ", "dr-strange"},
		{"snake_case_name", "snake-case-name"},
		{"ALLCAPS", "allcaps"},
		{"emoji 🤖 bot", "emoji-bot"},
		{"---", ""},
		{"日本語", ""},
		{"Zoe-2", "zoe-2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, channelSlug(tt.name), "slug of %q", tt.name)
	}
}

func TestPersonaCache(t *testing.T) {
	cache := newPersonaCache(30 * time.Second)
	current := time.Unix(1_000_000, 0)
	cache.now = func() time.Time { return current }

	_, ok := cache.get("chan-1")
	assert.False(t, ok)

	cache.put("chan-1", "Mika")
	cache.put("chan-2", "") // negative entry

	name, ok := cache.get("chan-1")
	assert.True(t, ok)
	assert.Equal(t, "Mika", name)

	name, ok = cache.get("chan-2")
	assert.True(t, ok, "negative lookups are cached too")
	assert.Empty(t, name)

	current = current.Add(31 * time.Second)
	_, ok = cache.get("chan-1")
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestPersonaCacheInvalidate(t *testing.T) {
	cache := newPersonaCache(time.Hour)
	cache.put("chan-1", "Mika")
	cache.invalidate()

	_, ok := cache.get("chan-1")
	assert.False(t, ok)
}
