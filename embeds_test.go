package main

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	cut := truncate(strings.Repeat("a", 50), 10)
	assert.Equal(t, 10, utf8.RuneCountInString(cut))
	assert.True(t, strings.HasSuffix(cut, "…"))

	// Multi-byte runes must never be split at the byte boundary.
	wide := truncate(strings.Repeat("日", 50), 10)
	assert.True(t, utf8.ValidString(wide))
	assert.LessOrEqual(t, utf8.RuneCountInString(wide), 10)
	assert.True(t, strings.HasSuffix(wide, "…"))

	mixed := truncate("héllo wörld"+strings.Repeat("é", 20), 12)
	assert.True(t, utf8.ValidString(mixed))
}

func TestChunkMessage(t *testing.T) {
	assert.Nil(t, chunkMessage("", 2000))

	single := chunkMessage("hello", 2000)
	require.Len(t, single, 1)
	assert.Equal(t, "hello", single[0])

	long := strings.Repeat("line one\n", 400) // ~3600 chars
	chunks := chunkMessage(long, 2000)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 2000)
		assert.NotEmpty(t, chunk)
	}
	// Chunks should break on line boundaries, not mid-line.
	assert.True(t, strings.HasSuffix(chunks[0], "line one"))

	unbroken := chunkMessage(strings.Repeat("x", 4500), 2000)
	assert.Len(t, unbroken, 3)

	// A wall of multi-byte runes with no newlines must still chunk into
	// valid UTF-8; 2000 is not a multiple of the 3-byte rune width.
	wide := chunkMessage(strings.Repeat("日", 1000), 2000)
	require.Greater(t, len(wide), 1)
	total := 0
	for _, chunk := range wide {
		assert.True(t, utf8.ValidString(chunk), "chunk split mid-rune")
		assert.LessOrEqual(t, len(chunk), 2000)
		total += utf8.RuneCountInString(chunk)
	}
	assert.Equal(t, 1000, total, "no runes lost while chunking")
}

func TestPersonaEmbed(t *testing.T) {
	embed := personaEmbed(&Persona{
		Name:        "Mika",
		Personality: "cheerful android",
		Appearance:  "silver hair",
		CreatedAt:   "2026-08-25T00:00:00+00:00",
	})

	assert.Equal(t, "Mika", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Personality", embed.Fields[0].Name)
	assert.Equal(t, "Appearance", embed.Fields[1].Name)

	noAppearance := personaEmbed(&Persona{Name: "Rex", Personality: "gruff"})
	assert.Len(t, noAppearance.Fields, 1)
}

func TestMemoryListEmbed(t *testing.T) {
	empty := memoryListEmbed("Mika", nil)
	assert.Contains(t, empty.Description, "Nothing remembered")

	memories := []Memory{
		{ID: "mem-1", Fact: "The user likes foxes", Scope: map[string]string{"persona_name": "Mika", "user_id": "u1"}},
		{ID: "mem-2", Fact: "The café opens at nine", Scope: map[string]string{"persona_name": "Mika"}},
	}
	embed := memoryListEmbed("Mika", memories)
	assert.Contains(t, embed.Description, "personal")
	assert.Contains(t, embed.Description, "shared")
	assert.Contains(t, embed.Description, "mem-1")
}

func TestStatusEmbed(t *testing.T) {
	healthy := statusEmbed(&HealthStatus{Status: "healthy", Service: "agent-service"}, nil, 42*time.Millisecond)
	assert.Equal(t, colorStatus, healthy.Color)
	assert.Contains(t, healthy.Fields[0].Value, "healthy")
	assert.Contains(t, healthy.Fields[1].Value, "42ms")

	down := statusEmbed(nil, errors.New("connection refused"), time.Millisecond)
	assert.Equal(t, colorError, down.Color)
	assert.Contains(t, down.Fields[0].Value, "unreachable")
}

func TestPersonaListEmbed(t *testing.T) {
	empty := personaListEmbed(nil)
	assert.Contains(t, empty.Description, "/persona create")

	embed := personaListEmbed([]Persona{
		{Name: "Mika", Personality: "cheerful"},
		{Name: "Rex", Personality: "gruff"},
	})
	assert.Len(t, embed.Fields, 2)
}
