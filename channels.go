package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// personaCache remembers which persona (if any) a channel belongs to.
// Entries expire after a short TTL so renames and deletions on the agent
// side are picked up without restarting the bot. Negative lookups are
// cached too, otherwise every message in unrelated channels would hit the
// agent service.
type personaCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]personaCacheEntry

	now func() time.Time
}

type personaCacheEntry struct {
	personaName string
	expiresAt   time.Time
}

func newPersonaCache(ttl time.Duration) *personaCache {
	return &personaCache{
		ttl:     ttl,
		entries: make(map[string]personaCacheEntry),
		now:     time.Now,
	}
}

func (c *personaCache) get(channelID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[channelID]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, channelID)
		return "", false
	}
	return entry.personaName, true
}

func (c *personaCache) put(channelID, personaName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[channelID] = personaCacheEntry{
		personaName: personaName,
		expiresAt:   c.now().Add(c.ttl),
	}
}

func (c *personaCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]personaCacheEntry)
}

// channelSlug converts a persona name to the Discord channel name used for
// it: lowercase, spaces to dashes, anything outside [a-z0-9-] dropped.
func channelSlug(personaName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(personaName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// resolvePersonaChannel returns the persona a channel is dedicated to, or
// "" when it is a regular channel. Results come from the cache when fresh.
func (b *Bot) resolvePersonaChannel(ctx context.Context, s *discordgo.Session, channelID string) (string, error) {
	if b.cfg.PersonaCategoryID == "" {
		return "", nil
	}

	if name, ok := b.personas.get(channelID); ok {
		return name, nil
	}

	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			return "", fmt.Errorf("fetching channel %s: %w", channelID, err)
		}
	}

	if channel.ParentID != b.cfg.PersonaCategoryID || channel.Type != discordgo.ChannelTypeGuildText {
		b.personas.put(channelID, "")
		return "", nil
	}

	personas, err := b.agent.ListPersonas(ctx)
	if err != nil {
		return "", fmt.Errorf("listing personas: %w", err)
	}

	for _, p := range personas {
		if channelSlug(p.Name) == channel.Name {
			b.personas.put(channelID, p.Name)
			return p.Name, nil
		}
	}

	b.personas.put(channelID, "")
	return "", nil
}

// syncPersonaChannels makes the channels under the persona category mirror
// the persona list: one text channel per persona, stale channels removed.
// Runs on Ready and after persona create/edit/delete.
func (b *Bot) syncPersonaChannels(ctx context.Context, s *discordgo.Session) error {
	if b.cfg.PersonaCategoryID == "" || b.cfg.GuildID == "" {
		return nil
	}

	personas, err := b.agent.ListPersonas(ctx)
	if err != nil {
		return fmt.Errorf("listing personas: %w", err)
	}

	wanted := make(map[string]Persona, len(personas))
	for _, p := range personas {
		slug := channelSlug(p.Name)
		if slug == "" {
			logger.Warn("Persona name produces empty channel slug, skipping: ", p.Name)
			continue
		}
		wanted[slug] = p
	}

	channels, err := s.GuildChannels(b.cfg.GuildID)
	if err != nil {
		return fmt.Errorf("listing guild channels: %w", err)
	}

	existing := make(map[string]*discordgo.Channel)
	for _, ch := range channels {
		if ch.ParentID == b.cfg.PersonaCategoryID && ch.Type == discordgo.ChannelTypeGuildText {
			existing[ch.Name] = ch
		}
	}

	for slug, persona := range wanted {
		if _, ok := existing[slug]; ok {
			continue
		}
		created, err := s.GuildChannelCreateComplex(b.cfg.GuildID, discordgo.GuildChannelCreateData{
			Name:     slug,
			Type:     discordgo.ChannelTypeGuildText,
			Topic:    truncate("Chat with "+persona.Name+": "+persona.Personality, 1024),
			ParentID: b.cfg.PersonaCategoryID,
		})
		if err != nil {
			logger.Error("Error creating persona channel ", slug, ", ", err)
			continue
		}
		logger.Info("Created persona channel ", created.Name, " (", created.ID, ")")
	}

	for slug, ch := range existing {
		if _, ok := wanted[slug]; ok {
			continue
		}
		if _, err := s.ChannelDelete(ch.ID); err != nil {
			logger.Error("Error deleting stale persona channel ", slug, ", ", err)
			continue
		}
		logger.Info("Deleted stale persona channel ", slug)
	}

	b.personas.invalidate()
	return nil
}
