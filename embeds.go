package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPersona = 0x5865F2
	colorMemory  = 0x57F287
	colorMedia   = 0xEB459E
	colorStatus  = 0xFEE75C
	colorError   = 0xED4245

	// Discord hard limits.
	maxMessageLen    = 2000
	maxEmbedFieldLen = 1024
	maxEmbedDescLen  = 4096
)

// runeCut returns the largest index <= max that falls on a rune boundary,
// so slicing at it never splits a multi-byte character.
func runeCut(s string, max int) int {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:runeCut(s, max)]
	}
	return s[:runeCut(s, max-1)] + "…"
}

// chunkMessage splits content into Discord-sized messages, preferring to
// break on line boundaries.
func chunkMessage(content string, max int) []string {
	if content == "" {
		return nil
	}
	var chunks []string
	for len(content) > max {
		cut := strings.LastIndex(content[:max], "\n")
		if cut <= 0 {
			cut = runeCut(content, max)
		}
		if cut == 0 {
			cut = max
		}
		chunks = append(chunks, strings.TrimRight(content[:cut], "\n"))
		content = strings.TrimLeft(content[cut:], "\n")
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}

func personaEmbed(p *Persona) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: p.Name,
		Color: colorPersona,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Personality",
				Value: truncate(p.Personality, maxEmbedFieldLen),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Created " + p.CreatedAt,
		},
	}
	if p.Appearance != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Appearance",
			Value: truncate(p.Appearance, maxEmbedFieldLen),
		})
	}
	return embed
}

func personaListEmbed(personas []Persona) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Personas",
		Color: colorPersona,
	}
	if len(personas) == 0 {
		embed.Description = "No personas yet. Create one with `/persona create`."
		return embed
	}
	for _, p := range personas {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  p.Name,
			Value: truncate(p.Personality, 200),
		})
	}
	return embed
}

func sessionListEmbed(personaName string, sessions []SessionInfo) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Sessions with " + personaName,
		Color: colorPersona,
	}
	if len(sessions) == 0 {
		embed.Description = "No active sessions."
		return embed
	}
	for _, s := range sessions {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  truncate(s.SessionID, 256),
			Value: fmt.Sprintf("%d events, started %s", s.EventCount, s.CreatedAt),
		})
	}
	return embed
}

func memoryListEmbed(personaName string, memories []Memory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Memories of " + personaName,
		Color: colorMemory,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /memory forget with a memory ID to remove one",
		},
	}
	if len(memories) == 0 {
		embed.Description = "Nothing remembered yet."
		return embed
	}
	var b strings.Builder
	for i, m := range memories {
		scope := "shared"
		if m.Scope["user_id"] != "" {
			scope = "personal"
		}
		fmt.Fprintf(&b, "%d. %s _(%s)_\n`%s`\n", i+1, truncate(m.Fact, 200), scope, truncate(m.ID, 120))
	}
	embed.Description = truncate(b.String(), maxEmbedDescLen)
	return embed
}

func settingsEmbed(s *GenerationSettings) *discordgo.MessageEmbed {
	chat := fmt.Sprintf(
		"temperature: %.2f\ntop_p: %.2f\ntop_k: %d\nmax_output_tokens: %d\npresence_penalty: %.2f\nfrequency_penalty: %.2f",
		s.Chat.Temperature, s.Chat.TopP, s.Chat.TopK, s.Chat.MaxOutputTokens,
		s.Chat.PresencePenalty, s.Chat.FrequencyPenalty,
	)
	image := fmt.Sprintf(
		"aspect_ratio: %s\noutput: %s\nimages per request: %d\ntemperature: %.2f\nperson_generation: %t",
		s.Image.AspectRatio, s.Image.OutputMimeType, s.Image.NumberOfImages,
		s.Image.Temperature, s.Image.PersonGeneration,
	)
	if s.Image.NegativePrompt != "" {
		image += "\nnegative_prompt: " + truncate(s.Image.NegativePrompt, 200)
	}

	return &discordgo.MessageEmbed{
		Title: "Generation settings: " + s.Name,
		Color: colorStatus,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Chat", Value: truncate(chat, maxEmbedFieldLen)},
			{Name: "Image", Value: truncate(image, maxEmbedFieldLen)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Updated " + s.UpdatedAt,
		},
	}
}

func settingsListEmbed(all []GenerationSettings) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Settings profiles",
		Color: colorStatus,
	}
	if len(all) == 0 {
		embed.Description = "No stored profiles. Everything runs on the service defaults."
		return embed
	}
	for _, s := range all {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: s.Name,
			Value: fmt.Sprintf("chat temp %.2f, image %s, %d images",
				s.Chat.Temperature, s.Image.AspectRatio, s.Image.NumberOfImages),
			Inline: true,
		})
	}
	return embed
}

func statusEmbed(health *HealthStatus, healthErr error, gatewayLatency time.Duration) *discordgo.MessageEmbed {
	agentField := &discordgo.MessageEmbedField{Name: "Agent service"}
	color := colorStatus
	if healthErr != nil {
		agentField.Value = "unreachable: " + truncate(healthErr.Error(), 500)
		color = colorError
	} else {
		agentField.Value = fmt.Sprintf("%s (%s)", health.Status, health.Service)
	}

	return &discordgo.MessageEmbed{
		Title: "Bot status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			agentField,
			{
				Name:  "Gateway latency",
				Value: gatewayLatency.Round(time.Millisecond).String(),
			},
		},
	}
}

func videoEmbed(v *GeneratedVideo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Video ready",
		URL:   v.VideoURL,
		Color: colorMedia,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: fmt.Sprintf("%ds", v.DurationSeconds), Inline: true},
			{Name: "Resolution", Value: v.Resolution, Inline: true},
			{Name: "Aspect ratio", Value: v.AspectRatio, Inline: true},
		},
		Description: truncate(v.Prompt, 500),
	}
}
