package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const memoryEmoji = "💾"

func (b *Bot) handleMessageReactionSafe(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	err := b.handleMessageReaction(s, r)
	if err != nil {
		logger.Error("Error handling reaction, ", err)
	}
}

// handleMessageReaction lets users bank the current channel conversation
// into long-term memory by reacting 💾 to one of the persona's replies.
// The session keeps going; only memories are extracted.
func (b *Bot) handleMessageReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) error {
	if r.UserID == s.State.User.ID {
		// Ignore own reaction
		return nil
	}

	if r.Emoji.Name != memoryEmoji {
		// Ignore unrecognised emoji
		return nil
	}

	ctx, cancel := b.opContext()
	defer cancel()

	personaName, err := b.resolvePersonaChannel(ctx, s, r.ChannelID)
	if err != nil {
		return err
	}
	if personaName == "" {
		return nil
	}

	message, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		return fmt.Errorf("retrieving reacted message: %w", err)
	}
	if message == nil || message.Author == nil || message.Author.ID != s.State.User.ID {
		// Only reactions to the persona's own replies count
		return nil
	}

	result, err := b.agent.GenerateChannelMemories(ctx, r.ChannelID, r.UserID)
	if err != nil {
		if isNotFound(err) {
			// No ongoing session in this channel, nothing to bank
			return nil
		}
		return fmt.Errorf("generating channel memories: %w", err)
	}

	logger.Info("Generated ", result.MemoriesGenerated, " memories from channel ", r.ChannelID)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s will remember this conversation", personaName),
		Color: colorMemory,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d memories kept", result.MemoriesGenerated),
		},
	}
	for idx, memory := range result.Memories {
		if idx >= 10 {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Memory #%d", idx+1),
			Value: truncate(memory.Fact, maxEmbedFieldLen),
		})
	}

	_, err = s.ChannelMessageSendEmbedReply(r.ChannelID, embed, &discordgo.MessageReference{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
	})
	return err
}
