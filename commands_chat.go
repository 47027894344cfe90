package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func chatCommand() *command {
	return &command{
		location: locationOutsidePersonaChannels,
		handler:  handleChat,
		def: &discordgo.ApplicationCommand{
			Name:        "chat",
			Description: "Talk to a persona",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "persona",
					Description: "Persona to talk to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What to say",
					Required:    true,
					MaxLength:   4000,
				},
			},
		},
	}
}

func endChatCommand() *command {
	return &command{
		location: locationAnywhere,
		handler:  handleEndChat,
		def: &discordgo.ApplicationCommand{
			Name:        "endchat",
			Description: "End a conversation and save what's worth remembering",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "persona",
					Description: "Persona to end the conversation with (not needed inside a persona channel)",
				},
			},
		},
	}
}

func sessionsCommand() *command {
	return &command{
		location: locationAnywhere,
		handler:  handleSessions,
		def: &discordgo.ApplicationCommand{
			Name:        "sessions",
			Description: "List your conversations with a persona",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "persona",
					Description: "Persona name",
					Required:    true,
				},
			},
		},
	}
}

func handleChat(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	personaName := opts.text("persona")
	message := opts.text("message")
	user := interactionUser(i)

	if err := deferResponse(s, i, false); err != nil {
		return err
	}

	ctx, cancel := b.opContext()
	defer cancel()

	sessionID, err := b.sessions.Get(ctx, user.ID, personaName)
	if err != nil {
		logger.Error("Error reading session store, ", err)
	}

	resp, err := b.agent.Chat(ctx, ChatRequest{
		PersonaName:     personaName,
		UserID:          user.ID,
		Message:         message,
		SessionID:       sessionID,
		UserDisplayName: interactionDisplayName(i),
	})
	if err != nil {
		if isNotFound(err) {
			return editResponseText(s, i, "No persona named "+personaName+". Try `/persona list`.")
		}
		return cmdErr(personaName, "talking to "+personaName, err)
	}

	if resp.SessionID != "" && resp.SessionID != sessionID {
		if err := b.sessions.Set(ctx, user.ID, personaName, resp.SessionID); err != nil {
			logger.Error("Error saving session id, ", err)
		}
	}

	reply := fmt.Sprintf("**%s**: %s\n\n**%s**: %s", interactionDisplayName(i), message, resp.PersonaName, resp.Response)
	chunks := chunkMessage(reply, maxMessageLen)
	if len(chunks) == 0 {
		return editResponseText(s, i, "(no response)")
	}
	if err := editResponseText(s, i, chunks[0]); err != nil {
		return err
	}
	for _, chunk := range chunks[1:] {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func handleEndChat(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	personaName := opts.text("persona")
	user := interactionUser(i)

	if err := deferResponse(s, i, false); err != nil {
		return err
	}

	ctx, cancel := b.opContext()
	defer cancel()

	// Inside a persona channel, ending the chat means wrapping up the
	// channel session: distill memories, then drop the session mapping.
	if i.GuildID != "" {
		channelPersona, err := b.resolvePersonaChannel(ctx, s, i.ChannelID)
		if err != nil {
			logger.Error("Error resolving persona channel, ", err)
		}
		if channelPersona != "" {
			return b.endChannelChat(ctx, s, i, channelPersona, user.ID)
		}
	}

	if personaName == "" {
		return editResponseText(s, i, "Say which persona: `/endchat persona:<name>`.")
	}

	sessionID, err := b.sessions.Get(ctx, user.ID, personaName)
	if err != nil {
		logger.Error("Error reading session store, ", err)
	}
	if sessionID == "" {
		return editResponseText(s, i, "No active conversation with "+personaName+".")
	}

	result, err := b.agent.EndSession(ctx, personaName, user.ID, sessionID, true)
	if err != nil {
		if isNotFound(err) {
			// Session vanished on the agent side; drop the stale pointer.
			if derr := b.sessions.Delete(ctx, user.ID, personaName); derr != nil {
				logger.Error("Error clearing session, ", derr)
			}
			return editResponseText(s, i, "That conversation was already gone.")
		}
		return cmdErr(personaName, "ending the conversation", err)
	}

	if err := b.sessions.Delete(ctx, user.ID, personaName); err != nil {
		logger.Error("Error clearing session, ", err)
	}

	return editResponseText(s, i, fmt.Sprintf(
		"Ended your conversation with %s. %d memories kept.",
		personaName, result.MemoriesGenerated,
	))
}

func handleSessions(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	personaName := opts.text("persona")
	user := interactionUser(i)

	if err := deferResponse(s, i, true); err != nil {
		return err
	}

	ctx, cancel := b.opContext()
	defer cancel()

	sessions, err := b.agent.ListSessions(ctx, personaName, user.ID)
	if err != nil {
		return cmdErr(personaName, "listing your sessions", err)
	}
	return editResponseEmbed(s, i, sessionListEmbed(personaName, sessions))
}

func (b *Bot) endChannelChat(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, personaName, userID string) error {
	generated, err := b.agent.GenerateChannelMemories(ctx, i.ChannelID, userID)
	if err != nil && !isNotFound(err) {
		return cmdErr(personaName, "saving memories from this channel", err)
	}

	deleted, err := b.agent.DeleteChannelSession(ctx, i.ChannelID)
	if err != nil {
		return cmdErr(personaName, "ending the channel conversation", err)
	}

	memories := 0
	if generated != nil {
		memories = generated.MemoriesGenerated
	}
	if !deleted.Deleted {
		return editResponseText(s, i, "No ongoing conversation in this channel.")
	}
	return editResponseText(s, i, fmt.Sprintf(
		"Wrapped up this conversation with %s. %d memories kept. A fresh one starts with your next message.",
		personaName, memories,
	))
}
