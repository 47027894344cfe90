package main

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleMessageCreateSafe(s *discordgo.Session, m *discordgo.MessageCreate) {
	err := b.handleMessageCreate(s, m)
	if err != nil {
		logger.Error("Error handling message, ", err)
	}
}

// handleMessageCreate turns plain messages in persona channels into chat
// calls. Everything else is ignored; DMs and regular channels go through
// /chat instead.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) error {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return nil
	}
	if m.GuildID == "" || strings.TrimSpace(m.Content) == "" {
		return nil
	}

	ctx, cancel := b.opContext()
	defer cancel()

	personaName, err := b.resolvePersonaChannel(ctx, s, m.ChannelID)
	if err != nil {
		return err
	}
	if personaName == "" {
		return nil
	}

	logger.Info("Channel message for ", personaName, " from user ", m.Author.ID)

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		logger.Warn("Error sending typing indicator, ", err)
	}

	resp, err := b.agent.Chat(ctx, ChatRequest{
		PersonaName:     personaName,
		UserID:          m.Author.ID,
		Message:         m.Content,
		UserDisplayName: memberDisplayName(m),
		IsChannelChat:   true,
		ChannelID:       m.ChannelID,
	})
	if err != nil {
		b.sendChannelError(s, m, personaName, err)
		return err
	}

	// The persona may decide the conversation doesn't involve it.
	if !resp.ShouldRespond || strings.TrimSpace(resp.Response) == "" {
		logger.Info(personaName, " chose not to respond in channel ", m.ChannelID)
		return nil
	}

	if resp.MemoriesSaved > 0 {
		logger.Info("Saved ", resp.MemoriesSaved, " memories during channel chat")
	}

	chunks := chunkMessage(resp.Response, maxMessageLen)
	for idx, chunk := range chunks {
		var sendErr error
		if idx == 0 {
			_, sendErr = s.ChannelMessageSendReply(m.ChannelID, chunk, m.Reference())
		} else {
			_, sendErr = s.ChannelMessageSend(m.ChannelID, chunk)
		}
		if sendErr != nil {
			return sendErr
		}
	}
	return nil
}

// sendChannelError surfaces an agent failure in the channel, in character
// when the service can manage it.
func (b *Bot) sendChannelError(s *discordgo.Session, m *discordgo.MessageCreate, personaName string, err error) {
	content := "I couldn't reach my brain just now. Try again in a moment."

	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		ctx, cancel := b.opContext()
		defer cancel()
		interpretation, ierr := b.agent.InterpretError(ctx, agentErr.Detail, "replying in a persona channel", personaName)
		if ierr == nil && interpretation != "" {
			content = interpretation
		}
	}

	if _, serr := s.ChannelMessageSendReply(m.ChannelID, truncate(content, maxMessageLen), m.Reference()); serr != nil {
		logger.Error("Error sending channel error reply, ", serr)
	}
}

func memberDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
