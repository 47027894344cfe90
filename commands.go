package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// commandLocation controls where a command may be invoked. Persona
// channels are conversational: you talk to the persona by just typing, so
// /chat there would double up the conversation.
type commandLocation int

const (
	locationAnywhere commandLocation = iota
	locationGuildOnly
	locationOutsidePersonaChannels
)

type command struct {
	def      *discordgo.ApplicationCommand
	location commandLocation
	handler  func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// commandError annotates a failure with what was attempted and which
// persona (if any) was involved, so the error reply can stay in character.
type commandError struct {
	action  string
	persona string
	err     error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("%s: %v", e.action, e.err)
}

func (e *commandError) Unwrap() error { return e.err }

func cmdErr(persona, action string, err error) *commandError {
	return &commandError{action: action, persona: persona, err: err}
}

func commandTable() map[string]*command {
	table := make(map[string]*command)
	for _, c := range []*command{
		personaCommand(),
		chatCommand(),
		endChatCommand(),
		sessionsCommand(),
		imagineCommand(),
		videoCommand(),
		memoryCommand(),
		settingsCommand(),
		statusCommand(),
	} {
		table[c.def.Name] = c
	}
	return table
}

func (b *Bot) handleInteractionCreateSafe(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if err := b.handleInteractionCreate(s, i); err != nil {
		logger.Error("Error handling command /"+i.ApplicationCommandData().Name+", ", err)
		b.replyCommandError(s, i, err)
	}
}

func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	name := i.ApplicationCommandData().Name
	cmd, ok := b.commands[name]
	if !ok {
		return respondText(s, i, "Unknown command.", true)
	}

	logger.Info("Command /", name, " from user ", interactionUser(i).ID)

	if msg := b.locationError(cmd, s, i); msg != "" {
		return respondText(s, i, msg, true)
	}

	return cmd.handler(b, s, i)
}

// locationError returns a user-facing refusal when the command is not
// allowed where it was invoked, or "" when it may proceed.
func (b *Bot) locationError(cmd *command, s *discordgo.Session, i *discordgo.InteractionCreate) string {
	switch cmd.location {
	case locationGuildOnly:
		if i.GuildID == "" {
			return "This command only works in a server."
		}
	case locationOutsidePersonaChannels:
		if i.GuildID == "" {
			return ""
		}
		ctx, cancel := b.opContext()
		defer cancel()
		personaName, err := b.resolvePersonaChannel(ctx, s, i.ChannelID)
		if err != nil {
			logger.Error("Error resolving persona channel, ", err)
			return ""
		}
		if personaName != "" {
			return "This is " + personaName + "'s channel. Just type a message to talk here."
		}
	}
	return ""
}

func (b *Bot) replyCommandError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	action := "handling your command"
	persona := ""
	var cmdError *commandError
	if errors.As(err, &cmdError) {
		action = cmdError.action
		persona = cmdError.persona
	}

	content := fmt.Sprintf("Something went wrong while %s: %v", action, err)

	// Agent-side failures get a second pass through the service so the
	// reply can explain the problem, in character when a persona is known.
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		ctx, cancel := b.opContext()
		defer cancel()
		interpretation, ierr := b.agent.InterpretError(ctx, agentErr.Detail, action, persona)
		if ierr == nil && interpretation != "" {
			content = interpretation
		} else if ierr != nil {
			logger.Warn("Error interpretation failed, ", ierr)
		}
	}

	b.sendErrorReply(s, i, truncate(content, maxMessageLen))
}

// sendErrorReply works whether or not the interaction was already
// acknowledged: respond first, fall back to editing the deferred response.
func (b *Bot) sendErrorReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if err := respondText(s, i, content, true); err == nil {
		return
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		logger.Error("Error sending error reply, ", err)
	}
}

func (b *Bot) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.cfg.AgentTimeout)
}

func (b *Bot) videoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.cfg.VideoTimeout)
}

// --- interaction helpers ---

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func interactionDisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := interactionUser(i)
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// commandOptions flattens the interaction data into (subcommand, options).
// Top-level commands come back with an empty subcommand name.
func commandOptions(i *discordgo.InteractionCreate) (string, optionMap) {
	options := i.ApplicationCommandData().Options
	subcommand := ""
	if len(options) == 1 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		subcommand = options[0].Name
		options = options[0].Options
	}
	m := make(optionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return subcommand, m
}

func (m optionMap) text(name string) string {
	if opt, ok := m[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (m optionMap) integer(name string) (int64, bool) {
	if opt, ok := m[name]; ok {
		return opt.IntValue(), true
	}
	return 0, false
}

func (m optionMap) number(name string) (float64, bool) {
	if opt, ok := m[name]; ok {
		return opt.FloatValue(), true
	}
	return 0, false
}

func (m optionMap) boolean(name string) (bool, bool) {
	if opt, ok := m[name]; ok {
		return opt.BoolValue(), true
	}
	return false, false
}

// --- response helpers ---

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: truncate(content, maxMessageLen)}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func editResponseText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	content = truncate(content, maxMessageLen)
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func editResponseEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds})
	return err
}

// --- ready / registration ---

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info("Logged in as ", r.User.Username)

	if b.cfg.RegisterCommands {
		defs := make([]*discordgo.ApplicationCommand, 0, len(b.commands))
		for _, c := range b.commands {
			defs = append(defs, c.def)
		}
		if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.cfg.GuildID, defs); err != nil {
			logger.Error("Error registering commands, ", err)
		} else {
			logger.Info("Registered ", len(defs), " commands")
		}
	}

	ctx, cancel := b.opContext()
	defer cancel()
	if err := b.syncPersonaChannels(ctx, s); err != nil {
		logger.Error("Error syncing persona channels, ", err)
	}
}
