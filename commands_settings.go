package main

import (
	"github.com/bwmarrin/discordgo"
)

const defaultSettingsName = "default"

func settingsCommand() *command {
	nameOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "persona",
		Description: "Persona the settings apply to (omit for the shared defaults)",
	}

	f64 := func(v float64) *float64 { return &v }

	return &command{
		location: locationAnywhere,
		handler:  handleSettings,
		def: &discordgo.ApplicationCommand{
			Name:        "settings",
			Description: "View or tune generation settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show current generation settings",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all stored settings profiles",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset generation settings to the service defaults",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "chat",
					Description: "Tune chat generation",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt,
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "temperature",
							Description: "Randomness, 0.0 to 2.0",
							MinValue:    f64(0),
							MaxValue:    2,
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "top-p",
							Description: "Nucleus sampling mass, 0.0 to 1.0",
							MinValue:    f64(0),
							MaxValue:    1,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "top-k",
							Description: "Top-K sampling, 0 disables",
							MinValue:    f64(0),
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max-tokens",
							Description: "Maximum response tokens",
							MinValue:    f64(1),
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "presence-penalty",
							Description: "Penalize tokens already present, -2.0 to 2.0",
							MinValue:    f64(-2),
							MaxValue:    2,
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "frequency-penalty",
							Description: "Penalize frequent tokens, -2.0 to 2.0",
							MinValue:    f64(-2),
							MaxValue:    2,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "image",
					Description: "Tune image generation",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "aspect-ratio",
							Description: "Default aspect ratio",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "images",
							Description: "Images per request, 1 to 4",
							MinValue:    f64(1),
							MaxValue:    4,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "negative-prompt",
							Description: "What to keep out of images",
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "temperature",
							Description: "Creativity, 0.0 to 2.0",
							MinValue:    f64(0),
							MaxValue:    2,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "people",
							Description: "Allow generating people and faces",
						},
					},
				},
			},
		},
	}
}

func handleSettings(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	subcommand, opts := commandOptions(i)
	name := opts.text("persona")
	if name == "" {
		name = defaultSettingsName
	}

	ctx, cancel := b.opContext()
	defer cancel()

	switch subcommand {
	case "view":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		settings, err := b.agent.GetSettings(ctx, name)
		if err != nil {
			return cmdErr(name, "fetching generation settings", err)
		}
		return editResponseEmbed(s, i, settingsEmbed(settings))

	case "list":
		if err := deferResponse(s, i, true); err != nil {
			return err
		}
		all, err := b.agent.ListSettings(ctx)
		if err != nil {
			return cmdErr("", "listing settings profiles", err)
		}
		return editResponseEmbed(s, i, settingsListEmbed(all))

	case "reset":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		settings, err := b.agent.ResetSettings(ctx, name)
		if err != nil {
			return cmdErr(name, "resetting generation settings", err)
		}
		return editResponseEmbed(s, i, settingsEmbed(settings))

	case "chat":
		update := ChatSettingsUpdate{}
		touched := false
		if v, ok := opts.number("temperature"); ok {
			update.Temperature, touched = &v, true
		}
		if v, ok := opts.number("top-p"); ok {
			update.TopP, touched = &v, true
		}
		if v, ok := opts.integer("top-k"); ok {
			n := int(v)
			update.TopK, touched = &n, true
		}
		if v, ok := opts.integer("max-tokens"); ok {
			n := int(v)
			update.MaxOutputTokens, touched = &n, true
		}
		if v, ok := opts.number("presence-penalty"); ok {
			update.PresencePenalty, touched = &v, true
		}
		if v, ok := opts.number("frequency-penalty"); ok {
			update.FrequencyPenalty, touched = &v, true
		}
		if !touched {
			return respondText(s, i, "Nothing to change. Pass at least one setting.", true)
		}
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		settings, err := b.agent.UpdateSettings(ctx, name, SettingsUpdate{Chat: &update})
		if err != nil {
			return cmdErr(name, "updating chat settings", err)
		}
		return editResponseEmbed(s, i, settingsEmbed(settings))

	case "image":
		update := ImageSettingsUpdate{}
		touched := false
		if v := opts.text("aspect-ratio"); v != "" {
			update.AspectRatio, touched = &v, true
		}
		if v, ok := opts.integer("images"); ok {
			n := int(v)
			update.NumberOfImages, touched = &n, true
		}
		if v := opts.text("negative-prompt"); v != "" {
			update.NegativePrompt, touched = &v, true
		}
		if v, ok := opts.number("temperature"); ok {
			update.Temperature, touched = &v, true
		}
		if v, ok := opts.boolean("people"); ok {
			update.PersonGeneration, touched = &v, true
		}
		if !touched {
			return respondText(s, i, "Nothing to change. Pass at least one setting.", true)
		}
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		settings, err := b.agent.UpdateSettings(ctx, name, SettingsUpdate{Image: &update})
		if err != nil {
			return cmdErr(name, "updating image settings", err)
		}
		return editResponseEmbed(s, i, settingsEmbed(settings))

	default:
		return respondText(s, i, "Unknown subcommand.", true)
	}
}

func statusCommand() *command {
	return &command{
		location: locationAnywhere,
		handler:  handleStatus,
		def: &discordgo.ApplicationCommand{
			Name:        "status",
			Description: "Bot and agent service health",
		},
	}
}

func handleStatus(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := deferResponse(s, i, true); err != nil {
		return err
	}

	ctx, cancel := b.opContext()
	defer cancel()

	health, err := b.agent.Health(ctx)
	if err != nil {
		logger.Error("Agent health check failed, ", err)
	}
	return editResponseEmbed(s, i, statusEmbed(health, err, s.HeartbeatLatency()))
}
