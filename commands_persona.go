package main

import (
	"github.com/bwmarrin/discordgo"
)

func personaCommand() *command {
	nameOpt := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: desc,
			Required:    true,
			MaxLength:   100,
		}
	}

	return &command{
		location: locationGuildOnly,
		handler:  handlePersona,
		def: &discordgo.ApplicationCommand{
			Name:        "persona",
			Description: "Manage AI personas",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new persona",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt("Persona name"),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "personality",
							Description: "Personality description",
							Required:    true,
							MaxLength:   2000,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "appearance",
							Description: "Visual appearance, used for image and video generation",
							MaxLength:   2000,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all personas",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show a persona's details",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt("Persona name")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a persona",
					Options: []*discordgo.ApplicationCommandOption{
						nameOpt("Current persona name"),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "new-name",
							Description: "New name",
							MaxLength:   100,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "personality",
							Description: "New personality description",
							MaxLength:   2000,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "appearance",
							Description: "New appearance description",
							MaxLength:   2000,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a persona and its channel",
					Options:     []*discordgo.ApplicationCommandOption{nameOpt("Persona name")},
				},
			},
		},
	}
}

func handlePersona(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	subcommand, opts := commandOptions(i)
	name := opts.text("name")

	switch subcommand {
	case "create":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		ctx, cancel := b.opContext()
		defer cancel()
		persona, err := b.agent.CreatePersona(ctx, PersonaCreate{
			Name:        name,
			Personality: opts.text("personality"),
			Appearance:  opts.text("appearance"),
		})
		if err != nil {
			return cmdErr("", "creating the persona", err)
		}
		if err := b.syncPersonaChannels(ctx, s); err != nil {
			logger.Error("Error syncing persona channels, ", err)
		}
		return editResponseEmbed(s, i, personaEmbed(persona))

	case "list":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		ctx, cancel := b.opContext()
		defer cancel()
		personas, err := b.agent.ListPersonas(ctx)
		if err != nil {
			return cmdErr("", "listing personas", err)
		}
		return editResponseEmbed(s, i, personaListEmbed(personas))

	case "info":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		ctx, cancel := b.opContext()
		defer cancel()
		persona, err := b.agent.GetPersona(ctx, name)
		if err != nil {
			if isNotFound(err) {
				return editResponseText(s, i, "No persona named "+name+".")
			}
			return cmdErr(name, "looking up the persona", err)
		}
		return editResponseEmbed(s, i, personaEmbed(persona))

	case "edit":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		ctx, cancel := b.opContext()
		defer cancel()
		update := PersonaUpdate{}
		if v := opts.text("new-name"); v != "" {
			update.Name = &v
		}
		if v := opts.text("personality"); v != "" {
			update.Personality = &v
		}
		if v := opts.text("appearance"); v != "" {
			update.Appearance = &v
		}
		persona, err := b.agent.UpdatePersona(ctx, name, update)
		if err != nil {
			if isNotFound(err) {
				return editResponseText(s, i, "No persona named "+name+".")
			}
			return cmdErr(name, "updating the persona", err)
		}
		if err := b.syncPersonaChannels(ctx, s); err != nil {
			logger.Error("Error syncing persona channels, ", err)
		}
		return editResponseEmbed(s, i, personaEmbed(persona))

	case "delete":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		ctx, cancel := b.opContext()
		defer cancel()
		if err := b.agent.DeletePersona(ctx, name); err != nil {
			if isNotFound(err) {
				return editResponseText(s, i, "No persona named "+name+".")
			}
			return cmdErr(name, "deleting the persona", err)
		}
		if err := b.syncPersonaChannels(ctx, s); err != nil {
			logger.Error("Error syncing persona channels, ", err)
		}
		return editResponseText(s, i, "Deleted persona "+name+".")

	default:
		return respondText(s, i, "Unknown subcommand.", true)
	}
}
