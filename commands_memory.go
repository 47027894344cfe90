package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const memoryListLimit = 20

func memoryCommand() *command {
	personaOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "persona",
		Description: "Persona name",
		Required:    true,
	}

	return &command{
		location: locationAnywhere,
		handler:  handleMemory,
		def: &discordgo.ApplicationCommand{
			Name:        "memory",
			Description: "Manage what a persona remembers",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List a persona's memories",
					Options: []*discordgo.ApplicationCommandOption{
						personaOpt,
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "personal",
							Description: "Only memories about you (default: shared memories)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "query",
							Description: "Search memories by similarity",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Teach the persona a fact",
					Options: []*discordgo.ApplicationCommandOption{
						personaOpt,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "fact",
							Description: "The fact to remember",
							Required:    true,
							MaxLength:   2000,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "personal",
							Description: "Scope the memory to you instead of all users",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "forget",
					Description: "Delete one memory by ID (see /memory list)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "memory-id",
							Description: "Memory ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "wipe",
					Description: "Delete all of a persona's memories",
					Options: []*discordgo.ApplicationCommandOption{
						personaOpt,
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "personal",
							Description: "Only wipe memories about you",
						},
					},
				},
			},
		},
	}
}

func handleMemory(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	subcommand, opts := commandOptions(i)
	personaName := opts.text("persona")
	user := interactionUser(i)
	personal, _ := opts.boolean("personal")

	userID := ""
	if personal {
		userID = user.ID
	}

	ctx, cancel := b.opContext()
	defer cancel()

	switch subcommand {
	case "list":
		// Similarity search on the agent side can outlast Discord's 3s
		// ack window, so acknowledge before calling out.
		if err := deferResponse(s, i, true); err != nil {
			return err
		}
		memories, err := b.agent.ListMemories(ctx, personaName, userID, opts.text("query"), memoryListLimit)
		if err != nil {
			return cmdErr(personaName, "listing memories", err)
		}
		return editResponseEmbed(s, i, memoryListEmbed(personaName, memories))

	case "add":
		if err := deferResponse(s, i, false); err != nil {
			return err
		}
		memory, err := b.agent.CreateMemory(ctx, personaName, opts.text("fact"), userID)
		if err != nil {
			return cmdErr(personaName, "saving the memory", err)
		}
		scope := "Everyone the persona talks to will know it."
		if personal {
			scope = "Only conversations with you will use it."
		}
		return editResponseText(s, i, fmt.Sprintf("%s will remember: %s\n%s", personaName, truncate(memory.Fact, 500), scope))

	case "forget":
		if err := deferResponse(s, i, true); err != nil {
			return err
		}
		memoryID := opts.text("memory-id")
		deleted, err := b.agent.DeleteMemory(ctx, memoryID)
		if err != nil {
			return cmdErr(personaName, "deleting the memory", err)
		}
		if !deleted {
			return editResponseText(s, i, "No memory with that ID.")
		}
		return editResponseText(s, i, "Forgotten.")

	case "wipe":
		if err := deferResponse(s, i, true); err != nil {
			return err
		}
		result, err := b.agent.DeleteMemories(ctx, personaName, userID)
		if err != nil {
			return cmdErr(personaName, "wiping memories", err)
		}
		scope := "all users"
		if personal {
			scope = "you"
		}
		return editResponseText(s, i, fmt.Sprintf("Wiped %d memories of %s about %s.", result.DeletedCount, personaName, scope))

	default:
		return respondText(s, i, "Unknown subcommand.", true)
	}
}
