package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

const entryPointPid = 1

var (
	logger Logger
)

// Bot wires the Discord session to the agent service and holds the bot's
// only state: the session pointers and the persona-channel cache.
type Bot struct {
	cfg      Config
	agent    *AgentClient
	sessions SessionStore
	personas *personaCache
	commands map[string]*command
}

func main() {
	_ = godotenv.Load()

	cfg, cfgErr := loadConfig()

	isProd := cfg.IsProd || os.Getpid() == entryPointPid
	logger = getLogger(isProd)
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("Cannot load config, ", cfgErr)
	}

	logger.Info("Started")

	store, err := newSessionStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Cannot create session store, ", err)
	}

	bot := &Bot{
		cfg:      cfg,
		agent:    NewAgentClient(cfg),
		sessions: store,
		personas: newPersonaCache(cfg.PersonaCacheTTL),
		commands: commandTable(),
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("Cannot create Discord session, ", err)
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleInteractionCreateSafe)
	dg.AddHandler(bot.handleMessageCreateSafe)
	dg.AddHandler(bot.handleMessageReactionSafe)

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	err = dg.Open()
	if err != nil {
		logger.Fatal("Cannot open connection, ", err)
	}

	logger.Info("Bot is now running.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}
