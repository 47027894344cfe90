package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interaction(data discordgo.ApplicationCommandInteractionData, guildID, channelID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			Data:      data,
			GuildID:   guildID,
			ChannelID: channelID,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "user-1", Username: "tester"},
			},
		},
	}
}

func TestCommandTable(t *testing.T) {
	table := commandTable()

	for _, name := range []string{"persona", "chat", "endchat", "sessions", "imagine", "video", "memory", "settings", "status"} {
		cmd, ok := table[name]
		require.True(t, ok, "command %s missing", name)
		assert.Equal(t, name, cmd.def.Name)
		assert.NotNil(t, cmd.handler, "command %s has no handler", name)
		assert.NotEmpty(t, cmd.def.Description)
	}

	assert.Equal(t, locationGuildOnly, table["persona"].location)
	assert.Equal(t, locationOutsidePersonaChannels, table["chat"].location)
	assert.Equal(t, locationAnywhere, table["imagine"].location)
}

func TestCommandOptionsSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "persona",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "create",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "name", Type: discordgo.ApplicationCommandOptionString, Value: "Mika"},
					{Name: "personality", Type: discordgo.ApplicationCommandOptionString, Value: "cheerful"},
				},
			},
		},
	}

	sub, opts := commandOptions(interaction(data, "guild-1", "chan-1"))
	assert.Equal(t, "create", sub)
	assert.Equal(t, "Mika", opts.text("name"))
	assert.Equal(t, "cheerful", opts.text("personality"))
	assert.Empty(t, opts.text("appearance"))
}

func TestCommandOptionsTopLevel(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "video",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "prompt", Type: discordgo.ApplicationCommandOptionString, Value: "a fox running"},
			{Name: "duration", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(6)},
			{Name: "audio", Type: discordgo.ApplicationCommandOptionBoolean, Value: false},
		},
	}

	sub, opts := commandOptions(interaction(data, "", ""))
	assert.Empty(t, sub)
	assert.Equal(t, "a fox running", opts.text("prompt"))

	duration, ok := opts.integer("duration")
	assert.True(t, ok)
	assert.EqualValues(t, 6, duration)

	audio, ok := opts.boolean("audio")
	assert.True(t, ok)
	assert.False(t, audio)

	_, ok = opts.number("missing")
	assert.False(t, ok)
}

func testBot() *Bot {
	return &Bot{
		cfg: Config{
			AgentTimeout:      5 * time.Second,
			VideoTimeout:      5 * time.Second,
			PersonaCategoryID: "cat-1",
			GuildID:           "guild-1",
		},
		personas: newPersonaCache(time.Hour),
		commands: commandTable(),
	}
}

func TestLocationErrorGuildOnly(t *testing.T) {
	b := testBot()
	cmd := b.commands["persona"]

	dm := interaction(discordgo.ApplicationCommandInteractionData{Name: "persona"}, "", "dm-chan")
	dm.Member = nil
	dm.User = &discordgo.User{ID: "user-1"}
	assert.NotEmpty(t, b.locationError(cmd, nil, dm))

	guild := interaction(discordgo.ApplicationCommandInteractionData{Name: "persona"}, "guild-1", "chan-1")
	assert.Empty(t, b.locationError(cmd, nil, guild))
}

func TestLocationErrorOutsidePersonaChannels(t *testing.T) {
	b := testBot()
	b.personas.put("persona-chan", "Mika")
	b.personas.put("regular-chan", "")
	cmd := b.commands["chat"]

	inPersonaChannel := interaction(discordgo.ApplicationCommandInteractionData{Name: "chat"}, "guild-1", "persona-chan")
	msg := b.locationError(cmd, nil, inPersonaChannel)
	assert.Contains(t, msg, "Mika")

	inRegularChannel := interaction(discordgo.ApplicationCommandInteractionData{Name: "chat"}, "guild-1", "regular-chan")
	assert.Empty(t, b.locationError(cmd, nil, inRegularChannel))

	// DMs are never persona channels.
	dm := interaction(discordgo.ApplicationCommandInteractionData{Name: "chat"}, "", "dm-chan")
	assert.Empty(t, b.locationError(cmd, nil, dm))
}

func TestInteractionUserAndDisplayName(t *testing.T) {
	fromGuild := interaction(discordgo.ApplicationCommandInteractionData{}, "guild-1", "chan-1")
	fromGuild.Member.Nick = "Nicky"
	assert.Equal(t, "user-1", interactionUser(fromGuild).ID)
	assert.Equal(t, "Nicky", interactionDisplayName(fromGuild))

	fromDM := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			User: &discordgo.User{ID: "user-2", Username: "plain", GlobalName: "Fancy"},
		},
	}
	assert.Equal(t, "user-2", interactionUser(fromDM).ID)
	assert.Equal(t, "Fancy", interactionDisplayName(fromDM))
}

type stubCall struct {
	method   string
	path     string
	respType int
}

// discordStub stands in for the Discord REST API and records every call,
// so tests can assert on acknowledgement ordering without a gateway.
type discordStub struct {
	mu    sync.Mutex
	calls []stubCall
}

func (d *discordStub) RoundTrip(req *http.Request) (*http.Response, error) {
	call := stubCall{method: req.Method, path: req.URL.Path}
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		var payload struct {
			Type int `json:"type"`
		}
		_ = json.Unmarshal(raw, &payload)
		call.respType = payload.Type
	}
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}, nil
}

func (d *discordStub) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func stubDiscordSession(t *testing.T) (*discordgo.Session, *discordStub) {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	stub := &discordStub{}
	s.Client = &http.Client{Transport: stub}
	return s, stub
}

// Discord drops the interaction token ~3s after the command arrives, while
// the agent service gets a much larger timeout budget. Every handler that
// calls the service must therefore send the deferred ack before the call
// and deliver the result as an edit.
func TestAgentBackedCommandsAckBeforeAgentCall(t *testing.T) {
	sub := func(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandInteractionDataOption {
		return []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts},
		}
	}
	personaOpt := &discordgo.ApplicationCommandInteractionDataOption{
		Name: "persona", Type: discordgo.ApplicationCommandOptionString, Value: "Mika",
	}

	cases := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
	}{
		{"sessions", discordgo.ApplicationCommandInteractionData{
			Name:    "sessions",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{personaOpt},
		}},
		{"memory list", discordgo.ApplicationCommandInteractionData{
			Name:    "memory",
			Options: sub("list", personaOpt),
		}},
		{"persona list", discordgo.ApplicationCommandInteractionData{
			Name:    "persona",
			Options: sub("list"),
		}},
		{"settings view", discordgo.ApplicationCommandInteractionData{
			Name:    "settings",
			Options: sub("view"),
		}},
		{"status", discordgo.ApplicationCommandInteractionData{
			Name: "status",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, stub := stubDiscordSession(t)

			ackedFirst := false
			b := testBot()
			b.agent = testClient(t, func(w http.ResponseWriter, r *http.Request) {
				ackedFirst = stub.callCount() > 0
				switch {
				case r.URL.Path == "/api/personas":
					json.NewEncoder(w).Encode([]Persona{})
				case r.URL.Path == "/api/chat/sessions":
					json.NewEncoder(w).Encode([]SessionInfo{})
				case r.URL.Path == "/api/chat/memories":
					json.NewEncoder(w).Encode([]Memory{})
				case r.URL.Path == "/health":
					json.NewEncoder(w).Encode(HealthStatus{Status: "healthy", Service: "agent"})
				case strings.HasPrefix(r.URL.Path, "/api/settings/"):
					json.NewEncoder(w).Encode(GenerationSettings{Name: "default"})
				default:
					t.Errorf("unexpected agent call: %s", r.URL.Path)
				}
			})

			cmd := b.commands[tc.data.Name]
			require.NotNil(t, cmd)
			require.NoError(t, cmd.handler(b, s, interaction(tc.data, "guild-1", "chan-1")))

			assert.True(t, ackedFirst, "agent was called before the interaction ack")
			require.NotEmpty(t, stub.calls)
			first := stub.calls[0]
			assert.Contains(t, first.path, "/callback")
			assert.EqualValues(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, first.respType)
			last := stub.calls[len(stub.calls)-1]
			assert.Equal(t, http.MethodPatch, last.method)
			assert.Contains(t, last.path, "/messages/@original")
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := &AgentError{StatusCode: 500, Detail: "boom"}
	err := cmdErr("Mika", "chatting", inner)

	var agentErr *AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, "boom", agentErr.Detail)
	assert.Contains(t, err.Error(), "chatting")
}
