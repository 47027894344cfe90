package main

import (
	"bytes"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

var imageAspectRatios = []string{"1:1", "3:2", "2:3", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

func imagineCommand() *command {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(imageAspectRatios))
	for idx, ratio := range imageAspectRatios {
		choices[idx] = &discordgo.ApplicationCommandOptionChoice{Name: ratio, Value: ratio}
	}

	return &command{
		location: locationAnywhere,
		handler:  handleImagine,
		def: &discordgo.ApplicationCommand{
			Name:        "imagine",
			Description: "Generate an image",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to draw",
					Required:    true,
					MaxLength:   4000,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "aspect-ratio",
					Description: "Aspect ratio (default 1:1)",
					Choices:     choices,
				},
			},
		},
	}
}

func videoCommand() *command {
	return &command{
		location: locationAnywhere,
		handler:  handleVideo,
		def: &discordgo.ApplicationCommand{
			Name:        "video",
			Description: "Generate a short video (takes a few minutes)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to film",
					Required:    true,
					MaxLength:   4000,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "aspect-ratio",
					Description: "Aspect ratio (default 16:9)",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "16:9 landscape", Value: "16:9"},
						{Name: "9:16 portrait", Value: "9:16"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "duration",
					Description: "Duration in seconds (default 8)",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "4 seconds", Value: 4},
						{Name: "6 seconds", Value: 6},
						{Name: "8 seconds", Value: 8},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "resolution",
					Description: "Resolution (default 720p)",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "720p", Value: "720p"},
						{Name: "1080p", Value: "1080p"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "audio",
					Description: "Generate audio too (default true)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "persona",
					Description: "Feature a persona; their appearance is woven into the prompt",
				},
			},
		},
	}
}

func handleImagine(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	prompt := opts.text("prompt")
	aspectRatio := opts.text("aspect-ratio")
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	if err := deferResponse(s, i, false); err != nil {
		return err
	}

	ctx, cancel := b.opContext()
	defer cancel()

	image, err := b.agent.GenerateImage(ctx, prompt, aspectRatio)
	if err != nil {
		return cmdErr("", "generating the image", err)
	}

	content := truncate("> "+prompt, maxMessageLen)
	if image.TextResponse != "" {
		content = truncate("> "+prompt+"\n"+image.TextResponse, maxMessageLen)
	}

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files: []*discordgo.File{
			{
				Name:        "generated" + imageExtension(image.MimeType),
				ContentType: image.MimeType,
				Reader:      bytes.NewReader(image.Data),
			},
		},
	})
	return err
}

func imageExtension(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}

func handleVideo(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)

	req := VideoGenerateRequest{
		Prompt:        opts.text("prompt"),
		AspectRatio:   opts.text("aspect-ratio"),
		Resolution:    opts.text("resolution"),
		PersonaName:   opts.text("persona"),
		GenerateAudio: true,
	}
	if duration, ok := opts.integer("duration"); ok {
		req.DurationSeconds = int(duration)
	}
	if audio, ok := opts.boolean("audio"); ok {
		req.GenerateAudio = audio
	}

	if err := deferResponse(s, i, false); err != nil {
		return err
	}

	// Veo renders for minutes; keep the user posted so the deferred
	// "thinking" state doesn't look stuck.
	started := time.Now()
	if err := editResponseText(s, i, "Rendering your video, this usually takes 1-3 minutes..."); err != nil {
		logger.Error("Error sending progress note, ", err)
	}

	ctx, cancel := b.videoContext()
	defer cancel()

	video, err := b.agent.GenerateVideo(ctx, req)
	if err != nil {
		return cmdErr(req.PersonaName, "generating the video", err)
	}

	logger.Info("Video generated in ", time.Since(started).Round(time.Second))

	content := video.VideoURL
	embeds := []*discordgo.MessageEmbed{videoEmbed(video)}
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	})
	return err
}
