package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
)

func (c *AgentClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) (*GeneratedImage, error) {
	req := ImageGenerateRequest{Prompt: prompt, AspectRatio: aspectRatio}

	var resp struct {
		ImageBase64  string `json:"image_base64"`
		MimeType     string `json:"mime_type"`
		Prompt       string `json:"prompt"`
		TextResponse string `json:"text_response"`
	}
	if err := c.post(ctx, "/api/images/generate", nil, req, &resp); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("decoding generated image: %w", err)
	}

	return &GeneratedImage{
		Data:         data,
		MimeType:     resp.MimeType,
		Prompt:       resp.Prompt,
		TextResponse: resp.TextResponse,
	}, nil
}

// GenerateVideo is long-running on the agent side (Veo renders for minutes),
// so it goes through the client with the extended timeout. The video itself
// stays in GCS; only the URL comes back.
func (c *AgentClient) GenerateVideo(ctx context.Context, req VideoGenerateRequest) (*GeneratedVideo, error) {
	var video GeneratedVideo
	if err := c.doJSON(ctx, c.videoClient, http.MethodPost, "/api/videos/generate", nil, req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// GetSettings returns generation settings for a persona, or the service
// defaults when none are stored. Name "default" addresses the shared
// default settings.
func (c *AgentClient) GetSettings(ctx context.Context, name string) (*GenerationSettings, error) {
	var settings GenerationSettings
	if err := c.get(ctx, "/api/settings/"+url.PathEscape(name), nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *AgentClient) UpdateSettings(ctx context.Context, name string, update SettingsUpdate) (*GenerationSettings, error) {
	var settings GenerationSettings
	err := c.doJSON(ctx, c.httpClient, http.MethodPut, "/api/settings/"+url.PathEscape(name), nil, update, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// ResetSettings drops any custom settings stored under the name and
// returns the service defaults.
func (c *AgentClient) ResetSettings(ctx context.Context, name string) (*GenerationSettings, error) {
	var settings GenerationSettings
	if err := c.post(ctx, "/api/settings/"+url.PathEscape(name)+"/reset", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *AgentClient) ListSettings(ctx context.Context) ([]GenerationSettings, error) {
	var resp struct {
		Settings []GenerationSettings `json:"settings"`
	}
	if err := c.get(ctx, "/api/settings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}
