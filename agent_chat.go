package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *AgentClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/api/chat", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EndSession closes a chat session on the agent side. When
// generateMemories is set the service distills long-term memories from the
// conversation before deleting it.
func (c *AgentClient) EndSession(ctx context.Context, personaName, userID, sessionID string, generateMemories bool) (*EndSessionResult, error) {
	query := url.Values{
		"persona_name":      {personaName},
		"user_id":           {userID},
		"session_id":        {sessionID},
		"generate_memories": {strconv.FormatBool(generateMemories)},
	}
	var result EndSessionResult
	if err := c.post(ctx, "/api/chat/end-session", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AgentClient) ListSessions(ctx context.Context, personaName, userID string) ([]SessionInfo, error) {
	query := url.Values{
		"persona_name": {personaName},
		"user_id":      {userID},
	}
	var sessions []SessionInfo
	if err := c.get(ctx, "/api/chat/sessions", query, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GenerateChannelMemories extracts memories from an ongoing channel
// conversation without ending the session.
func (c *AgentClient) GenerateChannelMemories(ctx context.Context, channelID, userID string) (*ChannelMemoriesResult, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("user_id", userID)
	}
	var result ChannelMemoriesResult
	path := "/api/chat/channel-sessions/" + url.PathEscape(channelID) + "/generate-memories"
	if err := c.post(ctx, path, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AgentClient) DeleteChannelSession(ctx context.Context, channelID string) (*ChannelSessionDeleteResult, error) {
	var result ChannelSessionDeleteResult
	path := "/api/chat/channel-sessions/" + url.PathEscape(channelID)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InterpretError asks the service to turn a raw error into something a
// user can act on, in character when a persona name is given.
func (c *AgentClient) InterpretError(ctx context.Context, errorMessage, errorContext, personaName string) (string, error) {
	req := struct {
		ErrorMessage string `json:"error_message"`
		ErrorContext string `json:"error_context,omitempty"`
		PersonaName  string `json:"persona_name,omitempty"`
	}{errorMessage, errorContext, personaName}

	var resp struct {
		Interpretation string `json:"interpretation"`
	}
	if err := c.post(ctx, "/api/chat/interpret-error", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Interpretation, nil
}
