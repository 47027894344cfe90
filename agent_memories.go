package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *AgentClient) ListMemories(ctx context.Context, personaName, userID, query string, limit int) ([]Memory, error) {
	params := url.Values{"persona_name": {personaName}}
	if userID != "" {
		params.Set("user_id", userID)
	}
	if query != "" {
		params.Set("query", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var memories []Memory
	if err := c.get(ctx, "/api/chat/memories", params, &memories); err != nil {
		return nil, err
	}
	return memories, nil
}

// CreateMemory stores a fact directly. Leave userID empty for a memory
// shared across all users of the persona.
func (c *AgentClient) CreateMemory(ctx context.Context, personaName, fact, userID string) (*Memory, error) {
	params := url.Values{
		"persona_name": {personaName},
		"fact":         {fact},
	}
	if userID != "" {
		params.Set("user_id", userID)
	}
	var memory Memory
	if err := c.post(ctx, "/api/chat/memories", params, nil, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

func (c *AgentClient) DeleteMemory(ctx context.Context, memoryID string) (bool, error) {
	var result struct {
		Deleted  bool   `json:"deleted"`
		MemoryID string `json:"memory_id"`
	}
	path := "/api/chat/memories/id/" + url.PathEscape(memoryID)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, nil, nil, &result); err != nil {
		return false, err
	}
	return result.Deleted, nil
}

// DeleteMemories wipes every memory in scope: all of a persona's memories,
// or only one user's when userID is set.
func (c *AgentClient) DeleteMemories(ctx context.Context, personaName, userID string) (*DeleteMemoriesResult, error) {
	params := url.Values{}
	if userID != "" {
		params.Set("user_id", userID)
	}
	var result DeleteMemoriesResult
	path := "/api/chat/memories/" + url.PathEscape(personaName)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, params, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
