package main

import (
	"context"
	"net/http"
	"net/url"
)

func (c *AgentClient) CreatePersona(ctx context.Context, req PersonaCreate) (*Persona, error) {
	var persona Persona
	if err := c.post(ctx, "/api/personas", nil, req, &persona); err != nil {
		return nil, err
	}
	return &persona, nil
}

func (c *AgentClient) ListPersonas(ctx context.Context) ([]Persona, error) {
	var personas []Persona
	if err := c.get(ctx, "/api/personas", nil, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

func (c *AgentClient) GetPersona(ctx context.Context, name string) (*Persona, error) {
	var persona Persona
	if err := c.get(ctx, "/api/personas/"+url.PathEscape(name), nil, &persona); err != nil {
		return nil, err
	}
	return &persona, nil
}

func (c *AgentClient) UpdatePersona(ctx context.Context, name string, req PersonaUpdate) (*Persona, error) {
	var persona Persona
	err := c.doJSON(ctx, c.httpClient, http.MethodPatch, "/api/personas/"+url.PathEscape(name), nil, req, &persona)
	if err != nil {
		return nil, err
	}
	return &persona, nil
}

func (c *AgentClient) DeletePersona(ctx context.Context, name string) error {
	return c.doJSON(ctx, c.httpClient, http.MethodDelete, "/api/personas/"+url.PathEscape(name), nil, nil, nil)
}
