package main

// Wire types for the agent service REST API. Field names follow the
// service's JSON contract; timestamps stay as the ISO strings the service
// emits since the bot only ever displays them.

type Persona struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Appearance  string `json:"appearance,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type PersonaCreate struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Appearance  string `json:"appearance,omitempty"`
}

// PersonaUpdate is a partial update; nil fields are left untouched.
type PersonaUpdate struct {
	Name        *string `json:"name,omitempty"`
	Personality *string `json:"personality,omitempty"`
	Appearance  *string `json:"appearance,omitempty"`
}

type ChatRequest struct {
	PersonaName     string `json:"persona_name"`
	UserID          string `json:"user_id"`
	Message         string `json:"message"`
	SessionID       string `json:"session_id,omitempty"`
	UserDisplayName string `json:"user_display_name,omitempty"`
	IsChannelChat   bool   `json:"is_channel_chat"`
	ChannelID       string `json:"channel_id,omitempty"`
}

type ChatResponse struct {
	Response      string `json:"response"`
	SessionID     string `json:"session_id"`
	PersonaName   string `json:"persona_name"`
	MemoriesUsed  int    `json:"memories_used"`
	MemoriesSaved int    `json:"memories_saved"`
	ShouldRespond bool   `json:"should_respond"`
}

type SessionInfo struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	PersonaName string `json:"persona_name"`
	EventCount  int    `json:"event_count"`
	CreatedAt   string `json:"created_at"`
}

type EndSessionResult struct {
	Status            string `json:"status"`
	SessionID         string `json:"session_id"`
	MemoriesGenerated int    `json:"memories_generated"`
}

type Memory struct {
	ID    string            `json:"id"`
	Fact  string            `json:"fact"`
	Scope map[string]string `json:"scope"`
}

type ChannelMemoriesResult struct {
	Status            string   `json:"status"`
	ChannelID         string   `json:"channel_id"`
	SessionID         string   `json:"session_id"`
	PersonaName       string   `json:"persona_name"`
	UserID            string   `json:"user_id"`
	MemoriesGenerated int      `json:"memories_generated"`
	Memories          []Memory `json:"memories"`
}

type ChannelSessionDeleteResult struct {
	Status  string `json:"status"`
	Deleted bool   `json:"deleted"`
}

type DeleteMemoriesResult struct {
	DeletedCount int    `json:"deleted_count"`
	PersonaName  string `json:"persona_name"`
	UserID       string `json:"user_id,omitempty"`
}

type ImageGenerateRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// GeneratedImage carries decoded image bytes; the service returns them
// base64-encoded.
type GeneratedImage struct {
	Data         []byte
	MimeType     string
	Prompt       string
	TextResponse string
}

type VideoGenerateRequest struct {
	Prompt          string `json:"prompt"`
	AspectRatio     string `json:"aspect_ratio,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	GenerateAudio   bool   `json:"generate_audio"`
	PersonaName     string `json:"persona_name,omitempty"`
}

type GeneratedVideo struct {
	VideoURL        string `json:"video_url"`
	GCSURI          string `json:"gcs_uri"`
	MimeType        string `json:"mime_type"`
	DurationSeconds int    `json:"duration_seconds"`
	Resolution      string `json:"resolution"`
	AspectRatio     string `json:"aspect_ratio"`
	Prompt          string `json:"prompt"`
	HasAudio        bool   `json:"has_audio"`
}

type ChatSettings struct {
	Temperature      float64  `json:"temperature"`
	TopP             float64  `json:"top_p"`
	TopK             int      `json:"top_k"`
	MaxOutputTokens  int      `json:"max_output_tokens"`
	PresencePenalty  float64  `json:"presence_penalty"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	StopSequences    []string `json:"stop_sequences"`
}

type ImageSettings struct {
	AspectRatio      string  `json:"aspect_ratio"`
	OutputMimeType   string  `json:"output_mime_type"`
	NegativePrompt   string  `json:"negative_prompt,omitempty"`
	NumberOfImages   int     `json:"number_of_images"`
	Temperature      float64 `json:"temperature"`
	PersonGeneration bool    `json:"person_generation"`
}

type GenerationSettings struct {
	Name      string        `json:"name"`
	Chat      ChatSettings  `json:"chat"`
	Image     ImageSettings `json:"image"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// ChatSettingsUpdate and ImageSettingsUpdate are partial updates; nil
// fields are left untouched by the service.
type ChatSettingsUpdate struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	TopK             *int     `json:"top_k,omitempty"`
	MaxOutputTokens  *int     `json:"max_output_tokens,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
}

type ImageSettingsUpdate struct {
	AspectRatio      *string  `json:"aspect_ratio,omitempty"`
	OutputMimeType   *string  `json:"output_mime_type,omitempty"`
	NegativePrompt   *string  `json:"negative_prompt,omitempty"`
	NumberOfImages   *int     `json:"number_of_images,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	PersonGeneration *bool    `json:"person_generation,omitempty"`
}

type SettingsUpdate struct {
	Chat  *ChatSettingsUpdate  `json:"chat,omitempty"`
	Image *ImageSettingsUpdate `json:"image,omitempty"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
