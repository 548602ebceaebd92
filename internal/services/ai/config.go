// File: internal/services/ai/config.go
package ai

import (
	"fmt"
)

// DefaultSystemPrompt is the fixed persona turn prepended to every completion.
const DefaultSystemPrompt = "You are CodeMentor, an expert programming assistant. Help users with coding questions, debugging, best practices, and software development concepts."

type Config struct {
	APIKey  string
	BaseURL string // empty means the public OpenAI endpoint
	Model   string

	// Model Parameters
	Temperature float32
	MaxTokens   int

	SystemPrompt string
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if c.SystemPrompt == "" {
		return fmt.Errorf("system prompt is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "gpt-4-turbo-preview",
		Temperature:  0.7,
		MaxTokens:    2000,
		SystemPrompt: DefaultSystemPrompt,
	}
}
