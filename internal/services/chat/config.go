// File: internal/services/chat/config.go
package chat

import "fmt"

type Config struct {
	// Context window
	ContextWindow int // Most recent stored messages sent to the model

	// Titles
	TitleMaxRunes  int    // Derived title length before the ellipsis
	TitleEllipsis  string // Appended when the first message was truncated
	MaxTitleLength int    // Upper bound for user-supplied titles

	// Input limits
	MaxMessageLength int // Characters, counted as runes
}

func (c *Config) Validate() error {
	if c.ContextWindow <= 0 {
		return fmt.Errorf("context_window must be positive")
	}
	if c.ContextWindow > 1000 {
		return fmt.Errorf("context_window cannot exceed 1000")
	}
	if c.TitleMaxRunes <= 0 {
		return fmt.Errorf("title_max_runes must be positive")
	}
	if c.MaxTitleLength < c.TitleMaxRunes+len([]rune(c.TitleEllipsis)) {
		return fmt.Errorf("max_title_length must fit a derived title")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ContextWindow:    20,
		TitleMaxRunes:    50,
		TitleEllipsis:    "...",
		MaxTitleLength:   100,
		MaxMessageLength: 10000,
	}
}
