// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iyunix/go-codementor/internal/config"
	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/services"
	"github.com/iyunix/go-codementor/internal/services/ai"
)

// Sends one completion through the gateway and prints the reply, so the
// API key, base URL and model can be checked without starting the server.
func main() {
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	flag.Parse()

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" {
		prompt = "Explain what a goroutine is in one sentence."
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := services.MustLogger("codementor-diagnostic")

	provider, err := ai.NewOpenAIProvider(&ai.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.OpenAIModel,
		Temperature:  cfg.OpenAITemperature,
		MaxTokens:    cfg.OpenAIMaxTokens,
		SystemPrompt: ai.DefaultSystemPrompt,
	}, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init gateway: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("model:    %s\n", cfg.OpenAIModel)
	if cfg.OpenAIBaseURL != "" {
		fmt.Printf("base url: %s\n", cfg.OpenAIBaseURL)
	}

	start := time.Now()
	completion, err := provider.Complete(ctx, []ai.Turn{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		if kind, ok := ai.TypeOf(err); ok {
			fmt.Fprintf(os.Stderr, "completion failed (%s): %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "completion failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("tokens:   %d\n", completion.Tokens)
	fmt.Printf("latency:  %s\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Println(completion.Content)
}
