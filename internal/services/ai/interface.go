// File: internal/services/ai/interface.go
package ai

import (
	"context"
	"time"

	"github.com/iyunix/go-codementor/internal/domain"
)

// Turn is one role-tagged entry of the prompt sent to the provider.
type Turn struct {
	Role    domain.Role
	Content string
}

// Completion is the assistant reply plus the provider-reported usage.
type Completion struct {
	Content string
	Tokens  int
}

// CompletionGateway turns an ordered conversation into one assistant reply.
// Implementations hold no per-call state and are shared by all requests.
type CompletionGateway interface {
	Complete(ctx context.Context, turns []Turn) (*Completion, error)
}

// Metrics receives one observation per provider call.
type Metrics interface {
	ObserveCompletion(outcome string, tokens int, elapsed time.Duration)
}
