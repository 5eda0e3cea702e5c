package llm

import "context"

// Client is the completion contract consumed by every agent: one prompt in,
// one response out. Providers must not panic across this boundary.
type Client interface {
    Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}
