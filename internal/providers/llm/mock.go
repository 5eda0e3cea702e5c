package llm

import (
    "context"
    "sync"
)

// MockClient replays scripted responses in order, then falls back to Default.
// It is the no-provider fallback and the test double for every agent.
type MockClient struct {
    mu        sync.Mutex
    Responses []string
    Default   string
    Err       error

    // Prompts records every prompt seen, for assertions.
    Prompts []string
}

func (m *MockClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.Prompts = append(m.Prompts, prompt)
    if m.Err != nil {
        return "", m.Err
    }
    if len(m.Responses) > 0 {
        r := m.Responses[0]
        m.Responses = m.Responses[1:]
        return r, nil
    }
    if m.Default != "" {
        return m.Default, nil
    }
    return "mock completion", nil
}
