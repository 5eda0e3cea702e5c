package llm

import (
    "context"
    "errors"
    "fmt"

    genai "github.com/google/generative-ai-go/genai"
    "google.golang.org/api/option"
)

// GeminiClient adapts Google's generative AI SDK to the Client contract.
type GeminiClient struct {
    client *genai.Client
    model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
    c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
    if err != nil {
        return nil, fmt.Errorf("gemini client: %w", err)
    }
    return &GeminiClient{client: c, model: model}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
    m := c.client.GenerativeModel(c.model)
    m.SetTemperature(temperature)
    resp, err := m.GenerateContent(ctx, genai.Text(prompt))
    if err != nil {
        return "", fmt.Errorf("gemini completion: %w", err)
    }
    if txt := firstText(resp); txt != "" {
        return txt, nil
    }
    return "", errors.New("gemini completion: empty response")
}

func (c *GeminiClient) Close() error { return c.client.Close() }

func firstText(r *genai.GenerateContentResponse) string {
    if r == nil {
        return ""
    }
    for _, cand := range r.Candidates {
        if cand.Content == nil {
            continue
        }
        for _, part := range cand.Content.Parts {
            if t, ok := part.(genai.Text); ok {
                return string(t)
            }
        }
    }
    return ""
}
