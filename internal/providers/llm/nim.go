package llm

import (
    "context"
    "errors"
    "fmt"

    openai "github.com/sashabaranov/go-openai"
)

// NIMClient talks to NVIDIA NIM's OpenAI-compatible chat completions endpoint.
type NIMClient struct {
    client *openai.Client
    model  string
}

func NewNIMClient(apiKey, baseURL, model string) *NIMClient {
    cfg := openai.DefaultConfig(apiKey)
    if baseURL != "" {
        cfg.BaseURL = baseURL
    }
    return &NIMClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *NIMClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
    resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
        Model: c.model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleUser, Content: prompt},
        },
        Temperature: temperature,
        MaxTokens:   1000,
        TopP:        1.0,
    })
    if err != nil {
        return "", fmt.Errorf("nim completion: %w", err)
    }
    if len(resp.Choices) == 0 {
        return "", errors.New("nim completion: no choices")
    }
    return resp.Choices[0].Message.Content, nil
}
