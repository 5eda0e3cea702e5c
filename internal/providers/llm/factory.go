package llm

import (
    "context"
    "strings"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/config"
)

// NewFromConfig selects a provider from the configuration. With no usable
// provider it returns a MockClient so the workflow still runs end to end.
func NewFromConfig(ctx context.Context, cfg config.Config, logger *zap.Logger) Client {
    switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
    case "nim":
        if cfg.NIMAPIKey != "" {
            return NewNIMClient(cfg.NIMAPIKey, cfg.NIMBaseURL, cfg.Model)
        }
        logger.Warn("LLM_PROVIDER=nim but NVIDIA_API_KEY is empty")
    case "gemini":
        if cfg.GeminiAPIKey != "" {
            if c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
                return c
            } else {
                logger.Warn("gemini client init failed", zap.Error(err))
            }
        } else {
            logger.Warn("LLM_PROVIDER=gemini but GOOGLE_API_KEY is empty")
        }
    }

    // Auto-detect by key presence when no provider is pinned.
    if cfg.NIMAPIKey != "" {
        return NewNIMClient(cfg.NIMAPIKey, cfg.NIMBaseURL, cfg.Model)
    }
    if cfg.GeminiAPIKey != "" {
        if c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
            return c
        }
    }

    logger.Warn("no LLM provider configured, using mock client")
    return &MockClient{}
}
