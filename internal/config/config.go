package config

import (
    "os"

    "github.com/joho/godotenv"
)

// Config carries everything the process needs, loaded once at startup and
// passed into wiring. There are no module-level settings anywhere else.
type Config struct {
    Port string

    // LLMProvider selects the completion backend: "nim", "gemini" or empty
    // for auto-detection by key presence.
    LLMProvider string
    NIMAPIKey   string
    NIMBaseURL  string
    Model       string

    GeminiAPIKey string
    GeminiModel  string

    TavilyAPIKey string
}

const (
    defaultNIMBaseURL = "https://integrate.api.nvidia.com/v1"
    defaultNIMModel   = "nvidia/llama-3.3-nemotron-super-49b-v1"
    defaultGeminiModel = "gemini-1.5-flash"
)

// Load reads .env (if present) and then the environment.
func Load() Config {
    _ = godotenv.Load()

    return Config{
        Port:         getEnv("PORT", "8080"),
        LLMProvider:  os.Getenv("LLM_PROVIDER"),
        NIMAPIKey:    os.Getenv("NVIDIA_API_KEY"),
        NIMBaseURL:   getEnv("NVIDIA_BASE_URL", defaultNIMBaseURL),
        Model:        getEnv("LLM_MODEL", defaultNIMModel),
        GeminiAPIKey: os.Getenv("GOOGLE_API_KEY"),
        GeminiModel:  getEnv("GEMINI_MODEL", defaultGeminiModel),
        TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
    }
}

func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}
