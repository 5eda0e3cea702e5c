package tools

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"
)

const tavilyBaseURL = "https://api.tavily.com"

// WebSearchTool queries the Tavily search API and formats the top results.
type WebSearchTool struct {
    APIKey  string
    BaseURL string
    client  *http.Client
}

func NewWebSearchTool(apiKey string) *WebSearchTool {
    return &WebSearchTool{
        APIKey:  apiKey,
        BaseURL: tavilyBaseURL,
        client:  &http.Client{Timeout: 15 * time.Second},
    }
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
    return "Search the web for information using the Tavily API"
}

func (t *WebSearchTool) Execute(ctx context.Context, input string) (string, error) {
    query := strings.TrimSpace(input)
    if query == "" {
        return "", errors.New("search query cannot be empty")
    }

    body := map[string]any{
        "api_key":      t.APIKey,
        "query":        query,
        "search_depth": "basic",
        "max_results":  5,
    }
    b, _ := json.Marshal(body)
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/search", bytes.NewReader(b))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")

    resp, err := t.httpClient().Do(req)
    if err != nil {
        return "", fmt.Errorf("search failed: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return "", fmt.Errorf("search failed: tavily status %d", resp.StatusCode)
    }

    var parsed struct {
        Results []struct {
            Title   string `json:"title"`
            Content string `json:"content"`
            URL     string `json:"url"`
        } `json:"results"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
        return "", fmt.Errorf("search failed: %w", err)
    }
    if len(parsed.Results) == 0 {
        return "", errors.New("no search results found")
    }

    // Top 3 results, content clipped.
    var out []string
    for i, r := range parsed.Results {
        if i == 3 {
            break
        }
        content := r.Content
        if len(content) > 200 {
            content = content[:200] + "..."
        }
        out = append(out, fmt.Sprintf("Title: %s\nContent: %s\nURL: %s", r.Title, content, r.URL))
    }
    return strings.Join(out, "\n\n"), nil
}

func (t *WebSearchTool) httpClient() *http.Client {
    if t.client != nil {
        return t.client
    }
    return http.DefaultClient
}
