package tools

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "regexp"
    "strings"
    "time"

    "golang.org/x/net/html"
)

// WebPageTool fetches a URL and reduces the HTML to readable text.
type WebPageTool struct {
    MaxBytes int
    client   *http.Client
}

func NewWebPageTool() *WebPageTool {
    return &WebPageTool{
        MaxBytes: 2 << 20,
        client:   &http.Client{Timeout: 10 * time.Second},
    }
}

func (t *WebPageTool) Name() string { return "web_page" }

func (t *WebPageTool) Description() string {
    return "Fetch a web page by URL and return its readable text content"
}

func (t *WebPageTool) Execute(ctx context.Context, input string) (string, error) {
    rawURL := strings.TrimSpace(input)
    if rawURL == "" {
        return "", errors.New("missing url")
    }
    if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
        rawURL = "https://" + rawURL
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
    if err != nil {
        return "", err
    }
    resp, err := t.client.Do(req)
    if err != nil {
        return "", fmt.Errorf("fetch failed: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return "", fmt.Errorf("fetch failed: status %d", resp.StatusCode)
    }

    // limit body to avoid huge transfers
    lr := io.LimitedReader{R: resp.Body, N: int64(t.MaxBytes)}
    body, err := io.ReadAll(&lr)
    if err != nil {
        return "", err
    }

    node, err := html.Parse(strings.NewReader(string(body)))
    if err != nil {
        return "", fmt.Errorf("parse failed: %w", err)
    }
    var b strings.Builder
    extractText(node, &b, false)
    out := strings.TrimSpace(compactWhitespace(b.String()))
    if out == "" {
        return "", errors.New("page has no readable text")
    }
    return out, nil
}

func extractText(n *html.Node, b *strings.Builder, inHidden bool) {
    if n.Type == html.ElementNode {
        switch strings.ToLower(n.Data) {
        case "script", "style", "noscript":
            inHidden = true
        case "br", "p", "div", "li", "tr":
            b.WriteString("\n")
        }
    }
    if !inHidden && n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        extractText(c, b, inHidden)
    }
}

var (
    multiSpace   = regexp.MustCompile(`[ \t]+`)
    multiNewline = regexp.MustCompile(`\n{3,}`)
)

func compactWhitespace(s string) string {
    s = multiSpace.ReplaceAllString(s, " ")
    s = multiNewline.ReplaceAllString(s, "\n\n")
    return s
}
