package tools

import (
    "context"
    "errors"
    "fmt"
    "strings"

    pdfx "github.com/ledongthuc/pdf"
)

// ReadPDFTool extracts text from a PDF on the local filesystem.
type ReadPDFTool struct {
    MaxPages int
}

func NewReadPDFTool() *ReadPDFTool {
    return &ReadPDFTool{MaxPages: 20}
}

func (t *ReadPDFTool) Name() string { return "read_pdf" }

func (t *ReadPDFTool) Description() string {
    return "Extract text content from a local PDF file given its path"
}

func (t *ReadPDFTool) Execute(ctx context.Context, input string) (string, error) {
    path := strings.TrimSpace(input)
    if path == "" {
        return "", errors.New("missing pdf path")
    }

    f, r, err := pdfx.Open(path)
    if err != nil {
        return "", fmt.Errorf("open pdf: %w", err)
    }
    defer f.Close()

    total := r.NumPage()
    pages := total
    if t.MaxPages > 0 && pages > t.MaxPages {
        pages = t.MaxPages
    }

    var b strings.Builder
    for i := 1; i <= pages; i++ {
        if err := ctx.Err(); err != nil {
            return "", err
        }
        page := r.Page(i)
        if page.V.IsNull() {
            continue
        }
        text, err := page.GetPlainText(nil)
        if err != nil {
            continue
        }
        b.WriteString(text)
        b.WriteString("\n")
    }
    out := strings.TrimSpace(b.String())
    if out == "" {
        return "", errors.New("pdf contains no extractable text")
    }
    if pages < total {
        out += fmt.Sprintf("\n\n[truncated: %d of %d pages]", pages, total)
    }
    return out, nil
}
