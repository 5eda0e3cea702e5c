package agents

import (
    "context"
    "encoding/json"
    "fmt"
    "strings"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/providers/llm"
)

// Planner turns a query and the available tool names into an ordered task
// list. An empty result is legal; the orchestrator substitutes its fallback.
type Planner interface {
    Plan(ctx context.Context, query string, toolNames []string) ([]models.TaskSpec, error)
}

// LLMPlanner asks the model for a JSON array of task specs and validates it.
// All free-text parsing stays behind this boundary; parse failure yields an
// empty plan, never an error the state machine has to care about.
type LLMPlanner struct {
    Client llm.Client
    Logger *zap.Logger
}

func (p *LLMPlanner) Plan(ctx context.Context, query string, toolNames []string) ([]models.TaskSpec, error) {
    prompt := buildPlanPrompt(query, toolNames)
    raw, err := p.Client.Complete(ctx, prompt, 0.1)
    if err != nil {
        p.Logger.Warn("planner completion failed", zap.Error(err))
        return nil, nil
    }

    var parsed []models.TaskSpec
    text := normalizeJSONText(raw)
    if err := json.Unmarshal([]byte(text), &parsed); err != nil {
        if arr := extractJSONArray(text); arr != "" {
            if err2 := json.Unmarshal([]byte(arr), &parsed); err2 != nil {
                p.Logger.Warn("planner returned unparseable plan", zap.Error(err2))
            }
        } else {
            p.Logger.Warn("planner returned unparseable plan", zap.Error(err))
        }
    }

    specs := make([]models.TaskSpec, 0, len(parsed))
    for _, s := range parsed {
        if strings.TrimSpace(s.Description) == "" || strings.TrimSpace(s.Tool) == "" {
            continue
        }
        specs = append(specs, models.TaskSpec{
            Description: strings.TrimSpace(s.Description),
            Tool:        strings.TrimSpace(s.Tool),
        })
    }
    return specs, nil
}

func buildPlanPrompt(query string, toolNames []string) string {
    return fmt.Sprintf(`You are a planning agent that breaks down user queries into specific, actionable sub-tasks.

Available tools:
%s

User Query: %s

Rules:
1. Create 2-5 specific sub-tasks
2. Each task should use one available tool
3. Tasks should be in logical execution order
4. Be specific about what information is needed

CRITICAL: Respond with ONLY a valid JSON array, no additional text or explanation:
[
    {"description": "specific task description", "tool": "tool_name"},
    {"description": "another specific task", "tool": "tool_name"}
]`, strings.Join(toolNames, "\n"), query)
}

// normalizeJSONText strips markdown code fences and isolates the first JSON
// array so a chatty model response still parses.
func normalizeJSONText(s string) string {
    t := strings.TrimSpace(s)
    if strings.HasPrefix(t, "```") {
        t = strings.TrimPrefix(t, "```")
        if idx := strings.IndexByte(t, '\n'); idx != -1 {
            t = t[idx+1:]
        }
        if j := strings.LastIndex(t, "```"); j != -1 {
            t = t[:j]
        }
        t = strings.TrimSpace(t)
    }
    if !strings.HasPrefix(t, "[") {
        if arr := extractJSONArray(t); arr != "" {
            return arr
        }
    }
    return t
}

// extractJSONArray finds the first balanced top-level JSON array in a string.
func extractJSONArray(s string) string {
    start := strings.Index(s, "[")
    if start == -1 {
        return ""
    }
    depth := 0
    for i := start; i < len(s); i++ {
        switch s[i] {
        case '[':
            depth++
        case ']':
            depth--
            if depth == 0 {
                return s[start : i+1]
            }
        }
    }
    return ""
}
