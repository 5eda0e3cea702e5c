package agents

import (
    "context"
    "fmt"
    "strings"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/providers/llm"
)

// Reflector decides whether the plan needs another pass and, if so, proposes
// concrete changes to the task list.
type Reflector interface {
    ShouldRefine(ctx context.Context, state *models.WorkflowState) bool
    SuggestRefinements(ctx context.Context, state *models.WorkflowState) []models.Refinement
}

// LLMReflector applies a fixed decision ladder and consults the model only
// for the final adequacy judgment. Any model failure degrades to "do not
// refine" so the loop can always reach finalization.
type LLMReflector struct {
    Client    llm.Client
    ToolNames []string
    Logger    *zap.Logger
}

func (r *LLMReflector) ShouldRefine(ctx context.Context, state *models.WorkflowState) bool {
    // Iteration ceiling wins over everything else.
    if state.IterationCount >= models.MaxIterations {
        return false
    }

    completed := state.Completed()
    failed := state.Failed()

    if len(failed) > 0 && state.IterationCount < 2 {
        return true
    }
    if len(completed) == 0 && !state.HasPending() && state.IterationCount < 1 {
        return true
    }
    if len(completed) > 0 {
        return !r.adequatelyAnswered(ctx, state, completed, failed)
    }
    return false
}

// adequatelyAnswered asks the model a yes/no question about the completed
// work. The substring heuristic lives here, next to the prompt that produced
// the reply; the state machine only ever sees the boolean.
func (r *LLMReflector) adequatelyAnswered(ctx context.Context, state *models.WorkflowState, completed, failed []*models.Task) bool {
    var done, errs []string
    for _, t := range completed {
        done = append(done, fmt.Sprintf("- %s: %s", t.Description, t.Result))
    }
    for _, t := range failed {
        errs = append(errs, fmt.Sprintf("- %s: %s", t.Description, t.Error))
    }

    prompt := fmt.Sprintf(`Analyze if the original query has been adequately addressed:

Original Query: %s

Completed Tasks:
%s

Failed Tasks:
%s

Question: Does the completed work adequately address the original query?
Respond with only "yes" or "no".`, state.OriginalQuery, strings.Join(done, "\n"), strings.Join(errs, "\n"))

    resp, err := r.Client.Complete(ctx, prompt, 0.1)
    if err != nil {
        r.Logger.Warn("adequacy check failed, treating work as adequate", zap.Error(err))
        return true
    }
    return !strings.Contains(strings.ToLower(resp), "no")
}

func (r *LLMReflector) SuggestRefinements(ctx context.Context, state *models.WorkflowState) []models.Refinement {
    var refinements []models.Refinement

    for _, task := range state.Failed() {
        prompt := fmt.Sprintf(`The task "%s" failed with error: %s

Suggest a simpler alternative task that might work better.
Respond with only the new task description, no additional text.`, task.Description, task.Error)

        resp, err := r.Client.Complete(ctx, prompt, 0.2)
        if err != nil || strings.TrimSpace(resp) == "" {
            continue
        }
        refinements = append(refinements, models.Refinement{
            Action:         models.RefineModify,
            TaskID:         task.ID,
            NewDescription: strings.TrimSpace(resp),
        })
    }

    if len(state.Completed()) == 0 {
        prompt := fmt.Sprintf(`The original query "%s" hasn't been adequately addressed.

Suggest one additional simple task that could help answer this query.
Available tools: %s

Respond in format: "task description|tool_name"
Example: "search for Python tutorials|web_search"`, state.OriginalQuery, strings.Join(r.ToolNames, ", "))

        resp, err := r.Client.Complete(ctx, prompt, 0.2)
        if err == nil {
            if ref, ok := parseAddRefinement(resp); ok {
                refinements = append(refinements, ref)
            }
        }
    }
    return refinements
}

// parseAddRefinement parses the "description|tool" reply format.
func parseAddRefinement(resp string) (models.Refinement, bool) {
    s := strings.Trim(strings.TrimSpace(resp), `"`)
    if !strings.Contains(s, "|") {
        return models.Refinement{}, false
    }
    parts := strings.Split(s, "|")
    if len(parts) != 2 {
        return models.Refinement{}, false
    }
    desc := strings.TrimSpace(parts[0])
    tool := strings.TrimSpace(parts[1])
    if desc == "" || tool == "" {
        return models.Refinement{}, false
    }
    return models.Refinement{Action: models.RefineAdd, Description: desc, Tool: tool}, true
}
