package agents

import (
    "context"
    "fmt"
    "strings"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/providers/llm"
    "github.com/example/agentic-workflow/internal/tools"
)

// Executor runs a single task and settles its status. Nothing escapes this
// boundary: every failure lands on the task as status=failed plus an error
// string.
type Executor interface {
    ExecuteTask(ctx context.Context, task *models.Task)
}

// ToolExecutor resolves the task's tool in the registry, asks the LLM to
// extract the concrete tool input from the task description, and dispatches.
type ToolExecutor struct {
    Registry *tools.Registry
    Client   llm.Client
    Logger   *zap.Logger
}

func (e *ToolExecutor) ExecuteTask(ctx context.Context, task *models.Task) {
    defer func() {
        if r := recover(); r != nil {
            task.Status = models.StatusFailed
            task.Error = fmt.Sprintf("execution error: %v", r)
            task.Result = ""
        }
    }()

    tool, ok := e.Registry.Get(task.ToolUsed)
    if !ok {
        task.Status = models.StatusFailed
        task.Error = fmt.Sprintf("Tool '%s' not available", task.ToolUsed)
        task.Result = ""
        return
    }

    input := e.extractInput(ctx, task)
    result, err := tool.Execute(ctx, input)
    if err != nil {
        task.Status = models.StatusFailed
        task.Error = err.Error()
        task.Result = ""
        e.Logger.Info("task failed",
            zap.Int("task_id", task.ID), zap.String("tool", task.ToolUsed), zap.Error(err))
        return
    }
    task.Status = models.StatusCompleted
    task.Result = result
    task.Error = ""
    e.Logger.Info("task completed",
        zap.Int("task_id", task.ID), zap.String("tool", task.ToolUsed))
}

// extractInput asks the model for the exact tool input. When the model is
// unavailable the raw description is passed through instead.
func (e *ToolExecutor) extractInput(ctx context.Context, task *models.Task) string {
    prompt := fmt.Sprintf(`Extract the specific input needed for the %s tool from this task:
"%s"

For example:
- If tool is "calculator" and task is "calculate 25 + 30", respond with: 25 + 30
- If tool is "web_search" and task is "search for weather in NYC", respond with: weather in NYC
- If tool is "weather" and task is "get weather for Boston", respond with: Boston

Respond with ONLY the extracted input, no additional text.`, task.ToolUsed, task.Description)

    out, err := e.Client.Complete(ctx, prompt, 0)
    if err != nil || strings.TrimSpace(out) == "" {
        return task.Description
    }
    return strings.TrimSpace(out)
}
