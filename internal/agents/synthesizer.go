package agents

import (
    "context"
    "fmt"
    "strings"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/providers/llm"
)

// ApologyAnswer is the fixed terminal answer when nothing completed.
const ApologyAnswer = "I apologize, but I wasn't able to complete any tasks to answer your query. " +
    "Please try rephrasing your question or check if the required tools are available."

// Synthesizer assembles the final answer from completed work. It always
// returns something; a model failure degrades to the apology answer.
type Synthesizer interface {
    Synthesize(ctx context.Context, state *models.WorkflowState) string
}

type LLMSynthesizer struct {
    Client llm.Client
    Logger *zap.Logger
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, state *models.WorkflowState) string {
    completed := state.Completed()
    if len(completed) == 0 {
        return ApologyAnswer
    }

    var results strings.Builder
    for _, t := range completed {
        fmt.Fprintf(&results, "Task: %s\nResult: %s\n", t.Description, t.Result)
    }

    prompt := fmt.Sprintf(`Based on the completed tasks below, provide a comprehensive answer to the original query.

Original Query: %s

Completed Tasks and Results:
%s
Provide a clear, comprehensive answer that directly addresses the original query.`,
        state.OriginalQuery, results.String())

    answer, err := s.Client.Complete(ctx, prompt, 0.1)
    if err != nil || strings.TrimSpace(answer) == "" {
        s.Logger.Warn("answer synthesis failed", zap.Error(err))
        return ApologyAnswer
    }
    return answer
}
