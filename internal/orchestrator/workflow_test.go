package orchestrator

import (
    "context"
    "fmt"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/agents"
    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/tools"
)

type scriptPlanner struct {
    plans [][]models.TaskSpec
    err   error
    calls int
}

func (p *scriptPlanner) Plan(ctx context.Context, query string, toolNames []string) ([]models.TaskSpec, error) {
    p.calls++
    if p.err != nil {
        return nil, p.err
    }
    if len(p.plans) == 0 {
        return nil, nil
    }
    out := p.plans[0]
    p.plans = p.plans[1:]
    return out, nil
}

type scriptExecutor struct {
    fn    func(task *models.Task)
    calls int
}

func (e *scriptExecutor) ExecuteTask(ctx context.Context, task *models.Task) {
    e.calls++
    e.fn(task)
}

type scriptReflector struct {
    refine  func(state *models.WorkflowState) bool
    suggest func(state *models.WorkflowState) []models.Refinement
}

func (r *scriptReflector) ShouldRefine(ctx context.Context, state *models.WorkflowState) bool {
    return r.refine(state)
}

func (r *scriptReflector) SuggestRefinements(ctx context.Context, state *models.WorkflowState) []models.Refinement {
    if r.suggest == nil {
        return nil
    }
    return r.suggest(state)
}

type scriptSynthesizer struct {
    fn    func(state *models.WorkflowState) string
    calls int
}

func (s *scriptSynthesizer) Synthesize(ctx context.Context, state *models.WorkflowState) string {
    s.calls++
    if s.fn != nil {
        return s.fn(state)
    }
    if len(state.Completed()) == 0 {
        return agents.ApologyAnswer
    }
    return "synthesized answer"
}

func newTestWorkflow(p agents.Planner, e agents.Executor, r agents.Reflector, s agents.Synthesizer) *Workflow {
    return NewWorkflow(p, e, r, s, tools.NewRegistry(), zap.NewNop())
}

func completeWith(result string) func(*models.Task) {
    return func(t *models.Task) {
        t.Status = models.StatusCompleted
        t.Result = result
        t.Error = ""
    }
}

func failWith(errMsg string) func(*models.Task) {
    return func(t *models.Task) {
        t.Status = models.StatusFailed
        t.Error = errMsg
        t.Result = ""
    }
}

// checkTaskInvariants asserts the status/result/error exclusivity rules that
// must hold after every orchestrator step.
func checkTaskInvariants(t *testing.T, state *models.WorkflowState) {
    t.Helper()
    for _, task := range state.Tasks {
        switch task.Status {
        case models.StatusPending:
            assert.Empty(t, task.Result, "pending task %d has a result", task.ID)
            assert.Empty(t, task.Error, "pending task %d has an error", task.ID)
        case models.StatusCompleted:
            assert.NotEmpty(t, task.Result, "completed task %d missing result", task.ID)
            assert.Empty(t, task.Error, "completed task %d has an error", task.ID)
        case models.StatusFailed:
            assert.NotEmpty(t, task.Error, "failed task %d missing error", task.ID)
            assert.Empty(t, task.Result, "failed task %d has a result", task.ID)
        default:
            t.Fatalf("task %d has unknown status %q", task.ID, task.Status)
        }
    }
}

// runWithInvariants drives the workflow step by step, checking task
// invariants after every transition and bounding total steps.
func runWithInvariants(t *testing.T, w *Workflow, state *models.WorkflowState) {
    t.Helper()
    const maxSteps = 100
    for i := 0; state.Stage != models.StageDone; i++ {
        require.Less(t, i, maxSteps, "workflow did not terminate")
        state.Stage = w.Step(context.Background(), state)
        checkTaskInvariants(t, state)
        if state.Stage != models.StageDone {
            assert.Empty(t, state.FinalAnswer, "final answer set before terminal state")
        }
    }
}

func TestHappyPathSingleCalculatorTask(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "Calculate 67 * 0.15", Tool: "calculator"}},
    }}
    executor := &scriptExecutor{fn: completeWith("10.05")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    synth := &scriptSynthesizer{fn: func(st *models.WorkflowState) string {
        return fmt.Sprintf("A 15%% tip on $67 is $%s.", st.Completed()[0].Result)
    }}
    w := newTestWorkflow(planner, executor, reflector, synth)

    state := models.NewWorkflowState("What is 15% tip on $67?")
    runWithInvariants(t, w, state)

    assert.Equal(t, models.StageDone, state.Stage)
    assert.Contains(t, state.FinalAnswer, "10.05")
    assert.Equal(t, 0, state.IterationCount)
    assert.False(t, state.ShouldContinue)
    require.Len(t, state.Tasks, 1)
    assert.Equal(t, models.StatusCompleted, state.Tasks[0].Status)
    assert.Equal(t, 1, executor.calls)
}

func TestUnknownToolRecoveredByModifyRefinement(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "Translate hello to French", Tool: "translate"}},
    }}
    executor := &scriptExecutor{}
    executor.fn = func(task *models.Task) {
        if executor.calls == 1 {
            failWith("Tool 'translate' not available")(task)
            return
        }
        completeWith("bonjour")(task)
    }
    reflector := &scriptReflector{
        refine: func(st *models.WorkflowState) bool {
            return len(st.Failed()) > 0 && st.IterationCount < 2
        },
        suggest: func(st *models.WorkflowState) []models.Refinement {
            return []models.Refinement{{
                Action:         models.RefineModify,
                TaskID:         1,
                NewDescription: "Search for the French word for hello",
            }}
        },
    }
    synth := &scriptSynthesizer{}
    w := newTestWorkflow(planner, executor, reflector, synth)

    state := models.NewWorkflowState("hello in French")
    runWithInvariants(t, w, state)

    assert.Equal(t, models.StageDone, state.Stage)
    require.Len(t, state.Tasks, 1)
    task := state.Tasks[0]
    assert.Equal(t, models.StatusCompleted, task.Status)
    assert.Equal(t, "Search for the French word for hello", task.Description)
    assert.Equal(t, "translate", task.ToolUsed, "modify must preserve the tool binding")
    assert.Equal(t, 1, state.IterationCount)
    assert.Equal(t, 2, executor.calls, "modified task re-executes")
    assert.Equal(t, "synthesized answer", state.FinalAnswer)
}

func TestEmptyPlanFallsBackToWebSearch(t *testing.T) {
    planner := &scriptPlanner{} // always returns an empty plan
    executor := &scriptExecutor{fn: completeWith("some search results")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    state := models.NewWorkflowState("obscure question")
    runWithInvariants(t, w, state)

    require.Len(t, state.Tasks, 1)
    assert.Equal(t, "web_search", state.Tasks[0].ToolUsed)
    assert.Contains(t, state.Tasks[0].Description, "obscure question")
    assert.Equal(t, 1, state.Tasks[0].ID)
    assert.Equal(t, models.StageDone, state.Stage)
}

func TestPlannerErrorFallsBackToWebSearch(t *testing.T) {
    planner := &scriptPlanner{err: fmt.Errorf("planner exploded")}
    executor := &scriptExecutor{fn: completeWith("results")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    state := models.NewWorkflowState("q")
    runWithInvariants(t, w, state)

    require.Len(t, state.Tasks, 1)
    assert.Equal(t, "web_search", state.Tasks[0].ToolUsed)
}

func TestIterationCeilingForcesFinalizeDespiteFailures(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "doomed task", Tool: "web_search"}},
    }}
    executor := &scriptExecutor{fn: failWith("persistent failure")}
    // A reflector that always wants another round; only the ceiling stops it.
    reflector := &scriptReflector{
        refine: func(*models.WorkflowState) bool { return true },
        suggest: func(st *models.WorkflowState) []models.Refinement {
            return []models.Refinement{{
                Action:         models.RefineModify,
                TaskID:         1,
                NewDescription: "try yet again",
            }}
        },
    }
    synth := &scriptSynthesizer{}
    w := newTestWorkflow(planner, executor, reflector, synth)

    state := models.NewWorkflowState("impossible query")
    runWithInvariants(t, w, state)

    assert.Equal(t, models.StageDone, state.Stage)
    assert.Equal(t, models.MaxIterations, state.IterationCount)
    assert.Equal(t, agents.ApologyAnswer, state.FinalAnswer)
    assert.False(t, state.ShouldContinue)
    require.Len(t, state.Tasks, 1)
    assert.Equal(t, models.StatusFailed, state.Tasks[0].Status)
    // Initial execution plus one retry per refinement cycle.
    assert.Equal(t, models.MaxIterations+1, executor.calls)
}

func TestAddRefinementAppendsPendingTask(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "first try", Tool: "web_search"}},
    }}
    executor := &scriptExecutor{}
    executor.fn = func(task *models.Task) {
        if task.ID == 1 {
            failWith("no search results found")(task)
            return
        }
        completeWith("42")(task)
    }
    refined := false
    reflector := &scriptReflector{
        refine: func(st *models.WorkflowState) bool { return !refined },
        suggest: func(st *models.WorkflowState) []models.Refinement {
            refined = true
            return []models.Refinement{{
                Action:      models.RefineAdd,
                Description: "compute it directly",
                Tool:        "calculator",
            }}
        },
    }
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    state := models.NewWorkflowState("q")
    runWithInvariants(t, w, state)

    require.Len(t, state.Tasks, 2)
    assert.Equal(t, 2, state.Tasks[1].ID)
    assert.Equal(t, "calculator", state.Tasks[1].ToolUsed)
    assert.Equal(t, models.StatusCompleted, state.Tasks[1].Status)
    // The failed task stays in the list as an audit trail.
    assert.Equal(t, models.StatusFailed, state.Tasks[0].Status)
    assert.Equal(t, "synthesized answer", state.FinalAnswer)
}

func TestFinalizeIsIdempotent(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "t", Tool: "calculator"}},
    }}
    executor := &scriptExecutor{fn: completeWith("42")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    synth := &scriptSynthesizer{}
    w := newTestWorkflow(planner, executor, reflector, synth)

    state := models.NewWorkflowState("q")
    runWithInvariants(t, w, state)
    answer := state.FinalAnswer
    require.NotEmpty(t, answer)
    require.Equal(t, 1, synth.calls)

    state.Stage = models.StageFinalize
    state.Stage = w.Step(context.Background(), state)

    assert.Equal(t, models.StageDone, state.Stage)
    assert.Equal(t, answer, state.FinalAnswer)
    assert.Equal(t, 1, synth.calls, "second finalize must not re-synthesize")
}

func TestExecuteOneTaskPerStep(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{{
        {Description: "a", Tool: "web_search"},
        {Description: "b", Tool: "calculator"},
        {Description: "c", Tool: "weather"},
    }}}
    executor := &scriptExecutor{fn: completeWith("ok")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    state := models.NewWorkflowState("q")
    state.Stage = w.Step(context.Background(), state) // PLAN
    require.Equal(t, models.StageExecute, state.Stage)

    state.Stage = w.Step(context.Background(), state)
    assert.Equal(t, 1, executor.calls)
    assert.Equal(t, models.StageExecute, state.Stage, "pending tasks keep the loop in EXECUTE")

    state.Stage = w.Step(context.Background(), state)
    state.Stage = w.Step(context.Background(), state)
    assert.Equal(t, 3, executor.calls)
    assert.Equal(t, models.StageReflect, state.Stage, "drained list routes to REFLECT")
}

func TestReplanOnlyWhenRequested(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "only plan", Tool: "web_search"}},
    }}
    executor := &scriptExecutor{}
    executor.fn = func(task *models.Task) {
        if executor.calls == 1 {
            failWith("boom")(task)
            return
        }
        completeWith("ok")(task)
    }
    reflector := &scriptReflector{
        refine: func(st *models.WorkflowState) bool {
            return len(st.Failed()) > 0 && st.IterationCount < 2
        },
        suggest: func(st *models.WorkflowState) []models.Refinement {
            return []models.Refinement{{Action: models.RefineModify, TaskID: 1, NewDescription: "retry"}}
        },
    }
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    state := models.NewWorkflowState("q")
    runWithInvariants(t, w, state)

    // The PLAN re-entry after reflection must not wipe the refined task list.
    assert.Equal(t, 1, planner.calls, "replan without NeedsReplan would have called the planner again")
    assert.Equal(t, "retry", state.Tasks[0].Description)
    assert.Equal(t, models.StageDone, state.Stage)
}

func TestRunStopsAtContextCancellation(t *testing.T) {
    planner := &scriptPlanner{plans: [][]models.TaskSpec{
        {{Description: "t", Tool: "web_search"}},
    }}
    executor := &scriptExecutor{fn: completeWith("ok")}
    reflector := &scriptReflector{refine: func(*models.WorkflowState) bool { return false }}
    w := newTestWorkflow(planner, executor, reflector, &scriptSynthesizer{})

    ctx, cancel := context.WithCancel(context.Background())
    cancel()

    state := models.NewWorkflowState("q")
    err := w.Run(ctx, state)
    require.Error(t, err)
    assert.NotEqual(t, models.StageDone, state.Stage)
    assert.Empty(t, state.FinalAnswer)
    checkTaskInvariants(t, state)
}
