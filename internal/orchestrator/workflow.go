package orchestrator

import (
    "context"
    "fmt"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/agents"
    "github.com/example/agentic-workflow/internal/models"
    "github.com/example/agentic-workflow/internal/tools"
)

// fallbackTool backs the substitute task when planning yields nothing usable.
const fallbackTool = "web_search"

// Workflow is the deterministic controller that sequences planning,
// execution, reflection and finalization over a shared task list. It owns the
// iteration budget; collaborators own everything model- and tool-shaped.
type Workflow struct {
    planner     agents.Planner
    executor    agents.Executor
    reflector   agents.Reflector
    synthesizer agents.Synthesizer
    registry    *tools.Registry
    logger      *zap.Logger
}

func NewWorkflow(planner agents.Planner, executor agents.Executor, reflector agents.Reflector, synthesizer agents.Synthesizer, registry *tools.Registry, logger *zap.Logger) *Workflow {
    return &Workflow{
        planner:     planner,
        executor:    executor,
        reflector:   reflector,
        synthesizer: synthesizer,
        registry:    registry,
        logger:      logger,
    }
}

// Step advances the state machine by exactly one transition and returns the
// next stage. Every stage leaves the state self-consistent, so a run may be
// abandoned between any two steps.
func (w *Workflow) Step(ctx context.Context, state *models.WorkflowState) models.Stage {
    switch state.Stage {
    case models.StagePlan:
        return w.planStep(ctx, state)
    case models.StageExecute:
        return w.executeStep(ctx, state)
    case models.StageReflect:
        return w.reflectStep(ctx, state)
    case models.StageFinalize:
        return w.finalizeStep(ctx, state)
    default:
        return models.StageDone
    }
}

// Run drives the state machine until DONE, or until the context is cancelled
// at a step boundary.
func (w *Workflow) Run(ctx context.Context, state *models.WorkflowState) error {
    for state.Stage != models.StageDone {
        if err := ctx.Err(); err != nil {
            return fmt.Errorf("run abandoned in %s: %w", state.Stage, err)
        }
        state.Stage = w.Step(ctx, state)
    }
    return nil
}

// planStep replans only when the list is empty or reflection asked for it;
// otherwise it is a pass-through so refined tasks survive the PLAN re-entry.
func (w *Workflow) planStep(ctx context.Context, state *models.WorkflowState) models.Stage {
    if len(state.Tasks) == 0 || state.NeedsReplan {
        specs, err := w.planner.Plan(ctx, state.OriginalQuery, w.registry.Names())
        if err != nil {
            w.logger.Warn("planning failed, using fallback task", zap.Error(err))
            specs = nil
        }
        if len(specs) == 0 {
            specs = []models.TaskSpec{{
                Description: "Search for information about: " + state.OriginalQuery,
                Tool:        fallbackTool,
            }}
        }
        tasks := make([]*models.Task, 0, len(specs))
        for i, spec := range specs {
            tasks = append(tasks, &models.Task{
                ID:          i + 1,
                Description: spec.Description,
                Status:      models.StatusPending,
                ToolUsed:    spec.Tool,
            })
        }
        state.Tasks = tasks
        state.NeedsReplan = false
        w.logger.Info("plan ready", zap.Int("tasks", len(tasks)))
    }
    return models.StageExecute
}

// executeStep runs at most the first pending task, then re-routes. One task
// per step keeps the routing decision fresh after every completion.
func (w *Workflow) executeStep(ctx context.Context, state *models.WorkflowState) models.Stage {
    if task := state.PendingTask(); task != nil {
        w.executor.ExecuteTask(ctx, task)
    }
    return w.route(state)
}

func (w *Workflow) route(state *models.WorkflowState) models.Stage {
    if state.HasPending() {
        return models.StageExecute
    }
    if state.ShouldContinue {
        return models.StageReflect
    }
    return models.StageFinalize
}

// reflectStep applies the reflector's verdict. Refinements loop back through
// PLAN so new pending tasks re-enter via planning's fallback safety check.
func (w *Workflow) reflectStep(ctx context.Context, state *models.WorkflowState) models.Stage {
    refine := w.reflector.ShouldRefine(ctx, state)
    if refine && state.IterationCount < models.MaxIterations {
        for _, ref := range w.reflector.SuggestRefinements(ctx, state) {
            w.applyRefinement(state, ref)
        }
        state.IterationCount++
        state.ShouldContinue = true
        w.logger.Info("plan refined", zap.Int("iteration", state.IterationCount))
        return models.StagePlan
    }
    state.ShouldContinue = false
    return models.StageFinalize
}

func (w *Workflow) applyRefinement(state *models.WorkflowState, ref models.Refinement) {
    switch ref.Action {
    case models.RefineModify:
        task := state.TaskByID(ref.TaskID)
        if task == nil {
            w.logger.Warn("refinement targets unknown task", zap.Int("task_id", ref.TaskID))
            return
        }
        task.Description = ref.NewDescription
        task.Status = models.StatusPending
        task.Error = ""
        task.Result = ""
    case models.RefineAdd:
        state.Tasks = append(state.Tasks, &models.Task{
            ID:          state.NextTaskID(),
            Description: ref.Description,
            Status:      models.StatusPending,
            ToolUsed:    ref.Tool,
        })
    }
}

// finalizeStep sets the final answer exactly once; a second pass over an
// already-finalized state changes nothing.
func (w *Workflow) finalizeStep(ctx context.Context, state *models.WorkflowState) models.Stage {
    if state.FinalAnswer == "" {
        state.FinalAnswer = w.synthesizer.Synthesize(ctx, state)
        w.logger.Info("workflow finalized",
            zap.Int("completed", len(state.Completed())),
            zap.Int("failed", len(state.Failed())),
            zap.Int("iterations", state.IterationCount))
    }
    return models.StageDone
}
