package models

// TaskStatus tracks a task through its lifecycle. A task starts pending and
// ends either completed (Result set) or failed (Error set); the two terminal
// fields are mutually exclusive.
type TaskStatus string

const (
    StatusPending   TaskStatus = "pending"
    StatusCompleted TaskStatus = "completed"
    StatusFailed    TaskStatus = "failed"
)

// Task is one tool-executable unit of work produced by planning or reflection.
// Failed tasks are never removed; they stay in the list as an audit trail.
type Task struct {
    ID          int        `json:"id"`
    Description string     `json:"description"`
    Status      TaskStatus `json:"status"`
    ToolUsed    string     `json:"tool_used"`
    Result      string     `json:"result,omitempty"`
    Error       string     `json:"error,omitempty"`
}

// TaskSpec is the planner's output: a description bound to a tool name.
type TaskSpec struct {
    Description string `json:"description"`
    Tool        string `json:"tool"`
}

// Stage names the workflow state machine's states.
type Stage string

const (
    StagePlan     Stage = "PLAN"
    StageExecute  Stage = "EXECUTE"
    StageReflect  Stage = "REFLECT"
    StageFinalize Stage = "FINALIZE"
    StageDone     Stage = "DONE"
)

// MaxIterations is the refinement ceiling. Once IterationCount reaches it the
// loop is forced toward FINALIZE no matter what the tasks look like; this is
// the single global termination guarantee.
const MaxIterations = 3

// RefinementAction discriminates the refinement union.
type RefinementAction string

const (
    RefineModify RefinementAction = "modify"
    RefineAdd    RefinementAction = "add"
)

// Refinement is one plan change proposed by reflection: either modify an
// existing task (TaskID, NewDescription) or add a new one (Description, Tool).
type Refinement struct {
    Action         RefinementAction `json:"action"`
    TaskID         int              `json:"task_id,omitempty"`
    NewDescription string           `json:"new_description,omitempty"`
    Description    string           `json:"description,omitempty"`
    Tool           string           `json:"tool,omitempty"`
}

// WorkflowState is the single mutable record threaded through a run. It is
// exclusively owned by the orchestrator while the run is in flight; external
// readers only ever see Clone()d snapshots taken between steps.
type WorkflowState struct {
    OriginalQuery  string  `json:"original_query"`
    Tasks          []*Task `json:"tasks"`
    IterationCount int     `json:"iteration_count"`
    ShouldContinue bool    `json:"should_continue"`
    NeedsReplan    bool    `json:"needs_replan"`
    FinalAnswer    string  `json:"final_answer,omitempty"`
    Stage          Stage   `json:"stage"`
}

func NewWorkflowState(query string) *WorkflowState {
    return &WorkflowState{
        OriginalQuery:  query,
        Tasks:          []*Task{},
        ShouldContinue: true,
        Stage:          StagePlan,
    }
}

// NextTaskID returns the id for a task appended by reflection. Tasks are never
// removed, so list length doubles as a monotonic counter.
func (s *WorkflowState) NextTaskID() int { return len(s.Tasks) + 1 }

func (s *WorkflowState) TaskByID(id int) *Task {
    for _, t := range s.Tasks {
        if t.ID == id {
            return t
        }
    }
    return nil
}

// PendingTask returns the first pending task in creation order, or nil.
func (s *WorkflowState) PendingTask() *Task {
    for _, t := range s.Tasks {
        if t.Status == StatusPending {
            return t
        }
    }
    return nil
}

func (s *WorkflowState) HasPending() bool { return s.PendingTask() != nil }

func (s *WorkflowState) Completed() []*Task { return s.withStatus(StatusCompleted) }

func (s *WorkflowState) Failed() []*Task { return s.withStatus(StatusFailed) }

func (s *WorkflowState) withStatus(st TaskStatus) []*Task {
    var out []*Task
    for _, t := range s.Tasks {
        if t.Status == st {
            out = append(out, t)
        }
    }
    return out
}

// Clone deep-copies the state so a reader never aliases the run's live record.
func (s *WorkflowState) Clone() *WorkflowState {
    out := *s
    out.Tasks = make([]*Task, len(s.Tasks))
    for i, t := range s.Tasks {
        c := *t
        out.Tasks[i] = &c
    }
    return &out
}
