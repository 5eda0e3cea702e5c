package orchestrator

import (
    "context"
    "errors"
    "sync"
    "time"

    "go.uber.org/zap"

    "github.com/example/agentic-workflow/internal/models"
)

type RunStatus string

const (
    RunPending   RunStatus = "PENDING"
    RunRunning   RunStatus = "RUNNING"
    RunSucceeded RunStatus = "SUCCEEDED"
    RunAborted   RunStatus = "ABORTED"
)

var (
    ErrRunNotFound       = errors.New("run not found")
    ErrRunAlreadyStarted = errors.New("run already started")
)

// run pairs a workflow state with its lifecycle bookkeeping. The live state
// is owned by the executing goroutine; snapshot is replaced wholesale after
// each step, so readers never observe a half-applied step.
type run struct {
    id string

    mu        sync.RWMutex
    status    RunStatus
    started   bool
    createdAt time.Time
    updatedAt time.Time
    snapshot  *models.WorkflowState
}

// RunView is the externally visible form of a run.
type RunView struct {
    ID        string                `json:"id"`
    Status    RunStatus             `json:"status"`
    CreatedAt time.Time             `json:"created_at"`
    UpdatedAt time.Time             `json:"updated_at"`
    State     *models.WorkflowState `json:"state"`
}

func (r *run) view() RunView {
    r.mu.RLock()
    defer r.mu.RUnlock()
    return RunView{
        ID:        r.id,
        Status:    r.status,
        CreatedAt: r.createdAt,
        UpdatedAt: r.updatedAt,
        State:     r.snapshot.Clone(),
    }
}

// Service tracks workflow runs and executes them one goroutine apiece.
type Service struct {
    workflow *Workflow
    logger   *zap.Logger

    mu   sync.RWMutex
    runs map[string]*run

    hub *Hub
}

func NewService(workflow *Workflow, logger *zap.Logger) *Service {
    return &Service{
        workflow: workflow,
        logger:   logger,
        runs:     map[string]*run{},
        hub:      NewHub(),
    }
}

func (s *Service) CreateRun(id, query string) RunView {
    now := time.Now()
    r := &run{
        id:        id,
        status:    RunPending,
        createdAt: now,
        updatedAt: now,
        snapshot:  models.NewWorkflowState(query),
    }
    s.mu.Lock()
    s.runs[id] = r
    s.mu.Unlock()
    s.hub.Publish(id, Event{Event: "run_status", RunID: id, Payload: map[string]any{"status": r.status}})
    return r.view()
}

func (s *Service) GetRun(id string) (RunView, bool) {
    s.mu.RLock()
    r, ok := s.runs[id]
    s.mu.RUnlock()
    if !ok {
        return RunView{}, false
    }
    return r.view(), true
}

func (s *Service) ListRuns() []RunView {
    s.mu.RLock()
    out := make([]RunView, 0, len(s.runs))
    for _, r := range s.runs {
        out = append(out, r.view())
    }
    s.mu.RUnlock()
    return out
}

// StartRun executes a run to completion. It blocks; callers wanting async
// behavior wrap it in a goroutine.
func (s *Service) StartRun(ctx context.Context, id string) error {
    s.mu.RLock()
    r, ok := s.runs[id]
    s.mu.RUnlock()
    if !ok {
        return ErrRunNotFound
    }

    r.mu.Lock()
    if r.started {
        r.mu.Unlock()
        return ErrRunAlreadyStarted
    }
    r.started = true
    r.status = RunRunning
    working := r.snapshot.Clone()
    r.mu.Unlock()
    s.hub.Publish(id, Event{Event: "run_status", RunID: id, Payload: map[string]any{"status": RunRunning}})
    s.logger.Info("run started", zap.String("run_id", id), zap.String("query", working.OriginalQuery))

    for working.Stage != models.StageDone {
        if err := ctx.Err(); err != nil {
            s.setStatus(r, RunAborted)
            s.logger.Warn("run aborted", zap.String("run_id", id), zap.Error(err))
            return err
        }
        working.Stage = s.workflow.Step(ctx, working)
        s.publishSnapshot(r, working)
    }

    s.setStatus(r, RunSucceeded)
    s.hub.Publish(id, Event{Event: "final_answer", RunID: id, Payload: working.FinalAnswer})
    s.logger.Info("run finished", zap.String("run_id", id), zap.Int("iterations", working.IterationCount))
    return nil
}

// Subscribe returns a channel of JSON-encoded Events for one run. The caller
// must invoke the returned unsubscribe func when done.
func (s *Service) Subscribe(runID string) (<-chan []byte, func()) {
    return s.hub.Subscribe(runID)
}

func (s *Service) publishSnapshot(r *run, working *models.WorkflowState) {
    snap := working.Clone()
    r.mu.Lock()
    r.snapshot = snap
    r.updatedAt = time.Now()
    r.mu.Unlock()
    s.hub.Publish(r.id, Event{Event: "state", RunID: r.id, Payload: snap})
}

func (s *Service) setStatus(r *run, status RunStatus) {
    r.mu.Lock()
    r.status = status
    r.updatedAt = time.Now()
    r.mu.Unlock()
    s.hub.Publish(r.id, Event{Event: "run_status", RunID: r.id, Payload: map[string]any{"status": status}})
}
