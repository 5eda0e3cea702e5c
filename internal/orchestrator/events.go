package orchestrator

import (
    "encoding/json"
    "sync"
)

// Event is the SSE payload wrapper published to run subscribers.
type Event struct {
    Event   string `json:"event"`
    RunID   string `json:"run_id"`
    Payload any    `json:"payload,omitempty"`
}

type subscriber chan []byte

// Hub fans events out to per-run subscriber sets. Sends are non-blocking: a
// slow subscriber drops events rather than stalling the run.
type Hub struct {
    mu   sync.RWMutex
    subs map[string]map[subscriber]struct{}
}

func NewHub() *Hub { return &Hub{subs: map[string]map[subscriber]struct{}{}} }

func (h *Hub) Subscribe(runID string) (<-chan []byte, func()) {
    ch := make(subscriber, 16)
    h.mu.Lock()
    set := h.subs[runID]
    if set == nil {
        set = map[subscriber]struct{}{}
        h.subs[runID] = set
    }
    set[ch] = struct{}{}
    h.mu.Unlock()

    unsubscribe := func() {
        h.mu.Lock()
        if set, ok := h.subs[runID]; ok {
            delete(set, ch)
            if len(set) == 0 {
                delete(h.subs, runID)
            }
        }
        close(ch)
        h.mu.Unlock()
    }
    return ch, unsubscribe
}

func (h *Hub) Publish(runID string, ev Event) {
    b, err := json.Marshal(ev)
    if err != nil {
        return
    }
    h.mu.RLock()
    for ch := range h.subs[runID] {
        select {
        case ch <- b:
        default:
        }
    }
    h.mu.RUnlock()
}
